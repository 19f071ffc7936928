package service

import (
	"sync"
	"time"

	"github.com/noah-isme/lms-content-push/internal/models"
)

// PushStatusEvent is one observed status transition of a push.
type PushStatusEvent struct {
	PushID     string            `json:"push_id"`
	Status     models.PushStatus `json:"status"`
	RetryCount int               `json:"retry_count"`
	LastError  *string           `json:"last_error,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// subscriber channels are buffered wide enough for a full push lifecycle
// (queued, in-progress per retry, terminal) so publishers never block.
const subscriberBuffer = 16

type pushTopic struct {
	last     *PushStatusEvent
	terminal bool
	subs     map[chan PushStatusEvent]struct{}
}

// StatusNotifier fans status transitions out to live subscribers, keyed by
// push id. The latest event per push is retained so a subscriber attaching
// after a terminal transition still receives exactly that terminal event
// before its channel closes.
type StatusNotifier struct {
	mu     sync.Mutex
	topics map[string]*pushTopic
}

// NewStatusNotifier constructs the notifier.
func NewStatusNotifier() *StatusNotifier {
	return &StatusNotifier{topics: make(map[string]*pushTopic)}
}

// Publish records the transition and delivers it to every subscriber of the
// push. A terminal event closes all subscriber channels; the topic keeps the
// event for late subscribers.
func (n *StatusNotifier) Publish(evt PushStatusEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()

	topic := n.topics[evt.PushID]
	if topic == nil {
		topic = &pushTopic{subs: make(map[chan PushStatusEvent]struct{})}
		n.topics[evt.PushID] = topic
	}
	if topic.terminal {
		return
	}

	copied := evt
	topic.last = &copied

	for ch := range topic.subs {
		select {
		case ch <- evt:
		default:
		}
	}

	if evt.Status.Terminal() {
		topic.terminal = true
		for ch := range topic.subs {
			close(ch)
		}
		topic.subs = make(map[chan PushStatusEvent]struct{})
	}
}

// Subscribe attaches to a push's transition stream. The latest known event is
// replayed first. The second return is false when the notifier has never seen
// the push id; callers should then consult the status store. For a push
// already terminal the returned channel carries the terminal event and is
// closed.
func (n *StatusNotifier) Subscribe(pushID string) (<-chan PushStatusEvent, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	topic := n.topics[pushID]
	if topic == nil {
		return nil, false
	}

	ch := make(chan PushStatusEvent, subscriberBuffer)
	if topic.last != nil {
		ch <- *topic.last
	}
	if topic.terminal {
		close(ch)
		return ch, true
	}

	topic.subs[ch] = struct{}{}
	return ch, true
}

// Unsubscribe detaches a live subscriber. Channels already closed by a
// terminal publish are ignored.
func (n *StatusNotifier) Unsubscribe(pushID string, ch <-chan PushStatusEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()

	topic := n.topics[pushID]
	if topic == nil {
		return
	}
	for sub := range topic.subs {
		if sub == ch {
			delete(topic.subs, sub)
			close(sub)
			return
		}
	}
}
