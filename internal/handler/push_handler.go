package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-content-push/internal/dto"
	"github.com/noah-isme/lms-content-push/internal/service"
	appErrors "github.com/noah-isme/lms-content-push/pkg/errors"
	"github.com/noah-isme/lms-content-push/pkg/response"
)

const wsWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// PushHandler exposes the push submission, status and subscription endpoints.
type PushHandler struct {
	pushes   *service.PushService
	notifier *service.StatusNotifier
	logger   *zap.Logger
}

// NewPushHandler constructs the handler.
func NewPushHandler(pushes *service.PushService, notifier *service.StatusNotifier, logger *zap.Logger) *PushHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PushHandler{pushes: pushes, notifier: notifier, logger: logger}
}

// Submit godoc
// @Summary Submit a content push
// @Tags Pushes
// @Accept json
// @Produce json
// @Param payload body dto.PushRequest true "Push request"
// @Success 202 {object} response.Envelope
// @Router /pushes [post]
func (h *PushHandler) Submit(c *gin.Context) {
	var req dto.PushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid push request"))
		return
	}

	resp, err := h.pushes.Submit(c.Request.Context(), req.Content.ToModel(), req.Destination, req.ForcePush)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, resp)
}

// SubmitFromDrive godoc
// @Summary Submit a push for content shared via Google Drive or OneDrive
// @Tags Pushes
// @Accept json
// @Produce json
// @Param payload body dto.DrivePushRequest true "Drive push request"
// @Success 202 {object} response.Envelope
// @Router /pushes/drive [post]
func (h *PushHandler) SubmitFromDrive(c *gin.Context) {
	var req dto.DrivePushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid drive push request"))
		return
	}

	content := req.Content.ToModel()
	content.ContentURL = service.ConvertDriveLink(req.FileURL, service.DrivePlatform(req.Platform))

	resp, err := h.pushes.Submit(c.Request.Context(), content, req.Destination, req.ForcePush)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, resp)
}

// Status godoc
// @Summary Current push record snapshot
// @Tags Pushes
// @Produce json
// @Param id path string true "Push ID"
// @Success 200 {object} response.Envelope
// @Router /pushes/{id} [get]
func (h *PushHandler) Status(c *gin.Context) {
	resp, err := h.pushes.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// List godoc
// @Summary List pushes created in a recent window
// @Tags Pushes
// @Produce json
// @Param hours query int false "Window size in hours (default 24)"
// @Param status query string false "Restrict to one status"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /pushes [get]
func (h *PushHandler) List(c *gin.Context) {
	var query dto.PushListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid list query"))
		return
	}

	items, pagination, err := h.pushes.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Events streams status snapshots for one push over a WebSocket, ending with
// the terminal one. A subscriber attaching after the push finished receives
// the terminal snapshot and the connection closes.
func (h *PushHandler) Events(c *gin.Context) {
	id := c.Param("id")
	snapshot, err := h.pushes.Snapshot(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Sugar().Warnw("websocket upgrade failed", "push_id", id, "error", err)
		return
	}
	defer conn.Close()

	events, ok := h.notifier.Subscribe(id)
	if !ok {
		// No live topic (e.g. fresh process). Serve the stored snapshot;
		// non-terminal pushes are re-announced by pending recovery.
		_ = h.writeEvent(conn, *snapshot)
		if snapshot.Status.Terminal() {
			h.closeWebsocket(conn)
			return
		}
		events, ok = h.notifier.Subscribe(id)
		if !ok {
			h.closeWebsocket(conn)
			return
		}
	}
	defer h.notifier.Unsubscribe(id, events)

	// Reader pump: detect client disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case evt, open := <-events:
			if !open {
				h.closeWebsocket(conn)
				return
			}
			if err := h.writeEvent(conn, evt); err != nil {
				return
			}
		}
	}
}

func (h *PushHandler) writeEvent(conn *websocket.Conn, evt service.PushStatusEvent) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(evt)
}

func (h *PushHandler) closeWebsocket(conn *websocket.Conn) {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
