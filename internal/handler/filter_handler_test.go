package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-content-push/internal/service"
)

func newFilterHandlerForTest(t *testing.T) *FilterHandler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ruleSvc := service.NewRuleService(newMemoryRuleRepo(), nil, service.NewFilterService(), zap.NewNop())
	return NewFilterHandler(ruleSvc)
}

func TestFilterHandlerCreate(t *testing.T) {
	handler := newFilterHandlerForTest(t)
	c, rec := postJSONContext(t, "/filter-rules", map[string]interface{}{
		"name":          "essays-b-or-better",
		"content_types": []string{"essay"},
		"grade_min":     "B",
	})

	handler.Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	var envelope struct {
		Data struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Active bool   `json:"active"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.ID)
	assert.Equal(t, "essays-b-or-better", envelope.Data.Name)
	assert.True(t, envelope.Data.Active)
}

func TestFilterHandlerCreateMissingName(t *testing.T) {
	handler := newFilterHandlerForTest(t)
	c, rec := postJSONContext(t, "/filter-rules", map[string]interface{}{
		"content_types": []string{"essay"},
	})

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFilterHandlerCreateBadGrade(t *testing.T) {
	handler := newFilterHandlerForTest(t)
	c, rec := postJSONContext(t, "/filter-rules", map[string]interface{}{
		"name":      "bad",
		"grade_min": "Z",
	})

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFilterHandlerTestInlineRule(t *testing.T) {
	handler := newFilterHandlerForTest(t)
	body := pushRequestBody()
	c, rec := postJSONContext(t, "/filter-rules/test", map[string]interface{}{
		"content": body["content"],
		"rule": map[string]interface{}{
			"name":      "b-or-better",
			"grade_min": "B",
		},
	})

	handler.Test(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data struct {
			Allowed bool   `json:"allowed"`
			Reason  string `json:"reason"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Allowed)
	assert.Contains(t, envelope.Data.Reason, "b-or-better")
}

func TestFilterHandlerTestUnknownStoredRule(t *testing.T) {
	handler := newFilterHandlerForTest(t)
	body := pushRequestBody()
	c, rec := postJSONContext(t, "/filter-rules/test", map[string]interface{}{
		"content": body["content"],
		"rule_id": "missing",
	})

	handler.Test(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFilterHandlerList(t *testing.T) {
	handler := newFilterHandlerForTest(t)

	create, created := postJSONContext(t, "/filter-rules", map[string]interface{}{"name": "finals"})
	handler.Create(create)
	require.Equal(t, http.StatusCreated, created.Code)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/filter-rules", nil)

	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 1)
}
