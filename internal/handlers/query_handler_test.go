package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
)

// mockAnswerService implements interfaces.AnswerService for testing
type mockAnswerService struct {
	askFunc func(ctx context.Context, question, sessionID string) (*interfaces.AnswerResult, error)
}

func (m *mockAnswerService) Ask(ctx context.Context, question, sessionID string) (*interfaces.AnswerResult, error) {
	if m.askFunc != nil {
		return m.askFunc(ctx, question, sessionID)
	}
	return &interfaces.AnswerResult{Answer: "ok", SessionID: sessionID}, nil
}

func executeQueryRequest(handler *QueryHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.QueryHandler(rec, req)
	return rec
}

func TestQueryHandler_Success(t *testing.T) {
	svc := &mockAnswerService{
		askFunc: func(_ context.Context, question, sessionID string) (*interfaces.AnswerResult, error) {
			assert.Equal(t, "What is lesson 4 about?", question)
			assert.Equal(t, "session_abc", sessionID)
			return &interfaces.AnswerResult{
				Answer:    "Structs.",
				Sources:   []string{"Go Basics - Lesson 4"},
				SessionID: "session_abc",
			}, nil
		},
	}
	handler := NewQueryHandler(svc, common.GetLogger())

	rec := executeQueryRequest(handler, `{"query":"What is lesson 4 about?","session_id":"session_abc"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Structs.", resp.Answer)
	assert.Equal(t, []string{"Go Basics - Lesson 4"}, resp.Sources)
	assert.Equal(t, "session_abc", resp.SessionID)
}

func TestQueryHandler_NilSourcesSerializeAsEmptyList(t *testing.T) {
	svc := &mockAnswerService{
		askFunc: func(context.Context, string, string) (*interfaces.AnswerResult, error) {
			return &interfaces.AnswerResult{Answer: "direct answer", SessionID: "session_x"}, nil
		},
	}
	handler := NewQueryHandler(svc, common.GetLogger())

	rec := executeQueryRequest(handler, `{"query":"general question"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sources":[]`)
}

func TestQueryHandler_MissingQueryRejected(t *testing.T) {
	handler := NewQueryHandler(&mockAnswerService{}, common.GetLogger())

	rec := executeQueryRequest(handler, `{"session_id":"session_abc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryHandler_MalformedBodyRejected(t *testing.T) {
	handler := NewQueryHandler(&mockAnswerService{}, common.GetLogger())

	rec := executeQueryRequest(handler, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryHandler_MethodNotAllowed(t *testing.T) {
	handler := NewQueryHandler(&mockAnswerService{}, common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/query", nil)
	rec := httptest.NewRecorder()
	handler.QueryHandler(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestQueryHandler_ServiceErrorIs500(t *testing.T) {
	svc := &mockAnswerService{
		askFunc: func(context.Context, string, string) (*interfaces.AnswerResult, error) {
			return nil, errors.New("model unavailable")
		},
	}
	handler := NewQueryHandler(svc, common.GetLogger())

	rec := executeQueryRequest(handler, `{"query":"q"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "model unavailable")
}
