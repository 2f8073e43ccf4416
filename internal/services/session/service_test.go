package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/lectio/internal/common"
)

func TestCreateSession_UniqueIDsAndEmptyHistory(t *testing.T) {
	svc := NewService(2, common.GetLogger())

	first := svc.CreateSession()
	second := svc.CreateSession()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(first, "session_"))
	assert.Equal(t, "", svc.HistoryText(first))
}

func TestHistoryText_ChronologicalAlternatingLines(t *testing.T) {
	svc := NewService(5, common.GetLogger())
	id := svc.CreateSession()

	require.NoError(t, svc.AddExchange(id, "first question", "first answer"))
	require.NoError(t, svc.AddExchange(id, "second question", "second answer"))

	expected := "User: first question\n" +
		"Assistant: first answer\n" +
		"User: second question\n" +
		"Assistant: second answer"
	assert.Equal(t, expected, svc.HistoryText(id))
}

func TestAddExchange_TrimsToMostRecentPairs(t *testing.T) {
	svc := NewService(2, common.GetLogger())
	id := svc.CreateSession()

	require.NoError(t, svc.AddExchange(id, "q1", "a1"))
	require.NoError(t, svc.AddExchange(id, "q2", "a2"))
	require.NoError(t, svc.AddExchange(id, "q3", "a3"))

	history := svc.HistoryText(id)
	assert.NotContains(t, history, "q1")
	assert.Contains(t, history, "q2")
	assert.Contains(t, history, "q3")

	// Remaining pairs are intact and in order
	assert.Equal(t, "User: q2\nAssistant: a2\nUser: q3\nAssistant: a3", history)
}

func TestAddExchange_UnknownSessionInitializedLazily(t *testing.T) {
	svc := NewService(2, common.GetLogger())

	require.NoError(t, svc.AddExchange("session_stale", "q", "a"))
	assert.Equal(t, "User: q\nAssistant: a", svc.HistoryText("session_stale"))
}

func TestAddExchange_EmptyIDRejected(t *testing.T) {
	svc := NewService(2, common.GetLogger())
	assert.Error(t, svc.AddExchange("", "q", "a"))
}

func TestHistoryText_UnknownSessionIsEmpty(t *testing.T) {
	svc := NewService(2, common.GetLogger())
	assert.Equal(t, "", svc.HistoryText("session_missing"))
}

func TestClearSession_KeepsIDValid(t *testing.T) {
	svc := NewService(2, common.GetLogger())
	id := svc.CreateSession()

	require.NoError(t, svc.AddExchange(id, "q1", "a1"))
	require.NoError(t, svc.ClearSession(id))
	assert.Equal(t, "", svc.HistoryText(id))

	// The id still accepts appends after clearing
	require.NoError(t, svc.AddExchange(id, "q2", "a2"))
	assert.Equal(t, "User: q2\nAssistant: a2", svc.HistoryText(id))
}

func TestSessionsAreIsolated(t *testing.T) {
	svc := NewService(2, common.GetLogger())
	a := svc.CreateSession()
	b := svc.CreateSession()

	require.NoError(t, svc.AddExchange(a, "question a", "answer a"))
	require.NoError(t, svc.AddExchange(b, "question b", "answer b"))

	assert.NotContains(t, svc.HistoryText(a), "question b")
	assert.NotContains(t, svc.HistoryText(b), "question a")
}
