package services

import (
	"context"
	"testing"

	"patient-context/internal/domain/apperr"
	"patient-context/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddConversationUnknownPatient(t *testing.T) {
	env := newTestEnv(t)
	other := env.createJane(t)

	_, err := env.conversations.AddConversation(context.Background(), "missing", []entities.TranscriptLine{{Speaker: "patient", Text: "hi"}})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	p, err := env.patients.FindPatient(context.Background(), other)
	require.NoError(t, err)
	assert.Empty(t, p.Conversations)
}

func TestAddConversationAppendsInOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createJane(t)

	lines := []entities.TranscriptLine{
		{Speaker: "patient", Text: "I have a headache"},
		{Speaker: "doctor", Text: "How long?"},
	}
	first, err := env.conversations.AddConversation(ctx, id, lines)
	require.NoError(t, err)
	second, err := env.conversations.AddConversation(ctx, id, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	lines[0].Text = "mutated by caller"

	p, err := env.patients.FindPatient(ctx, id)
	require.NoError(t, err)
	require.Len(t, p.Conversations, 2)
	assert.Equal(t, first, p.Conversations[0].ID)
	assert.Equal(t, second, p.Conversations[1].ID)
	assert.Equal(t, "I have a headache", p.Conversations[0].Messages[0].Text)
	assert.Equal(t, "", p.Conversations[0].Summary)
	assert.True(t, p.Conversations[0].Start.Before(p.Conversations[1].Start))
}

func TestRecentSummariesIsChronologicalTail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createJane(t)

	c1 := env.addSummarized(t, id, "one")
	c2 := env.addSummarized(t, id, "two")
	c3 := env.addSummarized(t, id, "three")

	entries, err := env.conversations.RecentSummaries(ctx, id, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, c2, entries[0].ConversationID)
	assert.Equal(t, "two", entries[0].Summary)
	assert.Equal(t, c3, entries[1].ConversationID)
	assert.Equal(t, "three", entries[1].Summary)

	all, err := env.conversations.RecentSummaries(ctx, id, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, c1, all[0].ConversationID)
}

func TestRecentSummariesBounds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createJane(t)
	env.addSummarized(t, id, "one")
	env.addSummarized(t, id, "two")

	for limit := 0; limit <= 4; limit++ {
		entries, err := env.conversations.RecentSummaries(ctx, id, limit)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(entries), limit)
		assert.LessOrEqual(t, len(entries), 2)
	}

	_, err := env.conversations.RecentSummaries(ctx, id, -1)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = env.conversations.RecentSummaries(ctx, "missing", 2)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestEnsureConversation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createJane(t)

	require.NoError(t, env.conversations.EnsureConversation(ctx, id))
	require.NoError(t, env.conversations.EnsureConversation(ctx, id))

	p, err := env.patients.FindPatient(ctx, id)
	require.NoError(t, err)
	require.Len(t, p.Conversations, 1)
	assert.Empty(t, p.Conversations[0].Messages)
	assert.Equal(t, "", p.Conversations[0].Summary)

	assert.ErrorIs(t, env.conversations.EnsureConversation(ctx, "missing"), apperr.ErrNotFound)
}
