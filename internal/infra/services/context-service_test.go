package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"patient-context/internal/domain/apperr"
	"patient-context/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatWithDoctorWithoutSummaries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createJane(t)
	env.provider.Reply = fixed(RefusalSentence)

	reply, err := env.chat.ChatWithDoctor(ctx, id, "Any allergies?")
	require.NoError(t, err)
	assert.Equal(t, RefusalSentence, reply)

	req := env.provider.last()
	assert.Equal(t, "chat-model", req.Model)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, entities.PromptRoleSystem, req.Messages[0].Role)
	assert.Equal(t, ChatSystemPrompt(""), req.Messages[0].Content)

	final := req.Messages[len(req.Messages)-1]
	assert.Equal(t, entities.PromptRoleUser, final.Role)
	assert.True(t, strings.HasPrefix(final.Content, "Any allergies?"))
	assert.True(t, strings.HasSuffix(final.Content, ExternalRecordsReminder))
	assert.Equal(t, "Any allergies?"+ExternalRecordsReminder, final.Content)

	p, err := env.patients.FindPatient(ctx, id)
	require.NoError(t, err)
	assert.Len(t, p.Conversations, 1, "a placeholder conversation is created")
}

func TestChatWithDoctorAppendsExactlyTwoEntries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createJane(t)

	for i, question := range []string{"First?", "Second?"} {
		env.provider.Reply = fixed("answer " + question)
		_, err := env.chat.ChatWithDoctor(ctx, id, question)
		require.NoError(t, err)

		history, err := env.history.History(ctx, id)
		require.NoError(t, err)
		require.Len(t, history, 2*(i+1))

		doctor, assistant := history[len(history)-2], history[len(history)-1]
		assert.Equal(t, entities.ChatRoleDoctor, doctor.Role)
		assert.Equal(t, question, doctor.Text)
		assert.Equal(t, entities.ChatRoleAssistant, assistant.Role)
		assert.Equal(t, "answer "+question, assistant.Text)
		assert.False(t, assistant.Timestamp.Before(doctor.Timestamp))
	}
}

func TestChatWithDoctorIncludesSummariesAndHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createJane(t)

	env.addSummarized(t, id, "oldest")
	env.addSummarized(t, id, "middle")
	env.addSummarized(t, id, "newest")

	_, err := env.chat.ChatWithDoctor(ctx, id, "How is the patient?")
	require.NoError(t, err)
	_, err = env.chat.ChatWithDoctor(ctx, id, "Anything else?")
	require.NoError(t, err)

	req := env.provider.last()
	wantContext := sessionLine("middle", 3) + "\n" + sessionLine("newest", 4)
	assert.Equal(t, ChatSystemPrompt(wantContext), req.Messages[0].Content)
	assert.NotContains(t, req.Messages[0].Content, "oldest")

	require.Len(t, req.Messages, 4)
	assert.Equal(t, entities.PromptMessage{Role: entities.PromptRoleUser, Content: "How is the patient?"}, req.Messages[1])
	assert.Equal(t, entities.PromptMessage{Role: entities.PromptRoleAssistant, Content: "stub reply"}, req.Messages[2])
	assert.Equal(t, "Anything else?"+ExternalRecordsReminder, req.Messages[3].Content)
}

func TestChatWithDoctorSkipsEmptySummaries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createJane(t)

	env.addSummarized(t, id, "summarized visit")
	_, err := env.conversations.AddConversation(ctx, id, []entities.TranscriptLine{{Speaker: "patient", Text: "not yet summarized"}})
	require.NoError(t, err)

	_, err = env.chat.ChatWithDoctor(ctx, id, "Status?")
	require.NoError(t, err)

	assert.Equal(t, ChatSystemPrompt(sessionLine("summarized visit", 2)), env.provider.last().Messages[0].Content)
}

func TestChatWithDoctorInferenceFailureWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createJane(t)
	env.provider.Err = errors.New("model unavailable")

	_, err := env.chat.ChatWithDoctor(ctx, id, "Any allergies?")
	assert.ErrorIs(t, err, apperr.ErrInference)

	history, err := env.history.History(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestChatWithDoctorErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.chat.ChatWithDoctor(ctx, "missing", "Any allergies?")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Empty(t, env.provider.Requests)

	id := env.createJane(t)
	_, err = env.chat.ChatWithDoctor(ctx, id, "  ")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestChatWithDoctorSerializesPerPatient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createJane(t)
	env.provider.Reply = func(req entities.InferenceRequest) string {
		return "re: " + strings.TrimSuffix(req.Messages[len(req.Messages)-1].Content, ExternalRecordsReminder)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := env.chat.ChatWithDoctor(ctx, id, "question "+string(rune('a'+i)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	history, err := env.history.History(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 20)
	for i := 0; i < len(history); i += 2 {
		assert.Equal(t, entities.ChatRoleDoctor, history[i].Role)
		assert.Equal(t, entities.ChatRoleAssistant, history[i+1].Role)
		assert.Equal(t, "re: "+history[i].Text, history[i+1].Text)
	}

	p, err := env.patients.FindPatient(ctx, id)
	require.NoError(t, err)
	assert.Len(t, p.Conversations, 1)
	assert.Equal(t, 0, env.chat.locks.size())
}

func TestBuildChatTurnsRejectsUnknownRole(t *testing.T) {
	_, err := BuildChatTurns("", []entities.ChatMessage{{Role: "nurse", Text: "hello"}}, "q")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestBuildChatTurnsMapsPatientToRequester(t *testing.T) {
	turns, err := BuildChatTurns("ctx", []entities.ChatMessage{
		{Role: entities.ChatRolePatient, Text: "p"},
		{Role: entities.ChatRoleDoctor, Text: "d"},
		{Role: entities.ChatRoleAssistant, Text: "a"},
	}, "q")
	require.NoError(t, err)
	require.Len(t, turns, 5)
	assert.Equal(t, entities.PromptRoleUser, turns[1].Role)
	assert.Equal(t, entities.PromptRoleUser, turns[2].Role)
	assert.Equal(t, entities.PromptRoleAssistant, turns[3].Role)
}

func TestRenderTranscript(t *testing.T) {
	assert.Equal(t, "", RenderTranscript(nil))
	assert.Equal(t, "a: x\nb: y", RenderTranscript([]entities.TranscriptLine{{Speaker: "a", Text: "x"}, {Speaker: "b", Text: "y"}}))
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	k := newKeyedMutex()
	unlockA := k.Lock("a")
	unlockB := k.Lock("b")
	assert.Equal(t, 2, k.size())
	unlockA()
	unlockB()
	assert.Equal(t, 0, k.size())
}
