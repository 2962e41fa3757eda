package entities

import "time"

// Patient is the root document. Conversations and ChatHistory are kept in
// insertion order, which is also their chronological order.
type Patient struct {
	ID            string         `json:"id" bson:"id"`
	FirstName     string         `json:"first_name" bson:"first_name"`
	LastName      string         `json:"last_name" bson:"last_name"`
	DOB           string         `json:"dob" bson:"dob"`
	Gender        *string        `json:"gender,omitempty" bson:"gender"`
	Contact       *string        `json:"contact,omitempty" bson:"contact"`
	Conversations []Conversation `json:"conversations" bson:"conversations"`
	ChatHistory   []ChatMessage  `json:"chat_history" bson:"chat_history"`
}

// LastConversation returns the most recently appended conversation.
func (p Patient) LastConversation() (Conversation, bool) {
	if len(p.Conversations) == 0 {
		return Conversation{}, false
	}
	return p.Conversations[len(p.Conversations)-1], true
}

// Conversation is one transcribed session. Messages never change after
// creation; Summary is overwritten on every re-summarization.
type Conversation struct {
	ID       string           `json:"id" bson:"id"`
	Start    time.Time        `json:"start" bson:"start"`
	Messages []TranscriptLine `json:"messages" bson:"messages"`
	Summary  string           `json:"summary" bson:"summary"`
}

type TranscriptLine struct {
	Speaker string `json:"speaker" bson:"speaker"`
	Text    string `json:"text" bson:"text"`
}

// SummaryEntry is one element of a patient's recent summaries.
type SummaryEntry struct {
	ConversationID string    `json:"conversation_id"`
	Date           time.Time `json:"date"`
	Summary        string    `json:"summary"`
}

// ContextLine renders the entry the way it is embedded into chat prompts.
func (s SummaryEntry) ContextLine() string {
	return "summary for session " + s.Date.UTC().Format("2006-01-02") + " : " + s.Summary
}
