package entities

import (
	"fmt"
	"time"
)

// ChatRole identifies who authored a chat history entry.
type ChatRole string

const (
	ChatRoleDoctor    ChatRole = "doctor"
	ChatRolePatient   ChatRole = "patient"
	ChatRoleAssistant ChatRole = "assistant"
)

// PromptRole returns the inference turn role for a stored chat role. Both
// doctor and patient are requesters; unknown roles are rejected.
func (r ChatRole) PromptRole() (PromptRole, error) {
	switch r {
	case ChatRoleDoctor, ChatRolePatient:
		return PromptRoleUser, nil
	case ChatRoleAssistant:
		return PromptRoleAssistant, nil
	default:
		return "", fmt.Errorf("unmapped chat role %q", string(r))
	}
}

func (r ChatRole) Valid() bool {
	_, err := r.PromptRole()
	return err == nil
}

// ChatMessage is one append-only turn of the doctor/assistant log.
type ChatMessage struct {
	Role      ChatRole  `json:"role" bson:"role"`
	Text      string    `json:"text" bson:"text"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
