package entities

type PromptRole string

const (
	PromptRoleSystem    PromptRole = "system"
	PromptRoleUser      PromptRole = "user"
	PromptRoleAssistant PromptRole = "assistant"
)

type PromptMessage struct {
	Role    PromptRole `json:"role"`
	Content string     `json:"content"`
}

// InferenceRequest is what every inference provider receives.
type InferenceRequest struct {
	Model    string          `json:"model"`
	Messages []PromptMessage `json:"messages"`
}
