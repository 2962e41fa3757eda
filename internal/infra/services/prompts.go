package services

import (
	"fmt"
	"strings"

	"patient-context/internal/domain/entities"
)

const (
	SummarizerSystemPrompt = "You are a medical conversation summarizer.\n" +
		"Given a list of messages with speakers and text, produce a single concise paragraph\n" +
		"that captures the patient's condition, key complaints, and any treatment or advice given."

	// RefusalSentence is the exact reply expected when the summary cannot
	// answer the doctor's question.
	RefusalSentence = "I only have the patient information provided; I can't answer outside of that."

	// ExternalRecordsReminder is appended to every doctor turn sent to the model.
	ExternalRecordsReminder = " ps: do not mention EHR or any other external tools"

	chatSystemPromptTemplate = `You are a helpful, empathetic medical assistant.

RULES:
1. Use **only** the patient summary below to answer questions.
2. Never mention EHR, charts, records, or any external system, and never ask for more data.
3. If a question cannot be answered from the summary, reply exactly:
   "%s"

Patient summary:
%s
`
)

// ChatSystemPrompt embeds patientContext verbatim into the assistant rules.
func ChatSystemPrompt(patientContext string) string {
	return fmt.Sprintf(chatSystemPromptTemplate, RefusalSentence, patientContext)
}

// RenderTranscript formats lines as "speaker: text", one per line, in order.
func RenderTranscript(lines []entities.TranscriptLine) string {
	rendered := make([]string, 0, len(lines))
	for _, l := range lines {
		rendered = append(rendered, l.Speaker+": "+l.Text)
	}
	return strings.Join(rendered, "\n")
}

// DoctorTurn is the final requester turn content for a doctor message.
func DoctorTurn(message string) string {
	return message + ExternalRecordsReminder
}
