package domain

import "fmt"

// Role identifies who authored a chat message.
type Role string

// Chat roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DefaultChatLimit is the number of retrieved chunks requested per question.
const DefaultChatLimit = 8

// FallbackAnswer is the assistant text recorded when a question fails.
const FallbackAnswer = "Sorry, something went wrong while answering. Please try again."

// Citation points from an assistant answer to a page and chunk of a document.
type Citation struct {
	// DocID is the cited document.
	DocID string `json:"doc_id"`

	// Filename is the cited document's name at answer time.
	Filename string `json:"filename"`

	// Page is the 1-based page of the cited chunk.
	Page int `json:"page"`

	// ChunkIndex is the 0-based chunk ordinal within the document.
	ChunkIndex int `json:"chunk_index"`

	// Content is the cited snippet.
	Content string `json:"content"`
}

// Title returns the filename or, failing that, the short document id.
func (c Citation) Title() string {
	if c.Filename != "" {
		return c.Filename
	}
	return ShortID(c.DocID)
}

// Message is one entry of the conversation.
type Message struct {
	// Role is the author.
	Role Role `json:"role"`

	// Content is the message text.
	Content string `json:"content"`

	// Citations substantiate an assistant answer. Always empty for user messages.
	Citations []Citation `json:"citations,omitempty"`
}

// CitationKey addresses one citation by message and citation ordinal.
// Citation ordinals restart at zero per message, so both parts are needed.
type CitationKey struct {
	Message  int
	Citation int
}

// String renders the key as "m<message>:c<citation>".
func (k CitationKey) String() string {
	return fmt.Sprintf("m%d:c%d", k.Message, k.Citation)
}

// HistoryEntry is the citation-free form of a message sent as chat history.
type HistoryEntry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of a question request.
type ChatRequest struct {
	// Message is the new question.
	Message string `json:"message"`

	// History is every earlier message, role and content only.
	History []HistoryEntry `json:"history"`

	// DocIDs restricts retrieval. Nil means unscoped and encodes as null.
	DocIDs []string `json:"doc_ids"`

	// Limit is the number of chunks to retrieve.
	Limit int `json:"limit"`
}

// ChatResponse is the backend answer to a ChatRequest.
type ChatResponse struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

// HistoryOf strips citations from msgs.
func HistoryOf(msgs []Message) []HistoryEntry {
	history := make([]HistoryEntry, len(msgs))
	for i := range msgs {
		history[i] = HistoryEntry{Role: msgs[i].Role, Content: msgs[i].Content}
	}
	return history
}

// Turn is an accepted question waiting for its answer.
// Generation is the conversation generation the turn was issued in.
type Turn struct {
	Generation uint64
	Request    ChatRequest
}

// TurnResult is the outcome of resolving a Turn against the backend.
// Exactly one of Response and Err is set.
type TurnResult struct {
	Turn     Turn
	Response *ChatResponse
	Err      error
}
