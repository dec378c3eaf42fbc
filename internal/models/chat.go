package models

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage is one entry of a session transcript.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RejectReason is one entry of the reject-reason knowledge base the
// assistant answers from.
type RejectReason struct {
	Reason         string   `json:"Reason"`
	RootCause      string   `json:"RootCause"`
	Summary        string   `json:"Summary"`
	Recommendation []string `json:"Recommendation"`
}
