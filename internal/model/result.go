package model

// CommandResult is the externally visible outcome of dispatching a command.
// Message is always natural language; malformed user text never surfaces as
// an error value.
type CommandResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation turn, used for context refinement.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// PendingTask is a provisional task awaiting a yes/no confirmation. At most
// one exists per conversation.
type PendingTask struct {
	Title    string
	Date     string
	Time     string
	Location string
}
