package OpenAi

import "fmt"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

var chatRoleValues = []string{RoleUser, RoleAssistant, RoleSystem}

// ChatRole is a validated chat message role.
type ChatRole struct {
	value string
}

func NewChatRole(value string) (ChatRole, error) {
	for _, known := range chatRoleValues {
		if value == known {
			return ChatRole{value: value}, nil
		}
	}
	return ChatRole{}, fmt.Errorf("wrong chat role: %s", value)
}

func (r ChatRole) Value() string {
	return r.value
}

// ChatMessage is one role/content pair. FileID is only used on assistant
// thread messages.
type ChatMessage struct {
	Role    ChatRole
	Content string
	FileID  string
}

func NewUserMessage(content string) ChatMessage {
	role, _ := NewChatRole(RoleUser)
	return ChatMessage{Role: role, Content: content}
}

// AssistantRun is the state of one assistant thread run.
type AssistantRun struct {
	ID       string `json:"id"`
	ThreadID string `json:"thread_id"`
	Status   string `json:"status"`
}

func (r AssistantRun) IsCompleted() bool {
	return r.Status == "completed"
}

func (r AssistantRun) IsFailed() bool {
	return r.Status == "failed" || r.Status == "cancelled" || r.Status == "expired"
}
