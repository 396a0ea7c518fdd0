// ABOUTME: Conversation turn types for the chat orchestrator
// ABOUTME: Mirrors the chat completion wire roles without depending on the provider SDK
package models

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	// Name is an optional speaker tag forwarded to the completion provider.
	// It must be sanitized before it reaches the wire.
	Name string `json:"name,omitempty"`
}

// SystemTurn builds a system instruction turn.
func SystemTurn(content string) Turn {
	return Turn{Role: RoleSystem, Content: content}
}

// UserTurn builds a user turn with an optional speaker tag.
func UserTurn(content, name string) Turn {
	return Turn{Role: RoleUser, Content: content, Name: name}
}

// AssistantTurn builds an assistant reply turn.
func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

// LastUserTurn returns the index of the most recent user turn, or -1 if the
// conversation contains none.
func LastUserTurn(conversation []Turn) int {
	for i := len(conversation) - 1; i >= 0; i-- {
		if conversation[i].Role == RoleUser {
			return i
		}
	}
	return -1
}
