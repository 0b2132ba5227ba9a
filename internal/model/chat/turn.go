package chat

// Role labels stored with each turn. Assistant turns always carry
// RoleAssistant; user turns carry whichever role was picked at login.
const (
	RoleUser      = "User"
	RoleAdmin     = "Admin"
	RoleAssistant = "AI"

	// AssistantName is the display name stamped on assistant turns.
	AssistantName = "AI Assistant"
)

// Turn is one message in the transcript. The field tags double as the
// durable JSON shape of the history file; renaming them breaks old
// transcripts on disk.
type Turn struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Message  string `json:"message"`
}

// FromAssistant reports whether the turn was authored by the model.
func (t Turn) FromAssistant() bool {
	return t.Role == RoleAssistant
}

// UserTurn builds a turn authored by the logged-in user.
func UserTurn(username, role, message string) Turn {
	return Turn{Username: username, Role: role, Message: message}
}

// AssistantTurn builds a turn authored by the model.
func AssistantTurn(message string) Turn {
	return Turn{Username: AssistantName, Role: RoleAssistant, Message: message}
}
