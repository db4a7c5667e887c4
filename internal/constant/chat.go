package constant

const (
	// Transcript roles.
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"

	// DefaultHistoryLimit caps how many prior turns feed the prompt.
	DefaultHistoryLimit = 5
)
