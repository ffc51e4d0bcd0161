// README: Conversation turn model.
package conversation

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DefaultCapacity is the number of turns retained per user.
const DefaultCapacity = 10

type Entry struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
