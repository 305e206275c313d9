package domain

// Role tags a conversation turn with its author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Title returns the role capitalized for transcript rendering.
func (r Role) Title() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// Turn is a single role-tagged message in a conversation. Immutable once created.
type Turn struct {
	Role    Role
	Content string
}

// ServiceDescriptor describes one search service discovered from the backend.
// SearchColumn names the result field that carries the displayable snippet text.
type ServiceDescriptor struct {
	Name         string
	SearchColumn string
}

// Record is a single search hit, keyed by result column name.
type Record map[string]string

// SearchRequest is one retrieval call against a named search service.
// Filter is passed through to the backend verbatim; nil means no filtering.
type SearchRequest struct {
	Service string
	Query   string
	Columns []string
	Filter  map[string]any
	Limit   int
}
