package interfaces

// User is the minimal profile needed to render a mention chip.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// UserDirectory resolves user ids referenced by mention decorations.
// Lookups must be safe for concurrent use; builds for different pages may
// share one directory.
type UserDirectory interface {
	LookupUser(id string) (User, bool)
}
