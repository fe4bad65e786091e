package graph

import (
	"strings"

	"github.com/goliatone/go-blockgraph/pkg/interfaces"
)

// Directory is an in-memory user directory, typically populated from the
// user records shipped alongside a snapshot.
type Directory map[string]interfaces.User

var _ interfaces.UserDirectory = Directory(nil)

// LookupUser satisfies interfaces.UserDirectory.
func (d Directory) LookupUser(id string) (interfaces.User, bool) {
	if d == nil {
		return interfaces.User{}, false
	}
	user, ok := d[CanonicalID(id)]
	if !ok {
		user, ok = d[strings.TrimSpace(id)]
	}
	return user, ok
}
