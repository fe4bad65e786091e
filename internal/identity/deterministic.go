package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Keys are prefixed by kind so list and document ids never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// ListUUID identifies the synthetic container of a list group. The first
// member id is unique within a graph so it is enough to key the container.
func ListUUID(firstMemberID string) uuid.UUID {
	return UUID("blockgraph:list:" + strings.TrimSpace(firstMemberID))
}

// DocumentUUID identifies the document built from rootID.
func DocumentUUID(rootID string) uuid.UUID {
	return UUID("blockgraph:document:" + strings.ToLower(strings.TrimSpace(rootID)))
}
