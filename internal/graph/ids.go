package graph

import (
	"strings"

	"github.com/google/uuid"
)

// CanonicalID normalises an id. Values uuid.Parse accepts, with or without
// dashes, become the lowercase dashed form; anything else is trimmed.
func CanonicalID(id string) string {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return ""
	}
	if parsed, err := uuid.Parse(trimmed); err == nil {
		return parsed.String()
	}
	return trimmed
}
