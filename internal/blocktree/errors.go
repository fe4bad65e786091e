package blocktree

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// ErrMissingRoot is the only failure a build reports. Use errors.Is to
// detect it through the categorised wrapper.
var ErrMissingRoot = errors.New("blocktree: missing root")

const (
	missingRootCode = "MISSING_ROOT"

	reasonAbsent       = "absent"
	reasonNotContainer = "not_container"
)

func missingRootError(rootID, reason, nodeType string) error {
	meta := map[string]any{
		"root_id": rootID,
		"reason":  reason,
	}
	msg := fmt.Sprintf("root %q not found", rootID)
	if reason == reasonNotContainer {
		meta["type"] = nodeType
		msg = fmt.Sprintf("root %q has non-container type %q", rootID, nodeType)
	}
	return goerrors.Wrap(ErrMissingRoot, goerrors.CategoryNotFound, msg).
		WithTextCode(missingRootCode).
		WithMetadata(meta)
}

// MissingRootReason returns the reason recorded on a MissingRoot error:
// "absent" or "not_container". It returns "" for other errors.
func MissingRootReason(err error) string {
	if !errors.Is(err, ErrMissingRoot) {
		return ""
	}
	var typed *goerrors.Error
	if !errors.As(err, &typed) || typed.Metadata == nil {
		return ""
	}
	reason, _ := typed.Metadata["reason"].(string)
	return reason
}
