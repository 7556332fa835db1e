package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers missing entities and, deliberately, any cross-tenant
	// access: callers must never learn that an out-of-tenant record exists.
	ErrNotFound = errors.New("not found")

	// ErrConflict signals an operation attempted on data not yet in the
	// required state (no transcript text, no note to finalize, etc.).
	ErrConflict = errors.New("conflict")
)

// MisconfigError reports a backend that was selected in configuration but is
// missing a required external dependency. It is raised at first use of the
// backend, not at registry construction, so unused backends never block
// startup.
type MisconfigError struct {
	Backend string
	Reason  string
}

func (e *MisconfigError) Error() string {
	return fmt.Sprintf("backend %s misconfigured: %s", e.Backend, e.Reason)
}

func NewMisconfig(backend, reason string) error {
	return &MisconfigError{Backend: backend, Reason: reason}
}

func IsMisconfig(err error) bool {
	var me *MisconfigError
	return errors.As(err, &me)
}
