package digest

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidPayload is returned by Render for a payload without a
// ProgressFact. Such a child has left pregnancy-digest eligibility.
var ErrInvalidPayload = errors.New("digest: payload has no progress fact")

// Unit identifies the smallest independently failing piece of a run.
// ChildID is uuid.Nil for subscriber-level failures.
type Unit struct {
	SubscriberID uuid.UUID
	Email        string
	ChildID      uuid.UUID
}

func (u Unit) String() string {
	if u.ChildID == uuid.Nil {
		return fmt.Sprintf("subscriber %s (%s)", u.Email, u.SubscriberID)
	}
	return fmt.Sprintf("subscriber %s (%s) child %s", u.Email, u.SubscriberID, u.ChildID)
}

// LookupError wraps a failed read (children, resources) for one unit.
type LookupError struct {
	Unit
	Op  string
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup failed for %s: %s: %v", e.Unit, e.Op, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// DispatchError wraps a message that could not be built or was rejected by
// the transport. There is no retry within a run.
type DispatchError struct {
	Unit
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch failed for %s: %v", e.Unit, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// PersistError wraps a failed last-sent update. The email was already sent.
type PersistError struct {
	Unit
	PreferenceID uuid.UUID
	Err          error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("mark sent failed for %s (preference %s): %v", e.Unit, e.PreferenceID, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Kind returns a short label for err suitable for metrics: "lookup",
// "dispatch", "persist" or "other".
func Kind(err error) string {
	var (
		le *LookupError
		de *DispatchError
		pe *PersistError
	)
	switch {
	case errors.As(err, &le):
		return "lookup"
	case errors.As(err, &de):
		return "dispatch"
	case errors.As(err, &pe):
		return "persist"
	default:
		return "other"
	}
}
