package progress

import "errors"

// Sentinel errors returned by the progress core. Controllers map these to
// HTTP statuses with errors.Is; business-rule failures stay distinguishable
// from structural ones.
var (
	// ErrNotFound means no progress record, course, enrollment or
	// certificate exists for the given keys.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidIndex means a module or lecture index is out of range
	// against the course structure. The progress record is left unmodified.
	ErrInvalidIndex = errors.New("module or lecture index out of range")

	// ErrPrerequisitesNotMet means the final test (or manual completion)
	// was attempted before every module is complete, or a locked module
	// was acted on.
	ErrPrerequisitesNotMet = errors.New("prerequisites not met")

	// ErrAttemptsExhausted means the attempt ceiling has been reached.
	ErrAttemptsExhausted = errors.New("no attempts remaining")

	// ErrAlreadyCompleted signals a benign idempotent condition: the
	// course or assessment is already finished and the existing result is
	// returned alongside this error.
	ErrAlreadyCompleted = errors.New("already completed")

	// ErrValidation means the submission payload is malformed.
	ErrValidation = errors.New("invalid submission")

	// ErrConflict means a concurrent update won the optimistic version
	// check; the caller may retry.
	ErrConflict = errors.New("progress record was modified concurrently")
)
