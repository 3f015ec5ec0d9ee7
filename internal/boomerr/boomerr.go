// Package boomerr bridges idiomatic Go error returns with the four
// legacy status codes the original library surface exposed, so both
// the engine layer and the public boom package can share one
// vocabulary of failure.
package boomerr

import "errors"

// Status mirrors the four legacy status codes.
type Status int

const (
	Success         Status = 0
	Failure         Status = -1
	AllocationError Status = -2
	InvalidInput    Status = -3
)

// String renders the status the way the legacy shim's diagnostics did.
func (s Status) String() string {
	switch s {
	case Success:
		return "SUCCESS"
	case Failure:
		return "FAILURE"
	case AllocationError:
		return "ALLOCATION_ERROR"
	case InvalidInput:
		return "INVALID_INPUT"
	default:
		return "UNKNOWN"
	}
}

var (
	// ErrInvalidInput is returned for out-of-domain arguments: a
	// non-positive course id, time or rank, a negative lecture ordinal,
	// a lecture ordinal past the course's lecture count, a nil or quit
	// receiver. An unknown course is ErrNotFound instead.
	ErrInvalidInput = errors.New("boom: invalid input")
	// ErrNotFound is returned when an operation cannot complete
	// because the entity it targets is absent, distinct from a
	// malformed request.
	ErrNotFound = errors.New("boom: not found")
	// ErrConflict is returned when an operation cannot complete
	// because the entity it targets already exists. Maps to the same
	// legacy Failure status as ErrNotFound: the original shim never
	// distinguished "absent" from "already present" at the status
	// level.
	ErrConflict = errors.New("boom: already exists")
	// ErrAllocation is returned when a capacity-granting seam refused
	// to grow, surfacing the legacy AllocationError status.
	ErrAllocation = errors.New("boom: allocation refused")
)

// StatusOf classifies err into the legacy four-value status space. A
// nil error is Success; unrecognized errors are Failure, the catch-all
// the legacy shim used for anything that was not one of the other
// three named cases.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrInvalidInput):
		return InvalidInput
	case errors.Is(err, ErrAllocation):
		return AllocationError
	default:
		return Failure
	}
}
