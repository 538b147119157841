package listing

import "errors"

var (
	ErrNotFound     = errors.New("job posting not found")
	ErrInvalidInput = errors.New("invalid input")

	// Guard failures; the gateway is never called when one of these is returned.
	ErrUnauthenticated  = errors.New("sign in required")
	ErrWrongAccountKind = errors.New("action not available for this account kind")
	ErrNotOwner         = errors.New("only the poster can modify this job posting")
	ErrOwnPosting       = errors.New("cannot save or apply to your own job posting")
	ErrExpired          = errors.New("job posting deadline has passed")
	ErrBusy             = errors.New("action already in progress")

	ErrFetchFailed    = errors.New("failed to load job postings")
	ErrMutationFailed = errors.New("job posting update failed")
)
