package domain

import "errors"

// Sentinel errors used to tell failure classes apart at the command level.
var (
	ErrMissingCredential   = errors.New("missing credential")
	ErrProviderFetch       = errors.New("provider fetch failed")
	ErrAdoptersUnavailable = errors.New("adopter list unavailable")
	ErrPersistenceConflict = errors.New("persistence conflict")
)
