package credstore

import "errors"

var (
	ErrConcurrentUpdate    = errors.New("credential modified concurrently, retries exhausted")
	ErrFailedToEncode      = errors.New("failed to encode credential")
	ErrFailedToDecode      = errors.New("failed to decode credential")
	ErrFailedToEnsureIndex = errors.New("failed to create credential indexes")
)
