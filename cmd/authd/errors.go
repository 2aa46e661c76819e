package main

import "errors"

var (
	ErrUnknownStoreDriver = errors.New("unknown store driver")
	ErrFailedToOpenStore  = errors.New("failed to open credential store")
)
