// Package binder decodes HTTP request bodies into typed request structs for
// handler.Wrap.
//
//	http.HandlerFunc(handler.Wrap(login, handler.WithBinders[handler.Context, loginRequest](binder.JSON())))
//
// Decoding is strict: the content type must be application/json, unknown
// fields and trailing data are errors, and bodies are size limited.
package binder
