// Package account exposes the credential service over HTTP under /api/users.
//
// Public routes register and sign in; the profile and two-factor routes
// require an "Authorization: Bearer <token>" header carrying a token issued
// by the same jwt.Service. Responses use the handler package envelopes and
// never include password hashes, TOTP secrets or backup code digests.
package account
