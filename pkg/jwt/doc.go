// Package jwt issues and verifies the bearer tokens returned by registration,
// login and profile updates.
//
// Tokens are HS256 JWTs built on github.com/golang-jwt/jwt/v5 carrying the
// principal ID in sub, iat, exp (30 days by default) and an optional iss. The
// signing key is mandatory and must be at least 32 bytes: New fails fast
// instead of falling back to a built-in key.
//
// # Usage
//
//	svc, err := jwt.New(signingKey, jwt.WithIssuer("authkit"))
//	if err != nil {
//	    // refuse to start
//	}
//
//	token, err := svc.Issue(userID)
//	subject, err := svc.Verify(token)
//
//	// Protect routes; the verified subject is available via jwt.GetSubject.
//	r.With(jwt.Middleware(svc)).Get("/profile", profileHandler)
//
// # Error Handling
//
// Verify returns ErrExpiredToken, ErrInvalidSignature or ErrInvalidToken joined
// with the library cause. Compare with errors.Is.
package jwt
