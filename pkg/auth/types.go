package auth

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the public view of a credential. It never carries hashes,
// secrets or backup codes.
type Profile struct {
	ID               uuid.UUID
	Name             string
	Email            string
	TwoFactorEnabled bool
	CreatedAt        time.Time
}

// Session is returned by every operation that authenticates the principal.
type Session struct {
	Profile
	Token string
}

// LoginResult is either an authenticated session or a second-factor challenge.
type LoginResult struct {
	State            LoginState
	RequireTwoFactor bool
	Session          *Session // nil when RequireTwoFactor is set
}

// Enrollment carries the artifacts of a pending second-factor enrollment.
type Enrollment struct {
	TempSecret      string
	ProvisioningURI string
	QRCode          string // PNG data URI of ProvisioningURI
}

// RegisterInput holds registration fields.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput holds login fields. Code is optional: a TOTP code or a backup code.
type LoginInput struct {
	Email    string
	Password string
	Code     string
}

// ProfileUpdate holds profile changes. Empty fields are left unchanged.
type ProfileUpdate struct {
	Name     string
	Email    string
	Password string
}
