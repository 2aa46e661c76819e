package auth

import (
	"strings"

	"github.com/dmitrymomot/authkit/pkg/sanitizer"
	"github.com/dmitrymomot/authkit/pkg/validator"
)

const (
	MaxNameLength     = 100
	MinPasswordLength = 6
	MaxPasswordLength = 72 // bcrypt input limit
)

func (in RegisterInput) normalize() RegisterInput {
	in.Name = sanitizer.NormalizeWhitespace(in.Name)
	in.Email = sanitizer.NormalizeEmail(in.Email)
	return in
}

func (in RegisterInput) validate() error {
	return validator.Apply(
		validator.RequiredString("name", in.Name),
		validator.MaxLenString("name", in.Name, MaxNameLength),
		validator.ValidEmail("email", in.Email),
		validator.MinLenString("password", in.Password, MinPasswordLength),
		validator.MaxLenString("password", in.Password, MaxPasswordLength),
	)
}

func (in ProfileUpdate) normalize() ProfileUpdate {
	in.Name = sanitizer.NormalizeWhitespace(in.Name)
	in.Email = sanitizer.NormalizeEmail(in.Email)
	return in
}

func (in ProfileUpdate) validate() error {
	var rules []validator.Rule
	if in.Name != "" {
		rules = append(rules, validator.MaxLenString("name", in.Name, MaxNameLength))
	}
	if in.Email != "" {
		rules = append(rules, validator.ValidEmail("email", in.Email))
	}
	if in.Password != "" {
		rules = append(rules,
			validator.MinLenString("password", in.Password, MinPasswordLength),
			validator.MaxLenString("password", in.Password, MaxPasswordLength),
		)
	}
	return validator.Apply(rules...)
}

func normalizeCode(code string) string {
	return strings.ReplaceAll(strings.TrimSpace(code), " ", "")
}
