package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/qrcode"
	"github.com/dmitrymomot/authkit/pkg/totp"
)

// DefaultTOTPIssuer is the issuer label shown in authenticator apps.
const DefaultTOTPIssuer = "TaskManager"

// TokenIssuer signs bearer tokens for a principal ID. Implemented by pkg/jwt.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// SecretSealer protects TOTP secrets at rest. Implemented by pkg/secrets.
type SecretSealer interface {
	Seal(scope, plaintext string) (string, error)
	Open(scope, sealed string) (string, error)
}

// Service orchestrates registration, login and second-factor management.
type Service struct {
	store           Storage
	tokens          TokenIssuer
	sealer          SecretSealer
	logger          *slog.Logger
	now             func() time.Time
	totpIssuer      string
	backupCodeCount int
	qrCodeSize      int
	loginFlow       *loginFlow
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the time source used for TOTP verification and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTOTPIssuer sets the issuer label embedded in provisioning URIs.
func WithTOTPIssuer(issuer string) Option {
	return func(s *Service) {
		if issuer != "" {
			s.totpIssuer = issuer
		}
	}
}

// WithBackupCodeCount sets how many backup codes each enrollment issues.
func WithBackupCodeCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.backupCodeCount = n
		}
	}
}

// WithQRCodeSize sets the provisioning QR image size in pixels.
func WithQRCodeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.qrCodeSize = size
		}
	}
}

// NewService creates the authentication service.
func NewService(store Storage, tokens TokenIssuer, sealer SecretSealer, opts ...Option) *Service {
	s := &Service{
		store:           store,
		tokens:          tokens,
		sealer:          sealer,
		logger:          logger.Discard(),
		now:             time.Now,
		totpIssuer:      DefaultTOTPIssuer,
		backupCodeCount: totp.DefaultBackupCodeCount,
		qrCodeSize:      qrcode.DefaultSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.loginFlow = newLoginFlow(s.logger)
	return s
}

// Register creates a credential and signs the new principal in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in = in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := s.store.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrDuplicateIdentity
	} else if !errors.Is(err, ErrNotFound) {
		return nil, s.internal(ctx, "register", err)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, s.internal(ctx, "register", err)
	}

	cred := NewCredential(uuid.New(), in.Name, in.Email, hash, s.now())
	if err := s.store.Create(ctx, cred); err != nil {
		if errors.Is(err, ErrDuplicateIdentity) {
			return nil, ErrDuplicateIdentity
		}
		return nil, s.internal(ctx, "register", err)
	}

	s.logger.InfoContext(ctx, "principal registered",
		logger.Component("auth"),
		logger.Event("register"),
		logger.PrincipalID(cred.ID),
	)

	return s.session(ctx, cred)
}

// GetProfile returns the public view of a principal.
func (s *Service) GetProfile(ctx context.Context, principalID uuid.UUID) (*Profile, error) {
	cred, err := s.load(ctx, "get_profile", principalID)
	if err != nil {
		return nil, err
	}
	profile := cred.Profile()
	return &profile, nil
}

// UpdateProfile changes name, email and password and re-issues a token.
// A new email must not belong to another principal.
func (s *Service) UpdateProfile(ctx context.Context, principalID uuid.UUID, in ProfileUpdate) (*Session, error) {
	in = in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	cred, err := s.load(ctx, "update_profile", principalID)
	if err != nil {
		return nil, err
	}

	if in.Email != "" && in.Email != cred.Email {
		other, err := s.store.GetByEmail(ctx, in.Email)
		switch {
		case err == nil && other.ID != principalID:
			return nil, ErrDuplicateIdentity
		case err != nil && !errors.Is(err, ErrNotFound):
			return nil, s.internal(ctx, "update_profile", err)
		}
	}

	var hash string
	if in.Password != "" {
		if hash, err = HashPassword(in.Password); err != nil {
			return nil, s.internal(ctx, "update_profile", err)
		}
	}

	updated, err := s.store.Update(ctx, principalID, func(c Credential) (Credential, error) {
		next := c.WithProfile(in.Name, in.Email)
		if hash != "" {
			next = next.WithPasswordHash(hash)
		}
		return next, nil
	})
	if err != nil {
		return nil, s.fail(ctx, "update_profile", err)
	}

	s.logger.InfoContext(ctx, "profile updated",
		logger.Component("auth"),
		logger.Event("update_profile"),
		logger.PrincipalID(principalID),
		slog.Bool("password_changed", hash != ""),
	)

	return s.session(ctx, updated)
}

// BeginEnrollment generates a pending TOTP secret. Any earlier pending secret
// is replaced; an enabled second factor stays active until confirmation.
func (s *Service) BeginEnrollment(ctx context.Context, principalID uuid.UUID) (*Enrollment, error) {
	cred, err := s.load(ctx, "begin_enrollment", principalID)
	if err != nil {
		return nil, err
	}

	key, err := totp.GenerateSecret(s.totpIssuer, cred.Email)
	if err != nil {
		return nil, s.internal(ctx, "begin_enrollment", err)
	}

	sealed, err := s.sealer.Seal(cred.Scope(), key.Secret)
	if err != nil {
		return nil, s.internal(ctx, "begin_enrollment", err)
	}

	qr, err := qrcode.DataURI(key.URI, qrcode.WithSize(s.qrCodeSize))
	if err != nil {
		return nil, s.internal(ctx, "begin_enrollment", err)
	}

	if _, err := s.store.Update(ctx, principalID, func(c Credential) (Credential, error) {
		return c.WithPendingSecret(sealed), nil
	}); err != nil {
		return nil, s.fail(ctx, "begin_enrollment", err)
	}

	return &Enrollment{
		TempSecret:      key.Secret,
		ProvisioningURI: key.URI,
		QRCode:          qr,
	}, nil
}

// ConfirmEnrollment verifies code against the pending secret, enables the
// second factor and returns a fresh batch of backup codes in plaintext. They
// cannot be retrieved again. A wrong code leaves the enrollment pending.
func (s *Service) ConfirmEnrollment(ctx context.Context, principalID uuid.UUID, code string) ([]string, error) {
	code = normalizeCode(code)
	now := s.now()

	codes, err := totp.GenerateBackupCodes(s.backupCodeCount)
	if err != nil {
		return nil, s.internal(ctx, "confirm_enrollment", err)
	}

	_, err = s.store.Update(ctx, principalID, func(c Credential) (Credential, error) {
		if c.TwoFactorTempSecret == "" {
			return c, ErrNoPendingEnrollment
		}
		secret, err := s.sealer.Open(c.Scope(), c.TwoFactorTempSecret)
		if err != nil {
			return c, errors.Join(ErrInternal, err)
		}
		if !totp.VerifyCode(secret, code, now) {
			return c, ErrInvalidSecondFactor
		}
		return c.EnableSecondFactor(totp.SealBackupCodes(c.Scope(), codes))
	})
	if err != nil {
		if errors.Is(err, ErrInvalidSecondFactor) {
			s.logger.WarnContext(ctx, "enrollment code rejected",
				logger.Component("auth"),
				logger.Event("confirm_enrollment"),
				logger.PrincipalID(principalID),
			)
		}
		return nil, s.fail(ctx, "confirm_enrollment", err)
	}

	s.logger.InfoContext(ctx, "second factor enabled",
		logger.Component("auth"),
		logger.Event("confirm_enrollment"),
		logger.PrincipalID(principalID),
	)

	return codes, nil
}

// DisableSecondFactor clears every second-factor field after re-checking the password.
func (s *Service) DisableSecondFactor(ctx context.Context, principalID uuid.UUID, password string) error {
	cred, err := s.load(ctx, "disable_second_factor", principalID)
	if err != nil {
		return err
	}

	if !VerifyPassword(password, cred.PasswordHash) {
		s.logger.WarnContext(ctx, "disable second factor rejected",
			logger.Component("auth"),
			logger.Event("disable_second_factor"),
			logger.PrincipalID(principalID),
		)
		return ErrInvalidCredentials
	}

	if _, err := s.store.Update(ctx, principalID, func(c Credential) (Credential, error) {
		// The password was checked against this hash; a concurrent change invalidates it.
		if c.PasswordHash != cred.PasswordHash {
			return c, ErrInvalidCredentials
		}
		return c.WithoutSecondFactor(), nil
	}); err != nil {
		return s.fail(ctx, "disable_second_factor", err)
	}

	s.logger.InfoContext(ctx, "second factor disabled",
		logger.Component("auth"),
		logger.Event("disable_second_factor"),
		logger.PrincipalID(principalID),
	)
	return nil
}

func (s *Service) load(ctx context.Context, op string, id uuid.UUID) (Credential, error) {
	cred, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Credential{}, s.fail(ctx, op, err)
	}
	return cred, nil
}

func (s *Service) session(ctx context.Context, cred Credential) (*Session, error) {
	token, err := s.tokens.Issue(cred.Scope())
	if err != nil {
		return nil, s.internal(ctx, "issue_token", err)
	}
	return &Session{Profile: cred.Profile(), Token: token}, nil
}

// fail passes domain errors through and turns anything else into ErrInternal.
func (s *Service) fail(ctx context.Context, op string, err error) error {
	for _, domainErr := range []error{
		ErrDuplicateIdentity,
		ErrInvalidCredentials,
		ErrInvalidSecondFactor,
		ErrNoPendingEnrollment,
		ErrNotFound,
	} {
		if errors.Is(err, domainErr) {
			return domainErr
		}
	}
	return s.internal(ctx, op, err)
}

func (s *Service) internal(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "auth operation failed",
		logger.Component("auth"),
		logger.Event(op),
		logger.Error(err),
	)
	if errors.Is(err, ErrInternal) {
		return err
	}
	return errors.Join(ErrInternal, err)
}
