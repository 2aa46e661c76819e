package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/sanitizer"
	"github.com/dmitrymomot/authkit/pkg/statemachine"
	"github.com/dmitrymomot/authkit/pkg/totp"
)

// LoginState is a step of a single login attempt.
type LoginState string

const (
	StateStart                LoginState = "START"
	StateCredentialsPending   LoginState = "CREDENTIALS_PENDING"
	StateSecondFactorRequired LoginState = "SECOND_FACTOR_REQUIRED"
	StateAuthenticated        LoginState = "AUTHENTICATED"
	StateRejected             LoginState = "REJECTED"
)

type loginEvent string

const (
	eventSubmit               loginEvent = "submit"
	eventCredentialsAccepted  loginEvent = "credentials_accepted"
	eventCredentialsRejected  loginEvent = "credentials_rejected"
	eventSecondFactorAccepted loginEvent = "second_factor_accepted"
	eventSecondFactorRejected loginEvent = "second_factor_rejected"
)

// loginAttempt is the data carried through one run of the login flow.
type loginAttempt struct {
	email string
	cred  Credential
}

type loginFlow = statemachine.Definition[LoginState, loginEvent, *loginAttempt]

func requiresSecondFactor(_ context.Context, _ LoginState, _ loginEvent, a *loginAttempt) bool {
	return a.cred.TwoFactorEnabled
}

func newLoginFlow(log *slog.Logger) *loginFlow {
	logRejection := func(ctx context.Context, from, _ LoginState, e loginEvent, a *loginAttempt) error {
		log.WarnContext(ctx, "login rejected",
			logger.Component("auth"),
			logger.Event(string(e)),
			slog.String("state", string(from)),
			slog.String("email", sanitizer.MaskEmail(a.email)),
		)
		return nil
	}

	def, err := statemachine.NewBuilder[LoginState, loginEvent, *loginAttempt](StateStart).
		From(StateStart).When(eventSubmit).To(StateCredentialsPending).Add().
		From(StateCredentialsPending).When(eventCredentialsRejected).To(StateRejected).WithAction(logRejection).Add().
		From(StateCredentialsPending).When(eventCredentialsAccepted).To(StateSecondFactorRequired).WithGuard(requiresSecondFactor).Add().
		From(StateCredentialsPending).When(eventCredentialsAccepted).To(StateAuthenticated).Add().
		From(StateSecondFactorRequired).When(eventSecondFactorAccepted).To(StateAuthenticated).Add().
		From(StateSecondFactorRequired).When(eventSecondFactorRejected).To(StateRejected).WithAction(logRejection).Add().
		Build()
	if err != nil {
		panic(err)
	}
	return def
}

// Login checks email and password and, when the second factor is enabled, a
// TOTP or backup code. Without a code it answers with a challenge and no
// token; nothing is persisted in that case, so the caller resubmits the full
// credentials together with the code.
//
// An unknown email and a wrong password fail identically with ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	attempt := &loginAttempt{email: sanitizer.NormalizeEmail(in.Email)}
	flow := s.loginFlow.Start()
	if err := flow.Fire(ctx, eventSubmit, attempt); err != nil {
		return nil, s.internal(ctx, "login", err)
	}

	cred, err := s.store.GetByEmail(ctx, attempt.email)
	switch {
	case errors.Is(err, ErrNotFound):
		VerifyPassword(in.Password, dummyHash())
		return nil, s.rejectLogin(ctx, flow, attempt, eventCredentialsRejected, ErrInvalidCredentials)
	case err != nil:
		return nil, s.internal(ctx, "login", err)
	}

	attempt.cred = cred
	if !VerifyPassword(in.Password, cred.PasswordHash) {
		return nil, s.rejectLogin(ctx, flow, attempt, eventCredentialsRejected, ErrInvalidCredentials)
	}

	if err := flow.Fire(ctx, eventCredentialsAccepted, attempt); err != nil {
		return nil, s.internal(ctx, "login", err)
	}

	if flow.Current() == StateSecondFactorRequired {
		code := normalizeCode(in.Code)
		if code == "" {
			return &LoginResult{State: flow.Current(), RequireTwoFactor: true}, nil
		}

		updated, ok, err := s.verifySecondFactor(ctx, cred, code)
		if err != nil {
			return nil, s.internal(ctx, "login", err)
		}
		if !ok {
			return nil, s.rejectLogin(ctx, flow, attempt, eventSecondFactorRejected, ErrInvalidSecondFactor)
		}

		attempt.cred = updated
		if err := flow.Fire(ctx, eventSecondFactorAccepted, attempt); err != nil {
			return nil, s.internal(ctx, "login", err)
		}
	}

	session, err := s.session(ctx, attempt.cred)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "login succeeded",
		logger.Component("auth"),
		logger.Event("login"),
		logger.PrincipalID(cred.ID),
		slog.Bool("second_factor", cred.TwoFactorEnabled),
	)

	return &LoginResult{State: flow.Current(), Session: session}, nil
}

func (s *Service) rejectLogin(ctx context.Context, flow *statemachine.Machine[LoginState, loginEvent, *loginAttempt], a *loginAttempt, e loginEvent, reason error) error {
	if err := flow.Fire(ctx, e, a); err != nil {
		return s.internal(ctx, "login", err)
	}
	return reason
}

// verifySecondFactor accepts a current TOTP code or redeems an unused backup
// code. Redemption goes through Storage.Update so that one code cannot be
// redeemed twice by concurrent logins.
func (s *Service) verifySecondFactor(ctx context.Context, cred Credential, code string) (Credential, bool, error) {
	secret, err := s.sealer.Open(cred.Scope(), cred.TwoFactorSecret)
	if err != nil {
		return cred, false, err
	}
	if totp.VerifyCode(secret, code, s.now()) {
		return cred, true, nil
	}

	updated, err := s.store.Update(ctx, cred.ID, func(c Credential) (Credential, error) {
		return c.RedeemBackupCode(code)
	})
	switch {
	case errors.Is(err, ErrInvalidSecondFactor):
		return cred, false, nil
	case err != nil:
		return cred, false, err
	}

	s.logger.InfoContext(ctx, "backup code redeemed",
		logger.Component("auth"),
		logger.Event("backup_code_redeemed"),
		logger.PrincipalID(cred.ID),
		slog.Int("remaining", updated.RemainingBackupCodes()),
	)
	return updated, true, nil
}
