package account

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/authkit/handler"
	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/logger"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Token    string `json:"token,omitempty"`
}

type updateProfileRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

type disableRequest struct {
	Password string `json:"password"`
}

type userResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	TwoFactorEnabled bool   `json:"twoFactorEnabled"`
	Token            string `json:"token,omitempty"`
}

type challengeResponse struct {
	RequireTwoFactor bool   `json:"requireTwoFactor"`
	Message          string `json:"message"`
}

type setupResponse struct {
	TempSecret      string `json:"tempSecret"`
	QRCodeURL       string `json:"qrCodeUrl"`
	ProvisioningURI string `json:"provisioningUri"`
	Message         string `json:"message"`
}

type verifyResponse struct {
	Message     string   `json:"message"`
	BackupCodes []string `json:"backupCodes"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func newUserResponse(p auth.Profile, token string) userResponse {
	return userResponse{
		ID:               p.ID.String(),
		Name:             p.Name,
		Email:            p.Email,
		TwoFactorEnabled: p.TwoFactorEnabled,
		Token:            token,
	}
}

func (u *Users) register(ctx handler.Context, req registerRequest) handler.Response {
	session, err := u.auth.Register(ctx, auth.RegisterInput(req))
	if err != nil {
		return u.fail(ctx, "register", err)
	}
	return handler.JSON(newUserResponse(session.Profile, session.Token), handler.WithJSONStatus(http.StatusCreated))
}

func (u *Users) login(ctx handler.Context, req loginRequest) handler.Response {
	res, err := u.auth.Login(ctx, auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Code:     req.Token,
	})
	if err != nil {
		return u.fail(ctx, "login", err)
	}
	if res.RequireTwoFactor {
		return handler.JSON(challengeResponse{
			RequireTwoFactor: true,
			Message:          "Two-factor authentication code required",
		})
	}
	return handler.JSON(newUserResponse(res.Session.Profile, res.Session.Token))
}

func (u *Users) getProfile(ctx handler.Context, _ struct{}) handler.Response {
	profile, err := u.auth.GetProfile(ctx, principalID(ctx))
	if err != nil {
		return u.fail(ctx, "get_profile", err)
	}
	return handler.JSON(newUserResponse(*profile, ""))
}

func (u *Users) updateProfile(ctx handler.Context, req updateProfileRequest) handler.Response {
	session, err := u.auth.UpdateProfile(ctx, principalID(ctx), auth.ProfileUpdate(req))
	if err != nil {
		return u.fail(ctx, "update_profile", err)
	}
	return handler.JSON(newUserResponse(session.Profile, session.Token))
}

func (u *Users) setupSecondFactor(ctx handler.Context, _ struct{}) handler.Response {
	enrollment, err := u.auth.BeginEnrollment(ctx, principalID(ctx))
	if err != nil {
		return u.fail(ctx, "setup_2fa", err)
	}
	return handler.JSON(setupResponse{
		TempSecret:      enrollment.TempSecret,
		QRCodeURL:       enrollment.QRCode,
		ProvisioningURI: enrollment.ProvisioningURI,
		Message:         "Temporary secret generated",
	})
}

func (u *Users) verifySecondFactor(ctx handler.Context, req verifyRequest) handler.Response {
	codes, err := u.auth.ConfirmEnrollment(ctx, principalID(ctx), req.Token)
	if errors.Is(err, auth.ErrInvalidSecondFactor) {
		return handler.JSONError(errInvalidVerification)
	}
	if err != nil {
		return u.fail(ctx, "verify_2fa", err)
	}
	return handler.JSON(verifyResponse{
		Message:     "Two-factor authentication enabled successfully",
		BackupCodes: codes,
	})
}

func (u *Users) disableSecondFactor(ctx handler.Context, req disableRequest) handler.Response {
	err := u.auth.DisableSecondFactor(ctx, principalID(ctx), req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return handler.JSONError(errPasswordIsIncorrect)
	}
	if err != nil {
		return u.fail(ctx, "disable_2fa", err)
	}
	return handler.JSON(messageResponse{Message: "Two-factor authentication disabled successfully"})
}

func (u *Users) fail(ctx handler.Context, event string, err error) handler.Response {
	mapped := httpError(err)
	if handler.StatusOf(mapped) >= http.StatusInternalServerError {
		u.logger.ErrorContext(ctx, "request failed",
			logger.Component("account"),
			logger.Event(event),
			logger.Error(err),
		)
	}
	return handler.JSONError(mapped)
}
