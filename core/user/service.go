package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/praveshhq/pravesh/core"
)

var (
	// errors
	ErrNotFound        = errors.New("user not found")
	ErrEmailExists     = errors.New("a user with this email already exists")
	ErrAuthFailed      = errors.New("incorrect email or password")
	ErrNotVerified     = errors.New("email address not verified")
	ErrAlreadyVerified = errors.New("email address already verified")
	ErrOTPInvalid      = errors.New("invalid OTP")
	ErrOTPExpired      = errors.New("OTP has expired")
	ErrOTPDelivery     = errors.New("could not deliver the OTP email")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		DeleteUser(ctx context.Context, id string) error
		// DeleteExpiredUnverified removes unverified users whose OTP expired
		// before the cutoff, returning how many were removed.
		DeleteExpiredUnverified(ctx context.Context, cutoff time.Time) (int, error)
	}

	Service struct {
		repo   Repository
		mail   core.EmailService
		tokens core.TokenProvider
		conf   *core.Config
	}
)

func NewService(repo Repository, mailSvc core.EmailService, tokens core.TokenProvider, conf *core.Config) *Service {
	return &Service{repo: repo, mail: mailSvc, tokens: tokens, conf: conf}
}

// Register creates an unverified user and dispatches the OTP email.
// An unverified straggler holding the same email is deleted and replaced;
// a verified holder makes the call fail with ErrEmailExists.
// On OTP delivery failure the record is kept and ErrOTPDelivery returned;
// ResendOTP is the recovery path.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, string, error) {
	if err := nu.Validate(); err != nil {
		return User{}, "", err
	}

	existing, err := svc.repo.GetUserByEmail(ctx, nu.Email)
	switch {
	case err == nil:
		if existing.IsVerified {
			return User{}, "", ErrEmailExists
		}
		if err = svc.repo.DeleteUser(ctx, existing.ID); err != nil {
			return User{}, "", pkgerrors.Wrap(err, "replacing unverified user")
		}
	case errors.Is(err, ErrNotFound):
	default:
		return User{}, "", pkgerrors.Wrap(err, "checking email")
	}

	otp, err := generateOTP()
	if err != nil {
		return User{}, "", pkgerrors.Wrap(err, "generating OTP")
	}

	now := NowFunc().UTC()
	usr := User{
		Name:         nu.Name,
		Email:        nu.Email,
		Mobile:       nu.Mobile,
		Role:         RoleUser,
		OTP:          otp,
		OTPExpiresAt: now.Add(svc.conf.OTPExpirationDelta),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err = usr.SetPassword(nu.Password); err != nil {
		return User{}, "", err
	}
	if usr, err = svc.repo.CreateUser(ctx, usr); err != nil {
		return User{}, "", err
	}

	otpToken, err := svc.tokens.IssueOTPToken(usr.ID)
	if err != nil {
		return User{}, "", pkgerrors.Wrap(err, "issuing OTP token")
	}

	if err = svc.sendOTPMail(usr); err != nil {
		return usr, otpToken, ErrOTPDelivery
	}
	return usr, otpToken, nil
}

// VerifyOTP marks the user verified and opens a session.
func (svc *Service) VerifyOTP(ctx context.Context, userID string, in VerifyOTP) (User, core.TokenPair, error) {
	if err := in.Validate(); err != nil {
		return User{}, core.TokenPair{}, err
	}

	usr, err := svc.repo.GetUserByID(ctx, userID)
	if err != nil {
		return User{}, core.TokenPair{}, err
	}
	if usr.OTP == "" || usr.OTP != in.OTP {
		return User{}, core.TokenPair{}, ErrOTPInvalid
	}
	if NowFunc().After(usr.OTPExpiresAt) {
		return User{}, core.TokenPair{}, ErrOTPExpired
	}

	usr.IsVerified = true
	usr.OTP = ""
	usr.OTPExpiresAt = time.Time{}
	return svc.openSession(ctx, usr)
}

// ResendOTP rotates the pending OTP and re-dispatches it.
func (svc *Service) ResendOTP(ctx context.Context, userID string) error {
	usr, err := svc.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if usr.IsVerified {
		return ErrAlreadyVerified
	}

	otp, err := generateOTP()
	if err != nil {
		return pkgerrors.Wrap(err, "generating OTP")
	}
	usr.OTP = otp
	usr.OTPExpiresAt = NowFunc().UTC().Add(svc.conf.OTPExpirationDelta)
	usr.UpdatedAt = NowFunc().UTC()
	if usr, err = svc.repo.UpdateUser(ctx, usr); err != nil {
		return err
	}

	if err = svc.sendOTPMail(usr); err != nil {
		return ErrOTPDelivery
	}
	return nil
}

// Login checks credentials and opens a fresh session, invalidating any prior
// refresh token.
func (svc *Service) Login(ctx context.Context, creds Credentials) (User, core.TokenPair, error) {
	if err := creds.Validate(); err != nil {
		return User{}, core.TokenPair{}, err
	}

	usr, err := svc.repo.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		return User{}, core.TokenPair{}, err
	}
	if err = usr.CheckPassword(creds.Password); err != nil {
		return User{}, core.TokenPair{}, ErrAuthFailed
	}
	if !usr.IsVerified {
		return User{}, core.TokenPair{}, ErrNotVerified
	}
	return svc.openSession(ctx, usr)
}

// RefreshSession rotates the token pair. A presented token that verifies but
// does not match the stored one nulls the stored token, forcing re-login.
func (svc *Service) RefreshSession(ctx context.Context, refreshToken string) (User, core.TokenPair, error) {
	claims, err := svc.tokens.Verify(refreshToken, core.TokenAudienceRefresh)
	if err != nil {
		return User{}, core.TokenPair{}, ErrAuthFailed
	}

	usr, err := svc.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return User{}, core.TokenPair{}, ErrAuthFailed
	}
	if usr.RefreshToken != refreshToken {
		usr.RefreshToken = ""
		usr.UpdatedAt = NowFunc().UTC()
		if _, uErr := svc.repo.UpdateUser(ctx, usr); uErr != nil {
			return User{}, core.TokenPair{}, pkgerrors.Wrap(uErr, "invalidating refresh token")
		}
		return User{}, core.TokenPair{}, ErrAuthFailed
	}
	return svc.openSession(ctx, usr)
}

// Logout drops the stored refresh token.
func (svc *Service) Logout(ctx context.Context, userID string) error {
	usr, err := svc.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	usr.RefreshToken = ""
	usr.UpdatedAt = NowFunc().UTC()
	_, err = svc.repo.UpdateUser(ctx, usr)
	return err
}

// GrantAdmin promotes the user holding email to admin. There is no demotion.
func (svc *Service) GrantAdmin(ctx context.Context, ga GrantAdmin) (User, error) {
	if err := ga.Validate(); err != nil {
		return User{}, err
	}

	usr, err := svc.repo.GetUserByEmail(ctx, ga.Email)
	if err != nil {
		return User{}, err
	}
	usr.Role = RoleAdmin
	usr.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

// ReapUnverified removes unverified users whose OTP expired. This is the
// expiry mechanism the TTL index provided in the previous deployment.
func (svc *Service) ReapUnverified(ctx context.Context) (int, error) {
	return svc.repo.DeleteExpiredUnverified(ctx, NowFunc().UTC())
}

func (svc *Service) openSession(ctx context.Context, usr User) (User, core.TokenPair, error) {
	pair, err := svc.tokens.IssuePair(usr.ID, usr.Email, usr.Role)
	if err != nil {
		return User{}, core.TokenPair{}, pkgerrors.Wrap(err, "issuing token pair")
	}
	usr.RefreshToken = pair.Refresh
	usr.UpdatedAt = NowFunc().UTC()
	if usr, err = svc.repo.UpdateUser(ctx, usr); err != nil {
		return User{}, core.TokenPair{}, err
	}
	return usr, pair, nil
}

func (svc *Service) sendOTPMail(usr User) error {
	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Your OTP for Verification",
		TemplateName: "otp",
		TemplateData: struct {
			Name      string
			OTP       string
			ExpiresIn string
		}{usr.Name, usr.OTP, fmt.Sprintf("%d minutes", int(svc.conf.OTPExpirationDelta.Minutes()))},
	}
	return svc.mail.SendMessage(msg)
}
