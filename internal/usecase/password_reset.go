package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/eastbayacademics/tutoring-api/internal/model"
	"github.com/eastbayacademics/tutoring-api/internal/repository"
	"github.com/eastbayacademics/tutoring-api/shared/auth"
	"github.com/eastbayacademics/tutoring-api/shared/security"
)

// PasswordResetUsecase defines the business logic for the password reset flow.
type PasswordResetUsecase interface {
	// RequestPasswordReset initiates the password reset process for a given
	// email. It reports success for unknown addresses too, so callers cannot
	// probe which emails have accounts.
	RequestPasswordReset(ctx context.Context, email string) error

	// IssueResetToken mints a signed reset token for the user with the given
	// lifetime.
	IssueResetToken(user *model.User, ttl time.Duration) (string, error)

	// VerifyResetToken checks a reset token and tags the outcome. It never
	// returns an error: any failure is folded into the verification status.
	VerifyResetToken(ctx context.Context, token string) TokenVerification

	// ResetPassword verifies the token and commits the new password.
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// TokenStatus tags the outcome of reset token verification.
type TokenStatus int

const (
	// TokenValid means the signature and expiry check out and the user exists.
	TokenValid TokenStatus = iota
	// TokenExpired means the signature is fine but the expiry has passed.
	TokenExpired
	// TokenMalformed covers decode and signature failures.
	TokenMalformed
	// TokenUserGone means the embedded user no longer exists.
	TokenUserGone
)

// TokenVerification is the tagged result of VerifyResetToken. User is set
// only when Status is TokenValid.
type TokenVerification struct {
	Status TokenStatus
	User   *model.User
}

var (
	ErrTokenExpired = errors.New("password reset token has expired")
	ErrInvalidToken = errors.New("invalid password reset token")
)

// PasswordResetConfig holds settings for the password reset usecase. Issuer
// must match the issuer and audience the JWTAuthenticator was built with.
type PasswordResetConfig struct {
	SecretKey string
	BaseURL   string
	Issuer    string
	TokenTTL  time.Duration
}

// ResetClaims are the claims embedded in a password reset token.
type ResetClaims struct {
	jwt.RegisteredClaims
}

type passwordResetUsecase struct {
	userRepo repository.UserRepository
	jwtAuth  auth.JWTAuthenticator
	notifier Notifier
	cfg      PasswordResetConfig
	logger   *zerolog.Logger
}

// NewPasswordResetUsecase creates a new instance of PasswordResetUsecase.
func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	jwtAuth auth.JWTAuthenticator,
	notifier Notifier,
	cfg PasswordResetConfig,
	logger *zerolog.Logger,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		userRepo: userRepo,
		jwtAuth:  jwtAuth,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
	}
}

func (u *passwordResetUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// To prevent email enumeration, do not reveal that the email
			// does not exist.
			return nil
		}
		return err
	}

	token, err := u.IssueResetToken(user, u.cfg.TokenTTL)
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset_password/%s", u.cfg.BaseURL, token)

	return u.notifier.SendPasswordResetEmail(user.Email, resetURL, u.cfg.TokenTTL)
}

func (u *passwordResetUsecase) IssueResetToken(user *model.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := ResetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    u.cfg.Issuer,
			Audience:  jwt.ClaimStrings{u.cfg.Issuer},
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	return u.jwtAuth.GenerateToken(claims, u.cfg.SecretKey)
}

func (u *passwordResetUsecase) VerifyResetToken(ctx context.Context, token string) TokenVerification {
	var claims ResetClaims
	if _, err := u.jwtAuth.ValidateTokenWithClaims(token, u.cfg.SecretKey, &claims); err != nil {
		status := TokenMalformed
		if errors.Is(err, jwt.ErrTokenExpired) {
			status = TokenExpired
		}
		u.logger.Debug().Err(err).Msg("password reset token rejected")
		return TokenVerification{Status: status}
	}

	user, err := u.userRepo.GetUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenVerification{Status: TokenUserGone}
		}
		u.logger.Error().Err(err).Msg("failed to load user for reset token")
		return TokenVerification{Status: TokenUserGone}
	}

	return TokenVerification{Status: TokenValid, User: user}
}

func (u *passwordResetUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	verification := u.VerifyResetToken(ctx, token)
	switch verification.Status {
	case TokenValid:
	case TokenExpired:
		return ErrTokenExpired
	default:
		return ErrInvalidToken
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	_, err = u.userRepo.UpdateUser(ctx, verification.User.ID, repository.UpdateUserParams{
		PasswordHash: &passwordHash,
	})

	return err
}
