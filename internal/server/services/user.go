package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	passwordvalidator "github.com/wagslane/go-password-validator"
	"golang.org/x/crypto/bcrypt"

	"github.com/uncovr/uncovr/internal/common"
	"github.com/uncovr/uncovr/internal/server/auth"
	sc "github.com/uncovr/uncovr/internal/server/config"
	"github.com/uncovr/uncovr/internal/server/models"
	"github.com/uncovr/uncovr/internal/server/repositories/repomanager"
)

// minPasswordEntropy is the bar new passwords have to clear. Roughly a
// 10-character mixed-case password.
const minPasswordEntropy = 50

// UserService implements account lifecycle: registration, login, token
// verification, logout, and profile maintenance. Issued JWTs are paired
// with an access_tokens row so logout can revoke them.
type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
}

func NewUserService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *UserService {
	return &UserService{
		db:            db,
		repomanager:   repomanager,
		jwtSecret:     []byte(config.SecretKey),
		tokenValidity: config.TokenValidity,
	}
}

func (s *UserService) issueToken(ctx context.Context, userID int64) (string, error) {
	record := &models.AccessToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.tokenValidity),
	}

	if err := s.repomanager.Tokens(s.db).Create(ctx, record); err != nil {
		return "", err
	}

	return auth.GenerateToken(userID, record.ID, s.jwtSecret, s.tokenValidity)
}

func validateNewPassword(password, confirmation string) error {
	if password != confirmation {
		return fmt.Errorf("%w: password confirmation does not match", common.ErrorValidation)
	}
	if err := passwordvalidator.Validate(password, minPasswordEntropy); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorWeakPassword, err)
	}
	return nil
}

func (s *UserService) Register(ctx context.Context, name, email, password, confirmation string) (*models.User, string, error) {

	if name == "" || email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: all fields are required", common.ErrorValidation)
	}
	if err := validateNewPassword(password, confirmation); err != nil {
		return nil, "", err
	}

	userRepo := s.repomanager.Users(s.db)

	_, err := userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, "", common.ErrorEmailTaken
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, "", common.ErrorInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	user, err := userRepo.Create(ctx, &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// Authenticate verifies a bearer token string: signature and expiry via the
// JWT itself, revocation via the access_tokens record named by its jti.
func (s *UserService) Authenticate(ctx context.Context, tokenString string) (int64, string, error) {

	userID, tokenID, err := auth.ParseToken(tokenString, s.jwtSecret)
	if err != nil {
		return 0, "", err
	}

	record, err := s.repomanager.Tokens(s.db).Get(ctx, tokenID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, "", common.ErrInvalidToken
		}
		return 0, "", common.ErrorInternal
	}

	if time.Now().After(record.ExpiresAt) {
		return 0, "", common.ErrTokenExpired
	}

	return userID, tokenID, nil
}

// Logout revokes the token record. Revoking an already-revoked token is
// not an error.
func (s *UserService) Logout(ctx context.Context, tokenID string) error {
	if err := s.repomanager.Tokens(s.db).Delete(ctx, tokenID); err != nil {
		return common.ErrorInternal
	}
	return nil
}

func (s *UserService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// UpdateProfile changes the account's display name and returns the stored
// row, so callers always see the server's version of the record.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, name string) (*models.User, error) {

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	}

	user, err := s.repomanager.Users(s.db).UpdateName(ctx, userID, name)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

// ChangePassword verifies the current password before storing the new hash.
// Existing tokens stay valid: a password change is not a logout.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, current, password, confirmation string) error {

	if current == "" || password == "" {
		return fmt.Errorf("%w: all fields are required", common.ErrorValidation)
	}
	if err := validateNewPassword(password, confirmation); err != nil {
		return err
	}

	userRepo := s.repomanager.Users(s.db)

	user, err := userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return fmt.Errorf("%w: current password is incorrect", common.ErrorValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return common.ErrorInternal
	}

	if err := userRepo.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		return common.ErrorInternal
	}

	return nil
}

// CleanupExpiredTokens removes access token records past their expiry.
// Run periodically; the returned count is informational.
func (s *UserService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	return s.repomanager.Tokens(s.db).DeleteExpired(ctx)
}
