package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"catalog-api/internal/model"
	"catalog-api/pkg/apierror"
)

const resetTokenBytes = 32

type userStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmailWithPassword(ctx context.Context, email string) (model.User, error)
	FindIDByEmail(ctx context.Context, email string) (string, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, u model.User) error
	Update(ctx context.Context, id string, upd model.UserUpdate) (model.User, error)
	Delete(ctx context.Context, id string) error
	SetResetToken(ctx context.Context, userID string, tokenHash string, expiresAt time.Time) error
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (model.User, error)
	ResetPassword(ctx context.Context, userID string, passwordHash string) error
}

type tokenIssuer interface {
	Issue(userID string) (string, time.Time, error)
}

type AuthService struct {
	users      userStore
	tokens     tokenIssuer
	bcryptCost int
	resetTTL   time.Duration
	now        func() time.Time
}

func NewAuthService(users userStore, tokens tokenIssuer, bcryptCost int, resetTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		resetTTL:   resetTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthSession, error) {
	email := normalizeEmail(req.Email)

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.AuthSession{}, err
	}
	if exists {
		return model.AuthSession{}, apierror.BadRequest("User already exists")
	}

	hash, err := hashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return model.AuthSession{}, err
	}

	now := s.now()
	user := model.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return model.AuthSession{}, err
	}

	return s.session(user)
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthSession, error) {
	user, err := s.users.FindByEmailWithPassword(ctx, req.Email)
	if errors.Is(err, model.ErrNotFound) {
		return model.AuthSession{}, invalidCredentials()
	}
	if err != nil {
		return model.AuthSession{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.AuthSession{}, invalidCredentials()
	}

	return s.session(user)
}

func (s *AuthService) Me(ctx context.Context, userID string) (model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierror.NotFound("User not found")
	}
	return user, err
}

// ForgotPassword stores the hash of a fresh reset token and returns the plaintext once.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (model.PasswordResetTicket, error) {
	userID, err := s.users.FindIDByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.PasswordResetTicket{}, apierror.NotFound("No user found with that email")
	}
	if err != nil {
		return model.PasswordResetTicket{}, err
	}

	plaintext, hash, expiresAt, err := s.GenerateResetToken(s.now())
	if err != nil {
		return model.PasswordResetTicket{}, err
	}
	if err := s.users.SetResetToken(ctx, userID, hash, expiresAt); err != nil {
		return model.PasswordResetTicket{}, err
	}

	return model.PasswordResetTicket{ResetToken: plaintext}, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token string, password string) (model.AuthSession, error) {
	user, err := s.users.FindByResetToken(ctx, HashResetToken(token), s.now())
	if errors.Is(err, model.ErrNotFound) {
		return model.AuthSession{}, apierror.BadRequest("Invalid or expired reset token")
	}
	if err != nil {
		return model.AuthSession{}, err
	}

	hash, err := hashPassword(password, s.bcryptCost)
	if err != nil {
		return model.AuthSession{}, err
	}
	if err := s.users.ResetPassword(ctx, user.ID, hash); err != nil {
		return model.AuthSession{}, err
	}

	return s.session(user)
}

func (s *AuthService) UpdateMe(ctx context.Context, userID string, req model.UpdateMeRequest) (model.User, error) {
	upd := model.UserUpdate{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		upd.Name = &name
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		ownerID, err := s.users.FindIDByEmail(ctx, email)
		switch {
		case err == nil && ownerID != userID:
			return model.User{}, apierror.BadRequest("Email already in use")
		case err != nil && !errors.Is(err, model.ErrNotFound):
			return model.User{}, err
		}
		upd.Email = &email
	}

	user, err := s.users.Update(ctx, userID, upd)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierror.NotFound("User not found")
	}
	return user, err
}

// GenerateResetToken returns a random hex token, the SHA-256 hex digest that is persisted, and its expiry.
func (s *AuthService) GenerateResetToken(now time.Time) (string, string, time.Time, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", time.Time{}, fmt.Errorf("generate reset token: %w", err)
	}
	plaintext := hex.EncodeToString(buf)
	return plaintext, HashResetToken(plaintext), now.Add(s.resetTTL), nil
}

func HashResetToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

func (s *AuthService) session(user model.User) (model.AuthSession, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return model.AuthSession{}, err
	}
	return model.AuthSession{Token: token, ExpiresAt: expiresAt, User: user.AuthUser()}, nil
}

func invalidCredentials() error {
	return apierror.Unauthenticated("Invalid email or password")
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
