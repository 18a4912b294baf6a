package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"catalog-api/internal/model"
	"catalog-api/pkg/apierror"
)

// UserService backs the admin user management routes.
type UserService struct {
	users      userStore
	bcryptCost int
	now        func() time.Time
}

func NewUserService(users userStore, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost, now: func() time.Time { return time.Now().UTC() }}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierror.NotFound("User not found")
	}
	return user, err
}

func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	email := normalizeEmail(req.Email)
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.User{}, err
	}
	if exists {
		return model.User{}, apierror.BadRequest("User already exists")
	}

	hash, err := hashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return model.User{}, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}

	now := s.now()
	user := model.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return model.User{}, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id string, req model.UpdateUserRequest) (model.User, error) {
	upd := model.UserUpdate{Name: req.Name, Role: req.Role}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		upd.Email = &email
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password, s.bcryptCost)
		if err != nil {
			return model.User{}, err
		}
		upd.PasswordHash = &hash
	}

	user, err := s.users.Update(ctx, id, upd)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierror.NotFound("User not found")
	}
	return user, err
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	err := s.users.Delete(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return apierror.NotFound("User not found")
	}
	return err
}
