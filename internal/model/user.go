package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User never serializes its password hash or reset-token fields.
type User struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"`
	Role                string     `json:"role"`
	ResetPasswordToken  *string    `json:"-"`
	ResetPasswordExpire *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AuthUser is the reduced user payload returned alongside a session token.
type AuthUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u User) AuthUser() AuthUser {
	return AuthUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type AuthSession struct {
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
	User      AuthUser  `json:"user"`
}

type PasswordResetTicket struct {
	ResetToken string `json:"reset_token"`
}

type UserUpdate struct {
	Name         *string
	Email        *string
	Role         *string
	PasswordHash *string
}
