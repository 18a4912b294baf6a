package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"catalog-api/internal/model"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func newAuthFixture(t *testing.T) (*AuthService, *fakeUsers, *clock) {
	t.Helper()
	users := newFakeUsers()
	c := &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewAuthService(users, &fakeTokens{}, bcrypt.MinCost, 10*time.Minute)
	svc.now = c.Now
	return svc, users, c
}

func register(t *testing.T, svc *AuthService) model.AuthSession {
	t.Helper()
	session, err := svc.Register(context.Background(), model.RegisterRequest{
		Name: "Alice", Email: "A@B.com ", Password: "secret",
	})
	require.NoError(t, err)
	return session
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, users, _ := newAuthFixture(t)

	session := register(t, svc)

	assert.Equal(t, "token-for-"+session.User.ID, session.Token)
	assert.Equal(t, "a@b.com", session.User.Email)
	assert.Equal(t, model.RoleUser, session.User.Role)

	stored := users.raw(session.User.ID)
	assert.NotEqual(t, "secret", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	register(t, svc)

	_, err := svc.Register(context.Background(), model.RegisterRequest{Name: "Alice2", Email: "a@b.com", Password: "secret"})
	requireAPIError(t, err, 400, "User already exists")
}

func TestLogin(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	registered := register(t, svc)
	ctx := context.Background()

	session, err := svc.Login(ctx, model.LoginRequest{Email: "a@b.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, session.User.ID)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "a@b.com", Password: "wrong"})
	requireAPIError(t, err, 401, "Invalid email or password")

	_, err = svc.Login(ctx, model.LoginRequest{Email: "nobody@b.com", Password: "secret"})
	requireAPIError(t, err, 401, "Invalid email or password")
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.ForgotPassword(context.Background(), "ghost@b.com")
	requireAPIError(t, err, 404, "No user found with that email")
}

func TestResetTokenStoredHashed(t *testing.T) {
	svc, users, c := newAuthFixture(t)
	session := register(t, svc)

	ticket, err := svc.ForgotPassword(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Len(t, ticket.ResetToken, 64)

	stored := users.raw(session.User.ID)
	require.NotNil(t, stored.ResetPasswordToken)
	assert.Equal(t, HashResetToken(ticket.ResetToken), *stored.ResetPasswordToken)
	assert.NotEqual(t, ticket.ResetToken, *stored.ResetPasswordToken)
	assert.Equal(t, c.now.Add(10*time.Minute), *stored.ResetPasswordExpire)
}

func TestResetTokenSingleUse(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	session := register(t, svc)
	ctx := context.Background()

	ticket, err := svc.ForgotPassword(ctx, "a@b.com")
	require.NoError(t, err)

	reset, err := svc.ResetPassword(ctx, ticket.ResetToken, "newpass")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, reset.User.ID)
	assert.NotEmpty(t, reset.Token)

	stored := users.raw(session.User.ID)
	assert.Nil(t, stored.ResetPasswordToken)
	assert.Nil(t, stored.ResetPasswordExpire)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpass")))

	_, err = svc.ResetPassword(ctx, ticket.ResetToken, "another")
	requireAPIError(t, err, 400, "Invalid or expired reset token")
}

func TestResetTokenExpires(t *testing.T) {
	svc, _, c := newAuthFixture(t)
	register(t, svc)
	ctx := context.Background()

	ticket, err := svc.ForgotPassword(ctx, "a@b.com")
	require.NoError(t, err)

	c.now = c.now.Add(10 * time.Minute)

	_, err = svc.ResetPassword(ctx, ticket.ResetToken, "newpass")
	requireAPIError(t, err, 400, "Invalid or expired reset token")
}

func TestResetPasswordUnknownToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.ResetPassword(context.Background(), "deadbeef", "newpass")
	requireAPIError(t, err, 400, "Invalid or expired reset token")
}

func TestUpdateMe(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()
	alice := register(t, svc)
	bob, err := svc.Register(ctx, model.RegisterRequest{Name: "Bobby", Email: "bob@b.com", Password: "secret"})
	require.NoError(t, err)

	taken := "bob@b.com"
	_, err = svc.UpdateMe(ctx, alice.User.ID, model.UpdateMeRequest{Email: &taken})
	requireAPIError(t, err, 400, "Email already in use")

	same := "A@b.com"
	name := "Alice Cooper"
	updated, err := svc.UpdateMe(ctx, alice.User.ID, model.UpdateMeRequest{Name: &name, Email: &same})
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", updated.Name)
	assert.Equal(t, "a@b.com", updated.Email)

	_, err = svc.UpdateMe(ctx, "missing", model.UpdateMeRequest{Name: &name})
	requireAPIError(t, err, 404, "User not found")

	me, err := svc.Me(ctx, bob.User.ID)
	require.NoError(t, err)
	assert.Empty(t, me.PasswordHash)
}

func TestUserServiceAdminFlows(t *testing.T) {
	users := newFakeUsers()
	svc := NewUserService(users, bcrypt.MinCost)
	ctx := context.Background()

	created, err := svc.Create(ctx, model.CreateUserRequest{Name: "Carol", Email: "carol@b.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, created.Role)
	assert.Empty(t, created.PasswordHash)

	_, err = svc.Create(ctx, model.CreateUserRequest{Name: "Carol", Email: "carol@b.com", Password: "secret"})
	requireAPIError(t, err, 400, "User already exists")

	pw := "changed"
	role := model.RoleAdmin
	updated, err := svc.Update(ctx, created.ID, model.UpdateUserRequest{Password: &pw, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, updated.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users.raw(created.ID).PasswordHash), []byte("changed")))

	require.NoError(t, svc.Delete(ctx, created.ID))
	requireAPIError(t, svc.Delete(ctx, created.ID), 404, "User not found")
}
