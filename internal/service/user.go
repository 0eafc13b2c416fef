package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/collabinsight/server/internal/domain"
)

// UserAdminService is the admin-only account management surface. The admin
// account role is independent of per-project roles: admins get no special
// powers inside project workflows.
type UserAdminService struct {
	users UserStore
}

// NewUserAdminService creates a new UserAdminService.
func NewUserAdminService(users UserStore) *UserAdminService {
	return &UserAdminService{users: users}
}

func (s *UserAdminService) requireAdmin(ctx context.Context, requesterID string) error {
	requester, err := s.users.FindByID(ctx, requesterID)
	if err != nil {
		return err
	}
	if requester.Role != domain.AccountRoleAdmin {
		return fmt.Errorf("%w: administrator access required", domain.ErrForbidden)
	}
	return nil
}

// List returns all accounts.
func (s *UserAdminService) List(ctx context.Context, requesterID string) ([]domain.User, error) {
	if err := s.requireAdmin(ctx, requesterID); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// Get returns a single account.
func (s *UserAdminService) Get(ctx context.Context, requesterID, userID string) (*domain.User, error) {
	if err := s.requireAdmin(ctx, requesterID); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, userID)
}

// CreateUserInput carries the fields accepted on admin user creation.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     domain.AccountRole
}

// Create adds an account with an explicit role.
func (s *UserAdminService) Create(ctx context.Context, requesterID string, in CreateUserInput) (*domain.User, error) {
	if err := s.requireAdmin(ctx, requesterID); err != nil {
		return nil, err
	}

	if len(in.Password) < 6 {
		return nil, &domain.ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}

	taken, err := s.users.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: username or email already registered", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := in.Role
	if role == "" {
		role = domain.AccountRoleUser
	}

	return s.users.Create(ctx, domain.User{
		Username:     in.Username,
		Email:        in.Email,
		Role:         role,
		PasswordHash: string(hash),
	})
}

// UpdateUserInput carries a partial account update; nil fields are left untouched.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Role     *domain.AccountRole
}

// Update modifies an account's profile or role.
func (s *UserAdminService) Update(ctx context.Context, requesterID, userID string, in UpdateUserInput) (*domain.User, error) {
	if err := s.requireAdmin(ctx, requesterID); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Role != nil {
		user.Role = *in.Role
	}

	return s.users.Update(ctx, *user)
}

// Delete removes an account. Admins cannot delete themselves.
func (s *UserAdminService) Delete(ctx context.Context, requesterID, userID string) error {
	if err := s.requireAdmin(ctx, requesterID); err != nil {
		return err
	}
	if requesterID == userID {
		return fmt.Errorf("%w: cannot delete your own account", domain.ErrInvalidInput)
	}
	return s.users.Delete(ctx, userID)
}
