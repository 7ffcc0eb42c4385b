package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/parleyhq/parley/ent"
	"github.com/parleyhq/parley/ent/user"
)

// UserService manages user records
type UserService struct {
	client *ent.Client
}

// NewUserService creates a new UserService
func NewUserService(client *ent.Client) *UserService {
	return &UserService{client: client}
}

// GetOrCreateUser returns the user with the given email, creating it if
// necessary.
func (s *UserService) GetOrCreateUser(ctx context.Context, email, displayName string) (*ent.User, error) {
	if email == "" {
		return nil, NewValidationError("email", "required")
	}

	existing, err := s.client.User.Query().
		Where(user.EmailEQ(email)).
		Only(ctx)
	if err == nil {
		return existing, nil
	}
	if !ent.IsNotFound(err) {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	create := s.client.User.Create().
		SetID(uuid.New().String()).
		SetEmail(email)
	if displayName != "" {
		create.SetDisplayName(displayName)
	}
	created, err := create.Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			// Lost a create race; the row exists now.
			return s.client.User.Query().Where(user.EmailEQ(email)).Only(ctx)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// GetUser retrieves a user by id
func (s *UserService) GetUser(ctx context.Context, id string) (*ent.User, error) {
	u, err := s.client.User.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}
