package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/prepwise/airecruiter/internal/cache"
	"github.com/prepwise/airecruiter/internal/models"
	pgrepo "github.com/prepwise/airecruiter/internal/repositories/postgres"
	"github.com/prepwise/airecruiter/internal/utils"
)

const userCacheTTL = 10 * time.Minute

type UserService interface {
	// EnsureUser creates the user on first sight and returns the stored row
	// afterwards. Keyed by email; existing rows are never modified.
	EnsureUser(ctx context.Context, name, imageURL, email string) (*models.User, error)
}

type userService struct {
	users pgrepo.UserRepository
	cache cache.Cache
}

func NewUserService(users pgrepo.UserRepository, c cache.Cache) UserService {
	return &userService{users: users, cache: c}
}

func (s *userService) EnsureUser(ctx context.Context, name, imageURL, email string) (*models.User, error) {
	const op = "UserService.EnsureUser"

	if email == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "email is required", nil)
	}

	key := "user:email:" + email
	if s.cache != nil {
		var cached models.User
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		s.cacheUser(ctx, key, existing)
		return existing, nil
	case !errors.Is(err, utils.ErrNotFound):
		return nil, utils.E(utils.CodeInternal, op, "failed to look up user", err)
	}

	row := &models.User{
		ID:        uuid.NewString(),
		Name:      name,
		ImageURL:  imageURL,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create user", err)
	}

	// re-read: a concurrent first-sight insert may have won the conflict
	stored, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to read back user", err)
	}

	s.cacheUser(ctx, key, stored)
	return stored, nil
}

func (s *userService) cacheUser(ctx context.Context, key string, u *models.User) {
	if s.cache == nil {
		return
	}
	_ = s.cache.SetJSON(ctx, key, u, userCacheTTL)
}
