package service

import (
	"strings"

	"github.com/nestfolio/nestfolio-backend/internal/domain"
)

// ProfileService handles profile-related business logic
type ProfileService struct {
	userRepo domain.UserRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo domain.UserRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

// GetProfile retrieves a user's profile by Auth0 ID
func (s *ProfileService) GetProfile(auth0ID string) (*domain.User, error) {
	return s.userRepo.GetByAuth0ID(auth0ID)
}

// UpdateProfile updates a user's name by Auth0 ID
func (s *ProfileService) UpdateProfile(auth0ID string, name string) (*domain.User, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, domain.ErrNameRequired
	}
	if len(trimmed) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	return s.userRepo.UpdateName(auth0ID, trimmed)
}
