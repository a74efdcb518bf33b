package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/nestfolio/nestfolio-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// AuthService handles authentication-related business logic
type AuthService struct {
	userRepo      domain.UserRepository
	householdRepo domain.HouseholdRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, householdRepo domain.HouseholdRepository) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		householdRepo: householdRepo,
	}
}

// AuthResult represents the result of an authentication operation
type AuthResult struct {
	User      *domain.User
	Household *domain.Household
	IsNewUser bool
}

// AuthenticateUser handles the authentication flow after Auth0 callback
// Creates user and household if they don't exist
func (s *AuthService) AuthenticateUser(auth0ID, email string, name, pictureURL *string) (*AuthResult, error) {
	user, err := s.userRepo.CreateOrGetByAuth0ID(auth0ID, email, name, pictureURL)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to create or get user")
		return nil, err
	}

	// Check if this is a new user by trying to get their household
	household, err := s.householdRepo.GetByUserID(user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrHouseholdNotFound) {
			// New user - create default household
			household, err = s.createDefaultHousehold(user.ID)
			if err != nil {
				log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to create default household")
				return nil, err
			}
			log.Info().Str("user_id", user.ID.String()).Msg("Created new user with default household")
			return &AuthResult{
				User:      user,
				Household: household,
				IsNewUser: true,
			}, nil
		}
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to get household")
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Msg("Existing user authenticated")
	return &AuthResult{
		User:      user,
		Household: household,
		IsNewUser: false,
	}, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}

// GetUserByAuth0ID retrieves a user by their Auth0 ID
func (s *AuthService) GetUserByAuth0ID(auth0ID string) (*domain.User, error) {
	return s.userRepo.GetByAuth0ID(auth0ID)
}

// GetHouseholdByUserID retrieves a user's household
func (s *AuthService) GetHouseholdByUserID(userID uuid.UUID) (*domain.Household, error) {
	return s.householdRepo.GetByUserID(userID)
}

// GetHouseholdByAuth0ID retrieves a user's household by their Auth0 ID
func (s *AuthService) GetHouseholdByAuth0ID(auth0ID string) (*domain.Household, error) {
	return s.householdRepo.GetByUserAuth0ID(auth0ID)
}

// GetHouseholdByID retrieves a household by its ID
func (s *AuthService) GetHouseholdByID(id int32) (*domain.Household, error) {
	return s.householdRepo.GetByID(id)
}

func (s *AuthService) createDefaultHousehold(userID uuid.UUID) (*domain.Household, error) {
	household := &domain.Household{
		UserID: userID,
		Name:   "Personal",
	}
	return s.householdRepo.Create(household)
}
