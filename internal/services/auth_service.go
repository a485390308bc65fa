package services

import (
	"errors"
	"fmt"
	"time"

	"friendgift/internal/errs"
	"friendgift/internal/models"
	"friendgift/internal/repositories"

	"go.uber.org/zap"
)

// RegistrationOutcome is the result of RegisterUser.
type RegistrationOutcome int

const (
	RegistrationCreated RegistrationOutcome = iota
	RegistrationExists
	RegistrationInvalid
)

func (o RegistrationOutcome) String() string {
	switch o {
	case RegistrationCreated:
		return "created"
	case RegistrationExists:
		return "exists"
	case RegistrationInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("RegistrationOutcome(%d)", int(o))
	}
}

// AuthService handles registration, credential checks and token issuance.
type AuthService struct {
	userRepo repositories.UserRepository
	tokens   TokenIssuer
	norm     *normalizer
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		norm:     newNormalizer(),
		logger:   logger,
		now:      time.Now,
	}
}

// RegisterUser normalizes the input and stores a new user.
// Validation runs before any lookup so malformed input never reveals whether a
// username exists. The error is non-nil only for datastore failures.
func (s *AuthService) RegisterUser(username, password string) (RegistrationOutcome, error) {
	outcome, _, err := s.register(username, password)
	return outcome, err
}

// register returns the outcome together with the normalized username.
func (s *AuthService) register(username, password string) (RegistrationOutcome, string, error) {
	creds, ok := s.norm.credentials(username, password)
	if !ok {
		return RegistrationInvalid, "", nil
	}

	user := &models.User{
		Username:  creds.Username,
		Password:  creds.Password,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return RegistrationExists, user.Username, nil
		}
		return RegistrationInvalid, "", fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("user registered", zap.String("username", user.Username))
	return RegistrationCreated, user.Username, nil
}

// IsValidCredentials reports whether the pair matches a stored user. Unknown
// users and wrong passwords both yield false.
func (s *AuthService) IsValidCredentials(username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check credentials: %w", err)
	}
	return user.Password == password, nil
}

// Register creates the user and returns a token for it.
func (s *AuthService) Register(username, password string) (string, error) {
	outcome, normalized, err := s.register(username, password)
	if err != nil {
		return "", err
	}
	switch outcome {
	case RegistrationInvalid:
		return "", fmt.Errorf("registration: %w", errs.ErrInvalidInput)
	case RegistrationExists:
		return "", fmt.Errorf("registration: %w", errs.ErrAlreadyExists)
	}
	return s.tokens.Issue(normalized)
}

// Login checks the credentials and returns a token.
func (s *AuthService) Login(username, password string) (string, error) {
	ok, err := s.IsValidCredentials(username, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errs.ErrInvalidCredentials
	}
	return s.tokens.Issue(username)
}
