package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/id"
	"github.com/taskdeck/taskdeck/internal/metrics"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/repository"
)

// minPasswordLength is exclusive: passwords must be strictly longer.
const minPasswordLength = 6

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserService handles account business logic.
type UserService struct {
	repo    *repository.Repository
	cache   *cache.Cache
	tokens  *auth.TokenService
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo *repository.Repository, cacheClient *cache.Cache, tokens *auth.TokenService, recorder metrics.Recorder, logger *slog.Logger) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		repo:    repo,
		cache:   cacheClient,
		tokens:  tokens,
		metrics: recorder,
		logger:  logger,
	}
}

// TokenTTL exposes the configured token lifetime for response bodies.
func (s *UserService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// SignupInput defines input for creating an account.
type SignupInput struct {
	Name     string
	Age      int
	Email    string
	Password string
}

// Signup validates and creates a new account, then issues its first token.
func (s *UserService) Signup(ctx context.Context, input SignupInput) (*model.User, string, time.Time, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)

	if err := validateName(name); err != nil {
		return nil, "", time.Time{}, err
	}
	if err := validateAge(input.Age); err != nil {
		return nil, "", time.Time{}, err
	}
	if err := validateEmail(email); err != nil {
		return nil, "", time.Time{}, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(strings.TrimSpace(input.Password))
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.New()
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("generate user id: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           userID,
		Name:         name,
		Age:          input.Age,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, "", time.Time{}, ErrEmailExists
		}
		return nil, "", time.Time{}, fmt.Errorf("create user: %w", err)
	}

	token, expiresAt, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncSignup()

	return user, token, expiresAt, nil
}

// Login authenticates by email and password and issues a new token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, string, time.Time, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, fmt.Errorf("lookup user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("verify password: %w", err)
	}
	if !match {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncLogin()

	return user, token, expiresAt, nil
}

// Logout revokes exactly the token that authorized the current request.
func (s *UserService) Logout(ctx context.Context, userID, token string) error {
	return s.tokens.RevokeOne(ctx, userID, token)
}

// LogoutAll revokes every active token for the user. The call is
// synchronous: once it returns, no previously issued token authorizes.
func (s *UserService) LogoutAll(ctx context.Context, userID string) error {
	return s.tokens.RevokeAll(ctx, userID)
}

// UpdateInput carries the whitelisted mutable fields; nil means unchanged.
type UpdateInput struct {
	Name     *string
	Age      *int
	Email    *string
	Password *string
}

// Update applies whitelisted changes to the user's own record.
// The password is re-hashed only when it is part of the change set.
func (s *UserService) Update(ctx context.Context, user *model.User, input UpdateInput) (*model.User, error) {
	updated := *user

	if input.Name != nil {
		updated.Name = strings.TrimSpace(*input.Name)
		if err := validateName(updated.Name); err != nil {
			return nil, err
		}
	}
	if input.Age != nil {
		updated.Age = *input.Age
		if err := validateAge(updated.Age); err != nil {
			return nil, err
		}
	}
	if input.Email != nil {
		updated.Email = normalizeEmail(*input.Email)
		if err := validateEmail(updated.Email); err != nil {
			return nil, err
		}
	}
	if input.Password != nil {
		if err := validatePassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(strings.TrimSpace(*input.Password))
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		updated.PasswordHash = hash
	}

	updated.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateUser(ctx, &updated); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return nil, ErrEmailExists
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.invalidateProfile(ctx, updated.ID)

	return &updated, nil
}

// Remove deletes the account and cascades to every owned task and token
// inside one transaction.
func (s *UserService) Remove(ctx context.Context, userID string) error {
	if err := s.repo.DeleteUserCascade(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.invalidateProfile(ctx, userID)
	s.metrics.IncUserDeleted()

	return nil
}

// FetchByID is the public profile lookup: no ownership check, stripped
// representation, read-through cached.
func (s *UserService) FetchByID(ctx context.Context, userID string) (*model.PublicUser, error) {
	if !id.Valid(userID) {
		return nil, ErrMalformedID
	}

	if s.cache != nil {
		if profile, err := s.cache.GetProfile(ctx, userID); err == nil {
			s.metrics.IncProfileCacheHit()
			return profile, nil
		}
		s.metrics.IncProfileCacheMiss()
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	profile := user.PublicView()

	if s.cache != nil {
		if err := s.cache.SetProfile(ctx, profile); err != nil {
			s.logger.Warn("profile cache write failed", "user_id", userID, "error", err)
		}
	}

	return profile, nil
}

// SetProfileImage validates, normalizes and stores an uploaded image.
// Returns the normalized PNG bytes that were persisted.
func (s *UserService) SetProfileImage(ctx context.Context, userID, filename string, raw []byte, maxSize int64) ([]byte, error) {
	if !allowedImageName(filename) {
		return nil, ErrImageType
	}
	if int64(len(raw)) > maxSize {
		return nil, ErrImageTooLarge
	}

	normalized, err := NormalizeImage(raw)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetProfilePic(ctx, userID, normalized); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("store profile picture: %w", err)
	}

	return normalized, nil
}

// GetProfileImage returns the stored PNG bytes.
func (s *UserService) GetProfileImage(ctx context.Context, userID string) ([]byte, error) {
	pic, err := s.repo.GetProfilePic(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrProfilePicture):
			return nil, ErrProfilePicEmpty
		}
		return nil, fmt.Errorf("get profile picture: %w", err)
	}
	return pic, nil
}

// ClearProfileImage removes the stored image.
func (s *UserService) ClearProfileImage(ctx context.Context, userID string) error {
	if err := s.repo.SetProfilePic(ctx, userID, nil); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("clear profile picture: %w", err)
	}
	return nil
}

func (s *UserService) invalidateProfile(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProfile(ctx, userID); err != nil {
		s.logger.Warn("profile cache invalidation failed", "user_id", userID, "error", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	return nil
}

func validateAge(age int) error {
	if age < 0 {
		return ErrInvalidAge
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	trimmed := strings.TrimSpace(password)
	if len(trimmed) <= minPasswordLength {
		return ErrPasswordTooShort
	}
	if strings.Contains(strings.ToLower(trimmed), "password") {
		return ErrPasswordForbidden
	}
	return nil
}

// allowedImageName checks the upload filename extension.
func allowedImageName(filename string) bool {
	lower := strings.ToLower(filename)
	return strings.HasSuffix(lower, ".jpg") ||
		strings.HasSuffix(lower, ".jpeg") ||
		strings.HasSuffix(lower, ".png")
}
