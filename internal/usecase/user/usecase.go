package user

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	domain "user-api/internal/domain/user"
	apperrors "user-api/pkg/errors"
	"user-api/pkg/security"
)

// usernameTakenMessage is the violation reported when another user already owns the username.
const usernameTakenMessage = "username is already taken"

// Repository defines the interface for user data access operations.
// Lookups return (nil, nil) when no record matches.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (int64, error)                // Create a new user and return its ID
	GetByID(ctx context.Context, id int64) (*domain.User, error)              // Retrieve user by ID
	GetByUsername(ctx context.Context, username string) (*domain.User, error) // Retrieve user by username
	Update(ctx context.Context, u *domain.User) error                         // Update existing user
	Delete(ctx context.Context, id int64) error                               // Delete user by ID
}

// PasswordHasher turns plaintext passwords into digests and checks them.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// RecordValidator reports constraint violations on a candidate record.
type RecordValidator interface {
	Validate(record any) []string
}

// Usecase implements the business logic for user management operations.
// It is the only writer of user records.
type Usecase struct {
	repo      Repository      // Repository for data access
	hasher    PasswordHasher  // Hasher for stored credentials
	validator RecordValidator // Validator applied before every write
	log       *zap.Logger     // Logger for structured logging

	dummyOnce   sync.Once
	dummyDigest string
}

// New creates a new instance of Usecase with the provided collaborators.
func New(r Repository, h PasswordHasher, v RecordValidator, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, hasher: h, validator: v, log: log}
}

// CreateUser hashes the password, validates the new record and persists it.
// Nothing is written when validation fails.
func (uc *Usecase) CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error) {
	uc.log.Info("creating user", zap.String("username", in.Username), zap.String("email", in.Email))

	u := &domain.User{}
	violations, err := uc.apply(u, in.Username, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	taken, err := uc.usernameTaken(ctx, u)
	if err != nil {
		return nil, err
	}
	if taken {
		violations = append(violations, usernameTakenMessage)
	}

	if len(violations) > 0 {
		uc.log.Warn("create user validation failed", zap.Strings("violations", violations))
		return nil, apperrors.NewValidationError(violations...)
	}

	id, err := uc.repo.Create(ctx, u)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			uc.log.Warn("username already exists", zap.String("username", u.Username))
			return nil, apperrors.NewValidationError(usernameTakenMessage)
		}
		uc.log.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	uc.log.Info("user created", zap.Int64("id", id))
	return &CreateUserResponse{ID: id}, nil
}

// GetUser retrieves a user by ID. A missing user is reported as (nil, nil).
func (uc *Usecase) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		uc.log.Debug("get user with non-positive id", zap.Int64("id", id))
		return nil, nil
	}

	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		uc.log.Error("failed to get user", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return u, nil
}

// UpdateUser replaces username, email and password of an existing user.
// Changes are applied to a copy and only copied back into u after the write succeeds,
// so a validation failure leaves both the store and u untouched.
func (uc *Usecase) UpdateUser(ctx context.Context, u *domain.User, in UpdateUserRequest) (*UpdateUserResponse, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	uc.log.Info("updating user", zap.Int64("id", u.ID), zap.String("username", in.Username), zap.String("email", in.Email))

	candidate := *u
	violations, err := uc.apply(&candidate, in.Username, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	taken, err := uc.usernameTaken(ctx, &candidate)
	if err != nil {
		return nil, err
	}
	if taken {
		violations = append(violations, usernameTakenMessage)
	}

	if len(violations) > 0 {
		uc.log.Warn("update user validation failed", zap.Int64("id", u.ID), zap.Strings("violations", violations))
		return nil, apperrors.NewValidationError(violations...)
	}

	if err := uc.repo.Update(ctx, &candidate); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			uc.log.Warn("username already exists", zap.String("username", candidate.Username))
			return nil, apperrors.NewValidationError(usernameTakenMessage)
		}
		uc.log.Error("failed to update user", zap.Int64("id", u.ID), zap.Error(err))
		return nil, err
	}

	*u = candidate
	return &UpdateUserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}, nil
}

// DeleteUser removes an existing user. The caller is expected to have fetched u.
func (uc *Usecase) DeleteUser(ctx context.Context, u *domain.User) (*DeleteUserResponse, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	uc.log.Info("deleting user", zap.Int64("id", u.ID))

	if err := uc.repo.Delete(ctx, u.ID); err != nil {
		uc.log.Error("failed to delete user", zap.Int64("id", u.ID), zap.Error(err))
		return nil, err
	}
	return &DeleteUserResponse{ID: u.ID}, nil
}

// Authenticate checks a username/password pair.
// Unknown usernames and wrong passwords produce the same error.
func (uc *Usecase) Authenticate(ctx context.Context, in AuthenticateRequest) (*AuthenticateResponse, error) {
	u, err := uc.repo.GetByUsername(ctx, in.Username)
	if err != nil {
		uc.log.Error("failed to look up user for login", zap.Error(err))
		return nil, err
	}

	if u == nil {
		// Keep the response time close to the known-user path.
		uc.hasher.Verify(in.Password, uc.timingDigest())
		uc.log.Info("login rejected", zap.String("username", in.Username))
		return nil, apperrors.NewAuthenticationError(apperrors.InvalidCredentialsMessage)
	}

	if !uc.hasher.Verify(in.Password, u.Password) {
		uc.log.Info("login rejected", zap.String("username", in.Username))
		return nil, apperrors.NewAuthenticationError(apperrors.InvalidCredentialsMessage)
	}

	uc.log.Info("login accepted", zap.Int64("id", u.ID))
	return &AuthenticateResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}, nil
}

// apply hashes password into u, copies username and email verbatim, and validates the result.
// An empty password is left unhashed so the record reports it as missing.
func (uc *Usecase) apply(u *domain.User, username, email, password string) ([]string, error) {
	var violations []string

	u.Password = ""
	if password != "" {
		digest, err := uc.hasher.Hash(password)
		switch {
		case errors.Is(err, security.ErrPasswordTooLong):
			violations = append(violations, err.Error())
			// Placeholder so the record does not also report the password as missing.
			u.Password = "-"
		case err != nil:
			uc.log.Error("failed to hash password", zap.Error(err))
			return nil, fmt.Errorf("failed to hash password: %w", err)
		default:
			u.Password = digest
		}
	}

	u.Username = username
	u.Email = email

	violations = append(violations, uc.validator.Validate(u)...)
	return violations, nil
}

// usernameTaken reports whether a different user already owns u.Username.
func (uc *Usecase) usernameTaken(ctx context.Context, u *domain.User) (bool, error) {
	if u.Username == "" {
		return false, nil
	}

	existing, err := uc.repo.GetByUsername(ctx, u.Username)
	if err != nil {
		uc.log.Error("failed to check existing username", zap.String("username", u.Username), zap.Error(err))
		return false, fmt.Errorf("failed to validate username uniqueness: %w", err)
	}
	return existing != nil && existing.ID != u.ID, nil
}

// timingDigest returns a digest compared against when the username is unknown.
func (uc *Usecase) timingDigest() string {
	uc.dummyOnce.Do(func() {
		digest, err := uc.hasher.Hash("user-api/unknown-user")
		if err != nil {
			uc.log.Warn("failed to prepare timing digest", zap.Error(err))
			return
		}
		uc.dummyDigest = digest
	})
	return uc.dummyDigest
}
