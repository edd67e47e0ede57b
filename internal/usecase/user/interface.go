package user

import (
	"context"

	domain "user-api/internal/domain/user"
)

// UserUsecase defines the interface for user business logic operations.
type UserUsecase interface {
	CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	UpdateUser(ctx context.Context, u *domain.User, in UpdateUserRequest) (*UpdateUserResponse, error)
	DeleteUser(ctx context.Context, u *domain.User) (*DeleteUserResponse, error)
	Authenticate(ctx context.Context, in AuthenticateRequest) (*AuthenticateResponse, error)
}
