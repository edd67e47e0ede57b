package user

// CreateUserRequest represents the request payload for creating a new user.
// Password is plaintext and is hashed before it reaches the store.
type CreateUserRequest struct {
	Username string
	Email    string
	Password string
}

// CreateUserResponse represents the response payload after creating a user.
type CreateUserResponse struct {
	ID int64
}

// UpdateUserRequest represents the request payload for updating an existing user.
// Every field replaces the stored value; Password is required.
type UpdateUserRequest struct {
	Username string
	Email    string
	Password string
}

// UpdateUserResponse carries the public fields of the updated user.
type UpdateUserResponse struct {
	ID       int64
	Username string
	Email    string
}

// DeleteUserResponse represents the response payload after deleting a user.
type DeleteUserResponse struct {
	ID int64
}

// AuthenticateRequest holds the credentials presented at login.
type AuthenticateRequest struct {
	Username string
	Password string
}

// AuthenticateResponse carries the public fields of the authenticated user.
type AuthenticateResponse struct {
	ID       int64
	Username string
	Email    string
}
