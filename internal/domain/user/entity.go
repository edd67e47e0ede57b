package user

import "errors"

// ErrDuplicateUsername is returned by stores when a write collides with the
// unique constraint on Username.
var ErrDuplicateUsername = errors.New("username already exists")

// User represents a user entity in the system.
// Validation constraints are declared on the entity and checked before every write.
type User struct {
	ID       int64  `json:"id"`                                      // ID is assigned by the store on create
	Username string `json:"username" validate:"required,max=180"`    // Username is the unique login name
	Email    string `json:"email" validate:"required,email,max=180"` // Email is the contact address
	Password string `json:"password" validate:"required"`            // Password holds the bcrypt digest, never plaintext
}

// Profile is the public projection of a User. It never carries the password digest.
type Profile struct {
	ID       int64
	Username string
	Email    string
}

// Profile returns the public fields of the user.
func (u *User) Profile() Profile {
	return Profile{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
