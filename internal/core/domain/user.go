package domain

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User models a registered site account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the authenticated caller as carried by the access token.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

// AccountUpdate holds the user fields a member may change about themselves.
type AccountUpdate struct {
	FirstName string
	LastName  string
	Email     string
}

// PasswordChange carries the old password and the new one entered twice.
type PasswordChange struct {
	OldPassword  string
	NewPassword1 string
	NewPassword2 string
}
