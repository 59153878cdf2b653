package dto

import (
	"time"

	"github.com/pennypusher/pennypusher/internal/core/domain"
)

// RegisterUserRequest defines the public registration payload.
type RegisterUserRequest struct {
	Username  string `json:"username" binding:"required,max=150"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// LoginRequest defines the credential payload for token issuance.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the signed access token.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// UpdateUserRequest defines the fields a user may change about
// themselves. Pointers distinguish omitted fields from zero values.
type UpdateUserRequest struct {
	Email     *string `json:"email" binding:"omitempty,email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Password  *string `json:"password" binding:"omitempty,min=8"`
}

// DeleteUserRequest names the user an admin wants removed.
type DeleteUserRequest struct {
	User string `json:"user" binding:"required"`
}

// UserResponse is the wire representation of a user. The password hash
// never leaves the server.
type UserResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ToUserResponse converts a domain.User to its wire form.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// ListUsersResponse wraps the admin user listing.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToListUsersResponse converts a slice of domain.User to the wire form.
func ToListUsersResponse(users []domain.User) ListUsersResponse {
	list := make([]UserResponse, len(users))
	for i, u := range users {
		list[i] = ToUserResponse(&u)
	}
	return ListUsersResponse{Users: list}
}
