package dto

import (
	"github.com/taskflowhq/taskflow-api/internal/models"
)

// UserDTO represents a user in API responses. The password hash and
// active flag never leave the server.
type UserDTO struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginResponse is the body of a successful login. Token values are
// transported as cookies and stripped from the payload.
type LoginResponse struct {
	Detail string  `json:"detail"`
	User   UserDTO `json:"user"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}
