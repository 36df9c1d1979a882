package dto

import (
	"strings"
	"time"

	"hostel/internal/domains/user/model"
	gDto "hostel/shared/dto"
	gModel "hostel/shared/model"
	"hostel/shared/timezone"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role"     validate:"required,role"`
	Phone    string `json:"phone"    validate:"omitempty,max=20"`
	IsActive *bool  `json:"isActive"`
}

func (r *CreateUserRequest) ToModel(createdBy, hashedPassword string) model.User {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}

	return model.User{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(r.Name),
		Email:    NormalizeEmail(r.Email),
		Password: hashedPassword,
		Role:     r.Role,
		Phone:    r.Phone,
		Active:   active,
		Metadata: gModel.NewMetadata(timezone.Now(), createdBy),
	}
}

// UpdateUserRequest is a partial update; nil fields are left untouched.
// Password is re-hashed by the service before it is persisted.
type UpdateUserRequest struct {
	Name     *string `db:"name"     json:"name"     validate:"omitempty,min=1,max=100"`
	Email    *string `db:"email"    json:"email"    validate:"omitempty,email"`
	Password *string `db:"password" json:"password" validate:"omitempty,min=6,max=72"`
	Role     *string `db:"role"     json:"role"     validate:"omitempty,role"`
	Phone    *string `db:"phone"    json:"phone"    validate:"omitempty,max=20"`
	IsActive *bool   `db:"active"   json:"isActive"`
}

func (r *UpdateUserRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.Password == nil && r.Role == nil && r.Phone == nil && r.IsActive == nil
}

type UserResponse struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Phone     string     `json:"phone"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(user model.User) {
	r.ID = user.ID
	r.Name = user.Name
	r.Email = user.Email
	r.Role = user.Role
	r.Phone = user.Phone
	r.IsActive = user.Active
	r.LastLogin = user.LastLogin
	r.Metadata.FromModel(user.Metadata)
}

func FromModels(users []model.User) []UserResponse {
	res := make([]UserResponse, len(users))
	for i, user := range users {
		res[i].FromModel(user)
	}

	return res
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}
