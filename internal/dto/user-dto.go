package dto

import "github.com/aarondl/null/v8"

type CreateUserDTO struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	RoleID   uint64 `json:"roleId" validate:"required_without=Role"`
	// Role можно передать вместо RoleID. PROJECTMGR превращается в PROJECTMANAGER.
	Role string `json:"role" validate:"required_without=RoleID"`
}

// UpdateUserDTO: пустой пароль не меняет текущий.
type UpdateUserDTO struct {
	Username null.String `json:"username" validate:"omitempty,min=3,max=50"`
	Password null.String `json:"password" validate:"omitempty,min=6"`
	RoleID   null.Uint64 `json:"roleId" validate:"omitempty"`
}
