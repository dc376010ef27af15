package dto

type LoginDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponseDTO struct {
	AccessToken string        `json:"accessToken"`
	User        UserPublicDTO `json:"user"`
}

type UserPublicDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type AuthStatusDTO struct {
	Authenticated bool     `json:"authenticated"`
	Username      string   `json:"username"`
	Role          string   `json:"role"`
	Authorities   []string `json:"authorities"`
}
