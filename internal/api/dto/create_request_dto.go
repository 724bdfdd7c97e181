package dto

// CreateRequestDTO is the public "please track this creator" payload.
type CreateRequestDTO struct {
	Platform string `json:"platform" validate:"required,oneof=youtube twitch kick tiktok instagram"`
	Username string `json:"username" validate:"required,min=2,max=64"`
}
