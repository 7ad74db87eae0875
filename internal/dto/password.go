package dto

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,password"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
