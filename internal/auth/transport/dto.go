package transport

type RegisterRequest struct {
	Fullname    string `json:"fullname"     validate:"required,max=50"`
	Email       string `json:"email"        validate:"required,max=150"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Password    string `json:"password"     validate:"required"`
	Address     string `json:"address"      validate:"max=200"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Fullname    *string `json:"fullname"     validate:"omitempty,max=50"`
	Email       *string `json:"email"        validate:"omitempty,max=150"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"      validate:"omitempty,max=200"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required"`
}
