package entity

// SignupRequest - запрос на регистрацию
type SignupRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name,omitempty" binding:"omitempty,max=100"`
	LastName  string `json:"last_name,omitempty" binding:"omitempty,max=100"`
}

// LoginRequest - запрос на вход
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest - fallback для клиентов без cookie
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// VerifyEmailRequest - запрос на подтверждение email
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// ForgotPasswordRequest - запрос на сброс пароля
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest - установка нового пароля по токену
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// UpdateProfileRequest - upsert профиля
type UpdateProfileRequest struct {
	FirstName   string `json:"first_name,omitempty" binding:"omitempty,max=100"`
	LastName    string `json:"last_name,omitempty" binding:"omitempty,max=100"`
	DisplayName string `json:"display_name,omitempty" binding:"omitempty,max=100"`
	AvatarURL   string `json:"avatar_url,omitempty" binding:"omitempty,url"`
	Bio         string `json:"bio,omitempty" binding:"omitempty,max=1000"`
}

// GeneratePhotoRequest - запрос на генерацию фото
type GeneratePhotoRequest struct {
	Prompt string `json:"prompt" binding:"required,min=3,max=2000"`
	Style  string `json:"style,omitempty" binding:"omitempty,max=100"`
}

// ChangeRoleRequest - смена роли пользователя администратором
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// BanUserRequest - блокировка пользователя
type BanUserRequest struct {
	Reason string `json:"reason,omitempty" binding:"omitempty,max=500"`
}

// AuthResponse - ответ на signup/login
type AuthResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Pagination - блок пагинации в списочных ответах
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

// APIResponse - единый конверт всех ответов сервиса
type APIResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	Details    interface{} `json:"details,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}
