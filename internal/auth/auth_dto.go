package auth

import "time"

type LoginRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	CompanyID string `json:"company_id"`
}

type LoginResponse struct {
	User        Identity  `json:"user"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// wire format of POST /employee/login
type loginBody struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	CompanyID string `json:"companyId"`
}

type loginReply struct {
	Message string `json:"message"`
	Data    *struct {
		ID        flexString `json:"id"`
		Name      string     `json:"name"`
		Email     string     `json:"email"`
		CompanyID flexString `json:"companyId"`
	} `json:"data"`
}
