package handlers

import (
	"net/http"

	"taskerhub/internal/http/middleware"
	"taskerhub/internal/services"

	"github.com/gin-gonic/gin"
)

func authService(c *gin.Context) services.AuthService {
	return services.AuthService{
		JWTSecret: jwtSecret,
		RequestID: middleware.GetRequestID(c),
	}
}

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// POST /api/auth/signup
func SignUp(c *gin.Context) {
	var req signUpRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := authService(c).SignUp(req.Name, req.Email, req.Phone, req.Password, req.Role); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "verification code sent", "email": req.Email})
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// POST /api/auth/verify-otp
func VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	result, err := authService(c).VerifyOTP(req.Email, req.Code)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type resendOTPRequest struct {
	Email string `json:"email"`
}

// POST /api/auth/resend-otp
func ResendOTP(c *gin.Context) {
	var req resendOTPRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := authService(c).ResendOTP(req.Email); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "verification code sent", "email": req.Email})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	result, err := authService(c).Login(req.Email, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
