package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-auth/internal/models"
	"chat-auth/internal/ratelimit"
	"chat-auth/internal/service"
	"chat-auth/internal/session"
)

type AuthController struct {
	svc *service.Auth
}

func NewAuthController(svc *service.Auth) *AuthController {
	return &AuthController{svc: svc}
}

type signupPayload struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (a *AuthController) SignUp(c *gin.Context) {
	var p signupPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields are required and password must be at least 6 characters"})
		return
	}
	if _, err := a.svc.Signup(c.Request.Context(), p.FullName, p.Email, p.Password); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Verification email sent. Please verify your email."})
}

type loginPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (a *AuthController) Login(c *gin.Context) {
	var p loginPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}
	user, sess, err := a.svc.Login(c.Request.Context(), p.Email, p.Password)
	if err != nil {
		a.fail(c, err)
		return
	}
	setSessionCookie(c, sess)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged in successfully", "user": user.Public()})
}

func (a *AuthController) Logout(c *gin.Context) {
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

type verifyPayload struct {
	Token string `json:"token" binding:"required"`
}

func (a *AuthController) VerifyEmail(c *gin.Context) {
	var p verifyPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Token is required"})
		return
	}
	user, sess, err := a.svc.VerifyEmail(c.Request.Context(), p.Token)
	if err != nil {
		a.fail(c, err)
		return
	}
	setSessionCookie(c, sess)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email verified successfully", "user": user.Public()})
}

type emailPayload struct {
	Email string `json:"email" binding:"required,email"`
}

func (a *AuthController) ResendVerification(c *gin.Context) {
	var p emailPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is required"})
		return
	}
	if err := a.svc.ResendVerification(c.Request.Context(), p.Email); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Verification email sent successfully."})
}

// ForgotPassword answers identically for unknown accounts and rate-limited
// ones; only a malformed request or a true internal failure breaks the
// pattern. This keeps the endpoint useless for probing which emails exist.
func (a *AuthController) ForgotPassword(c *gin.Context) {
	var p emailPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is required"})
		return
	}
	err := a.svc.ForgotPassword(c.Request.Context(), p.Email)
	switch {
	case err == nil,
		errors.Is(err, service.ErrNotFound),
		errors.Is(err, ratelimit.ErrCooldown),
		errors.Is(err, ratelimit.ErrQuota):
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "If the email exists, a reset link will be sent."})
	default:
		a.fail(c, err)
	}
}

type resetPayload struct {
	Password string `json:"password" binding:"required"`
}

func (a *AuthController) ResetPassword(c *gin.Context) {
	var p resetPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Password is required"})
		return
	}
	if err := a.svc.ResetPassword(c.Request.Context(), c.Param("token"), p.Password); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset successful"})
}

func (a *AuthController) Check(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "authorization required"})
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

type updateProfilePayload struct {
	ProfilePic string `json:"profilePic" binding:"required"`
}

func (a *AuthController) UpdateProfile(c *gin.Context) {
	var p updateProfilePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Profile pic is required"})
		return
	}
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "authorization required"})
		return
	}
	updated, err := a.svc.UpdateProfile(c.Request.Context(), user.ID, p.ProfilePic)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": updated.Public()})
}

// fail maps service errors to HTTP responses. Unexpected errors collapse to
// a generic 500 with no internal detail.
func (a *AuthController) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Password must be at least 6 characters"})
	case errors.Is(err, service.ErrDuplicateAccount):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email already exists"})
	case errors.Is(err, service.ErrAlreadyPending):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Account already exists but is not verified. Please verify your email or resend the verification."})
	case errors.Is(err, service.ErrAlreadyVerified):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is already verified"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid credentials"})
	case errors.Is(err, service.ErrInvalidOrExpired):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or expired token"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
	case errors.Is(err, ratelimit.ErrCooldown):
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "message": "Please wait a minute before resending."})
	case errors.Is(err, ratelimit.ErrQuota):
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "message": "You have reached the maximum number of attempts for today. Try again after 24 hours."})
	case errors.Is(err, service.ErrEmailSend):
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error sending email"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
	}
}

func setSessionCookie(c *gin.Context, sess string) {
	c.SetCookie(session.CookieName, sess, int(session.TTL.Seconds()), "/", "", false, true)
}

func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get("user")
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
