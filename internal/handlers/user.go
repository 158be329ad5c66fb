// Package handlers contains the gin HTTP handlers. Every failure is mapped
// locally to the uniform envelope; nothing propagates past the handler.
package handlers

import (
	"errors"
	"log"
	"net"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shiftdesk-dev/shiftdesk/internal/config"
	"github.com/shiftdesk-dev/shiftdesk/internal/models"
	"github.com/shiftdesk-dev/shiftdesk/internal/service"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "token"

// MaskedPassword replaces the password hash in responses that mask it.
// Only the outbound representation is masked, never the stored record.
const MaskedPassword = "**********"

const unknownFailure = "Unknown Error. Please Try Again. If issue persists contact Webmaster."

type UserHandler struct {
	accounts service.AccountService
	cfg      *config.Config
}

func NewUserHandler(accounts service.AccountService, cfg *config.Config) *UserHandler {
	return &UserHandler{accounts: accounts, cfg: cfg}
}

type SignupRequest struct {
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateEmailRequest struct {
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// UserPayload is the outbound representation of a user record.
type UserPayload struct {
	ID               uint                    `json:"id"`
	Username         string                  `json:"username"`
	FirstName        string                  `json:"firstName"`
	LastName         string                  `json:"lastName"`
	Company          string                  `json:"company,omitempty"`
	Email            string                  `json:"email"`
	Password         string                  `json:"password"`
	IsVerified       bool                    `json:"isVerified"`
	AdminOf          []string                `json:"adminOf"`
	UnavailableHours []models.Unavailability `json:"unavailableHours"`
}

func userPayload(user *models.User, maskPassword bool) UserPayload {
	password := user.PasswordHash
	if maskPassword {
		password = MaskedPassword
	}
	return UserPayload{
		ID:               user.ID,
		Username:         user.Username,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		Company:          user.Company,
		Email:            user.Email,
		Password:         password,
		IsVerified:       user.IsVerified,
		AdminOf:          user.AdminOf,
		UnavailableHours: user.UnavailableHours,
	}
}

func (h *UserHandler) Signup(ctx *gin.Context) {
	var req SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		failedRequest(ctx, "User Creation Failed", "Invalid Request Body", err.Error())
		return
	}

	user, err := h.accounts.Signup(ctx.Request.Context(), service.SignupInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Email:     req.Email,
	})

	switch {
	case err == nil:
		successfulRequest(ctx, "Successful User Creation", "Please Check Your Email For Further Steps", userPayload(user, false))
	case errors.Is(err, service.ErrEmailExists):
		failedRequest(ctx, "User Creation Failed", "Email Already Exists", "Signup Failed")
	case errors.Is(err, service.ErrUsernameExists):
		failedRequest(ctx, "User Creation Failed", "Username Already Exists", "Signup Failed")
	case errors.Is(err, service.ErrDeliveryFailure):
		log.Printf("Signup verification email failed: %v", err)
		failedRequest(ctx, "User Creation Failed", "Unable To Send Verification Email", "Signup Failed")
	default:
		log.Printf("Signup failed: %v", err)
		failedRequest(ctx, "User Creation Failed", unknownFailure, "Signup Failed")
	}
}

func (h *UserHandler) VerifyEmail(ctx *gin.Context) {
	token := ctx.Param("token")

	user, err := h.accounts.VerifyEmail(ctx.Request.Context(), token)

	switch {
	case err == nil:
		successfulRequest(ctx, "Email Verification Successful", "Your email has been verified. You can now log in.", userPayload(user, false))
	case errors.Is(err, service.ErrInvalidToken):
		failedRequest(ctx, "Email Verification Failed", "Invalid or expired verification token.", "Invalid Token")
	default:
		log.Printf("Email verification failed: %v", err)
		failedRequest(ctx, "Email Verification Failed", unknownFailure, "Verification Failed")
	}
}

func (h *UserHandler) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		failedRequest(ctx, "Login Failed", "Invalid Request Body", err.Error())
		return
	}

	token, user, err := h.accounts.Login(ctx.Request.Context(), req.Username, req.Password)

	switch {
	case err == nil:
		h.setSessionCookie(ctx, token)
		successfulRequest(ctx, "Logged In", "Successfully Logged In", user.Username)
	case errors.Is(err, service.ErrNotVerified):
		failedRequest(ctx, "Login Failed", "Email not verified. Please check your email for verification instructions.", "Email Not Verified")
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrBadCredential):
		// Identical message for both, to avoid username enumeration.
		failedRequest(ctx, "Login Failed", "Invalid Username/Password", "Incorrect U/P")
	default:
		log.Printf("Login failed: %v", err)
		failedRequest(ctx, "Login Failed", unknownFailure, "Login Failed")
	}
}

func (h *UserHandler) ForgotPassword(ctx *gin.Context) {
	var req ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		failedRequest(ctx, "Failed Password Reset", "Invalid Request Body", err.Error())
		return
	}

	user, err := h.accounts.ForgotPassword(ctx.Request.Context(), req.Email)

	switch {
	case err == nil:
		successfulRequest(ctx, "Reset Email Successful", "Check Email For Next Steps", userPayload(user, false))
	case errors.Is(err, service.ErrUserNotFound):
		failedRequest(ctx, "Failed Password Reset", "Unable To Locate Account: Email Not Found", "Failed To Reset Password")
	case errors.Is(err, service.ErrDeliveryFailure):
		log.Printf("Reset email failed: %v", err)
		failedRequest(ctx, "Failed Password Reset", "Unable To Reset Password", "Failed To Reset Password")
	default:
		log.Printf("Forgot password failed: %v", err)
		failedRequest(ctx, "Failed Password Reset", unknownFailure, "Failed To Reset Password")
	}
}

func (h *UserHandler) ResetPassword(ctx *gin.Context) {
	resetToken := ctx.Param("resetToken")

	var req ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		failedRequest(ctx, "Password Reset Failed", "Invalid Request Body", err.Error())
		return
	}

	user, err := h.accounts.ResetPassword(ctx.Request.Context(), resetToken, req.Username, req.Password)

	switch {
	case err == nil:
		successfulRequest(ctx, "Successful Reset", "Password Updated Successfully. Proceed To Login Screen.", userPayload(user, true))
	case errors.Is(err, service.ErrUserNotFound):
		failedRequest(ctx, "Password Reset Failed", "Unable To Find Username Submitted", "Unable To Find User")
	case errors.Is(err, service.ErrTokenExpired):
		failedRequest(ctx, "Password Reset Failed", "Email Link No Longer Valid. Try Again.", "Reset Token Expired")
	case errors.Is(err, service.ErrTokenMismatch):
		failedRequest(ctx, "Password Reset Failed", "Email Link No Longer Valid. Try Again", "Reset Token Mismatch")
	default:
		log.Printf("Password reset failed: %v", err)
		failedRequest(ctx, "Failed To Update Password", unknownFailure, "Reset Failed")
	}
}

func (h *UserHandler) UpdateEmail(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("userId"), 10, 64)
	if err != nil {
		failedRequest(ctx, "Failed To Update Email", "Invalid User ID", err.Error())
		return
	}

	var req UpdateEmailRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		failedRequest(ctx, "Failed To Update Email", "Invalid Request Body", err.Error())
		return
	}

	user, err := h.accounts.UpdateEmail(ctx.Request.Context(), uint(userID), req.Password, req.Email)

	switch {
	case err == nil:
		successfulRequest(ctx, "Update Successful", "Email Update Successful", userPayload(user, true))
	case errors.Is(err, service.ErrUserNotFound):
		failedRequest(ctx, "Failed To Update Email", "Unable To Locate User", "Email Update Failed: ID Match")
	case errors.Is(err, service.ErrBadCredential):
		failedRequest(ctx, "Failed To Update Email", "Failed To Update Email: Password Incorrect", "Password Error")
	default:
		log.Printf("Email update failed: %v", err)
		failedRequest(ctx, "Failed To Update Email", "Unable To Update. Try Again. If Issue Persists Contact Webmaster", "Email Update Failed")
	}
}

// Logout is stateless: it clears the cookie and nothing else. A token
// replayed from elsewhere stays valid until its expiry claim runs out.
func (h *UserHandler) Logout(ctx *gin.Context) {
	h.clearSessionCookie(ctx)
	successfulRequest(ctx, "Successful Logout", "Successful Logout", "Token Deleted")
}

func (h *UserHandler) setSessionCookie(ctx *gin.Context, token string) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Domain:   h.cfg.CookieDomain,
		MaxAge:   int(h.cfg.SessionTTL.Seconds()),
		Secure:   !isLocalhost(ctx.Request.Host),
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *UserHandler) clearSessionCookie(ctx *gin.Context) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Domain:   h.cfg.CookieDomain,
		MaxAge:   -1,
		Secure:   !isLocalhost(ctx.Request.Host),
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

func isLocalhost(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return host == "localhost" || host == "127.0.0.1"
}
