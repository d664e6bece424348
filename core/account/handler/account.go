// Package handler exposes the account lifecycle over HTTP.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/cookscorner/core/account/service"
	"github.com/ncobase/cookscorner/core/account/structs"
	"github.com/ncobase/cookscorner/ctxutil"
	"github.com/ncobase/cookscorner/ecode"
	"github.com/ncobase/cookscorner/helper"
	"github.com/ncobase/cookscorner/net/resp"
)

const (
	msgUserNotFound    = "User not found."
	msgAlreadyVerified = "User is already verified."
	msgDeliveryFailed  = "Unable to send email."
)

// signupResult is returned when the account exists but the verification
// email could not be delivered.
type signupResult struct {
	*structs.TokenPair
	Message string `json:"Message"`
}

// Handler serves the account endpoints.
type Handler struct {
	s *service.Service
}

// New creates a new account handler.
func New(s *service.Service) *Handler {
	return &Handler{s: s}
}

// RegisterRoutes mounts the account routes; auth guards the routes that
// need a bearer access token.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	r.POST("/signup", h.Signup)
	r.GET("/email-verify", h.VerifyEmail)
	r.POST("/login", h.Login)
	r.POST("/login/refresh", h.RefreshSession)
	r.POST("/forgot-password", h.ForgotPassword)
	r.POST("/forgot-password/change", h.ForgotPasswordChange)

	r.POST("/resend-email", auth, h.ResendVerification)
	r.POST("/logout", auth, h.Logout)
	r.DELETE("/delete-user", auth, h.DeleteAccount)
	r.POST("/change-password", auth, h.ChangePassword)
}

// Signup handles POST /signup.
func (h *Handler) Signup(c *gin.Context) {
	body := &structs.SignupBody{}
	if !helper.BindBody(c, body) {
		return
	}

	pair, err := h.s.Signup(c.Request.Context(), body)
	if err != nil && pair != nil && errors.Is(err, service.ErrNotificationFailed) {
		resp.WithStatusCode(c.Writer, http.StatusCreated, &signupResult{
			TokenPair: pair,
			Message:   "Account created, but the verification email could not be sent.",
		})
		return
	}
	if err != nil {
		helper.Fail(c, err, "password",
			helper.On(service.ErrDuplicateAccount, resp.BadRequest("User with this email already exists.")),
			helper.On(service.ErrPasswordMismatch, resp.BadRequest("Passwords don't match")),
			helper.On(service.ErrProfileCreationFailed, resp.BadRequest("Invalid username or profile could not be created.")),
		)
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusCreated, pair)
}

// VerifyEmail handles GET /email-verify?token=.
func (h *Handler) VerifyEmail(c *gin.Context) {
	if err := h.s.VerifyEmail(c.Request.Context(), c.Query("token")); err != nil {
		helper.Fail(c, err, "",
			helper.On(service.ErrMalformedToken, resp.InvalidToken("Invalid token")),
			helper.On(service.ErrAlreadyVerified, resp.BadRequest(msgAlreadyVerified)),
			helper.On(service.ErrInvalidOrExpiredToken, resp.InvalidToken("Invalid or expired activation token.")),
		)
		return
	}
	resp.Success(c.Writer, "User successfully verified")
}

// ResendVerification handles POST /resend-email.
func (h *Handler) ResendVerification(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.s.ResendVerification(ctx, ctxutil.GetAccountID(ctx)); err != nil {
		helper.Fail(c, err, "",
			helper.On(service.ErrAlreadyVerified, resp.BadRequest(msgAlreadyVerified)),
			helper.On(service.ErrAccountNotFound, resp.NotFound(msgUserNotFound)),
			helper.On(service.ErrNotificationFailed, resp.BadGateway(msgDeliveryFailed)),
		)
		return
	}
	resp.Success(c.Writer, "The verification email has been sent.")
}

// Login handles POST /login.
func (h *Handler) Login(c *gin.Context) {
	body := &structs.LoginBody{}
	if !helper.BindBody(c, body) {
		return
	}

	pair, err := h.s.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		helper.Fail(c, err, "",
			helper.On(service.ErrAccountNotFound, resp.NotFound(msgUserNotFound)),
			helper.On(service.ErrIncorrectPassword, resp.BadRequest("Incorrect password.")),
		)
		return
	}
	resp.Success(c.Writer, pair)
}

// RefreshSession handles POST /login/refresh.
func (h *Handler) RefreshSession(c *gin.Context) {
	body := &structs.RefreshBody{}
	if !helper.BindBody(c, body) {
		return
	}

	access, err := h.s.RefreshSession(c.Request.Context(), body.Refresh)
	if err != nil {
		helper.Fail(c, err, "",
			helper.On(service.ErrInvalidToken, &resp.Exception{
				Status:  http.StatusUnauthorized,
				Code:    ecode.TokenInvalid,
				Message: "Token is invalid or expired",
			}),
		)
		return
	}
	resp.Success(c.Writer, access)
}

// Logout handles POST /logout.
func (h *Handler) Logout(c *gin.Context) {
	body := &structs.RefreshBody{}
	if !helper.BindBody(c, body) {
		return
	}

	ctx := c.Request.Context()
	if err := h.s.Logout(ctx, ctxutil.GetAccountID(ctx), body.Refresh); err != nil {
		helper.Fail(c, err, "",
			helper.On(service.ErrInvalidToken, resp.BadRequest("Unable to log out.")),
		)
		return
	}
	resp.Success(c.Writer, "Successfully logged out.")
}

// DeleteAccount handles DELETE /delete-user.
func (h *Handler) DeleteAccount(c *gin.Context) {
	body := &structs.RefreshBody{}
	if !helper.BindBody(c, body) {
		return
	}

	ctx := c.Request.Context()
	if err := h.s.DeleteAccount(ctx, ctxutil.GetAccountID(ctx), body.Refresh); err != nil {
		cantDelete := resp.BadRequest("Can't delete the user.")
		helper.Fail(c, err, "",
			helper.On(service.ErrInvalidToken, cantDelete),
			helper.On(service.ErrAccountNotFound, cantDelete),
		)
		return
	}
	resp.Success(c.Writer, "User has been successfully deleted.")
}

// ChangePassword handles POST /change-password.
func (h *Handler) ChangePassword(c *gin.Context) {
	body := &structs.ChangePasswordBody{}
	if !helper.BindBody(c, body) {
		return
	}

	ctx := c.Request.Context()
	if err := h.s.ChangePassword(ctx, ctxutil.GetAccountID(ctx), body); err != nil {
		helper.Fail(c, err, "new_password",
			helper.On(service.ErrAccountNotFound, resp.NotFound(msgUserNotFound)),
			helper.On(service.ErrIncorrectPassword, resp.BadRequest("Password is incorrect.")),
			helper.On(service.ErrPasswordMismatch, resp.BadRequest("Passwords don't match.")),
		)
		return
	}
	resp.Success(c.Writer, "Password successfully changed.")
}

// ForgotPassword handles POST /forgot-password.
func (h *Handler) ForgotPassword(c *gin.Context) {
	body := &structs.EmailBody{}
	if !helper.BindBody(c, body) {
		return
	}

	if err := h.s.ForgotPassword(c.Request.Context(), body.Email); err != nil {
		helper.Fail(c, err, "",
			helper.On(service.ErrAccountNotFound, resp.NotFound(msgUserNotFound)),
			helper.On(service.ErrNotificationFailed, resp.BadGateway(msgDeliveryFailed)),
		)
		return
	}
	resp.Success(c.Writer, "Verification email sent.")
}

// ForgotPasswordChange handles POST /forgot-password/change?token=.
func (h *Handler) ForgotPasswordChange(c *gin.Context) {
	body := &structs.ResetPasswordBody{}
	if !helper.BindBody(c, body) {
		return
	}

	if err := h.s.ForgotPasswordChange(c.Request.Context(), c.Query("token"), body); err != nil {
		helper.Fail(c, err, "password",
			helper.On(service.ErrMalformedToken, resp.InvalidToken("Invalid token")),
			helper.On(service.ErrInvalidOrExpiredToken, resp.InvalidToken("Invalid or expired token.")),
			helper.On(service.ErrPasswordMismatch, resp.BadRequest("Passwords do not match.")),
		)
		return
	}
	resp.Success(c.Writer, "Password successfully changed.")
}
