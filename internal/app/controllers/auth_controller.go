// Package controllers handles HTTP request handling
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/middleware"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// DashboardPath is where a successful login lands by default
const DashboardPath = "/dashboard/"

// InvalidLoginMessage is shown for any failed credential check
const InvalidLoginMessage = "Please enter a correct username and password. Note that both fields may be case-sensitive."

// AuthController handles signup, login and logout
type AuthController struct {
	authService    services.AuthService
	authMiddleware *middleware.AuthMiddleware
	logger         zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, authMiddleware *middleware.AuthMiddleware, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:    authService,
		authMiddleware: authMiddleware,
		logger:         logger,
	}
}

func (c *AuthController) renderLogin(ctx *gin.Context, status int, form dto.LoginForm, errs validation.Errors) {
	form.Password = ""
	middleware.Render(ctx, status, "login.html", gin.H{
		"Title":  "Log in",
		"Form":   form,
		"Errors": errs,
	})
}

// LoginPage shows the login form
func (c *AuthController) LoginPage(ctx *gin.Context) {
	c.renderLogin(ctx, http.StatusOK, dto.LoginForm{Next: ctx.Query("next")}, nil)
}

// Login authenticates the user and starts a session
func (c *AuthController) Login(ctx *gin.Context) {
	var form dto.LoginForm
	if err := ctx.ShouldBind(&form); err != nil {
		middleware.HandleError(ctx, apperrors.NewBadRequestError(err.Error()))
		return
	}

	session, err := c.authService.Login(ctx.Request.Context(), form)
	if err != nil {
		if errs, ok := validation.AsErrors(err); ok {
			middleware.AddFlash(ctx, middleware.FlashError, "Invalid username or password.")
			c.renderLogin(ctx, http.StatusBadRequest, form, errs)
			return
		}
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			var errs validation.Errors
			errs.Add("", InvalidLoginMessage)
			middleware.AddFlash(ctx, middleware.FlashError, "Invalid username or password.")
			c.renderLogin(ctx, http.StatusBadRequest, form, errs)
			return
		}
		middleware.HandleError(ctx, err)
		return
	}

	c.authMiddleware.StartSession(ctx, session.Token, session.ExpiresAt)
	middleware.AddFlash(ctx, middleware.FlashSuccess, "Login successful!")
	ctx.Redirect(http.StatusFound, middleware.SafeRedirect(form.Next, DashboardPath))
}

func (c *AuthController) renderSignup(ctx *gin.Context, status int, form dto.SignupForm, errs validation.Errors) {
	form.Password1, form.Password2 = "", ""
	middleware.Render(ctx, status, "signup.html", gin.H{
		"Title":  "Sign up",
		"Form":   form,
		"Errors": errs,
	})
}

// SignupPage shows the account creation form
func (c *AuthController) SignupPage(ctx *gin.Context) {
	c.renderSignup(ctx, http.StatusOK, dto.SignupForm{}, nil)
}

// Signup creates an account and logs it in
func (c *AuthController) Signup(ctx *gin.Context) {
	var form dto.SignupForm
	if err := ctx.ShouldBind(&form); err != nil {
		middleware.HandleError(ctx, apperrors.NewBadRequestError(err.Error()))
		return
	}

	session, err := c.authService.Signup(ctx.Request.Context(), form)
	if err != nil {
		if errs, ok := validation.AsErrors(err); ok {
			middleware.AddFlash(ctx, middleware.FlashError, "There was an error with your registration.")
			c.renderSignup(ctx, http.StatusBadRequest, form, errs)
			return
		}
		middleware.HandleError(ctx, err)
		return
	}

	c.authMiddleware.StartSession(ctx, session.Token, session.ExpiresAt)
	middleware.AddFlash(ctx, middleware.FlashSuccess, "Account created successfully! You are now logged in.")
	ctx.Redirect(http.StatusFound, DashboardPath)
}

// Logout ends the session on POST; any other method only redirects
func (c *AuthController) Logout(ctx *gin.Context) {
	if ctx.Request.Method == http.MethodPost {
		identity := middleware.CurrentIdentity(ctx)
		if err := c.authService.Logout(ctx.Request.Context()); err != nil {
			c.logger.Error().Err(err).Int64("userID", identity.UserID).Msg("Failed to end session")
		}
		c.authMiddleware.ClearSession(ctx)
		if identity.Authenticated() {
			c.logger.Info().Int64("userID", identity.UserID).Msg("User logged out")
			middleware.AddFlash(ctx, middleware.FlashInfo, "You have been logged out.")
		}
	}
	ctx.Redirect(http.StatusFound, middleware.LoginPath)
}
