package controllers

import (
	"net/http"

	"github.com/printipid/printipid/app/services"
	"github.com/printipid/printipid/pkg/bind"
	"github.com/printipid/printipid/pkg/middleware"
	"github.com/printipid/printipid/pkg/response"
	"github.com/printipid/printipid/pkg/validate"
)

// AuthController handles registration, login and the caller's own profile.
type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authPayload struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

// Register creates a customer account.
// POST /api/auth/register
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	user, token, err := c.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Created(w, authPayload{Token: token, User: user})
}

// Login exchanges credentials for a token.
// POST /api/auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	user, token, err := c.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Success(w, authPayload{Token: token, User: user})
}

// Me returns the caller's profile, creating a default one if the token
// outlived the profile document.
// GET /api/profile
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	user, err := c.auth.EnsureProfile(r.Context(), userID, "", "")
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Success(w, user)
}

type updateProfileRequest struct {
	Name     string `json:"name" validate:"nullable,max=120"`
	Phone    string `json:"phone" validate:"nullable,max=32"`
	Address  string `json:"address" validate:"nullable,max=255"`
	PhotoURL string `json:"photoUrl" validate:"nullable,url"`
}

// UpdateMe updates the caller-editable profile fields.
// PUT /api/profile
func (c *AuthController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var req updateProfileRequest
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.auth.UpdateProfile(r.Context(), userID, req.Name, req.Phone, req.Address, req.PhotoURL)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Success(w, user)
}
