package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/clinic-cases/internal/apperr"
	"github.com/harentsoaR/clinic-cases/internal/middleware"
	"github.com/harentsoaR/clinic-cases/internal/models"
	"github.com/harentsoaR/clinic-cases/internal/store"
	"github.com/harentsoaR/clinic-cases/internal/views"
)

const (
	msgSignedUp        = "Signed up successfully. Login to start using Stevens Care."
	msgPasswordChanged = "Your password has been changed successfully."
	msgNothingChanged  = "No fields have been changed from their original values, so no update has occurred!"
)

type RegisterUserRequest struct {
	FirstName   string `json:"firstName" form:"firstName" binding:"required"`
	LastName    string `json:"lastName" form:"lastName" binding:"required"`
	Email       string `json:"email" form:"email" binding:"required"`
	DateOfBirth string `json:"dateOfBirth" form:"dateOfBirth" binding:"required"`
	Password    string `json:"password" form:"password" binding:"required"`
	Gender      string `json:"gender" form:"gender"`
	Phone       string `json:"phone" form:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	FirstName   string `json:"firstName" form:"firstName" binding:"required"`
	LastName    string `json:"lastName" form:"lastName" binding:"required"`
	DateOfBirth string `json:"dateOfBirth" form:"dateOfBirth" binding:"required"`
	Gender      string `json:"gender" form:"gender"`
	Phone       string `json:"phone" form:"phone"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" form:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" form:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" binding:"required"`
}

func (h *Handler) LoginPage(c *gin.Context) {
	render(c, http.StatusOK, views.UserLogin, "Login", gin.H{"flash": h.Sessions.TakeFlash(c)})
}

func (h *Handler) SignupPage(c *gin.Context) {
	render(c, http.StatusOK, views.UserSignup, "Sign-up", gin.H{"genders": genders})
}

// RegisterUser creates the account and leaves a flash for the login page.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, bindError(err))
		return
	}

	_, err := h.Users.Create(c.Request.Context(), models.NewUser{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		DateOfBirth: req.DateOfBirth,
		Password:    req.Password,
		Gender:      req.Gender,
		Phone:       req.Phone,
	})
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.Sessions.Flash(c, msgSignedUp); err != nil {
		slog.Error("could not store signup flash", "error", err)
	}
	ok(c, http.StatusCreated, nil)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, bindError(err))
		return
	}

	user, err := h.Users.CheckUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	sess := h.Sessions.Renew(c)
	sess.SetUser(user)
	if err := h.Sessions.Save(c, sess); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, nil)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.Sessions.Destroy(c); err != nil {
		slog.Error("could not destroy session", "error", err)
	}
	c.Redirect(http.StatusFound, "/users")
}

// GetCurrentUser renders the profile of the signed-in user.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	user, err := h.Users.Get(c.Request.Context(), middleware.Current(c).User.ID)
	if err != nil {
		renderError(c, views.UserProfile, "Profile", err)
		return
	}
	render(c, http.StatusOK, views.UserProfile, "Profile", gin.H{"user": user})
}

func (h *Handler) UpdateProfilePage(c *gin.Context) {
	user, err := h.Users.Get(c.Request.Context(), middleware.Current(c).User.ID)
	if err != nil {
		renderError(c, views.UserUpdateProfile, "Update Profile", err)
		return
	}
	render(c, http.StatusOK, views.UserUpdateProfile, "Update Profile", gin.H{
		"user":    user,
		"genders": genders,
	})
}

// UpdateCurrentUser saves profile changes. Submitting the stored values
// unchanged is rejected.
func (h *Handler) UpdateCurrentUser(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, bindError(err))
		return
	}

	update, err := store.NormalizeProfile(models.ProfileUpdate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Phone:       req.Phone,
	})
	if err != nil {
		fail(c, err)
		return
	}

	ctx := c.Request.Context()
	sess := middleware.Current(c)
	current, err := h.Users.Get(ctx, sess.User.ID)
	if err != nil {
		fail(c, err)
		return
	}
	if update.Matches(current) {
		fail(c, apperr.Validation(msgNothingChanged))
		return
	}

	if err := h.Users.UpdateProfile(ctx, current.ID, update); err != nil {
		fail(c, err)
		return
	}

	if user, err := h.Users.Get(ctx, current.ID); err == nil {
		sess.SetUser(user)
		if err := h.Sessions.Save(c, sess); err != nil {
			slog.Error("could not refresh session user", "error", err)
		}
	}
	ok(c, http.StatusOK, nil)
}

func (h *Handler) ChangePasswordPage(c *gin.Context) {
	render(c, http.StatusOK, views.UserChangePassword, "Change Password", gin.H{"flash": h.Sessions.TakeFlash(c)})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, bindError(err))
		return
	}

	err := h.Users.UpdatePassword(c.Request.Context(), middleware.Current(c).User.ID,
		req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.Sessions.Flash(c, msgPasswordChanged); err != nil {
		slog.Error("could not store password flash", "error", err)
	}
	ok(c, http.StatusOK, nil)
}

func (h *Handler) Options(c *gin.Context) {
	render(c, http.StatusOK, views.UserOptions, "Options", nil)
}
