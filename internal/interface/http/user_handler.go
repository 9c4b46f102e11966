package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/sanikant20/bookMandala-Server/internal/application"
	"github.com/sanikant20/bookMandala-Server/internal/domain/entity"
	"github.com/sanikant20/bookMandala-Server/pkg/helpers"
	"github.com/sanikant20/bookMandala-Server/pkg/response"
	"github.com/sanikant20/bookMandala-Server/pkg/validation"
)

type UserHandler struct {
	Svc     *userapp.Service
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Fullname    string `form:"fullname" binding:"required"`
	Email       string `form:"email" binding:"required,email"`
	PhoneNumber string `form:"phoneNumber" binding:"required"`
	DOB         string `form:"dob" binding:"required"`
	Gender      string `form:"gender" binding:"required"`
	Password    string `form:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type editUserRequest struct {
	Fullname        *string         `json:"fullname"`
	PhoneNumber     *string         `json:"phoneNumber"`
	DOB             *string         `json:"dob"`
	Gender          *string         `json:"gender"`
	ShippingAddress *entity.Address `json:"shippingAddress"`
}

type changePasswordRequest struct {
	OldPassword        string `json:"oldPassword" binding:"required"`
	NewPassword        string `json:"newPassword" binding:"required,pwd"`
	ConfirmNewPassword string `json:"confirmNewPassword" binding:"required,eqfield=NewPassword"`
}

// respondServiceError is the single error-to-response mapping for every
// account operation. No failure is ever swallowed into a log line only.
func (h *UserHandler) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, userapp.ErrEmailTaken):
		response.Error[any](c, http.StatusConflict, "User already exist with this email. Please enter another email.", nil)
	case errors.Is(err, userapp.ErrInvalidEmail):
		response.Error[any](c, http.StatusNotFound, "Invalid Email", nil)
	case errors.Is(err, userapp.ErrInvalidPassword):
		response.Error[any](c, http.StatusNotFound, "Invalid Password", nil)
	case errors.Is(err, userapp.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "User not found.", nil)
	case errors.Is(err, userapp.ErrUploadFailed):
		response.Error[any](c, http.StatusBadRequest, "Failed to upload avatar.", nil)
	case errors.Is(err, userapp.ErrWrongOldPassword):
		response.Error[any](c, http.StatusBadRequest, "Old password is incorrect.", nil)
	case errors.Is(err, userapp.ErrRecordGone):
		response.Error[any](c, http.StatusInternalServerError, "Something went wrong.", nil)
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).Error("unhandled service error")
		}
		response.Error[any](c, http.StatusInternalServerError, "Something went wrong.", nil)
	}
}

func openAvatar(c *gin.Context) (multipart.File, *multipart.FileHeader, bool) {
	fh, err := c.FormFile("avatar")
	if err != nil || fh == nil {
		response.Error[any](c, http.StatusBadRequest, "Avatar is missing", nil)
		return nil, nil, false
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "Avatar file path is missing", nil)
		return nil, nil, false
	}
	return f, fh, true
}

// Register POST /api/register (multipart/form-data)
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "All fields are required.", validation.ToDetails(err))
		return
	}

	// Avatar is mandatory at registration; fail before any upload or
	// persistence call.
	f, fh, ok := openAvatar(c)
	if !ok {
		return
	}
	defer func() { _ = f.Close() }()

	u, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		Fullname:    req.Fullname,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		DOB:         req.DOB,
		Gender:      req.Gender,
		Password:    req.Password,
	}, f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, u.Sanitized(), "User register successfully.")
}

// Login POST /api/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "email and password are required.", validation.ToDetails(err))
		return
	}

	u, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.Cookies.SetAccessToken(c, token)
	response.Success(c, http.StatusOK, gin.H{
		"user":        u.Sanitized(),
		"accessToken": token,
	}, "Login successfully")
}

// Logout POST /api/logout
func (h *UserHandler) Logout(c *gin.Context) {
	uid := c.GetString("userID")
	if uid == "" {
		response.Error[any](c, http.StatusUnauthorized, "User is not logged in.", nil)
		return
	}
	if err := h.Svc.Logout(c.Request.Context(), uid); err != nil {
		h.respondServiceError(c, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{}, "Logout successfully")
}

// GetCurrentUser GET /api/me
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	uid := c.GetString("userID")
	if uid == "" {
		response.Error[any](c, http.StatusUnauthorized, "User is not logged in.", nil)
		return
	}
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u.Sanitized(), "User retrieved successfully.")
}

// EditUserData PUT /api/me
func (h *UserHandler) EditUserData(c *gin.Context) {
	uid := c.GetString("userID")
	if uid == "" {
		response.Error[any](c, http.StatusUnauthorized, "User is not logged in.", nil)
		return
	}
	var req editUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, userapp.UpdateProfileInput{
		Fullname:        req.Fullname,
		PhoneNumber:     req.PhoneNumber,
		DOB:             req.DOB,
		Gender:          req.Gender,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u.Sanitized(), "User data updated successfully.")
}

// UpdateAvatar PATCH /api/me/avatar (multipart/form-data)
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	uid := c.GetString("userID")
	if uid == "" {
		response.Error[any](c, http.StatusUnauthorized, "User is not logged in.", nil)
		return
	}
	f, fh, ok := openAvatar(c)
	if !ok {
		return
	}
	defer func() { _ = f.Close() }()

	u, err := h.Svc.UpdateAvatar(c.Request.Context(), uid, fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u.Sanitized(), "Avatar updated successfully.")
}

// ChangePassword POST /api/me/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "All fields are required and newPassword must match confirmNewPassword.", validation.ToDetails(err))
		return
	}
	uid := c.GetString("userID")
	if uid == "" {
		response.Error[any](c, http.StatusUnauthorized, "User is not logged in.", nil)
		return
	}
	u, err := h.Svc.ChangePassword(c.Request.Context(), uid, req.OldPassword, req.NewPassword)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u.Sanitized(), "Password updated successfully.")
}

// Search GET /api/users/search?q=...&size=...
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	res, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, res, "search results")
}
