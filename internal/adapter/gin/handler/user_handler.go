package handler

import (
	"errors"
	"net/http"
	"strconv"

	domain "user-api/internal/domain/user"
	"user-api/internal/usecase/user"
	apperrors "user-api/pkg/errors"
	"user-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
)

const (
	statusSuccess = "success"

	userNotFoundMessage  = "user not found"
	invalidBodyMessage   = "invalid request body"
	internalErrorMessage = "internal server error"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.UserUsecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.UserUsecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// CreateUserRequest represents the HTTP request body for creating a user
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest represents the HTTP request body for updating a user
type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the HTTP request body for a login attempt
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse represents the public fields of a user
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// DataResponse wraps a user in a success envelope
type DataResponse struct {
	Status string       `json:"status"`
	Data   UserResponse `json:"data"`
}

// CreatedResponse is returned after a user has been created
type CreatedResponse struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
}

// StatusResponse is a bare success envelope
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse represents a single error message
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse lists every violation found on the submitted record
type ValidationErrorResponse struct {
	Errors []string `json:"errors"`
}

// AuthErrorResponse carries the generic login failure message
type AuthErrorResponse struct {
	Errors string `json:"errors"`
}

// GetUser handles GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	u, ok := h.lookup(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, DataResponse{
		Status: statusSuccess,
		Data:   toUserResponse(u),
	})
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{Errors: []string{invalidBodyMessage}})
		return
	}

	log.Info("Gin CreateUser request", zap.String("username", req.Username), zap.String("email", req.Email))

	resp, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreatedResponse{
		Status: statusSuccess,
		ID:     resp.ID,
	})
}

// UpdateUser handles PUT /api/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	u, ok := h.lookup(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update user request", zap.Int64("id", u.ID), zap.Error(err))
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{Errors: []string{invalidBodyMessage}})
		return
	}

	log.Info("Gin UpdateUser request", zap.Int64("id", u.ID), zap.String("username", req.Username), zap.String("email", req.Email))

	resp, err := h.uc.UpdateUser(c.Request.Context(), u, user.UpdateUserRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{
		Status: statusSuccess,
		Data: UserResponse{
			ID:       resp.ID,
			Username: resp.Username,
			Email:    resp.Email,
		},
	})
}

// DeleteUser handles DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	u, ok := h.lookup(c)
	if !ok {
		return
	}

	logger.WithContext(c.Request.Context(), h.log).Info("Gin DeleteUser request", zap.Int64("id", u.ID))

	if _, err := h.uc.DeleteUser(c.Request.Context(), u); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: statusSuccess})
}

// Login handles POST /api/users/login
func (h *UserHandler) Login(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{Errors: []string{invalidBodyMessage}})
		return
	}

	resp, err := h.uc.Authenticate(c.Request.Context(), user.AuthenticateRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{
		Status: statusSuccess,
		Data: UserResponse{
			ID:       resp.ID,
			Username: resp.Username,
			Email:    resp.Email,
		},
	})
}

// lookup resolves the :id path parameter to a stored user.
// It writes the error response itself and reports false when there is nothing to act on.
func (h *UserHandler) lookup(c *gin.Context) (*domain.User, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		logger.WithContext(c.Request.Context(), h.log).Debug("Path does not name a user", zap.String("id", idStr))
		h.handleError(c, apperrors.NewNotFoundError("user", userNotFoundMessage))
		return nil, false
	}

	u, err := h.uc.GetUser(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return nil, false
	}
	if u == nil {
		h.handleError(c, apperrors.NewNotFoundError("user", userNotFoundMessage))
		return nil, false
	}
	return u, true
}

// handleError converts usecase errors to HTTP responses.
// The status comes from the error's gRPC code; the body shape from its type.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	_ = c.Error(err)

	code := apperrors.Code(err)
	httpStatus := runtime.HTTPStatusFromCode(code)

	var validationErr *apperrors.ValidationError
	var authErr *apperrors.AuthenticationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(httpStatus, ValidationErrorResponse{Errors: validationErr.Messages})
	case errors.As(err, &authErr):
		c.JSON(httpStatus, AuthErrorResponse{Errors: authErr.Message})
	case code == codes.NotFound || code == codes.AlreadyExists:
		c.JSON(httpStatus, ErrorResponse{Error: err.Error()})
	default:
		logger.WithContext(c.Request.Context(), h.log).Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
	}
}

func toUserResponse(u *domain.User) UserResponse {
	p := u.Profile()
	return UserResponse{
		ID:       p.ID,
		Username: p.Username,
		Email:    p.Email,
	}
}
