package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/registration-service/internal/services"
	"github.com/SAP-F-2025/registration-service/internal/utils"
	"github.com/SAP-F-2025/registration-service/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	service services.AuthService
}

func NewAuthHandler(service services.AuthService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// SignUp registers a new account with the default user role
// @Summary Sign up
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} models.UserStudentResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 409 {object} ErrorResponse "Username or email taken"
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	h.LogRequest(c, "Signing up")

	var req validator.SignUpRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.service.SignUp(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// SignIn exchanges credentials for a bearer token
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} services.SignInResponse
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	h.LogRequest(c, "Signing in")

	var req validator.SignInRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.service.SignIn(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
