package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/registration-service/internal/models"
	"github.com/SAP-F-2025/registration-service/internal/services"
	"github.com/SAP-F-2025/registration-service/internal/utils"
	"github.com/SAP-F-2025/registration-service/internal/validator"
)

// UserStudentHandler serves the account-backed student surface. Plain users
// only see and touch their own record; moderators and admins see everyone.
type UserStudentHandler struct {
	BaseHandler
	service services.UserStudentService
}

func NewUserStudentHandler(service services.UserStudentService, logger utils.Logger) *UserStudentHandler {
	return &UserStudentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== READ ENDPOINTS =====

// ListStudents returns every student for elevated callers; plain users get
// a single-element list holding their own record.
func (h *UserStudentHandler) ListStudents(c *gin.Context) {
	h.LogRequest(c, "Listing student profiles")

	if HasElevatedRole(c) {
		students, err := h.service.ListStudents(c.Request.Context())
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, students)
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	student, err := h.service.GetStudent(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, []interface{}{student})
}

// GetCurrentStudent returns the caller's own record
func (h *UserStudentHandler) GetCurrentStudent(c *gin.Context) {
	h.LogRequest(c, "Getting current student profile")

	username := c.GetString("username")
	if username == "" {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	student, err := h.service.GetByUsername(c.Request.Context(), username)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// GetStudent returns one student by id. Plain users may only request their
// own id; a mismatch is a permission failure, not a not-found.
func (h *UserStudentHandler) GetStudent(c *gin.Context) {
	h.LogRequest(c, "Getting student profile")

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if !HasElevatedRole(c) {
		userID, err := GetUserIDFromContext(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "User not authenticated")
			return
		}
		if userID != id {
			h.handleServiceError(c, services.NewPermissionError(userID, id, "student", "view", "callers may only view their own record"))
			return
		}
	}

	student, err := h.service.GetStudent(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// SearchStudents matches students by name, email or username
func (h *UserStudentHandler) SearchStudents(c *gin.Context) {
	h.LogRequest(c, "Searching student profiles")

	students, err := h.service.SearchStudents(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// ===== WRITE ENDPOINTS =====

// CompleteProfile creates or replaces the caller's student profile
// @Summary Complete the student profile
// @Tags profiles
// @Accept json
// @Produce json
// @Success 200 {object} models.UserStudentResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Router /profiles/complete-profile [post]
func (h *UserStudentHandler) CompleteProfile(c *gin.Context) {
	h.LogRequest(c, "Completing student profile")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req validator.CompleteProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	student, err := h.service.CompleteProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// UpdateProfile applies a partial update to the caller's own record.
// Absent fields are left unchanged.
func (h *UserStudentHandler) UpdateProfile(c *gin.Context) {
	h.LogRequest(c, "Updating own student profile")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req validator.UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	student, err := h.service.UpdateSelf(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// UpdateStudent applies an elevated partial update to any account
func (h *UserStudentHandler) UpdateStudent(c *gin.Context) {
	h.LogRequest(c, "Admin updating student profile")

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.AdminUpdateStudentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	student, err := h.service.AdminUpdate(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// DeleteStudent removes an account. Plain users may only delete themselves.
func (h *UserStudentHandler) DeleteStudent(c *gin.Context) {
	h.LogRequest(c, "Deleting student account")

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	roles, _ := GetUserRolesFromContext(c)
	isAdmin := false
	for _, role := range roles {
		if role == models.RoleAdmin {
			isAdmin = true
			break
		}
	}

	if !isAdmin && userID != id {
		h.handleServiceError(c, services.NewPermissionError(userID, id, "student", "delete", "callers may only delete their own account"))
		return
	}

	if err := h.service.DeleteStudent(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Student deleted successfully",
		"deletedId": id,
	})
}

// ===== HELPER METHODS =====

func (h *UserStudentHandler) parseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "Invalid "+param+": must be a positive number")
		return 0
	}
	return uint(id)
}
