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

type StudentHandler struct {
	BaseHandler
	service services.StudentService
}

func NewStudentHandler(service services.StudentService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== WRITE ENDPOINTS =====

// CreateStudent registers a single student
// @Summary Create student
// @Tags students
// @Accept json
// @Produce json
// @Success 201 {object} models.Student
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 409 {object} ErrorResponse "Duplicate email"
// @Router /students [post]
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	h.LogRequest(c, "Creating student")

	var req validator.CreateStudentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	student, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, student)
}

// CreateStudentsBulk registers a batch of students atomically
// @Summary Create students in bulk
// @Tags students
// @Accept json
// @Produce json
// @Success 201 {array} models.Student
// @Failure 400 {object} ErrorResponse "Per-item failures"
// @Failure 409 {object} ErrorResponse "Duplicate email"
// @Router /students/bulk [post]
func (h *StudentHandler) CreateStudentsBulk(c *gin.Context) {
	h.LogRequest(c, "Creating students in bulk")

	var req validator.BulkCreateStudentsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	students, err := h.service.CreateBatch(c.Request.Context(), req.Students)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, students)
}

// UpdateStudent replaces a student's registered fields
// @Summary Update student
// @Tags students
// @Accept json
// @Produce json
// @Param id path uint true "Student ID"
// @Success 200 {object} models.Student
// @Failure 404 {object} ErrorResponse "Student not found"
// @Failure 409 {object} ErrorResponse "Duplicate email"
// @Router /students/{id} [put]
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	h.LogRequest(c, "Updating student")

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.UpdateStudentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	student, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// DeleteStudent removes a student by id
// @Summary Delete student
// @Tags students
// @Produce json
// @Param id path uint true "Student ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	h.LogRequest(c, "Deleting student")

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Student deleted successfully",
		"deletedId": id,
	})
}

// DeleteStudentsBulk removes a batch of students atomically
// @Summary Delete students in bulk
// @Tags students
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse "One or more students not found"
// @Router /students/bulk [delete]
func (h *StudentHandler) DeleteStudentsBulk(c *gin.Context) {
	h.LogRequest(c, "Deleting students in bulk")

	var req validator.BulkDeleteStudentsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	deleted, err := h.service.DeleteBatch(c.Request.Context(), req.IDs)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Students deleted successfully",
		"deletedCount": deleted,
	})
}

// ===== READ ENDPOINTS =====

// GetStudent returns one student by id
func (h *StudentHandler) GetStudent(c *gin.Context) {
	h.LogRequest(c, "Getting student")

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	student, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// GetStudentByEmail returns one student by registered email
// @Summary Get student by email
// @Tags students
// @Produce json
// @Param email path string true "Registered email"
// @Success 200 {object} models.Student
// @Failure 404 {object} ErrorResponse "Student not found"
// @Router /students/email/{email} [get]
func (h *StudentHandler) GetStudentByEmail(c *gin.Context) {
	h.LogRequest(c, "Getting student by email")

	student, err := h.service.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// ListStudents returns every registered student, newest first
func (h *StudentHandler) ListStudents(c *gin.Context) {
	h.LogRequest(c, "Listing students")

	students, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// ListStudentsPaginated returns one page of students
// @Summary List students with pagination
// @Tags students
// @Produce json
// @Param page query int false "Page number, zero-based (default: 0)"
// @Param size query int false "Page size (default: 10, max: 100)"
// @Param sortBy query string false "Sort key: id, name, email, enrollmentDate (default: id)"
// @Param sortDir query string false "Sort direction: asc, desc (default: desc)"
// @Success 200 {object} models.StudentPage
// @Router /students/paginated [get]
func (h *StudentHandler) ListStudentsPaginated(c *gin.Context) {
	h.LogRequest(c, "Listing students paginated")

	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		page = 0
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}

	sortBy := c.DefaultQuery("sortBy", "id")
	sortDir := c.DefaultQuery("sortDir", "desc")

	result, err := h.service.ListPaged(c.Request.Context(), page, size, sortBy, sortDir)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ===== SEARCH ENDPOINTS =====

// SearchStudents matches the keyword against name and email
func (h *StudentHandler) SearchStudents(c *gin.Context) {
	h.LogRequest(c, "Searching students")

	students, err := h.service.Search(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// SearchStudentsByName matches the name fragment only
func (h *StudentHandler) SearchStudentsByName(c *gin.Context) {
	h.LogRequest(c, "Searching students by name")

	students, err := h.service.SearchByName(c.Request.Context(), c.Query("name"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// SearchStudentsByEmail matches the email fragment only
func (h *StudentHandler) SearchStudentsByEmail(c *gin.Context) {
	h.LogRequest(c, "Searching students by email")

	students, err := h.service.SearchByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// ===== ENROLLMENT DATE ENDPOINTS =====

// ListStudentsByEnrollmentDate returns students enrolled on an exact date
func (h *StudentHandler) ListStudentsByEnrollmentDate(c *gin.Context) {
	h.LogRequest(c, "Listing students by enrollment date")

	date, ok := h.parseDateQuery(c, "date")
	if !ok {
		return
	}

	students, err := h.service.ListByDate(c.Request.Context(), date)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// ListStudentsByEnrollmentDateRange returns students enrolled within a range
func (h *StudentHandler) ListStudentsByEnrollmentDateRange(c *gin.Context) {
	h.LogRequest(c, "Listing students by enrollment date range")

	start, ok := h.parseDateQuery(c, "startDate")
	if !ok {
		return
	}
	end, ok := h.parseDateQuery(c, "endDate")
	if !ok {
		return
	}

	students, err := h.service.ListByDateRange(c.Request.Context(), start, end)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// ===== COUNT AND CHECK ENDPOINTS =====

// CountStudents returns the total number of registered students
func (h *StudentHandler) CountStudents(c *gin.Context) {
	h.LogRequest(c, "Counting students")

	count, err := h.service.Count(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"totalCount": count})
}

// CountStudentsByEnrollmentDate counts students enrolled on an exact date
func (h *StudentHandler) CountStudentsByEnrollmentDate(c *gin.Context) {
	h.LogRequest(c, "Counting students by enrollment date")

	date, ok := h.parseDateQuery(c, "date")
	if !ok {
		return
	}

	count, err := h.service.CountByDate(c.Request.Context(), date)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": count,
		"date":  date,
	})
}

// CountStudentsByEnrollmentDateRange counts students enrolled within a range
func (h *StudentHandler) CountStudentsByEnrollmentDateRange(c *gin.Context) {
	h.LogRequest(c, "Counting students by enrollment date range")

	start, ok := h.parseDateQuery(c, "startDate")
	if !ok {
		return
	}
	end, ok := h.parseDateQuery(c, "endDate")
	if !ok {
		return
	}

	count, err := h.service.CountByDateRange(c.Request.Context(), start, end)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":     count,
		"startDate": start,
		"endDate":   end,
	})
}

// CheckStudentExists reports whether a student id is registered
func (h *StudentHandler) CheckStudentExists(c *gin.Context) {
	h.LogRequest(c, "Checking student id")

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	exists, err := h.service.ExistsByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// CheckStudentEmailExists reports whether an email is already registered
func (h *StudentHandler) CheckStudentEmailExists(c *gin.Context) {
	h.LogRequest(c, "Checking student email")

	exists, err := h.service.ExistsByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// ===== HELPER METHODS =====

func (h *StudentHandler) parseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "Invalid "+param+": must be a positive number")
		return 0
	}
	return uint(id)
}

func (h *StudentHandler) parseDateQuery(c *gin.Context, param string) (models.Date, bool) {
	raw := c.Query(param)
	date, err := models.ParseDate(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid "+param+": must be a valid date in yyyy-MM-dd format")
		return models.Date{}, false
	}
	return date, true
}
