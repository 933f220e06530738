package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campustrack/participation-service/internal/models"
	"github.com/campustrack/participation-service/internal/repositories"
	"github.com/campustrack/participation-service/internal/services"
	"github.com/campustrack/participation-service/internal/utils"
)

type UserHandler struct {
	BaseHandler
	accountService services.AccountService
	authMiddleware *JWTAuthMiddleware
}

func NewUserHandler(accountService services.AccountService, authMiddleware *JWTAuthMiddleware, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler:    NewBaseHandler(logger),
		accountService: accountService,
		authMiddleware: authMiddleware,
	}
}

// ===== AUTHENTICATION =====

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Login authenticates a user and issues a bearer token
// @Summary Login
// @Description Verifies credentials and returns a signed bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user, err := h.accountService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	token, expiresAt, err := h.authMiddleware.IssueToken(user)
	if err != nil {
		h.LogError(c, err, "Failed to issue token", "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

// GetMe returns the caller's account with role profile
// @Summary Get current user
// @Tags users
// @Produce json
// @Success 200 {object} services.UserResponse
// @Failure 401 {object} ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID := h.requireUserID(c)
	if userID == 0 {
		return
	}

	user, err := h.accountService.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ===== ADMIN ACCOUNT MANAGEMENT =====

// CreateUser creates a user account
// @Summary Create user
// @Description Creates a user account with the given role (admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Param user body services.CreateUserRequest true "User data"
// @Success 201 {object} services.UserResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Username or email taken"
// @Router /admin/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	callerID := h.requireUserID(c)
	if callerID == 0 {
		return
	}

	user, err := h.accountService.CreateUser(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// CreateStudent attaches a student profile to a user account
// @Summary Create student profile
// @Tags admin
// @Accept json
// @Produce json
// @Param student body services.CreateStudentRequest true "Student profile data"
// @Success 201 {object} models.Student
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Student ID taken"
// @Failure 422 {object} ErrorResponse "Role mismatch"
// @Router /admin/students [post]
func (h *UserHandler) CreateStudent(c *gin.Context) {
	var req services.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	callerID := h.requireUserID(c)
	if callerID == 0 {
		return
	}

	student, err := h.accountService.CreateStudentProfile(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, student)
}

// CreateProctor attaches a proctor profile to a user account
// @Summary Create proctor profile
// @Tags admin
// @Accept json
// @Produce json
// @Param proctor body services.CreateProctorRequest true "Proctor profile data"
// @Success 201 {object} models.Proctor
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Employee ID taken"
// @Failure 422 {object} ErrorResponse "Role mismatch"
// @Router /admin/proctors [post]
func (h *UserHandler) CreateProctor(c *gin.Context) {
	var req services.CreateProctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	callerID := h.requireUserID(c)
	if callerID == 0 {
		return
	}

	proctor, err := h.accountService.CreateProctorProfile(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, proctor)
}

// DeleteUser soft-deletes a user account
// @Summary Delete user
// @Tags admin
// @Produce json
// @Param id path uint true "User ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	callerID := h.requireUserID(c)
	if callerID == 0 {
		return
	}

	if err := h.accountService.DeleteUser(c.Request.Context(), id, callerID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetUser retrieves a user account by ID
// @Summary Get user
// @Tags admin
// @Produce json
// @Param id path uint true "User ID"
// @Success 200 {object} services.UserResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, err := h.accountService.GetUser(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers lists user accounts
// @Summary List users
// @Tags admin
// @Produce json
// @Param role query string false "Filter by role"
// @Param q query string false "Match username, name or email"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} services.UserListResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	callerID := h.requireUserID(c)
	if callerID == 0 {
		return
	}

	filters := repositories.UserFilters{
		Query: c.Query("q"),
	}
	if roleStr := c.Query("role"); roleStr != "" {
		role := models.UserRole(roleStr)
		if role.Valid() {
			filters.Role = &role
		}
	}
	filters.Limit, filters.Offset = parsePagination(c)

	response, err := h.accountService.ListUsers(c.Request.Context(), filters, callerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListStudents lists student profiles (proctor view)
// @Summary List students
// @Tags proctor
// @Produce json
// @Param department query string false "Filter by department"
// @Param year query int false "Filter by year"
// @Param q query string false "Match USN or name"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} services.StudentListResponse
// @Failure 403 {object} ErrorResponse
// @Router /proctor/students [get]
func (h *UserHandler) ListStudents(c *gin.Context) {
	callerID := h.requireUserID(c)
	if callerID == 0 {
		return
	}

	filters := repositories.StudentFilters{
		Query: c.Query("q"),
	}
	if department := c.Query("department"); department != "" {
		filters.Department = &department
	}
	if yearStr := c.Query("year"); yearStr != "" {
		if year, err := strconv.Atoi(yearStr); err == nil && year > 0 {
			filters.Year = &year
		}
	}
	filters.Limit, filters.Offset = parsePagination(c)

	response, err := h.accountService.ListStudents(c.Request.Context(), filters, callerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListProctors lists proctor profiles
// @Summary List proctors
// @Tags admin
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} services.ProctorListResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/proctors [get]
func (h *UserHandler) ListProctors(c *gin.Context) {
	callerID := h.requireUserID(c)
	if callerID == 0 {
		return
	}

	limit, offset := parsePagination(c)

	response, err := h.accountService.ListProctors(c.Request.Context(), limit, offset, callerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
