package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mbdelmundo/thesisdesk/internal/app/models"
	"github.com/mbdelmundo/thesisdesk/internal/app/models/dto"
	"github.com/mbdelmundo/thesisdesk/internal/app/repositories"
	"github.com/mbdelmundo/thesisdesk/internal/app/services"
	"github.com/mbdelmundo/thesisdesk/internal/middleware"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/apperrors"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/helpers"
)

// UserController handles directory management endpoints
type UserController struct {
	userService *services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService) *UserController {
	return &UserController{userService: userService}
}

// parseUserFilters reads the typed directory filters from the query
// string. Unknown parameters are ignored.
func parseUserFilters(ctx *gin.Context) (repositories.UserFilters, bool) {
	var filters repositories.UserFilters

	if roleStr := ctx.Query("role"); roleStr != "" {
		role := models.Role(roleStr)
		if !role.Valid() {
			return filters, false
		}
		filters.Role = &role
	}
	if rolesStr := ctx.Query("roles"); rolesStr != "" {
		for _, part := range strings.Split(rolesStr, ",") {
			role := models.Role(strings.TrimSpace(part))
			if !role.Valid() {
				return filters, false
			}
			filters.Roles = append(filters.Roles, role)
		}
	}
	filters.StudentIDNull = ctx.Query("studentIdNull") == "true"
	filters.StaffIDNull = ctx.Query("staffIdNull") == "true"

	if fromStr := ctx.Query("createdFrom"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return filters, false
		}
		filters.CreatedFrom = &from
	}
	if toStr := ctx.Query("createdTo"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return filters, false
		}
		filters.CreatedTo = &to
	}

	return filters, true
}

func userListItem(row repositories.UserRow) dto.UserListItem {
	return dto.UserListItem{
		ID:          row.ID,
		StudentID:   helpers.StringOrEmpty(row.StudentID),
		StaffID:     helpers.StringOrEmpty(row.StaffID),
		FirstName:   row.FirstName,
		LastName:    row.LastName,
		Email:       row.Email,
		PhoneNumber: helpers.StringOrEmpty(row.PhoneNumber),
		Role:        row.Role,
		CreatedAt:   row.CreatedAt,
		Active:      row.Active,
	}
}

// ListUsers retrieves a page of the directory
// @Summary List directory accounts
// @Description Retrieves a paginated directory listing with search, typed filters and sorting. Page size is clamped to 100.
// @Tags users
// @Produce json
// @Param page query int false "Page number" default(1) minimum(1)
// @Param pageSize query int false "Items per page" default(10) maximum(100)
// @Param search query string false "Substring match over ids, names and email"
// @Param role query string false "Exact role filter" Enums(STUDENT, STAFF, FACULTY, ADMIN)
// @Param roles query string false "Comma-separated role set filter"
// @Param studentIdNull query bool false "Only accounts without a student number"
// @Param staffIdNull query bool false "Only accounts without a staff number"
// @Param createdFrom query string false "Created-at lower bound, RFC 3339"
// @Param createdTo query string false "Created-at upper bound, RFC 3339"
// @Param sortBy query string false "Sort key" Enums(createdAt, firstName, lastName, email, role, studentId, staffId)
// @Param sortDir query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} dto.APIResponse{data=dto.UserListResponse} "Directory page"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter value"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)

	filters, ok := parseUserFilters(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid filter value")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	rows, total, err := c.userService.List(ctx, repositories.ListUsersParams{
		Page:     page,
		PageSize: pageSize,
		Search:   ctx.Query("search"),
		Filters:  filters,
		SortBy:   ctx.Query("sortBy"),
		SortDir:  ctx.Query("sortDir"),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.UserListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, userListItem(row))
	}

	response := dto.UserListResponse{
		Items: items,
		PaginationInfo: dto.PaginationInfo{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
			Pages:    helpers.TotalPages(total, pageSize),
		},
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      response,
		Timestamp: time.Now(),
	})
}

// GetUser retrieves one directory account
// @Summary Get account details
// @Tags users
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.APIResponse{data=models.User} "Account retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	user, err := c.userService.GetByID(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      user,
		Timestamp: time.Now(),
	})
}

// CreateUser provisions an account administratively
// @Summary Create a directory account
// @Description Creates an account with a chosen role. The email counts as verified and a placeholder avatar is assigned when none is supplied.
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "Account information"
// @Success 201 {object} dto.APIResponse{data=models.User} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	user, err := c.userService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Success:   true,
		Data:      user,
		Timestamp: time.Now(),
	})
}

// UpdateUser rewrites the profile fields of an account
// @Summary Update a directory account
// @Description Rewrites the profile fields. Blank optional fields clear the stored value rather than preserving it.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body dto.UpdateUserRequest true "Updated account information"
// @Success 200 {object} dto.APIResponse{data=models.User} "Account updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{id} [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	var req dto.UpdateUserRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	user, err := c.userService.Update(ctx, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      user,
		Timestamp: time.Now(),
	})
}

// DeleteUser removes an account from the directory
// @Summary Delete a directory account
// @Description Deletes the account and everything hanging off it via cascades. Deleting the signed-in account is refused.
// @Tags users
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.APIResponse "Account deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Cannot delete the signed-in account"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == middleware.CurrentUserID(ctx) {
		middleware.HandleAPIError(ctx, apperrors.NewConflictError("cannot delete the signed-in account"))
		return
	}

	if err := c.userService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Account deleted"))
}

// SearchStudents looks up students for selection widgets
// @Summary Search students
// @Description Case-insensitive substring match over student number and name fields, bounded to a small fixed page.
// @Tags users
// @Produce json
// @Param q query string false "Search term"
// @Param limit query int false "Result cap" default(10) maximum(50)
// @Success 200 {object} dto.APIResponse{data=[]dto.UserOption} "Matching students"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/students/search [get]
func (c *UserController) SearchStudents(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if err != nil {
		limit = 0
	}

	students, err := c.userService.SearchStudents(ctx, ctx.Query("q"), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	options := make([]dto.UserOption, 0, len(students))
	for i := range students {
		options = append(options, dto.UserOption{
			ID:   students[i].ID,
			Name: students[i].FullName(),
		})
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      options,
		Timestamp: time.Now(),
	})
}

// ListAdvisers returns accounts eligible to advise
// @Summary List adviser candidates
// @Description Returns FACULTY and STAFF accounts ordered by last name, for adviser and committee selection widgets.
// @Tags users
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.UserOption} "Adviser candidates"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/advisers [get]
func (c *UserController) ListAdvisers(ctx *gin.Context) {
	advisers, err := c.userService.ListAdvisers(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	options := make([]dto.UserOption, 0, len(advisers))
	for i := range advisers {
		options = append(options, dto.UserOption{
			ID:   advisers[i].ID,
			Name: advisers[i].FullName(),
		})
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      options,
		Timestamp: time.Now(),
	})
}
