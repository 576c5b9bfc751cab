package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskflowhq/taskflow-api/internal/dto"
	apierrors "github.com/taskflowhq/taskflow-api/internal/errors"
	"github.com/taskflowhq/taskflow-api/internal/middleware"
	"github.com/taskflowhq/taskflow-api/internal/models"
	"github.com/taskflowhq/taskflow-api/internal/services"
	"github.com/taskflowhq/taskflow-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the caller's tasks. Query parameters: status and
// due_date exact-match filters, search over title and description,
// ordering by priority, due_date or created_at ("-" prefix for
// descending), page/limit pagination.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	input := services.ListTasksInput{
		OwnerID: userID,
		Search:  c.Query("search"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.TaskStatus(statusStr)
		if !status.Valid() {
			apierrors.ValidationFailed(c, map[string]string{
				"status": "Select a valid choice.",
			})
			return
		}
		input.Status = &status
	}

	if dueDateStr := c.Query("due_date"); dueDateStr != "" {
		dueDate, err := parseDueDate(dueDateStr)
		if err != nil {
			apierrors.ValidationFailed(c, map[string]string{
				"due_date": "Enter a valid date/time.",
			})
			return
		}
		input.DueDate = &dueDate
	}

	if ordering := c.Query("ordering"); ordering != "" {
		field := strings.TrimPrefix(ordering, "-")
		switch field {
		case "priority", "due_date", "created_at":
			input.OrderBy = field
			input.Descending = strings.HasPrefix(ordering, "-")
		}
		// Unknown ordering fields fall back to the default ordering.
	}

	params := utils.GetPaginationParams(c)
	input.Pagination = params

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params, total))
}

// GetTask returns a single task. Ownership is enforced by the
// RequireTaskOwnership middleware, which loaded the task already.
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(task))
}

// CreateTask creates a task owned by the caller. Any client-supplied
// owner value is ignored.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title       string     `json:"title" binding:"required,max=255"`
		Description string     `json:"description"`
		Status      string     `json:"status"`
		Priority    *int       `json:"priority"`
		Category    string     `json:"category"`
		DueDate     *time.Time `json:"due_date"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(userID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		Priority:    req.Priority,
		Category:    models.TaskCategory(req.Category),
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask replaces the writable fields of a task (PUT). Omitted
// optional fields fall back to their model defaults.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	type UpdateTaskRequest struct {
		Title       string     `json:"title" binding:"required,max=255"`
		Description string     `json:"description"`
		Status      string     `json:"status"`
		Priority    *int       `json:"priority"`
		Category    string     `json:"category"`
		DueDate     *time.Time `json:"due_date"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	status := models.TaskStatus(req.Status)
	if req.Status == "" {
		status = models.TaskStatusTodo
	}
	category := models.TaskCategory(req.Category)
	if req.Category == "" {
		category = models.CategoryDevelopment
	}
	priority := 1
	if req.Priority != nil {
		priority = *req.Priority
	}

	input := services.UpdateTaskInput{
		Title:       &req.Title,
		Description: &req.Description,
		Status:      &status,
		Priority:    &priority,
		Category:    &category,
	}
	if req.DueDate != nil {
		input.DueDate = req.DueDate
	} else {
		input.ClearDueDate = true
	}

	updated, err := h.taskService.UpdateTask(task.ID, userID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// PatchTask updates only the fields present in the request body.
func (h *TaskHandler) PatchTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{}

	if title, ok := rawReq["title"]; ok {
		titleStr, ok := title.(string)
		if !ok {
			apierrors.ValidationFailed(c, map[string]string{"title": "Must be a string."})
			return
		}
		input.Title = &titleStr
	}
	if description, ok := rawReq["description"]; ok {
		descStr, ok := description.(string)
		if !ok {
			apierrors.ValidationFailed(c, map[string]string{"description": "Must be a string."})
			return
		}
		input.Description = &descStr
	}
	if status, ok := rawReq["status"]; ok {
		statusStr, ok := status.(string)
		if !ok {
			apierrors.ValidationFailed(c, map[string]string{"status": "Must be a string."})
			return
		}
		s := models.TaskStatus(statusStr)
		input.Status = &s
	}
	if priority, ok := rawReq["priority"]; ok {
		priorityNum, ok := priority.(float64)
		if !ok || priorityNum != float64(int(priorityNum)) {
			apierrors.ValidationFailed(c, map[string]string{"priority": "Priority must be a non-negative integer."})
			return
		}
		p := int(priorityNum)
		input.Priority = &p
	}
	if category, ok := rawReq["category"]; ok {
		categoryStr, ok := category.(string)
		if !ok {
			apierrors.ValidationFailed(c, map[string]string{"category": "Must be a string."})
			return
		}
		cat := models.TaskCategory(categoryStr)
		input.Category = &cat
	}
	if rawDueDate, ok := rawReq["due_date"]; ok {
		if rawDueDate == nil {
			input.ClearDueDate = true
		} else if dueDateStr, ok := rawDueDate.(string); ok {
			parsed, err := parseDueDate(dueDateStr)
			if err != nil {
				apierrors.ValidationFailed(c, map[string]string{"due_date": "Enter a valid date/time."})
				return
			}
			input.DueDate = &parsed
		} else {
			apierrors.ValidationFailed(c, map[string]string{"due_date": "Enter a valid date/time."})
			return
		}
	}

	updated, err := h.taskService.UpdateTask(task.ID, userID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// DeleteTask deletes a task owned by the caller.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	if err := h.taskService.DeleteTask(task.ID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// parseDueDate accepts RFC 3339 timestamps and bare dates.
func parseDueDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

func respondTaskError(c *gin.Context, err error) {
	var validation *services.ValidationError

	switch {
	case errors.As(err, &validation):
		apierrors.ValidationFailed(c, validation.Fields)
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
