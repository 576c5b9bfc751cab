package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/taskflowhq/taskflow-api/internal/models"
	"github.com/taskflowhq/taskflow-api/internal/repository"
	"github.com/taskflowhq/taskflow-api/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrTaskNotFound covers both missing tasks and tasks owned by
	// somebody else, so existence is never leaked across owners.
	ErrTaskNotFound = errors.New("task not found")
)

// TaskService handles task business logic. Every operation is scoped
// to the owner passed by the caller.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	OwnerID    uint64
	Status     *models.TaskStatus
	DueDate    *time.Time
	Search     string
	OrderBy    string
	Descending bool
	Pagination utils.PaginationParams
}

// CreateTaskInput represents input for creating a task. The owner is
// always the authenticated caller, never a client-supplied value.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    *int
	Category    models.TaskCategory
	DueDate     *time.Time
}

// UpdateTaskInput represents input for updating a task. Nil pointers
// leave the field untouched; ClearDueDate removes the due date.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	Priority     *int
	Category     *models.TaskCategory
	DueDate      *time.Time
	ClearDueDate bool
}

// ListTasks returns the owner's tasks matching the filters.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		OwnerID:    input.OwnerID,
		Status:     input.Status,
		DueDate:    input.DueDate,
		Search:     input.Search,
		OrderBy:    input.OrderBy,
		Descending: input.Descending,
		Pagination: input.Pagination,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// CreateTask validates the writable fields and creates a task owned by
// ownerID.
func (s *TaskService) CreateTask(ownerID uint64, input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, newFieldError("title", "Title is required.")
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	if !status.Valid() {
		return nil, newFieldError("status", fmt.Sprintf("%q is not a valid choice.", input.Status))
	}

	category := input.Category
	if category == "" {
		category = models.CategoryDevelopment
	}
	if !category.Valid() {
		return nil, newFieldError("category", fmt.Sprintf("%q is not a valid choice.", input.Category))
	}

	priority := 1
	if input.Priority != nil {
		if *input.Priority < 0 {
			return nil, newFieldError("priority", "Priority must be a non-negative integer.")
		}
		priority = *input.Priority
	}

	task := &models.Task{
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		Category:    category,
		DueDate:     input.DueDate,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByIDForOwner(task.ID, ownerID)
}

// UpdateTask applies the changes to a task owned by the given user.
func (s *TaskService) UpdateTask(taskID, ownerID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByIDForOwner(taskID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, newFieldError("title", "Title cannot be empty.")
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, newFieldError("status", fmt.Sprintf("%q is not a valid choice.", *input.Status))
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if *input.Priority < 0 {
			return nil, newFieldError("priority", "Priority must be a non-negative integer.")
		}
		task.Priority = *input.Priority
	}
	if input.Category != nil {
		if !input.Category.Valid() {
			return nil, newFieldError("category", fmt.Sprintf("%q is not a valid choice.", *input.Category))
		}
		task.Category = *input.Category
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByIDForOwner(task.ID, ownerID)
}

// DeleteTask removes a task owned by the given user.
func (s *TaskService) DeleteTask(taskID, ownerID uint64) error {
	if err := s.taskRepo.Delete(taskID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}
