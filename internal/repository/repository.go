package repository

import (
	"time"

	"github.com/taskflowhq/taskflow-api/internal/models"
	"github.com/taskflowhq/taskflow-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email, matching case-insensitively
	FindByEmail(email string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}

// TaskRepository defines the interface for task data access.
// Every read and write except Create is scoped to an owner; a task
// belonging to another user behaves exactly like a missing row.
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByIDForOwner finds a task by ID belonging to the given owner
	FindByIDForOwner(id, ownerID uint64) (*models.Task, error)

	// List retrieves the owner's tasks with filtering, search, ordering
	// and pagination, returning the page and the unpaginated total.
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// Delete removes a task belonging to the given owner. Returns
	// gorm.ErrRecordNotFound when no such row exists.
	Delete(id, ownerID uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	OwnerID    uint64
	Status     *models.TaskStatus
	DueDate    *time.Time
	Search     string
	OrderBy    string // "priority", "due_date" or "created_at"; empty for the default ordering
	Descending bool
	Pagination utils.PaginationParams
}
