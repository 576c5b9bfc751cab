package repository

import (
	"github.com/taskflowhq/taskflow-api/internal/database"
	"github.com/taskflowhq/taskflow-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByIDForOwner finds a task by ID belonging to the given owner
func (r *GormTaskRepository) FindByIDForOwner(id, ownerID uint64) (*models.Task, error) {
	var task models.Task
	err := r.db.Preload("Owner").
		Where("tasks.owner_id = ?", ownerID).
		First(&task, id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves the owner's tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("tasks.owner_id = ?", filter.OwnerID)

	// Apply filters
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.DueDate != nil {
		query = query.Where("tasks.due_date = ?", *filter.DueDate)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(tasks.title) LIKE LOWER(?) OR LOWER(tasks.description) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order(orderClause(filter))

	if filter.Pagination.Limit > 0 {
		listQuery = listQuery.Scopes(database.Paginate(filter.Pagination))
	}

	if err := listQuery.Preload("Owner").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// orderClause maps the requested ordering onto SQL. The default mirrors
// the model ordering: priority descending, ties broken by due date
// ascending with NULL due dates last.
func orderClause(filter TaskFilter) string {
	dir := "ASC"
	if filter.Descending {
		dir = "DESC"
	}

	switch filter.OrderBy {
	case "priority":
		return "tasks.priority " + dir
	case "created_at":
		return "tasks.created_at " + dir
	case "due_date":
		if filter.Descending {
			return "CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END, tasks.due_date DESC"
		}
		return "CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END, tasks.due_date ASC"
	default:
		return "tasks.priority DESC, CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END, tasks.due_date ASC"
	}
}

// Update persists changes to a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task belonging to the given owner
func (r *GormTaskRepository) Delete(id, ownerID uint64) error {
	result := r.db.Where("owner_id = ?", ownerID).Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
