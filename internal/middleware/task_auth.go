package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskflowhq/taskflow-api/internal/constants"
	"github.com/taskflowhq/taskflow-api/internal/database"
	apierrors "github.com/taskflowhq/taskflow-api/internal/errors"
	"github.com/taskflowhq/taskflow-api/internal/models"
)

// RequireTaskOwnership loads the task addressed by the :id parameter,
// scoped to the authenticated user. A task owned by somebody else
// responds 404 exactly like a missing one, so existence is not leaked.
func RequireTaskOwnership() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskIDStr := c.Param("id")
		taskID, err := strconv.ParseUint(taskIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var task models.Task
		err = database.GetDB().
			Preload("Owner").
			Where("owner_id = ?", userID).
			First(&task, taskID).Error
		if err != nil {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// GetTask retrieves the task loaded by RequireTaskOwnership.
func GetTask(c *gin.Context) (models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return models.Task{}, false
	}

	task, ok := value.(models.Task)
	return task, ok
}
