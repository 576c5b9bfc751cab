package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaskStatus_Valid(t *testing.T) {
	for _, status := range []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted} {
		require.True(t, status.Valid(), "expected %q to be valid", status)
	}

	for _, status := range []TaskStatus{"", "DONE", "todo", "SOMEDAY"} {
		require.False(t, status.Valid(), "expected %q to be invalid", status)
	}
}

func TestTaskCategory_Valid(t *testing.T) {
	valid := []TaskCategory{
		CategoryDevelopment, CategoryDesign, CategorySecurity, CategoryTesting,
		CategoryInfrastructure, CategoryResearch, CategoryMarketing,
		CategoryAnalytics, CategoryDevops, CategoryAIML,
	}
	for _, category := range valid {
		require.True(t, category.Valid(), "expected %q to be valid", category)
	}

	for _, category := range []TaskCategory{"", "COOKING", "development", "ML"} {
		require.False(t, category.Valid(), "expected %q to be invalid", category)
	}
}
