package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// Valid reports whether the status is one of the closed set of values.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type TaskCategory string

const (
	CategoryDevelopment    TaskCategory = "DEVELOPMENT"
	CategoryDesign         TaskCategory = "DESIGN"
	CategorySecurity       TaskCategory = "SECURITY"
	CategoryTesting        TaskCategory = "TESTING"
	CategoryInfrastructure TaskCategory = "INFRASTRUCTURE"
	CategoryResearch       TaskCategory = "RESEARCH"
	CategoryMarketing      TaskCategory = "MARKETING"
	CategoryAnalytics      TaskCategory = "ANALYTICS"
	CategoryDevops         TaskCategory = "DEVOPS"
	CategoryAIML           TaskCategory = "AI/ML"
)

// Valid reports whether the category is one of the closed set of values.
func (c TaskCategory) Valid() bool {
	switch c {
	case CategoryDevelopment, CategoryDesign, CategorySecurity, CategoryTesting,
		CategoryInfrastructure, CategoryResearch, CategoryMarketing,
		CategoryAnalytics, CategoryDevops, CategoryAIML:
		return true
	}
	return false
}

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	OwnerID     uint64       `gorm:"not null;index" json:"owner_id"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'TODO'" json:"status"`
	Priority    int          `gorm:"not null;default:1" json:"priority"`
	Category    TaskCategory `gorm:"type:varchar(100);not null;default:'DEVELOPMENT'" json:"category"`
	DueDate     *time.Time   `json:"due_date"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations
	Owner User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"owner,omitempty"`
}
