package dto

import "github.com/taskdeck/taskdeck/internal/model"

// TaskUpdateFields is the whitelist for task updates. Creation has no
// whitelist: unknown fields are dropped, and the owner is forced from
// the authenticated identity regardless of anything in the body.
var TaskUpdateFields = []string{"description", "isCompleted"}

// CreateTaskRequest represents the request body for creating a task.
type CreateTaskRequest struct {
	Description string `json:"description"`
	IsCompleted bool   `json:"isCompleted"`
}

// UpdateTaskRequest represents the request body for updating a task.
// Nil fields are left unchanged.
type UpdateTaskRequest struct {
	Description *string `json:"description,omitempty"`
	IsCompleted *bool   `json:"isCompleted,omitempty"`
}

// TaskListResponse is a page of tasks plus the owner's full task count,
// which ignores any listing filter.
type TaskListResponse struct {
	Count int           `json:"count"`
	Tasks []*model.Task `json:"tasks"`
}

// ToTaskListResponse builds the list response, normalizing a nil page to
// an empty array so clients never see null.
func ToTaskListResponse(count int, tasks []*model.Task) *TaskListResponse {
	if tasks == nil {
		tasks = []*model.Task{}
	}
	return &TaskListResponse{
		Count: count,
		Tasks: tasks,
	}
}
