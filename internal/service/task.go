package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskdeck/taskdeck/internal/id"
	"github.com/taskdeck/taskdeck/internal/metrics"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/repository"
)

// Listing defaults: pageSize when absent or invalid, first page.
const (
	defaultPageSize = 10
	defaultPage     = 1
)

// TaskService handles task business logic. Every operation is scoped to
// the owner passed in from the authenticated request; the owner is never
// taken from client input.
type TaskService struct {
	repo    *repository.Repository
	metrics metrics.Recorder
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo *repository.Repository, recorder metrics.Recorder) *TaskService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TaskService{
		repo:    repo,
		metrics: recorder,
	}
}

// CreateTaskInput defines input for creating a task.
type CreateTaskInput struct {
	Description string
	IsCompleted bool
}

// Create persists a new task owned by ownerID.
func (s *TaskService) Create(ctx context.Context, ownerID string, input CreateTaskInput) (*model.Task, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}

	taskID, err := id.New()
	if err != nil {
		return nil, fmt.Errorf("generate task id: %w", err)
	}

	now := time.Now().UTC()
	task := &model.Task{
		ID:          taskID,
		Description: description,
		IsCompleted: input.IsCompleted,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.metrics.IncTaskCreated()

	return task, nil
}

// UpdateTaskInput carries the whitelisted mutable fields; nil means unchanged.
type UpdateTaskInput struct {
	Description *string
	IsCompleted *bool
}

// Update applies whitelisted changes to an owned task.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, input UpdateTaskInput) (*model.Task, error) {
	if !id.Valid(taskID) {
		return nil, ErrMalformedID
	}

	task, err := s.repo.GetTaskForOwner(ctx, ownerID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}

	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
		if task.Description == "" {
			return nil, ErrDescriptionRequired
		}
	}
	if input.IsCompleted != nil {
		task.IsCompleted = *input.IsCompleted
	}

	task.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateTask(ctx, task); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.metrics.IncTaskUpdated()

	return task, nil
}

// Remove deletes an owned task and returns its last state.
func (s *TaskService) Remove(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
	if !id.Valid(taskID) {
		return nil, ErrMalformedID
	}

	task, err := s.repo.DeleteTaskForOwner(ctx, ownerID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("delete task: %w", err)
	}

	s.metrics.IncTaskDeleted()

	return task, nil
}

// FetchByID retrieves an owned task.
func (s *TaskService) FetchByID(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
	if !id.Valid(taskID) {
		return nil, ErrMalformedID
	}

	task, err := s.repo.GetTaskForOwner(ctx, ownerID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}

	return task, nil
}

// ListTasksInput defines filters and pagination for listing tasks.
type ListTasksInput struct {
	// Completed filters on completion state when non-nil.
	Completed *bool
	// SortBy is a single "field:direction" pair; empty means insertion order.
	SortBy string
	// Page is 1-based.
	Page     int
	PageSize int
}

// ListTasksOutput is a page of the owner's tasks together with the
// owner's full task count, independent of the filter.
type ListTasksOutput struct {
	Count int
	Tasks []*model.Task
}

// List retrieves a filtered, sorted, paginated page of the owner's tasks.
func (s *TaskService) List(ctx context.Context, ownerID string, input ListTasksInput) (*ListTasksOutput, error) {
	page := input.Page
	if page < 1 {
		page = defaultPage
	}
	pageSize := input.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	sortField, sortAsc := parseSortBy(input.SortBy)

	filter := repository.TaskFilter{
		Completed: input.Completed,
		SortBy:    sortField,
		SortAsc:   sortAsc,
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	}

	count, err := s.repo.CountTasksByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	tasks, err := s.repo.ListTasks(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return &ListTasksOutput{
		Count: count,
		Tasks: tasks,
	}, nil
}

// parseSortBy splits a "field:direction" pair. Direction "asc" (any
// case) sorts ascending; everything else descending. A value without a
// direction falls back to insertion order, matching the listing contract.
func parseSortBy(sortBy string) (field string, asc bool) {
	parts := strings.SplitN(sortBy, ":", 2)
	if len(parts) < 2 || parts[0] == "" {
		return "", false
	}
	return parts[0], strings.EqualFold(parts[1], "asc")
}
