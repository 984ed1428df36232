package storage

import (
	"context"
	"errors"

	"github.com/sandeepkv93/matrixd/internal/model"
)

var ErrNotFound = errors.New("storage: task not found")

// Repository owns the task collection. Every successful mutation publishes
// the full updated collection to subscribers.
type Repository interface {
	CreateTask(ctx context.Context, title, description string, category model.Category) (model.Task, error)
	UpdateTask(ctx context.Context, in model.Task) (model.Task, error)
	ToggleCompletion(ctx context.Context, id string) (model.Task, error)
	MoveToCategory(ctx context.Context, id string, category model.Category) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ClearCompleted(ctx context.Context) (int, error)

	GetTask(ctx context.Context, id string) (model.Task, error)
	ListTasks(ctx context.Context) ([]model.Task, error)

	// Subscribe delivers the current collection immediately and then every
	// later snapshot in mutation order. The returned func unsubscribes.
	Subscribe(fn func([]model.Task)) func()
}
