package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/matrixd/internal/model"
)

type Option func(*MemoryRepository)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *MemoryRepository) {
		if now != nil {
			r.now = now
		}
	}
}

// WithIDGenerator overrides task id generation.
func WithIDGenerator(next func() string) Option {
	return func(r *MemoryRepository) {
		if next != nil {
			r.nextID = next
		}
	}
}

// MemoryRepository keeps tasks in insertion order. Subscriber callbacks run
// synchronously under the repository lock and must not call back into it.
type MemoryRepository struct {
	mu          sync.Mutex
	tasks       []model.Task
	subscribers map[int]func([]model.Task)
	nextSubID   int
	lastCreated time.Time
	now         func() time.Time
	nextID      func() string
}

func NewMemoryRepository(opts ...Option) *MemoryRepository {
	r := &MemoryRepository{
		tasks:       make([]model.Task, 0),
		subscribers: make(map[int]func([]model.Task)),
		now:         func() time.Time { return time.Now().UTC() },
		nextID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *MemoryRepository) CreateTask(ctx context.Context, title, description string, category model.Category) (model.Task, error) {
	if err := ctx.Err(); err != nil {
		return model.Task{}, err
	}
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return model.Task{}, model.ErrEmptyTitle
	}
	if !category.IsValid() {
		return model.Task{}, fmt.Errorf("%w: %q", model.ErrInvalidCategory, category)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	task := model.Task{
		ID:          r.uniqueIDLocked(),
		Title:       trimmed,
		Description: description,
		Category:    category,
		CreatedAt:   r.createdAtLocked(),
	}
	r.tasks = append(r.tasks, task)
	r.publishLocked()
	return task, nil
}

func (r *MemoryRepository) UpdateTask(ctx context.Context, in model.Task) (model.Task, error) {
	if err := ctx.Err(); err != nil {
		return model.Task{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replaceLocked(in)
}

func (r *MemoryRepository) ToggleCompletion(ctx context.Context, id string) (model.Task, error) {
	if err := ctx.Err(); err != nil {
		return model.Task{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(id)
	if idx < 0 {
		return model.Task{}, ErrNotFound
	}
	next := r.tasks[idx]
	next.Completed = !next.Completed
	return r.replaceLocked(next)
}

func (r *MemoryRepository) MoveToCategory(ctx context.Context, id string, category model.Category) (model.Task, error) {
	if err := ctx.Err(); err != nil {
		return model.Task{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(id)
	if idx < 0 {
		return model.Task{}, ErrNotFound
	}
	next := r.tasks[idx]
	next.Category = category
	return r.replaceLocked(next)
}

func (r *MemoryRepository) DeleteTask(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx := r.indexLocked(id); idx >= 0 {
		r.tasks = append(r.tasks[:idx:idx], r.tasks[idx+1:]...)
	}
	r.publishLocked()
	return nil
}

func (r *MemoryRepository) ClearCompleted(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]model.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		if !task.Completed {
			kept = append(kept, task)
		}
	}
	removed := len(r.tasks) - len(kept)
	r.tasks = kept
	r.publishLocked()
	return removed, nil
}

func (r *MemoryRepository) GetTask(ctx context.Context, id string) (model.Task, error) {
	if err := ctx.Err(); err != nil {
		return model.Task{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(id)
	if idx < 0 {
		return model.Task{}, ErrNotFound
	}
	return r.tasks[idx], nil
}

func (r *MemoryRepository) ListTasks(ctx context.Context) ([]model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(), nil
}

func (r *MemoryRepository) Subscribe(fn func([]model.Task)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextSubID
	r.nextSubID++
	r.subscribers[id] = fn
	fn(r.snapshotLocked())

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.subscribers, id)
		})
	}
}

// replaceLocked swaps the stored record with in, keeping its position and
// creation time.
func (r *MemoryRepository) replaceLocked(in model.Task) (model.Task, error) {
	idx := r.indexLocked(in.ID)
	if idx < 0 {
		return model.Task{}, ErrNotFound
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return model.Task{}, model.ErrEmptyTitle
	}
	if !in.Category.IsValid() {
		return model.Task{}, fmt.Errorf("%w: %q", model.ErrInvalidCategory, in.Category)
	}
	in.CreatedAt = r.tasks[idx].CreatedAt
	r.tasks[idx] = in
	r.publishLocked()
	return in, nil
}

func (r *MemoryRepository) indexLocked(id string) int {
	for i, task := range r.tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

func (r *MemoryRepository) uniqueIDLocked() string {
	for {
		id := r.nextID()
		if id != "" && r.indexLocked(id) < 0 {
			return id
		}
	}
}

// createdAtLocked never returns a timestamp at or before the previous one,
// so creation order is total even under a coarse or frozen clock.
func (r *MemoryRepository) createdAtLocked() time.Time {
	ts := r.now()
	if !ts.After(r.lastCreated) {
		ts = r.lastCreated.Add(time.Nanosecond)
	}
	r.lastCreated = ts
	return ts
}

func (r *MemoryRepository) snapshotLocked() []model.Task {
	out := make([]model.Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

func (r *MemoryRepository) publishLocked() {
	for _, fn := range r.subscribers {
		fn(r.snapshotLocked())
	}
}
