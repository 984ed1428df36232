// Package projector turns the task repository's snapshot stream into the
// per-quadrant view state consumed by the terminal UI.
package projector

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/sandeepkv93/matrixd/internal/model"
	"github.com/sandeepkv93/matrixd/internal/storage"
	log "github.com/sirupsen/logrus"
)

const (
	MessageEmptyTitle      = "Title cannot be empty"
	MessageNotFound        = "Task not found"
	MessageInvalidCategory = "Invalid category"
	MessageUnexpected      = "An unexpected error occurred"
)

type CategoryGroup struct {
	Category model.Category
	Title    string
	Tasks    []model.Task
}

type UIState struct {
	Groups    []CategoryGroup
	IsLoading bool
	Error     string
}

// Group returns the group for category c.
func (s UIState) Group(c model.Category) (CategoryGroup, bool) {
	for _, g := range s.Groups {
		if g.Category == c {
			return g, true
		}
	}
	return CategoryGroup{}, false
}

// TaskCount is the number of tasks across all groups.
func (s UIState) TaskCount() int {
	n := 0
	for _, g := range s.Groups {
		n += len(g.Tasks)
	}
	return n
}

type Option func(*Projector)

func WithLogger(logger log.FieldLogger) Option {
	return func(p *Projector) {
		if logger != nil {
			p.logger = logger
		}
	}
}

type Projector struct {
	repo   storage.Repository
	logger log.FieldLogger

	mu          sync.Mutex
	state       UIState
	subscribers map[int]func(UIState)
	nextSubID   int
	unsubscribe func()
}

func New(repo storage.Repository, opts ...Option) *Projector {
	p := &Projector{
		repo:        repo,
		logger:      log.StandardLogger(),
		subscribers: make(map[int]func(UIState)),
		state: UIState{
			Groups:    Derive(nil),
			IsLoading: true,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.unsubscribe = repo.Subscribe(p.onTasks)
	return p
}

// Close stops listening to the repository.
func (p *Projector) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
	}
}

// GroupByCategory selects tasks in category c, most recently created first.
func GroupByCategory(tasks []model.Task, c model.Category) []model.Task {
	out := make([]model.Task, 0)
	for _, task := range tasks {
		if task.Category == c {
			out = append(out, task)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Derive builds one group per category in model.Categories order.
func Derive(tasks []model.Task) []CategoryGroup {
	cats := model.Categories()
	out := make([]CategoryGroup, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryGroup{
			Category: c,
			Title:    c.Title(),
			Tasks:    GroupByCategory(tasks, c),
		})
	}
	return out
}

// ErrorMessage maps a failure to the text shown to the user.
func ErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, model.ErrEmptyTitle):
		return MessageEmptyTitle
	case errors.Is(err, storage.ErrNotFound):
		return MessageNotFound
	case errors.Is(err, model.ErrInvalidCategory):
		return MessageInvalidCategory
	default:
		return MessageUnexpected
	}
}

func (p *Projector) State() UIState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneState(p.state)
}

// Subscribe delivers the current state immediately and then every change.
// Handlers run under the projector lock and must not call back into it.
func (p *Projector) Subscribe(fn func(UIState)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextSubID
	p.nextSubID++
	p.subscribers[id] = fn
	fn(cloneState(p.state))

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.subscribers, id)
		})
	}
}

func (p *Projector) ClearError() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Error == "" {
		return
	}
	p.state.Error = ""
	p.publishLocked()
}

func (p *Projector) Create(ctx context.Context, title, description string, category model.Category) (model.Task, error) {
	task, err := p.repo.CreateTask(ctx, title, description, category)
	if err != nil {
		p.fail("create", "", err)
	}
	return task, err
}

func (p *Projector) Update(ctx context.Context, task model.Task) (model.Task, error) {
	out, err := p.repo.UpdateTask(ctx, task)
	if err != nil {
		p.fail("update", task.ID, err)
	}
	return out, err
}

func (p *Projector) ToggleCompletion(ctx context.Context, id string) (model.Task, error) {
	task, err := p.repo.ToggleCompletion(ctx, id)
	if err != nil {
		p.fail("toggle", id, err)
	}
	return task, err
}

func (p *Projector) MoveToCategory(ctx context.Context, id string, category model.Category) (model.Task, error) {
	task, err := p.repo.MoveToCategory(ctx, id, category)
	if err != nil {
		p.fail("move", id, err)
	}
	return task, err
}

func (p *Projector) Delete(ctx context.Context, id string) error {
	err := p.repo.DeleteTask(ctx, id)
	if err != nil {
		p.fail("delete", id, err)
	}
	return err
}

func (p *Projector) ClearCompleted(ctx context.Context) (int, error) {
	n, err := p.repo.ClearCompleted(ctx)
	if err != nil {
		p.fail("clear_completed", "", err)
	}
	return n, err
}

func (p *Projector) fail(op, taskID string, err error) {
	msg := ErrorMessage(err)
	p.logger.WithFields(log.Fields{"op": op, "task": taskID, "error": err}).Debug("task intent failed")

	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Error = msg
	p.publishLocked()
}

func (p *Projector) onTasks(tasks []model.Task) {
	groups := Derive(tasks)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Groups = groups
	p.state.IsLoading = false
	p.publishLocked()
}

func (p *Projector) publishLocked() {
	for _, fn := range p.subscribers {
		fn(cloneState(p.state))
	}
}

func cloneState(s UIState) UIState {
	groups := make([]CategoryGroup, len(s.Groups))
	for i, g := range s.Groups {
		tasks := make([]model.Task, len(g.Tasks))
		copy(tasks, g.Tasks)
		groups[i] = CategoryGroup{Category: g.Category, Title: g.Title, Tasks: tasks}
	}
	s.Groups = groups
	return s
}
