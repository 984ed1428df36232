package update

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sandeepkv93/matrixd/internal/model"
	"github.com/sandeepkv93/matrixd/internal/projector"
	log "github.com/sirupsen/logrus"
)

// TaskProjector is the view-state source the UI renders and forwards intents to.
type TaskProjector interface {
	State() projector.UIState
	Subscribe(fn func(projector.UIState)) func()
	ClearError()

	Create(ctx context.Context, title, description string, category model.Category) (model.Task, error)
	ToggleCompletion(ctx context.Context, id string) (model.Task, error)
	MoveToCategory(ctx context.Context, id string, category model.Category) (model.Task, error)
	Delete(ctx context.Context, id string) error
	ClearCompleted(ctx context.Context) (int, error)
}

type Mode string

const (
	ModeMatrix  Mode = "matrix"
	ModeAdd     Mode = "add"
	ModeMove    Mode = "move"
	ModePalette Mode = "palette"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Add     string
	Toggle  string
	Move    string
	Delete  string
	Clear   string
	Dismiss string
	Help    string
	Quit    string
}

type AddFormState struct {
	Field    int
	Category model.Category
}

const (
	formFieldTitle = iota
	formFieldDescription
	formFieldCategory
	formFieldCount
)

type Model struct {
	State       projector.UIState
	Mode        Mode
	Focused     int
	Cursors     [4]int
	Form        AddFormState
	HelpVisible bool
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error

	tasks       TaskProjector
	feed        *stateFeed
	unsubscribe func()
	cfg         RuntimeConfig
	logger      log.FieldLogger
	ctx         context.Context

	titleInput   textinput.Model
	descInput    textinput.Model
	commandInput textinput.Model
	loadSpinner  spinner.Model
	helpModel    help.Model
}

// StateMsg carries a fresh view-state snapshot from the projector.
type StateMsg struct {
	State projector.UIState
}

// DismissErrorMsg asks the model to clear Error if it is still the one shown.
type DismissErrorMsg struct {
	Error string
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

func NewModel(tasks TaskProjector, cfg RuntimeConfig, logger log.FieldLogger) Model {
	if logger == nil {
		logger = log.StandardLogger()
	}
	m := Model{
		Mode: ModeMatrix,
		Form: AddFormState{Category: model.CategoryUrgentImportant},
		Keys: GlobalKeyMap{
			Add:     "a",
			Toggle:  " ",
			Move:    "m",
			Delete:  "d",
			Clear:   "C",
			Dismiss: "e",
			Help:    "?",
			Quit:    "q",
		},
		tasks:  tasks,
		feed:   newStateFeed(),
		cfg:    cfg,
		logger: logger,
		ctx:    context.Background(),
	}
	m.initBubbleComponents()
	m.unsubscribe = tasks.Subscribe(m.feed.push)
	m.State = m.feed.latest()
	return m
}

func (m *Model) initBubbleComponents() {
	m.titleInput = textinput.New()
	m.titleInput.Prompt = ""
	m.titleInput.Placeholder = "what needs doing"
	m.titleInput.CharLimit = 256
	m.titleInput.Width = 36

	m.descInput = textinput.New()
	m.descInput.Prompt = ""
	m.descInput.Placeholder = "optional, markdown"
	m.descInput.CharLimit = 1024
	m.descInput.Width = 36

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.loadSpinner = spinner.New()
	m.loadSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
}

// WithContext sets the context passed to task intents.
func (m Model) WithContext(ctx context.Context) Model {
	if ctx != nil {
		m.ctx = ctx
	}
	return m
}

// Close detaches the model from the projector.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}
