package update

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/matrixd/internal/model"
	"github.com/sandeepkv93/matrixd/internal/projector"
	"github.com/sandeepkv93/matrixd/internal/storage"
	"github.com/sirupsen/logrus/hooks/test"
)

func setupModel(t *testing.T) (Model, *projector.Projector) {
	t.Helper()
	seq := 0
	repo := storage.NewMemoryRepository(storage.WithIDGenerator(func() string {
		seq++
		return fmt.Sprintf("task-%d", seq)
	}))
	logger, _ := test.NewNullLogger()
	p := projector.New(repo, projector.WithLogger(logger))
	t.Cleanup(p.Close)
	m := NewModel(p, DefaultRuntimeConfig(), logger)
	t.Cleanup(m.Close)
	return m, p
}

// settle feeds any pending projector snapshot back through Update, the way
// the running program would.
func settle(t *testing.T, m Model) Model {
	t.Helper()
	for {
		select {
		case s := <-m.feed.ch:
			next, _ := m.Update(StateMsg{State: s})
			m = next.(Model)
		default:
			return m
		}
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = settle(t, next.(Model))
	}
	return m
}

func titles(m Model, c model.Category) []string {
	g, _ := m.State.Group(c)
	out := make([]string, 0, len(g.Tasks))
	for _, task := range g.Tasks {
		out = append(out, task.Title)
	}
	return out
}

func TestNewModelStartsWithEmptyMatrix(t *testing.T) {
	m, _ := setupModel(t)
	if m.State.IsLoading {
		t.Fatal("expected replayed state, got loading")
	}
	if len(m.State.Groups) != 4 || m.State.TaskCount() != 0 {
		t.Fatalf("unexpected initial state: %#v", m.State)
	}
	if m.Mode != ModeMatrix {
		t.Fatalf("unexpected mode: %s", m.Mode)
	}
	view := m.View()
	for _, want := range []string{"Do First", "Schedule", "Delegate", "Eliminate"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestAddFormCreatesTaskInFocusedQuadrant(t *testing.T) {
	m, _ := setupModel(t)

	m = press(t, m, "a")
	if m.Mode != ModeAdd {
		t.Fatalf("expected add mode, got %s", m.Mode)
	}
	m = press(t, m, "Buy milk", "tab", "2% please", "enter")

	if m.Mode != ModeMatrix {
		t.Fatalf("expected form to close, got %s", m.Mode)
	}
	got := titles(m, model.CategoryUrgentImportant)
	if len(got) != 1 || got[0] != "Buy milk" {
		t.Fatalf("unexpected do-first titles: %v", got)
	}
	g, _ := m.State.Group(model.CategoryUrgentImportant)
	if g.Tasks[0].Description != "2% please" {
		t.Fatalf("unexpected description: %q", g.Tasks[0].Description)
	}
}

func TestAddFormCategoryField(t *testing.T) {
	m, _ := setupModel(t)

	m = press(t, m, "a", "Plan trip", "tab", "tab", "2", "enter")
	if got := titles(m, model.CategoryNotUrgentImportant); len(got) != 1 || got[0] != "Plan trip" {
		t.Fatalf("unexpected schedule titles: %v", got)
	}
	if m.Focused != 1 {
		t.Fatalf("expected focus to follow the new task, got %d", m.Focused)
	}

	m = press(t, m, "a", "Cleanup", "tab", "tab", "right", "right", "enter")
	if got := titles(m, model.CategoryNotUrgentNotImportant); len(got) != 1 {
		t.Fatalf("unexpected eliminate titles: %v", got)
	}
}

func TestAddFormEscapeCancels(t *testing.T) {
	m, _ := setupModel(t)
	m = press(t, m, "a", "never mind", "esc")
	if m.Mode != ModeMatrix || m.State.TaskCount() != 0 {
		t.Fatalf("expected cancelled form, mode=%s tasks=%d", m.Mode, m.State.TaskCount())
	}
}

func TestEmptyTitleShowsErrorUntilDismissed(t *testing.T) {
	m, _ := setupModel(t)

	next, _ := m.Update(keyMsg("a"))
	m = settle(t, next.(Model))
	next, _ = m.Update(keyMsg("enter"))
	m = next.(Model)

	s := <-m.feed.ch
	next, cmd := m.Update(StateMsg{State: s})
	m = next.(Model)
	if m.State.Error != projector.MessageEmptyTitle {
		t.Fatalf("unexpected error: %q", m.State.Error)
	}
	if cmd == nil {
		t.Fatal("expected dismissal to be scheduled")
	}
	if m.LastError == nil {
		t.Fatal("expected last error to be recorded")
	}
	if !strings.Contains(m.View(), projector.MessageEmptyTitle) {
		t.Fatal("expected error in status line")
	}

	next, _ = m.Update(DismissErrorMsg{Error: "something else"})
	m = settle(t, next.(Model))
	if m.State.Error == "" {
		t.Fatal("stale dismissal must not clear a different error")
	}

	next, _ = m.Update(DismissErrorMsg{Error: projector.MessageEmptyTitle})
	m = settle(t, next.(Model))
	if m.State.Error != "" {
		t.Fatalf("expected error cleared, got %q", m.State.Error)
	}
}

func TestDismissKeyClearsError(t *testing.T) {
	m, p := setupModel(t)
	_, _ = p.ToggleCompletion(context.Background(), "missing")
	m = settle(t, m)
	if m.State.Error != projector.MessageNotFound {
		t.Fatalf("unexpected error: %q", m.State.Error)
	}
	m = press(t, m, "e")
	if m.State.Error != "" {
		t.Fatalf("expected error dismissed, got %q", m.State.Error)
	}
}

func TestToggleMoveDeleteAndClear(t *testing.T) {
	m, p := setupModel(t)
	ctx := context.Background()
	if _, err := p.Create(ctx, "A", "", model.CategoryUrgentImportant); err != nil {
		t.Fatalf("create A: %v", err)
	}
	if _, err := p.Create(ctx, "B", "", model.CategoryUrgentImportant); err != nil {
		t.Fatalf("create B: %v", err)
	}
	m = settle(t, m)
	if got := titles(m, model.CategoryUrgentImportant); strings.Join(got, ",") != "B,A" {
		t.Fatalf("expected newest first, got %v", got)
	}

	m = press(t, m, " ")
	g, _ := m.State.Group(model.CategoryUrgentImportant)
	if !g.Tasks[0].Completed || g.Tasks[1].Completed {
		t.Fatalf("expected only B completed: %#v", g.Tasks)
	}

	m = press(t, m, "j", "m", "3")
	if got := titles(m, model.CategoryUrgentNotImportant); len(got) != 1 || got[0] != "A" {
		t.Fatalf("expected A delegated, got %v", got)
	}
	if m.Mode != ModeMatrix {
		t.Fatalf("expected matrix mode after move, got %s", m.Mode)
	}

	m = press(t, m, "C")
	if got := titles(m, model.CategoryUrgentImportant); len(got) != 0 {
		t.Fatalf("expected completed B cleared, got %v", got)
	}

	m = press(t, m, "3", "d")
	if m.State.TaskCount() != 0 {
		t.Fatalf("expected all tasks deleted, got %d", m.State.TaskCount())
	}
	if m.State.Error != "" {
		t.Fatalf("unexpected error: %q", m.State.Error)
	}
}

func TestMoveWithoutSelection(t *testing.T) {
	m, _ := setupModel(t)
	m = press(t, m, "m")
	if m.Mode != ModeMatrix || !m.Status.IsError {
		t.Fatalf("expected refusal with empty quadrant, mode=%s status=%+v", m.Mode, m.Status)
	}
}

func TestCursorSpillsIntoQuadrantBelow(t *testing.T) {
	m, p := setupModel(t)
	if _, err := p.Create(context.Background(), "only", "", model.CategoryUrgentImportant); err != nil {
		t.Fatalf("create: %v", err)
	}
	m = settle(t, m)

	m = press(t, m, "j")
	if m.Focused != 2 {
		t.Fatalf("expected focus on delegate quadrant, got %d", m.Focused)
	}
	m = press(t, m, "k")
	if m.Focused != 0 {
		t.Fatalf("expected focus back on do-first, got %d", m.Focused)
	}
	m = press(t, m, "l")
	if m.Focused != 1 {
		t.Fatalf("expected focus on schedule, got %d", m.Focused)
	}
	m = press(t, m, "h")
	if m.Focused != 0 {
		t.Fatalf("expected focus on do-first, got %d", m.Focused)
	}
}

func TestCommandPaletteFlow(t *testing.T) {
	m, _ := setupModel(t)

	m = press(t, m, "/", "add schedule write report | draft first", "enter")
	if m.Mode != ModeMatrix {
		t.Fatalf("expected palette closed, got %s", m.Mode)
	}
	g, _ := m.State.Group(model.CategoryNotUrgentImportant)
	if len(g.Tasks) != 1 || g.Tasks[0].Title != "write report" || g.Tasks[0].Description != "draft first" {
		t.Fatalf("unexpected schedule group: %#v", g.Tasks)
	}

	m = press(t, m, "2", "/", "done 1", "enter")
	g, _ = m.State.Group(model.CategoryNotUrgentImportant)
	if !g.Tasks[0].Completed {
		t.Fatal("expected task completed via palette")
	}

	m = press(t, m, "/", "move 1 do", "enter")
	if got := titles(m, model.CategoryUrgentImportant); len(got) != 1 {
		t.Fatalf("expected task moved to do-first, got %v", got)
	}

	m = press(t, m, "/", "delete 9", "enter")
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "invalid_argument") {
		t.Fatalf("expected invalid argument status, got %+v", m.Status)
	}

	m = press(t, m, "/", "add do", "enter")
	if !m.Status.IsError {
		t.Fatalf("expected parse error status, got %+v", m.Status)
	}

	m = press(t, m, "1", "/", "clear", "enter")
	if m.State.TaskCount() != 0 || m.Status.IsError {
		t.Fatalf("expected completed task cleared, tasks=%d status=%+v", m.State.TaskCount(), m.Status)
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := setupModel(t)
	m = press(t, m, "?")
	if !m.HelpVisible || !strings.Contains(m.View(), "move selection") {
		t.Fatal("expected help panel")
	}
	m = press(t, m, "?")
	if m.HelpVisible {
		t.Fatal("expected help hidden")
	}
}

func TestQuitDetachesFromProjector(t *testing.T) {
	m, p := setupModel(t)
	next, cmd := m.Update(keyMsg("q"))
	m = next.(Model)
	if !m.Quitting || cmd == nil {
		t.Fatalf("expected quit, quitting=%v cmd=%v", m.Quitting, cmd != nil)
	}
	if _, err := p.Create(context.Background(), "after quit", "", model.CategoryUrgentImportant); err != nil {
		t.Fatalf("create: %v", err)
	}
	select {
	case s := <-m.feed.ch:
		t.Fatalf("unexpected delivery after quit: %#v", s)
	default:
	}
}
