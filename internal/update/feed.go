package update

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/matrixd/internal/projector"
)

// stateFeed hands projector snapshots to the bubbletea loop. It holds at most
// one pending snapshot; a newer one replaces it, since each snapshot is the
// whole state.
type stateFeed struct {
	ch chan projector.UIState
}

func newStateFeed() *stateFeed {
	return &stateFeed{ch: make(chan projector.UIState, 1)}
}

// push never blocks; it runs under the projector lock.
func (f *stateFeed) push(s projector.UIState) {
	for {
		select {
		case f.ch <- s:
			return
		default:
		}
		select {
		case <-f.ch:
		default:
		}
	}
}

func (f *stateFeed) latest() projector.UIState {
	select {
	case s := <-f.ch:
		return s
	default:
		return projector.UIState{IsLoading: true}
	}
}

func waitForStateCmd(ch <-chan projector.UIState) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return StateMsg{State: s}
	}
}
