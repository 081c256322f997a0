package tui

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// doneMsg carries the result of the wrapped operation.
type doneMsg struct{ err error }

// SpinnerModel shows a spinner until its operation returns. Key presses are
// ignored: an in-flight request cannot be abandoned from the keyboard.
type SpinnerModel struct {
	Title string
	Done  bool
	Err   error

	spinner spinner.Model
	run     func() error
}

// NewSpinnerModel creates a model that runs op and quits when it returns.
func NewSpinnerModel(title string, op func() error) SpinnerModel {
	return SpinnerModel{
		Title:   title,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		run:     op,
	}
}

// Init starts the spinner and the operation.
func (m SpinnerModel) Init() tea.Cmd {
	run := m.run
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return doneMsg{err: run()}
	})
}

// Update handles spinner ticks and the operation result.
func (m SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.Done = true
		m.Err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if m.Done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the spinner line; it is empty once the operation finished.
func (m SpinnerModel) View() string {
	if m.Done {
		return ""
	}
	return m.spinner.View() + " " + m.Title + "\n"
}

// RunWithSpinner runs op while a spinner titled title is drawn on out and
// returns op's error.
func RunWithSpinner(ctx context.Context, out io.Writer, title string, op func(context.Context) error) error {
	model := NewSpinnerModel(title, func() error { return op(ctx) })
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithInput(nil),
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	return final.(SpinnerModel).Err
}
