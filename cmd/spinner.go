package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))

type callResultMsg[T any] struct {
	value T
	err   error
}

// pendingModel shows label next to a spinner until the call it was started
// with reports back, then quits holding the call's result.
type pendingModel[T any] struct {
	spinner spinner.Model
	label   string
	call    tea.Cmd
	result  callResultMsg[T]
	done    bool
}

func (m pendingModel[T]) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.call)
}

func (m pendingModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case callResultMsg[T]:
		m.result = msg
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m pendingModel[T]) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.label
}

// withSpinner runs call while a spinner labelled label draws on output. A
// nil output runs call without any terminal program.
func withSpinner[T any](ctx context.Context, output io.Writer, label string, call func(context.Context) (T, error)) (T, error) {
	if output == nil {
		return call(ctx)
	}

	model := pendingModel[T]{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		label:   label,
		call: func() tea.Msg {
			value, err := call(ctx)
			return callResultMsg[T]{value: value, err: err}
		},
	}

	final, err := tea.NewProgram(model,
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	).Run()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", label, err)
	}

	result, ok := final.(pendingModel[T])
	if !ok {
		var zero T
		return zero, fmt.Errorf("unexpected final spinner model type %T", final)
	}
	return result.result.value, result.result.err
}
