package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"jpaudio/internal/model"
	"jpaudio/internal/scan"
)

// ErrInterrupted is returned when the program exits before the batch could
// start.
var ErrInterrupted = errors.New("interrupted")

// Run shows the live job view while run processes the files of sc.
//
// Cancelling ctx does not tear the program down: the view cancels the batch
// and stays up until every file has reported. Run never returns while the
// batch is still running, so partial outputs are cleaned up and child
// processes are reaped before the caller exits.
func Run(ctx context.Context, dir string, sc scan.Result, run RunFunc, opts ...tea.ProgramOption) ([]model.FileResult, error) {
	m := NewModel(ctx, dir, sc, run)
	defer m.cancel()

	prog := tea.NewProgram(m, opts...)
	stop := context.AfterFunc(ctx, func() {
		prog.Send(interruptMsg{})
	})
	defer stop()

	_, err := prog.Run()

	// The user may force-quit with a second q; stop the batch and wait.
	m.cancel()
	if results, ok := m.batch.wait(); ok {
		return results, nil
	}
	if err != nil {
		return nil, err
	}
	return nil, ErrInterrupted
}
