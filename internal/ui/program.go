package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/zoompan/internal/logger"
)

// ProgramConfig holds configuration for running a UI program
type ProgramConfig struct {
	// QuitTimeout bounds the wait for the program after the context ends
	QuitTimeout time.Duration
	Input       io.Reader
	Output      io.Writer
	// Extra options, e.g. the SSH session's renderer
	Options []tea.ProgramOption
}

// DefaultProgramConfig returns default configuration
func DefaultProgramConfig() ProgramConfig {
	return ProgramConfig{
		QuitTimeout: 2 * time.Second,
	}
}

// ProgramOptions returns the options every viewer program runs with
func ProgramOptions() []tea.ProgramOption {
	return []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	}
}

// ProgramRunner manages the lifecycle of a Bubble Tea program with proper shutdown
type ProgramRunner struct {
	config  ProgramConfig
	program *tea.Program
	done    chan struct{}
}

// NewProgramRunner creates a new program runner
func NewProgramRunner(config ProgramConfig) *ProgramRunner {
	if config.QuitTimeout <= 0 {
		config.QuitTimeout = DefaultProgramConfig().QuitTimeout
	}
	return &ProgramRunner{
		config: config,
		done:   make(chan struct{}),
	}
}

// Run starts the program with model and blocks until it exits or ctx ends
func (r *ProgramRunner) Run(ctx context.Context, model tea.Model) error {
	defer close(r.done)

	opts := append(ProgramOptions(), tea.WithContext(ctx))
	if r.config.Input != nil {
		opts = append(opts, tea.WithInput(r.config.Input))
	}
	if r.config.Output != nil {
		opts = append(opts, tea.WithOutput(r.config.Output))
	}
	opts = append(opts, r.config.Options...)

	r.program = tea.NewProgram(model, opts...)

	errCh := make(chan error, 1)
	go func() {
		_, err := r.program.Run()
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("viewer exited: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Debug("context done, stopping viewer")
		r.program.Quit()
		select {
		case <-errCh:
		case <-time.After(r.config.QuitTimeout):
			logger.Warn("viewer did not quit in time, killing it")
			r.program.Kill()
			<-errCh
		}
		return nil
	}
}

// Quit asks the running program to exit
func (r *ProgramRunner) Quit() {
	if r.program != nil {
		r.program.Quit()
	}
}

// Done returns a channel that's closed when the program exits
func (r *ProgramRunner) Done() <-chan struct{} {
	return r.done
}
