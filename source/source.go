/*
Package source abstracts the external collaborators that produce image
artifacts on disk, so the acquisition fallback chain can be driven either by
real processes or by in-process implementations.
*/
package source

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a collaborator process when no timeout is given
const DefaultTimeout = 30 * time.Second

var errEmptyCommand = errors.New("source: empty command")

// Provider produces the artifacts of an external collaborator. A nil error
// means the collaborator reported success, it says nothing about whether
// the expected files were actually written.
type Provider interface {
	Produce(ctx context.Context) error
}

// Func adapts an ordinary function to the Provider interface.
type Func func(ctx context.Context) error

// Produce calls f(ctx).
func (f Func) Produce(ctx context.Context) error {
	return f(ctx)
}

// Command runs an external program to completion.
type Command struct {
	Name    string
	Args    []string
	Dir     string
	Timeout time.Duration
}

// Parse splits cmdline on whitespace into a Command. No quoting is
// supported.
func Parse(cmdline string, timeout time.Duration) (*Command, error) {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return nil, errEmptyCommand
	}
	return &Command{
		Name:    fields[0],
		Args:    fields[1:],
		Timeout: timeout,
	}, nil
}

func (c *Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Produce runs the command, discarding its output. The process, along with
// anything it started, is killed once the timeout expires or ctx is
// cancelled.
func (c *Command) Produce(ctx context.Context) error {
	if c.Name == "" {
		return errEmptyCommand
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Stdout and Stderr stay nil so they go straight to the null device. A
	// pipe would be held open by any background child and block Wait.
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("source: %s: %w", c, err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			killProcessGroup(cmd)
		case <-done:
		}
	}()

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("source: %s: %w", c, ctx.Err())
		}
		return fmt.Errorf("source: %s: %w", c, err)
	}

	return nil
}
