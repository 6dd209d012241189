// Package display holds the collaborators that present a run's outcome:
// a terminal view, a Redis snapshot with change events, and a Postgres
// history table.
package display

import (
	"context"
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/briandowns/spinner"

	"github.com/ergutierz/SaturnClient/internal/models"
)

const (
	spinnerRefreshRate = 100 * time.Millisecond
	gameDateLayout     = "2006-01-02 15:04:05"
)

// Spinner is the busy indicator the console drives.
type Spinner interface {
	Start()
	Stop()
}

type ConsoleOption func(*Console)

// WithSpinner replaces the default terminal spinner.
func WithSpinner(s Spinner) ConsoleOption {
	return func(c *Console) { c.spinner = s }
}

// WithoutSpinner disables the busy indicator.
func WithoutSpinner() ConsoleOption {
	return func(c *Console) { c.spinner = nil }
}

// Console renders results as a table on a writer, usually stdout.
type Console struct {
	mu       sync.Mutex
	out      io.Writer
	spinner  Spinner
	spinning bool
}

func NewConsole(out io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{
		out: out,
		spinner: spinner.New(spinner.CharSets[11], spinnerRefreshRate,
			spinner.WithWriter(out),
			spinner.WithSuffix(" fetching team data..."),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Console) SetBusy(busy bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.spinner == nil {
		return
	}
	if busy {
		if !c.spinning {
			c.spinner.Start()
			c.spinning = true
		}
		return
	}
	c.stopSpinner()
}

// stopSpinner must be called with mu held. The spinner redraws the current
// line from its own goroutine, so it has to be stopped before any output.
func (c *Console) stopSpinner() {
	if c.spinner != nil && c.spinning {
		c.spinner.Stop()
		c.spinning = false
	}
}

func (c *Console) ShowStats(_ context.Context, runID string, stats []models.TeamStat) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopSpinner()

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TEAM NAME\tTEAM NUMBER\tTEAM SCORE\tGAME DATE")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.TeamName, s.TeamNumber, s.TeamScore, s.GameDate.Format(gameDateLayout))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	if _, err := fmt.Fprintf(c.out, "%d records (run %s)\n", len(stats), runID); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

func (c *Console) ShowError(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopSpinner()
	fmt.Fprintln(c.out, message)
}
