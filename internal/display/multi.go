package display

import (
	"context"
	"errors"
	"fmt"

	"github.com/ergutierz/SaturnClient/internal/models"
)

// Display is implemented by every collaborator in this package.
type Display interface {
	SetBusy(busy bool)
	ShowStats(ctx context.Context, runID string, stats []models.TeamStat) error
	ShowError(message string)
}

// Named pairs a display with the name used in error messages.
type Named struct {
	Name    string
	Display Display
}

// Multi forwards every call to each display in order. ShowStats reaches all
// of them even when one fails; the failures are joined.
type Multi struct {
	displays []Named
}

func NewMulti(displays ...Named) *Multi {
	return &Multi{displays: displays}
}

func (m *Multi) Len() int {
	return len(m.displays)
}

func (m *Multi) SetBusy(busy bool) {
	for _, d := range m.displays {
		d.Display.SetBusy(busy)
	}
}

func (m *Multi) ShowStats(ctx context.Context, runID string, stats []models.TeamStat) error {
	var errs []error
	for _, d := range m.displays {
		if err := d.Display.ShowStats(ctx, runID, stats); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (m *Multi) ShowError(message string) {
	for _, d := range m.displays {
		d.Display.ShowError(message)
	}
}
