package prompt

import "github.com/jss-tech/pencil-design-system/internal/errors"

// Sentinel errors for selection prompts.
var (
	// ErrNoChoices is returned when a prompt is started with an empty list.
	ErrNoChoices = errors.New("no choices to select from")

	// ErrSelectionCancelled is returned when input ends before a choice is
	// confirmed (e.g., stdin closed).
	ErrSelectionCancelled = errors.New("selection cancelled")

	// ErrAborted is returned only when the configured exit function returns
	// instead of terminating the process.
	ErrAborted = errors.New("selection aborted")
)

// Choice is one selectable row.
type Choice struct {
	// Label is the text shown for the row.
	Label string

	// Value is returned to the caller when the row is selected.
	Value string

	// Checked seeds the initial selection (multi) or cursor (single).
	Checked bool

	// Hint is an optional dimmed annotation shown after the label.
	Hint string
}
