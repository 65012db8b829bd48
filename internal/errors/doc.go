// Package errors provides error handling conventions for the pds CLI.
//
// The package re-exports the constructors and inspection helpers of
// github.com/cockroachdb/errors so callers need a single import, defines
// sentinel errors shared across packages, and provides the [ExitError] type
// the command layer uses to pick a process exit code.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [Is]:
//
//	if errors.Is(err, pdserrors.ErrUnknownEditor) {
//	    // handle unknown --agent value
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, permissions, etc.)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion:
//
//	err := pdserrors.NewUserError(pdserrors.ErrInvalidConfig, "Check your config file")
//	var exitErr *pdserrors.ExitError
//	if errors.As(err, &exitErr) {
//	    if exitErr.Suggestion != "" {
//	        fmt.Println("Suggestion:", exitErr.Suggestion)
//	    }
//	    os.Exit(exitErr.Code)
//	}
package errors
