package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/consistency/internal/logger"
)

var (
	// ErrStoreUnavailable is returned when the backing medium cannot be read or written.
	ErrStoreUnavailable = stderrors.New("store unavailable")
	// ErrDuplicateActivity is returned when adding an activity whose name is already tracked.
	ErrDuplicateActivity = stderrors.New("activity already exists")
	// ErrActivityNotFound is returned when an operation names an activity that is not tracked.
	ErrActivityNotFound = stderrors.New("activity not found")
	// ErrMalformedDate is returned when a stored check-in date cannot be parsed.
	ErrMalformedDate = stderrors.New("malformed date")
	// ErrInvalidActivityName is returned for empty or whitespace-only activity names.
	ErrInvalidActivityName = stderrors.New("invalid activity name")
	// ErrInvalidReminderTime is returned when a reminder slot time is not HH:MM.
	ErrInvalidReminderTime = stderrors.New("invalid reminder time (must be HH:MM 24h)")
)

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
