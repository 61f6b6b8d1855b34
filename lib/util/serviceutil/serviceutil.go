package serviceutil

import (
	"log/slog"
	"os"
)

// Fatal logs the error and exits. Only commands call this, library code
// returns errors instead.
func Fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}
