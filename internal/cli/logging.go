package cli

import (
	"io"
	"log/slog"
)

// setupLogging installs the default slog handler for a command run.
// Logs go to w (stderr) so they never mix with command output.
func setupLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
