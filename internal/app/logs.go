package app

import (
	"fmt"
	"io"

	"github.com/five82/roster/internal/logging"
)

// Logs writes the last n lines of the TUI log file to w.
func Logs(w io.Writer, configPath string, n int) error {
	cfg, err := loadConfig(configPath, "")
	if err != nil {
		return err
	}
	lines, err := logging.Tail(cfg.LogFile, n)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
