package logging

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"slices"
)

// Tail returns at most maxLines from the end of the file at path. maxLines
// of zero or less returns every line. A missing file yields no lines.
func Tail(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		// Compact occasionally so memory stays proportional to maxLines.
		if maxLines > 0 && len(lines) >= 2*maxLines {
			lines = slices.Clone(lines[len(lines)-maxLines:])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines, nil
}
