package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadTargets reads a newline-delimited list of target addresses from path.
// Lines are trimmed and blank lines are skipped. A missing file is a fatal
// condition for the run and is reported as ErrTargetsFileNotFound wrapped
// with the expected location.
func ReadTargets(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided targets path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTargetsFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to open targets file %s: %w", path, err)
	}
	defer f.Close()

	targets := make([]string, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		targets = append(targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read targets file %s: %w", path, err)
	}

	return targets, nil
}
