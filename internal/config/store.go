// Package config holds the node-local configuration surface: the flat
// KEY=VALUE store consulted by every command, the well-known filesystem
// locations, and the pinned component versions with their optional
// YAML override file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrStoreMissing signals that the config store file does not exist.
// Commands that depend on node state treat this as "run install first".
var ErrStoreMissing = errors.New("config store missing (node not installed?)")

// Store is the persistent KEY=VALUE file holding cluster-joining parameters.
//
// Every operation re-reads the file; there is no in-memory cache and no
// locking. A single operator running one command at a time per node is
// assumed.
type Store struct {
	path string
}

// NewStore returns a store backed by the given file.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value recorded for key, or empty string when the key is
// absent. A missing store file is an error.
func (s *Store) Get(key string) (string, error) {
	lines, err := s.read()
	if err != nil {
		return "", err
	}

	for _, line := range lines {
		if k, v, ok := splitEntry(line); ok && k == key {
			return v, nil
		}
	}
	return "", nil
}

// Set upserts key=value with line granularity: the single line whose key
// matches exactly is replaced in place, otherwise a new line is appended.
// All other lines, including comments and blanks, are preserved verbatim.
// Calling Set twice with the same value is a no-op the second time.
func (s *Store) Set(key, value string) error {
	if strings.ContainsAny(key, "=\n") {
		return fmt.Errorf("invalid store key %q", key)
	}
	if strings.Contains(value, "\n") {
		return fmt.Errorf("invalid store value for %s: contains newline", key)
	}

	lines, err := s.read()
	if err != nil {
		return err
	}

	entry := key + "=" + value
	replaced := false
	for i, line := range lines {
		if k, _, ok := splitEntry(line); ok && k == key {
			lines[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		lines = append(lines, entry)
	}

	return s.write(lines)
}

// read returns the store contents as lines, without trailing newline
// artifacts.
func (s *Store) read() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrStoreMissing, s.path)
		}
		return nil, fmt.Errorf("reading config store: %w", err)
	}

	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

func (s *Store) write(lines []string) error {
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(s.path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing config store: %w", err)
	}
	return nil
}

// splitEntry parses a KEY=VALUE line. Comments and lines without '=' are
// not entries.
func splitEntry(line string) (key, value string, ok bool) {
	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		return "", "", false
	}
	key, value, ok = strings.Cut(line, "=")
	if !ok || key == "" {
		return "", "", false
	}
	return key, value, true
}

// WriteDefaultStore creates the store file with a commented header when it
// does not exist yet. Called once during install.
func WriteDefaultStore(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking config store: %w", err)
	}

	content := "# kubernetes-on-arm node configuration\n" +
		"# Managed by kube-config; one KEY=VALUE per line.\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("creating config store: %w", err)
	}
	return nil
}
