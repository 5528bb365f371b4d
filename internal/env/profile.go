// Package env resolves the board/OS identity of the local machine and the
// extension hooks that go with it. The resolved profile is persisted so
// later commands never re-prompt.
package env

import (
	"fmt"
	"os"
	"strings"
)

// Profile is the persisted (board, os) pair.
type Profile struct {
	Board string
	OS    string
}

// LoadProfile reads a persisted profile. A missing file returns (nil, nil):
// the caller decides whether to prompt or fail.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading env profile: %w", err)
	}

	p := &Profile{}
	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		switch key {
		case "OS":
			p.OS = value
		case "BOARD":
			p.Board = value
		}
	}

	if p.OS == "" || p.Board == "" {
		return nil, fmt.Errorf("env profile %s is incomplete (OS=%q BOARD=%q)", path, p.OS, p.Board)
	}
	return p, nil
}

// Save persists the profile as the two fixed lines OS= and BOARD=.
func (p *Profile) Save(path string) error {
	content := fmt.Sprintf("OS=%s\nBOARD=%s\n", p.OS, p.Board)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing env profile: %w", err)
	}
	return nil
}
