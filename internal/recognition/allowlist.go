package recognition

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// allowlistFile is the on-disk YAML shape of a static allowlist.
type allowlistFile struct {
	Identities []allowlistEntry `yaml:"identities"`
}

type allowlistEntry struct {
	Name       string `yaml:"name"`
	Authorized bool   `yaml:"authorized"`
}

// Allowlist is a static recognizer for deployments without a recognition
// service. It admits the first authorized identity in the file, which is
// enough for single-occupant sites and for exercising the pipeline in
// development.
type Allowlist struct {
	mu      sync.RWMutex
	entries []allowlistEntry
	path    string
}

// LoadAllowlist reads the YAML allowlist at path.
//
// Parameters:
//   - path: Path to the allowlist YAML file
//
// Returns:
//   - *Allowlist: Recognizer backed by the file contents
//   - error: nil on success, otherwise the read or parse error
func LoadAllowlist(path string) (*Allowlist, error) {
	a := &Allowlist{path: path}
	if err := a.Reload(); err != nil {
		return nil, err
	}
	return a, nil
}

// Reload re-reads the allowlist file, replacing the in-memory entries.
func (a *Allowlist) Reload() error {
	data, err := os.ReadFile(a.path)
	if err != nil {
		return fmt.Errorf("reading allowlist: %w", err)
	}

	var file allowlistFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing allowlist: %w", err)
	}

	for i, entry := range file.Identities {
		if strings.TrimSpace(entry.Name) == "" {
			return fmt.Errorf("allowlist entry %d has no name", i)
		}
	}

	a.mu.Lock()
	a.entries = file.Identities
	a.mu.Unlock()
	return nil
}

// Len returns the number of loaded identities.
func (a *Allowlist) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}

// Contains reports whether name is an authorized identity.
func (a *Allowlist) Contains(name string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, entry := range a.entries {
		if entry.Authorized && strings.EqualFold(entry.Name, name) {
			return true
		}
	}
	return false
}

// Recognize returns the first authorized identity, or an unauthorized
// Decision when the list holds none.
func (a *Allowlist) Recognize(ctx context.Context) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, entry := range a.entries {
		if entry.Authorized {
			return Decision{Name: entry.Name, Authorized: true}, nil
		}
	}
	return Decision{}, nil
}
