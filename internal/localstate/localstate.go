// Package localstate persists the terminal client's claimed placeholder ids.
package localstate

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

type file struct {
	ClaimedPlaceholders []string `yaml:"claimed_placeholders"`
}

// Store is a YAML file holding the set of claimed placeholder ids.
type Store struct {
	path string

	mu      sync.Mutex
	claimed []string
}

// Open reads the state file at path. A missing file is an empty set; a
// corrupt file is an error.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing state file %s: %w", path, err)
	}
	s.claimed = f.ClaimedPlaceholders
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Claimed returns a copy of the claimed ids.
func (s *Store) Claimed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.claimed)
}

// Add records id and writes the file. Adding a known id is a no-op.
func (s *Store) Add(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.claimed, id) {
		return nil
	}
	next := append(slices.Clone(s.claimed), id)
	if err := s.write(next); err != nil {
		return err
	}
	s.claimed = next
	return nil
}

// write replaces the file through a rename so a crash never leaves it half written.
func (s *Store) write(claimed []string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := yaml.Marshal(file{ClaimedPlaceholders: claimed})
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}
