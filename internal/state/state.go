package state

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileState represents the state of a single rendered source file
type FileState struct {
	MTime       int64  `json:"mtime"`
	Hash        string `json:"hash"`
	Output      string `json:"output"`
	Diagnostics int    `json:"diagnostics"`
}

// State is the build cache: what was rendered, and with which settings
type State struct {
	Settings string                `json:"settings"`
	Files    map[string]*FileState `json:"files"`
}

// NewState creates a new empty state
func NewState() *State {
	return &State{
		Files: make(map[string]*FileState),
	}
}

// Load reads state from the state file
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewState(), nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state: %w", err)
	}

	if state.Files == nil {
		state.Files = make(map[string]*FileState)
	}

	return &state, nil
}

// Save writes state to the state file
func (s *State) Save(path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// ComputeHash computes SHA256 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// Fingerprint hashes the render settings. A cache built with other
// settings is stale as a whole.
func Fingerprint(settings ...string) string {
	return fmt.Sprintf("sha256:%x", sha256.Sum256([]byte(strings.Join(settings, "\x00"))))
}

// UseSettings records the fingerprint of the current settings and drops
// every entry when it differs from the cached one. It reports whether the
// cache was invalidated.
func (s *State) UseSettings(fingerprint string) bool {
	if s.Settings == fingerprint {
		return false
	}
	invalidated := s.Settings != "" || len(s.Files) > 0
	s.Settings = fingerprint
	s.Files = make(map[string]*FileState)
	return invalidated
}

// HasChanged checks if a source file needs to be rendered again
// Uses hybrid mtime + hash approach, and a missing output always counts
func (s *State) HasChanged(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	fileState, exists := s.Files[path]
	if !exists {
		// New file
		return true, nil
	}

	if _, err := os.Stat(fileState.Output); err != nil {
		return true, nil
	}

	// Fast path: check mtime first
	if info.ModTime().Unix() == fileState.MTime {
		return false, nil
	}

	// mtime changed, compute hash to check for actual content changes
	hash, err := ComputeHash(path)
	if err != nil {
		return false, err
	}

	return hash != fileState.Hash, nil
}

// Update records a successful render of path into output
func (s *State) Update(path, output string, diagnostics int) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return err
	}

	s.Files[path] = &FileState{
		MTime:       info.ModTime().Unix(),
		Hash:        hash,
		Output:      output,
		Diagnostics: diagnostics,
	}

	return nil
}

// Prune forgets the sources that are not in keep and returns them sorted
func (s *State) Prune(keep map[string]bool) []string {
	var removed []string
	for path := range s.Files {
		if !keep[path] {
			removed = append(removed, path)
			delete(s.Files, path)
		}
	}
	sort.Strings(removed)
	return removed
}

// GetMTime returns the modification time recorded for a file
func (s *State) GetMTime(path string) time.Time {
	if fileState, exists := s.Files[path]; exists {
		return time.Unix(fileState.MTime, 0)
	}
	return time.Time{}
}
