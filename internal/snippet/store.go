package snippet

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Store reads and writes the JSON snippet library file.
//
// The library is a JSON object with a "snippets" array. Only the fields the
// engine needs are interpreted; unknown keys in the file (editor metadata,
// window state) are preserved across updates because writes go through sjson
// path edits rather than a full re-marshal.
type Store struct {
	path string
}

// NewStore creates a store for the given library path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the library file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads all snippets from the library file.
// A missing file is not an error; it yields an empty set.
func (s *Store) Load() ([]Snippet, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading snippet library %s: %w", s.path, err)
	}
	return parseLibrary(data)
}

// parseLibrary extracts snippets from raw library JSON.
func parseLibrary(data []byte) ([]Snippet, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("snippet library is not valid JSON")
	}

	var snippets []Snippet
	gjson.GetBytes(data, "snippets").ForEach(func(_, value gjson.Result) bool {
		sn := Snippet{
			ID:          value.Get("id").String(),
			Trigger:     value.Get("trigger").String(),
			Content:     value.Get("content").String(),
			Folder:      value.Get("folder").String(),
			Description: value.Get("description").String(),
		}
		if sn.ID == "" {
			sn = withFreshID(sn)
		}
		snippets = append(snippets, sn)
		return true
	})
	return snippets, nil
}

// withFreshID assigns an ID to a snippet loaded without one.
func withFreshID(sn Snippet) Snippet {
	fresh := New(sn.Trigger, sn.Content)
	fresh.Folder = sn.Folder
	fresh.Description = sn.Description
	return fresh
}

// Save writes the full snippet list, replacing the "snippets" array but
// leaving any other top-level keys in the file untouched.
func (s *Store) Save(snippets []Snippet) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("reading snippet library %s: %w", s.path, err)
		}
		data = []byte("{}")
	}

	data, err = sjson.SetBytes(data, "snippets", snippets)
	if err != nil {
		return fmt.Errorf("encoding snippet library: %w", err)
	}
	return s.writeFile(data)
}

// Add appends a snippet to the library file.
func (s *Store) Add(sn Snippet) error {
	if sn.ID == "" {
		sn = withFreshID(sn)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("reading snippet library %s: %w", s.path, err)
		}
		data = []byte("{}")
	}

	data, err = sjson.SetBytes(data, "snippets.-1", sn)
	if err != nil {
		return fmt.Errorf("encoding snippet: %w", err)
	}
	return s.writeFile(data)
}

// Remove deletes the first snippet with the given ID from the library file.
// Removing an unknown ID is a no-op.
func (s *Store) Remove(id string) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading snippet library %s: %w", s.path, err)
	}

	idx := -1
	gjson.GetBytes(data, "snippets").ForEach(func(i, value gjson.Result) bool {
		if value.Get("id").String() == id {
			idx = int(i.Int())
			return false
		}
		return true
	})
	if idx < 0 {
		return nil
	}

	data, err = sjson.DeleteBytes(data, fmt.Sprintf("snippets.%d", idx))
	if err != nil {
		return fmt.Errorf("removing snippet: %w", err)
	}
	return s.writeFile(data)
}

// writeFile writes atomically via a temp file in the same directory.
func (s *Store) writeFile(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating library directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".library-*.json")
	if err != nil {
		return fmt.Errorf("creating temp library file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing snippet library: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing snippet library: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing snippet library: %w", err)
	}
	return nil
}
