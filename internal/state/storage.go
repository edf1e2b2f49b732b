package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the state file name under the user's home directory.
const FileName = ".bust.json"

// DefaultPath returns the per-user state file path.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, FileName), nil
}

// Load reads the state at path. A missing file yields an empty state.
func Load(path string) (*State, error) {
	st := New()
	ok, err := readJSON(path, st)
	if err != nil {
		return nil, fmt.Errorf("read state %s: %w", path, err)
	}
	if !ok {
		return New(), nil
	}
	st.normalize()
	return st, nil
}

// Save writes the state to path, replacing the previous file atomically.
func Save(path string, st *State) error {
	if st == nil {
		return nil
	}
	st.normalize()
	if err := writeJSONAtomic(path, st); err != nil {
		return fmt.Errorf("write state %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return true, err
	}
	return true, nil
}

func writeJSONAtomic(path string, value any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
