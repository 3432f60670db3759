package files

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"hostelpass/internal/crypto"
)

// JSONFile reads and writes one JSON document on disk. When Key is set the
// document is sealed with AES-GCM before it touches the disk.
type JSONFile struct {
	Path string
	Key  []byte
}

// Read decodes the file into v. A missing file is not an error; found reports
// whether anything was read.
func (f *JSONFile) Read(v interface{}) (found bool, err error) {
	blob, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	plain := blob
	if f.Key != nil {
		plain, err = crypto.DecryptAESGCM(f.Key, blob)
		if err != nil {
			return false, fmt.Errorf("decrypt %s: %w", f.Path, err)
		}
	}
	if err := json.Unmarshal(plain, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	return true, nil
}

// Write encodes v and replaces the file atomically: the data goes to a temp
// file in the same directory which is then renamed over the target.
func (f *JSONFile) Write(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	perm := os.FileMode(0644)
	if f.Key != nil {
		data, err = crypto.EncryptAESGCM(f.Key, data)
		if err != nil {
			return err
		}
		perm = 0600
	}
	return writeAtomic(f.Path, data, perm)
}

func writeAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}

// FileExists checks if the given file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
