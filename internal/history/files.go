package history

import (
	"os"
	"path/filepath"
)

// replaceFile writes contents next to path and renames over it. Rename
// within one directory is atomic, so readers see the old log or the new one,
// never a torn write.
func replaceFile(path string, contents []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, contents, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
