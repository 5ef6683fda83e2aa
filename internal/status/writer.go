package status

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"

	"codeberg.org/mutker/wheelspeed/internal/errors"
)

const (
	defaultDirPerm  = 0o755
	defaultFilePerm = 0o644
)

// Writer persists one snapshot.
type Writer interface {
	Write(snapshot Snapshot) error
}

// FileWriter replaces its target file with each snapshot. Content goes to a
// temp file in the same directory which is then renamed over the target, so readers
// see either the previous or the new document.
type FileWriter struct {
	path string
}

func NewFileWriter(path string) (*FileWriter, error) {
	if path == "" {
		return nil, errors.New().New(ErrInvalidPath)
	}

	return &FileWriter{path: path}, nil
}

func (w *FileWriter) Write(snapshot Snapshot) error {
	errFactory := errors.New()
	dir := filepath.Dir(w.path)

	if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*")
	if err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}

	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err := json.NewEncoder(buf).Encode(snapshot); err != nil {
		return errFactory.Wrap(ErrEncode, err)
	}
	if err := buf.Flush(); err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}
	if err := tmp.Chmod(defaultFilePerm); err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}
	if err := tmp.Sync(); err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}

	if err := os.Rename(tmp.Name(), w.path); err != nil {
		os.Remove(tmp.Name())
		committed = true
		return errFactory.Wrap(ErrReplace, err)
	}
	committed = true

	return nil
}
