package bestscore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FileStore keeps the best score as a decimal integer in a text file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(_ context.Context) (int, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, persistenceError("read "+s.path, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return 0, nil
	}
	score, err := strconv.Atoi(text)
	if err != nil {
		return 0, persistenceError("parse "+s.path, err)
	}
	return score, nil
}

// Save writes through a temp file and renames it over the target.
func (s *FileStore) Save(_ context.Context, score int) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".bestscore-*")
	if err != nil {
		return persistenceError("create temp file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(strconv.Itoa(score)); err != nil {
		tmp.Close()
		return persistenceError("write "+tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return persistenceError("close "+tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return persistenceError("rename to "+s.path, err)
	}
	return nil
}
