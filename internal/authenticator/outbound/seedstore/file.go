package seedstore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shandysiswandi/seedauth/internal/pkg/goerror"
)

// DefaultFilePath is where the seed lives when no path is configured.
const DefaultFilePath = "data/seed.txt"

// File stores the bare seed string in a text file. Writes go through a temp
// file in the same directory followed by a rename, so readers never observe
// a half written seed.
type File struct {
	path string
}

func NewFile(path string) *File {
	if path == "" {
		path = DefaultFilePath
	}
	return &File{path: path}
}

func (f *File) Name() string { return DriverFile }

func (f *File) Path() string { return f.path }

func (f *File) Read(context.Context) (string, error) {
	// #nosec G304 -- path is from trusted config file.
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", goerror.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (f *File) Write(_ context.Context, value string) (err error) {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".seed-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o600); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), f.path)
}

func (f *File) Close() error { return nil }
