package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Store is the file surface the upload and resource services depend on.
type Store interface {
	RootAbs() string
	Resolve(clientPath string) (string, error)
	Write(clientPath string, data []byte) error
	OpenForRead(clientPath string) (*os.File, error)
	Remove(clientPath string) error
	Stat(clientPath string) (fs.FileInfo, error)
}

// Storage keeps uploaded files under a single root; client paths are slash separated and relative to it.
type Storage struct {
	validator *PathValidator
}

func (s *Storage) RootAbs() string {
	return s.validator.RootAbs()
}

func New(root string) (*Storage, error) {
	validator, err := NewPathValidator(root)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(validator.RootAbs(), 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	return &Storage{validator: validator}, nil
}

func (s *Storage) Resolve(clientPath string) (string, error) {
	return s.validator.ResolvePath(clientPath)
}

func (s *Storage) Stat(clientPath string) (fs.FileInfo, error) {
	resolved, err := s.Resolve(clientPath)
	if err != nil {
		return nil, err
	}

	return os.Stat(resolved)
}

// Write stores data through a temp file and rename so readers never see a partial file.
func (s *Storage) Write(clientPath string, data []byte) error {
	resolved, err := s.Resolve(clientPath)
	if err != nil {
		return err
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	_, copyErr := io.Copy(tmp, bytes.NewReader(data))
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %q: %w", clientPath, errors.Join(copyErr, closeErr))
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %q: %w", clientPath, err)
	}

	if err := os.Rename(tmpName, resolved); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename into %q: %w", clientPath, err)
	}

	return nil
}

func (s *Storage) OpenForRead(clientPath string) (*os.File, error) {
	resolved, err := s.Resolve(clientPath)
	if err != nil {
		return nil, err
	}

	return os.Open(resolved)
}

// Remove deletes a single file; a missing file is not an error.
func (s *Storage) Remove(clientPath string) error {
	resolved, err := s.Resolve(clientPath)
	if err != nil {
		return err
	}
	if resolved == s.RootAbs() {
		return fmt.Errorf("refusing to remove storage root")
	}

	if err := os.Remove(resolved); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %q: %w", clientPath, err)
	}

	return nil
}

// URLPath maps a stored client path to the public URL it is served under.
func URLPath(clientPath string) string {
	return "/" + strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(clientPath)), "/")
}

// ClientPath is the inverse of URLPath; external URLs yield "".
func ClientPath(urlPath string) string {
	if urlPath == "" || strings.Contains(urlPath, "://") {
		return ""
	}
	return strings.TrimPrefix(path.Clean("/"+urlPath), "/")
}
