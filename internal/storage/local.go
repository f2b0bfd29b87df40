package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"primariaPortal/internal/apperr"
	"primariaPortal/internal/upload"
)

// LocalStorage keeps files in a directory on the server's disk.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("eroare la crearea directorului %s: %w", dir, err)
	}
	return &LocalStorage{dir: dir}, nil
}

func (s *LocalStorage) Save(ctx context.Context, file *upload.TempFile) (string, error) {
	defer file.Discard()

	name := objectName(file)
	dst := filepath.Join(s.dir, name)

	if err := os.Rename(file.Path, dst); err != nil {
		// different filesystem, fall back to a copy
		if err := copyFile(file.Path, dst); err != nil {
			return "", fmt.Errorf("eroare la salvarea fișierului: %w", err)
		}
	}

	return publicURL(name), nil
}

func (s *LocalStorage) Open(ctx context.Context, name string) (io.ReadCloser, string, error) {
	if err := validName(name); err != nil {
		return nil, "", err
	}

	p := filepath.Join(s.dir, name)
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", apperr.NotFound("fișierul %q", name)
		}
		return nil, "", fmt.Errorf("eroare la citirea fișierului: %w", err)
	}
	if info.IsDir() {
		return nil, "", apperr.NotFound("fișierul %q", name)
	}

	mtype, err := mimetype.DetectFile(p)
	if err != nil {
		return nil, "", fmt.Errorf("eroare la detectarea tipului: %w", err)
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, "", fmt.Errorf("eroare la deschiderea fișierului: %w", err)
	}
	return f, mtype.String(), nil
}

func (s *LocalStorage) Delete(ctx context.Context, fileURL string) error {
	name, err := NameFromURL(fileURL)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("eroare la ștergerea fișierului: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o640)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}
