package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/rs/xid"

	"primariaPortal/internal/apperr"
	"primariaPortal/internal/config"
	"primariaPortal/internal/upload"
)

// PublicPrefix is the URL path stored files are served under.
const PublicPrefix = "/uploads/"

// Storage keeps accepted uploads. Save takes ownership of the temp file: on
// return it is gone from the staging area whether or not Save succeeded.
type Storage interface {
	Save(ctx context.Context, file *upload.TempFile) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, fileURL string) error
}

func New(cfg *config.Config) (Storage, error) {
	switch cfg.Uploads.Backend {
	case config.StorageMinIO:
		return NewMinIOStorage(cfg)
	case config.StorageLocal, "":
		return NewLocalStorage(cfg.Uploads.Dir)
	default:
		return nil, fmt.Errorf("STORAGE_BACKEND necunoscut: %q", cfg.Uploads.Backend)
	}
}

func objectName(file *upload.TempFile) string {
	return xid.New().String() + upload.Extension(file.DeclaredType)
}

func publicURL(name string) string {
	return PublicPrefix + name
}

// NameFromURL turns "/uploads/<name>" back into the object name and rejects
// anything that could escape the uploads area.
func NameFromURL(fileURL string) (string, error) {
	name := strings.TrimPrefix(fileURL, PublicPrefix)
	if err := validName(name); err != nil {
		return "", err
	}
	return name, nil
}

func validName(name string) error {
	if name == "" || name != path.Base(name) || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return apperr.NotFound("fișierul %q", name)
	}
	return nil
}

// TempDir is where request-owned files wait for the signature check. The
// leading dot keeps it out of reach of the public uploads route.
func TempDir(uploadDir string) string {
	return path.Join(uploadDir, ".tmp")
}
