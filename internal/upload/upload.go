// Package upload stages multipart files on disk and checks that their leading
// bytes match the declared media type before anything is stored permanently.
package upload

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"strings"

	"primariaPortal/internal/apperr"
	"primariaPortal/internal/logger"
)

const (
	TypePDF  = "application/pdf"
	TypePNG  = "image/png"
	TypeJPEG = "image/jpeg"
	TypeWEBP = "image/webp"
)

// ImageTypes are the kinds accepted for community post attachments.
var ImageTypes = []string{TypePNG, TypeJPEG, TypeWEBP}

// DocumentTypes are the kinds accepted for announcement attachments.
var DocumentTypes = []string{TypePDF, TypePNG, TypeJPEG, TypeWEBP}

const headerSize = 16

var (
	pdfMagic  = []byte("%PDF")
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	riffMagic = []byte("RIFF")
	webpMagic = []byte("WEBP")
)

var extensions = map[string]string{
	TypePDF:  ".pdf",
	TypePNG:  ".png",
	TypeJPEG: ".jpg",
	TypeWEBP: ".webp",
}

// Extension returns the file extension stored objects get for an accepted type.
func Extension(mediaType string) string {
	return extensions[NormalizeType(mediaType)]
}

// NormalizeType drops parameters and case from a Content-Type value.
func NormalizeType(declared string) string {
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(declared))
	}
	return mediaType
}

// VerifySignature reads the first bytes of the file at path and reports whether
// they match the signature of declaredType. Unknown types never match.
func VerifySignature(path, declaredType string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	header := make([]byte, headerSize)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return false
	}
	header = header[:n]

	switch NormalizeType(declaredType) {
	case TypePDF:
		return bytes.HasPrefix(header, pdfMagic)
	case TypePNG:
		return bytes.HasPrefix(header, pngMagic)
	case TypeJPEG:
		return bytes.HasPrefix(header, jpegMagic)
	case TypeWEBP:
		return len(header) >= 12 && bytes.Equal(header[0:4], riffMagic) && bytes.Equal(header[8:12], webpMagic)
	default:
		return false
	}
}

// TempFile is an uploaded file staged on local disk. It belongs to the request
// that created it until it is moved into storage or discarded.
type TempFile struct {
	Path         string
	DeclaredType string
	OriginalName string
	Size         int64
}

// Discard removes the staged file. Errors are ignored; a file that was already
// moved into storage is simply not there anymore.
func (t *TempFile) Discard() {
	if t == nil || t.Path == "" {
		return
	}
	if err := os.Remove(t.Path); err != nil && !os.IsNotExist(err) {
		logger.Debugf("nu s-a putut șterge fișierul temporar %s: %v", t.Path, err)
	}
}

// SaveTemp copies a multipart file into dir under a random name.
func SaveTemp(dir string, fh *multipart.FileHeader) (*TempFile, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("eroare la crearea directorului temporar: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("eroare la deschiderea fișierului încărcat: %w", err)
	}
	defer src.Close()

	dst, err := os.CreateTemp(dir, "upload-*")
	if err != nil {
		return nil, fmt.Errorf("eroare la crearea fișierului temporar: %w", err)
	}

	tf := &TempFile{
		Path:         dst.Name(),
		DeclaredType: NormalizeType(fh.Header.Get("Content-Type")),
		OriginalName: fh.Filename,
	}

	tf.Size, err = io.Copy(dst, src)
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		tf.Discard()
		return nil, fmt.Errorf("eroare la scrierea fișierului temporar: %w", err)
	}

	return tf, nil
}

// Check accepts tf only if its declared type is one of allowed and its content
// carries that type's signature. A rejected file is removed before returning.
func Check(tf *TempFile, allowed ...string) error {
	declared := NormalizeType(tf.DeclaredType)

	permitted := false
	for _, a := range allowed {
		if declared == a {
			permitted = true
			break
		}
	}

	if !permitted || !VerifySignature(tf.Path, declared) {
		tf.Discard()
		logger.Warningf("fișier respins: %q declarat %q", tf.OriginalName, tf.DeclaredType)
		return fmt.Errorf("%w: conținutul fișierului %q nu corespunde tipului %q",
			apperr.ErrUploadRejected, tf.OriginalName, tf.DeclaredType)
	}
	return nil
}

// DiscardAll is a convenience for deferred cleanup of a batch.
func DiscardAll(files []*TempFile) {
	for _, f := range files {
		f.Discard()
	}
}
