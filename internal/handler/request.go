package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"

	"primariaPortal/internal/apperr"
	"primariaPortal/internal/models"
	"primariaPortal/internal/storage"
	"primariaPortal/internal/upload"
)

const (
	maxJSONBody     = 1 << 20
	multipartMemory = 8 << 20
	deviceHeader    = "X-Device-Id"
	maxDeviceIDLen  = 128
)

// decodeJSON reads exactly one JSON object into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return decodeBody(w, r, dst, false)
}

// decodeOptionalJSON is decodeJSON for endpoints where the body may be empty.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return decodeBody(w, r, dst, true)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any, optional bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			if optional {
				return nil
			}
			return apperr.Validation("body", "corpul cererii lipsește")
		case errors.As(err, &tooLarge):
			return apperr.Validation("body", "cererea depășește "+humanize.IBytes(uint64(tooLarge.Limit)))
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
			return apperr.Validation(field, "câmp necunoscut")
		default:
			return apperr.Validation("body", "format JSON invalid")
		}
	}
	if dec.More() {
		return apperr.Validation("body", "se acceptă un singur obiect JSON")
	}
	return nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// parseMultipart parses the form and rejects fields outside values and files.
func (h *Handlers) parseMultipart(w http.ResponseWriter, r *http.Request, maxFiles int, values []string, files ...string) error {
	limit := h.Cfg.Uploads.MaxUploadSize*int64(max(maxFiles, 1)) + maxJSONBody
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Validation("body", "cererea depășește "+humanize.IBytes(uint64(limit)))
		}
		return apperr.Validation("body", "formular multipart invalid")
	}

	var verr *apperr.ValidationError
	for key := range r.MultipartForm.Value {
		if !slices.Contains(values, key) {
			verr = verr.Add(key, "câmp necunoscut")
		}
	}
	for key := range r.MultipartForm.File {
		if !slices.Contains(files, key) {
			verr = verr.Add(key, "câmp necunoscut")
		}
	}
	if verr != nil {
		return verr
	}
	return nil
}

// stageFiles writes the named multipart files into the temp area. On error
// nothing staged is left behind.
func (h *Handlers) stageFiles(r *http.Request, field string, maxFiles int) ([]*upload.TempFile, error) {
	headers := r.MultipartForm.File[field]
	if len(headers) > maxFiles {
		return nil, apperr.Validation(field, fmt.Sprintf("se pot atașa cel mult %d fișiere", maxFiles))
	}

	for _, fh := range headers {
		if fh.Size > h.Cfg.Uploads.MaxUploadSize {
			return nil, apperr.Validation(field, fmt.Sprintf("fișierul %q depășește limita de %s",
				fh.Filename, humanize.IBytes(uint64(h.Cfg.Uploads.MaxUploadSize))))
		}
	}

	staged := make([]*upload.TempFile, 0, len(headers))
	for _, fh := range headers {
		tf, err := upload.SaveTemp(storage.TempDir(h.Cfg.Uploads.Dir), fh)
		if err != nil {
			upload.DiscardAll(staged)
			return nil, err
		}
		staged = append(staged, tf)
	}
	return staged, nil
}

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func formOptional(form *multipart.Form, key string) *string {
	if v := form.Value[key]; len(v) > 0 {
		return &v[0]
	}
	return nil
}

func formBool(form *multipart.Form, key string) (*bool, error) {
	raw := formOptional(form, key)
	if raw == nil {
		return nil, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(*raw))
	if err != nil {
		return nil, apperr.Validation(key, "trebuie să fie true sau false")
	}
	return &b, nil
}

// deviceID takes the device identifier from the header, the query string or
// the request body, in that order.
func deviceID(r *http.Request, fromBody string) (models.DeviceID, error) {
	id := strings.TrimSpace(r.Header.Get(deviceHeader))
	if id == "" {
		id = strings.TrimSpace(r.URL.Query().Get("deviceId"))
	}
	if id == "" {
		id = strings.TrimSpace(fromBody)
	}
	if len(id) > maxDeviceIDLen {
		return "", apperr.Validation("deviceId", fmt.Sprintf("poate avea cel mult %d caractere", maxDeviceIDLen))
	}
	return models.DeviceID(id), nil
}

func pathID(r *http.Request) string {
	return mux.Vars(r)["id"]
}
