package handlers

import (
	"net/http"
	"strings"

	"primariaPortal/internal/auth"
	"primariaPortal/internal/models"
	"primariaPortal/internal/service"
	"primariaPortal/internal/upload"
)

var announcementFields = []string{"title", "content", "category", "isPublished"}

const announcementFileField = "file"

// ListAnnouncements is the public listing: published only, optional ?category=.
func (h *Handlers) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Metodă nepermisă", http.StatusMethodNotAllowed)
		return
	}

	filter := models.AnnouncementFilter{
		Category: models.AnnouncementCategory(strings.TrimSpace(r.URL.Query().Get("category"))),
	}

	announcements, err := h.AnnouncementService.List(r.Context(), filter)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	WriteSuccess(w, announcements, http.StatusOK)
}

// ListAllAnnouncements is the back office listing, drafts included.
func (h *Handlers) ListAllAnnouncements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Metodă nepermisă", http.StatusMethodNotAllowed)
		return
	}

	filter := models.AnnouncementFilter{
		Category:      models.AnnouncementCategory(strings.TrimSpace(r.URL.Query().Get("category"))),
		IncludeDrafts: true,
	}

	announcements, err := h.AnnouncementService.List(r.Context(), filter)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	WriteSuccess(w, announcements, http.StatusOK)
}

func (h *Handlers) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Metodă nepermisă", http.StatusMethodNotAllowed)
		return
	}

	// staff tokens also see drafts
	caller, ok := auth.FromContext(r.Context())
	includeDrafts := ok && caller.Role.IsStaff()

	announcement, err := h.AnnouncementService.GetByID(r.Context(), pathID(r), includeDrafts)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	WriteSuccess(w, announcement, http.StatusOK)
}

func (h *Handlers) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Metodă nepermisă", http.StatusMethodNotAllowed)
		return
	}

	var (
		req  service.AnnouncementRequest
		file *upload.TempFile
	)

	if isMultipart(r) {
		files, err := h.announcementUpload(w, r)
		defer upload.DiscardAll(files)
		if err != nil {
			WriteAppError(w, r, err)
			return
		}
		if len(files) > 0 {
			file = files[0]
		}

		form := r.MultipartForm
		req.Title = formValue(form, "title")
		req.Content = formValue(form, "content")
		req.Category = models.AnnouncementCategory(formValue(form, "category"))
		if req.IsPublished, err = formBool(form, "isPublished"); err != nil {
			WriteAppError(w, r, err)
			return
		}
	} else if err := decodeJSON(w, r, &req); err != nil {
		WriteAppError(w, r, err)
		return
	}

	caller, _ := auth.FromContext(r.Context())
	announcement, err := h.AnnouncementService.Create(r.Context(), caller, req, file)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	WriteResult(w, "Anunț publicat", announcement, http.StatusCreated)
}

// UpdateAnnouncement serves both PUT and PATCH; only the fields present change.
func (h *Handlers) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPatch {
		WriteError(w, "Metodă nepermisă", http.StatusMethodNotAllowed)
		return
	}

	var (
		patch service.AnnouncementPatch
		file  *upload.TempFile
	)

	if isMultipart(r) {
		files, err := h.announcementUpload(w, r, "removeFile")
		defer upload.DiscardAll(files)
		if err != nil {
			WriteAppError(w, r, err)
			return
		}
		if len(files) > 0 {
			file = files[0]
		}

		form := r.MultipartForm
		patch.Title = formOptional(form, "title")
		patch.Content = formOptional(form, "content")
		if c := formOptional(form, "category"); c != nil {
			category := models.AnnouncementCategory(*c)
			patch.Category = &category
		}
		if patch.IsPublished, err = formBool(form, "isPublished"); err != nil {
			WriteAppError(w, r, err)
			return
		}
		remove, err := formBool(form, "removeFile")
		if err != nil {
			WriteAppError(w, r, err)
			return
		}
		patch.RemoveFile = remove != nil && *remove
	} else if err := decodeJSON(w, r, &patch); err != nil {
		WriteAppError(w, r, err)
		return
	}

	caller, _ := auth.FromContext(r.Context())
	announcement, err := h.AnnouncementService.Update(r.Context(), caller, pathID(r), patch, file)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	WriteResult(w, "Anunț actualizat", announcement, http.StatusOK)
}

func (h *Handlers) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		WriteError(w, "Metodă nepermisă", http.StatusMethodNotAllowed)
		return
	}

	caller, _ := auth.FromContext(r.Context())
	if err := h.AnnouncementService.Delete(r.Context(), caller, pathID(r)); err != nil {
		WriteAppError(w, r, err)
		return
	}

	WriteResult(w, "Anunț șters", nil, http.StatusOK)
}

// announcementUpload parses a multipart announcement form and stages its
// optional attachment. The returned files must be discarded by the caller.
func (h *Handlers) announcementUpload(w http.ResponseWriter, r *http.Request, extra ...string) ([]*upload.TempFile, error) {
	fields := append(append([]string{}, announcementFields...), extra...)
	if err := h.parseMultipart(w, r, 1, fields, announcementFileField); err != nil {
		return nil, err
	}
	return h.stageFiles(r, announcementFileField, 1)
}
