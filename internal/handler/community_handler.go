package handlers

import (
	"net/http"
	"strings"

	"primariaPortal/internal/auth"
	"primariaPortal/internal/models"
	"primariaPortal/internal/service"
	"primariaPortal/internal/upload"
)

const documentImagesField = "images"

var documentFields = []string{"title", "content", "category", "authorName", "deviceId"}

type CreateDocumentRequest struct {
	service.CommunityPostRequest
	DeviceID string `json:"deviceId"`
}

type ReplyDocumentRequest struct {
	service.ReplyRequest
	DeviceID string `json:"deviceId"`
}

type LikeDocumentRequest struct {
	DeviceID string `json:"deviceId"`
}

// communityCaller combines the device with the staff identity, if any.
func communityCaller(r *http.Request, device models.DeviceID) service.Caller {
	c := service.Caller{Device: device}
	if id, ok := auth.FromContext(r.Context()); ok {
		c.Staff = id
	}
	return c
}

func (h *Handlers) ListDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Metodă nepermisă", http.StatusMethodNotAllowed)
		return
	}

	device, err := deviceID(r, "")
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	category := models.CommunityCategory(strings.TrimSpace(r.URL.Query().Get("category")))
	feed, err := h.CommunityService.List(r.Context(), category, device)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	WriteSuccess(w, feed, http.StatusOK)
}

func (h *Handlers) CreateDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Metodă nepermisă", http.StatusMethodNotAllowed)
		return
	}

	var (
		req    CreateDocumentRequest
		images []*upload.TempFile
	)

	if isMultipart(r) {
		maxImages := h.Cfg.Uploads.MaxPostImages
		err := h.parseMultipart(w, r, maxImages, documentFields, documentImagesField)
		if err == nil {
			images, err = h.stageFiles(r, documentImagesField, maxImages)
		}
		defer upload.DiscardAll(images)
		if err != nil {
			WriteAppError(w, r, err)
			return
		}

		form := r.MultipartForm
		req.Title = formValue(form, "title")
		req.Content = formValue(form, "content")
		req.Category = models.CommunityCategory(formValue(form, "category"))
		req.AuthorName = formValue(form, "authorName")
		req.DeviceID = formValue(form, "deviceId")
	} else if err := decodeJSON(w, r, &req); err != nil {
		WriteAppError(w, r, err)
		return
	}

	device, err := deviceID(r, req.DeviceID)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	post, err := h.CommunityService.Create(r.Context(), communityCaller(r, device), req.CommunityPostRequest, images)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	WriteResult(w, "Postare publicată", post, http.StatusCreated)
}

func (h *Handlers) ReplyDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Metodă nepermisă", http.StatusMethodNotAllowed)
		return
	}

	var req ReplyDocumentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteAppError(w, r, err)
		return
	}

	device, err := deviceID(r, req.DeviceID)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	reply, err := h.CommunityService.Reply(r.Context(), communityCaller(r, device), req.ReplyRequest)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	WriteResult(w, "Răspuns publicat", reply, http.StatusCreated)
}

// LikeDocument accepts an empty body when the device comes in the header.
func (h *Handlers) LikeDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Metodă nepermisă", http.StatusMethodNotAllowed)
		return
	}

	var req LikeDocumentRequest
	if err := decodeOptionalJSON(w, r, &req); err != nil {
		WriteAppError(w, r, err)
		return
	}

	device, err := deviceID(r, req.DeviceID)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	result, err := h.CommunityService.Like(r.Context(), pathID(r), device)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	message := "Apreciere înregistrată"
	if !result.Added {
		message = "Postarea era deja apreciată"
	}
	WriteResult(w, message, result, http.StatusOK)
}

func (h *Handlers) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		WriteError(w, "Metodă nepermisă", http.StatusMethodNotAllowed)
		return
	}

	device, err := deviceID(r, "")
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	if err := h.CommunityService.Delete(r.Context(), communityCaller(r, device), pathID(r)); err != nil {
		WriteAppError(w, r, err)
		return
	}

	WriteResult(w, "Postare ștearsă", nil, http.StatusOK)
}
