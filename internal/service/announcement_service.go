package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"primariaPortal/internal/apperr"
	"primariaPortal/internal/auth"
	"primariaPortal/internal/logger"
	"primariaPortal/internal/models"
	"primariaPortal/internal/repository"
	"primariaPortal/internal/storage"
	"primariaPortal/internal/upload"
	"primariaPortal/internal/validation"
)

type AnnouncementRequest struct {
	Title       string                      `json:"title" validate:"required,min=5,max=200"`
	Content     string                      `json:"content" validate:"required,min=10,max=20000"`
	Category    models.AnnouncementCategory `json:"category" validate:"omitempty,oneof=General Urgent Informativ Cultura"`
	IsPublished *bool                       `json:"isPublished"`
}

// AnnouncementPatch carries a partial update; nil fields are left as stored.
type AnnouncementPatch struct {
	Title       *string                      `json:"title" validate:"omitempty,min=5,max=200"`
	Content     *string                      `json:"content" validate:"omitempty,min=10,max=20000"`
	Category    *models.AnnouncementCategory `json:"category" validate:"omitempty,oneof=General Urgent Informativ Cultura"`
	IsPublished *bool                        `json:"isPublished"`
	RemoveFile  bool                         `json:"removeFile"`
}

type AnnouncementService interface {
	Create(ctx context.Context, caller *auth.Identity, req AnnouncementRequest, file *upload.TempFile) (*models.Announcement, error)
	List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, error)
	GetByID(ctx context.Context, id string, includeDrafts bool) (*models.Announcement, error)
	Update(ctx context.Context, caller *auth.Identity, id string, patch AnnouncementPatch, file *upload.TempFile) (*models.Announcement, error)
	Delete(ctx context.Context, caller *auth.Identity, id string) error
}

type announcementService struct {
	repo     repository.AnnouncementRepository
	storage  storage.Storage
	validate *validator.Validate
}

func NewAnnouncementService(repo repository.AnnouncementRepository, store storage.Storage, validate *validator.Validate) AnnouncementService {
	return &announcementService{
		repo:     repo,
		storage:  store,
		validate: validate,
	}
}

func (s *announcementService) Create(ctx context.Context, caller *auth.Identity, req AnnouncementRequest, file *upload.TempFile) (*models.Announcement, error) {
	if err := auth.Authorize(caller, models.RoleAdmin, models.RoleEditor); err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Category == "" {
		req.Category = models.CategoryGeneral
	}
	if err := validation.Struct(s.validate, req); err != nil {
		return nil, err
	}

	fileURL, err := s.store(ctx, file)
	if err != nil {
		return nil, err
	}

	announcement := &models.Announcement{
		Title:       req.Title,
		Content:     req.Content,
		Category:    req.Category,
		IsPublished: req.IsPublished == nil || *req.IsPublished,
		AuthorID:    caller.UserID,
	}
	if fileURL != "" {
		announcement.FileURL = &fileURL
	}

	if err := s.repo.Create(ctx, announcement); err != nil {
		discardStored(ctx, s.storage, fileURL)
		return nil, err
	}

	logger.Infof("anunț %s creat de %s", announcement.ID, caller.Email)

	// re-read to return the joined author
	return s.repo.GetByID(ctx, announcement.ID)
}

func (s *announcementService) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, apperr.Validation("category", "categorie necunoscută")
	}
	return s.repo.List(ctx, filter)
}

// GetByID hides drafts unless includeDrafts is set.
func (s *announcementService) GetByID(ctx context.Context, id string, includeDrafts bool) (*models.Announcement, error) {
	announcement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !announcement.IsPublished && !includeDrafts {
		return nil, apperr.NotFound("anunțul %s", id)
	}
	return announcement, nil
}

// Update applies a partial change. Any ADMIN or EDITOR may update any
// announcement; authorship is not checked.
func (s *announcementService) Update(ctx context.Context, caller *auth.Identity, id string, patch AnnouncementPatch, file *upload.TempFile) (*models.Announcement, error) {
	if err := auth.Authorize(caller, models.RoleAdmin, models.RoleEditor); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		patch.Title = &trimmed
	}
	if patch.Content != nil {
		trimmed := strings.TrimSpace(*patch.Content)
		patch.Content = &trimmed
	}
	if err := validation.Struct(s.validate, patch); err != nil {
		return nil, err
	}
	if patch.RemoveFile && file != nil {
		return nil, apperr.Validation("removeFile", "nu se poate combina cu un fișier nou")
	}

	announcement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fileURL, err := s.store(ctx, file)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		announcement.Title = *patch.Title
	}
	if patch.Content != nil {
		announcement.Content = *patch.Content
	}
	if patch.Category != nil {
		announcement.Category = *patch.Category
	}
	if patch.IsPublished != nil {
		announcement.IsPublished = *patch.IsPublished
	}

	var oldFile string
	if announcement.FileURL != nil && (fileURL != "" || patch.RemoveFile) {
		oldFile = *announcement.FileURL
		announcement.FileURL = nil
	}
	if fileURL != "" {
		announcement.FileURL = &fileURL
	}

	if err := s.repo.Update(ctx, announcement); err != nil {
		discardStored(ctx, s.storage, fileURL)
		return nil, err
	}
	discardStored(ctx, s.storage, oldFile)

	return s.repo.GetByID(ctx, id)
}

func (s *announcementService) Delete(ctx context.Context, caller *auth.Identity, id string) error {
	if err := auth.Authorize(caller, models.RoleAdmin); err != nil {
		return err
	}

	announcement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if announcement.FileURL != nil {
		discardStored(ctx, s.storage, *announcement.FileURL)
	}
	logger.Infof("anunț %s șters de %s", id, caller.Email)
	return nil
}

// store checks and persists an optional attachment, returning its public URL.
func (s *announcementService) store(ctx context.Context, file *upload.TempFile) (string, error) {
	if file == nil {
		return "", nil
	}
	if err := upload.Check(file, upload.DocumentTypes...); err != nil {
		return "", err
	}

	url, err := s.storage.Save(ctx, file)
	if err != nil {
		return "", err
	}
	return url, nil
}
