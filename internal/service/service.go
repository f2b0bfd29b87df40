package service

import (
	"context"

	"primariaPortal/internal/config"
	"primariaPortal/internal/logger"
	"primariaPortal/internal/models"
	"primariaPortal/internal/repository"
	"primariaPortal/internal/storage"
	"primariaPortal/internal/validation"
)

// TokenIssuer signs access tokens; *auth.Gate implements it.
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

// Pinger reports database reachability; *database.DB implements it.
type Pinger interface {
	HealthCheck() error
}

type Service struct {
	User         UserService
	Auth         AuthService
	Announcement AnnouncementService
	Community    CommunityService
	Health       HealthService
}

func NewService(rep *repository.Repository, cfg *config.Config, issuer TokenIssuer, store storage.Storage, db Pinger) *Service {
	validate := validation.New()

	return &Service{
		User:         NewUserService(rep.User, validate),
		Auth:         NewAuthService(rep.User, issuer),
		Announcement: NewAnnouncementService(rep.Announcement, store, validate),
		Community:    NewCommunityService(rep.Community, store, validate, cfg.Uploads.MaxPostImages),
		Health:       NewHealthService(rep.Tables, db),
	}
}

// discardStored removes already persisted files after a later step failed.
func discardStored(ctx context.Context, store storage.Storage, urls ...string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := store.Delete(ctx, url); err != nil {
			logger.Warningf("nu s-a putut șterge fișierul %s: %v", url, err)
		}
	}
}
