package handlers

import (
	"github.com/go-playground/validator/v10"

	"primariaPortal/internal/config"
	"primariaPortal/internal/service"
	"primariaPortal/internal/storage"
	"primariaPortal/internal/validation"
)

type Handlers struct {
	AuthService         service.AuthService
	UserService         service.UserService
	AnnouncementService service.AnnouncementService
	CommunityService    service.CommunityService
	HealthService       service.HealthService
	Storage             storage.Storage
	Cfg                 *config.Config
	Validate            *validator.Validate
}

func NewHandlers(service *service.Service, store storage.Storage, config *config.Config) *Handlers {
	return &Handlers{
		AuthService:         service.Auth,
		UserService:         service.User,
		AnnouncementService: service.Announcement,
		CommunityService:    service.Community,
		HealthService:       service.Health,
		Storage:             store,
		Cfg:                 config,
		Validate:            validation.New(),
	}
}
