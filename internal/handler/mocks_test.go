package handlers

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"primariaPortal/internal/auth"
	"primariaPortal/internal/models"
	"primariaPortal/internal/service"
	"primariaPortal/internal/upload"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Me(ctx context.Context, caller *auth.Identity) (*models.User, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Provision(ctx context.Context, req service.ProvisionRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, caller *auth.Identity) ([]models.User, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserService) UpdateRole(ctx context.Context, caller *auth.Identity, userID string, role models.Role) (*models.User, error) {
	args := m.Called(ctx, caller, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) SetRoleByEmail(ctx context.Context, email string, role models.Role) (*models.User, error) {
	args := m.Called(ctx, email, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockAnnouncementService struct {
	mock.Mock
}

func (m *MockAnnouncementService) Create(ctx context.Context, caller *auth.Identity, req service.AnnouncementRequest, file *upload.TempFile) (*models.Announcement, error) {
	args := m.Called(ctx, caller, req, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Announcement), args.Error(1)
}

func (m *MockAnnouncementService) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Announcement), args.Error(1)
}

func (m *MockAnnouncementService) GetByID(ctx context.Context, id string, includeDrafts bool) (*models.Announcement, error) {
	args := m.Called(ctx, id, includeDrafts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Announcement), args.Error(1)
}

func (m *MockAnnouncementService) Update(ctx context.Context, caller *auth.Identity, id string, patch service.AnnouncementPatch, file *upload.TempFile) (*models.Announcement, error) {
	args := m.Called(ctx, caller, id, patch, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Announcement), args.Error(1)
}

func (m *MockAnnouncementService) Delete(ctx context.Context, caller *auth.Identity, id string) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

type MockCommunityService struct {
	mock.Mock
}

func (m *MockCommunityService) Create(ctx context.Context, caller service.Caller, req service.CommunityPostRequest, images []*upload.TempFile) (*models.CommunityPost, error) {
	args := m.Called(ctx, caller, req, images)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommunityPost), args.Error(1)
}

func (m *MockCommunityService) Reply(ctx context.Context, caller service.Caller, req service.ReplyRequest) (*models.CommunityPost, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommunityPost), args.Error(1)
}

func (m *MockCommunityService) Like(ctx context.Context, postID string, device models.DeviceID) (*service.LikeResult, error) {
	args := m.Called(ctx, postID, device)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LikeResult), args.Error(1)
}

func (m *MockCommunityService) Delete(ctx context.Context, caller service.Caller, postID string) error {
	args := m.Called(ctx, caller, postID)
	return args.Error(0)
}

func (m *MockCommunityService) List(ctx context.Context, category models.CommunityCategory, device models.DeviceID) (*service.Feed, error) {
	args := m.Called(ctx, category, device)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Feed), args.Error(1)
}

type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) Check(ctx context.Context) (*service.HealthReport, error) {
	args := m.Called(ctx)
	return args.Get(0).(*service.HealthReport), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(ctx context.Context, file *upload.TempFile) (string, error) {
	args := m.Called(ctx, file)
	file.Discard()
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Open(ctx context.Context, name string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}

func (m *MockStorage) Delete(ctx context.Context, fileURL string) error {
	args := m.Called(ctx, fileURL)
	return args.Error(0)
}
