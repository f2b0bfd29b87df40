package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"primariaPortal/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, userID string, role models.Role) error
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
}

type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, error)
	Update(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id string) error
}

type CommunityRepository interface {
	Create(ctx context.Context, post *models.CommunityPost, imageURLs []string) error
	CreateReply(ctx context.Context, reply *models.CommunityPost) error
	GetByID(ctx context.Context, id string) (*models.CommunityPost, error)
	ListTopLevel(ctx context.Context, category models.CommunityCategory) ([]models.CommunityPost, error)
	ListReplies(ctx context.Context, parentIDs []string) ([]models.CommunityPost, error)
	ImagesByPostIDs(ctx context.Context, postIDs []string) ([]models.PostImage, error)
	LikePost(ctx context.Context, postID string, device models.DeviceID) (int, bool, error)
	Delete(ctx context.Context, id string) error
}

type TablesRepository interface {
	CountTablesDB(ctx context.Context) (int, error)
}

type Repository struct {
	User         UserRepository
	Announcement AnnouncementRepository
	Community    CommunityRepository
	Tables       TablesRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:         NewUserRepository(db),
		Announcement: NewAnnouncementRepository(db),
		Community:    NewCommunityRepository(db),
		Tables:       NewTablesRepository(db),
	}
}
