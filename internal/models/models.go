package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleEditor Role = "EDITOR"
)

// Is compares roles case-insensitively, tokens issued by older clients used lower case.
func (r Role) Is(other Role) bool {
	return strings.EqualFold(string(r), string(other))
}

func (r Role) IsStaff() bool {
	return r.Is(RoleAdmin) || r.Is(RoleEditor)
}

type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// PublicUser is what other records expose about their author.
type PublicUser struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

type AnnouncementCategory string

const (
	CategoryGeneral    AnnouncementCategory = "General"
	CategoryUrgent     AnnouncementCategory = "Urgent"
	CategoryInformativ AnnouncementCategory = "Informativ"
	CategoryCultura    AnnouncementCategory = "Cultura"
)

var AnnouncementCategories = []AnnouncementCategory{
	CategoryGeneral, CategoryUrgent, CategoryInformativ, CategoryCultura,
}

func (c AnnouncementCategory) Valid() bool {
	for _, known := range AnnouncementCategories {
		if c == known {
			return true
		}
	}
	return false
}

type Announcement struct {
	ID          string               `json:"id" db:"id"`
	Title       string               `json:"title" db:"title"`
	Content     string               `json:"content" db:"content"`
	Category    AnnouncementCategory `json:"category" db:"category"`
	FileURL     *string              `json:"fileUrl" db:"file_url"`
	IsPublished bool                 `json:"isPublished" db:"is_published"`
	AuthorID    string               `json:"authorId" db:"author_id"`
	Author      PublicUser           `json:"author" db:"author"`
	CreatedAt   time.Time            `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time            `json:"updatedAt" db:"updated_at"`
}

type AnnouncementFilter struct {
	Category      AnnouncementCategory
	IncludeDrafts bool
}

// DeviceID is the pseudonymous browser identity that owns community posts.
// It never carries a role and is only ever compared for equality.
type DeviceID string

type CommunityCategory string

const (
	CommunityGeneral        CommunityCategory = "General"
	CommunityInfrastructura CommunityCategory = "Infrastructura"
	CommunityMediu          CommunityCategory = "Mediu"
	CommunityTransport      CommunityCategory = "Transport"
	CommunityEducatie       CommunityCategory = "Educatie"
	CommunitySugestii       CommunityCategory = "Sugestii"

	// CommunityReply tags replies; it is not a topical category.
	CommunityReply CommunityCategory = "reply"
)

var CommunityCategories = []CommunityCategory{
	CommunityGeneral, CommunityInfrastructura, CommunityMediu,
	CommunityTransport, CommunityEducatie, CommunitySugestii,
}

func (c CommunityCategory) Topical() bool {
	for _, known := range CommunityCategories {
		if c == known {
			return true
		}
	}
	return false
}

// OfficialAuthorName is shown on posts written by an authenticated administrator.
const OfficialAuthorName = "Primăria"

type CommunityPost struct {
	ID               string            `json:"id" db:"id"`
	Title            string            `json:"title" db:"title"`
	Content          string            `json:"content" db:"content"`
	Category         CommunityCategory `json:"category" db:"category"`
	AuthorName       string            `json:"authorName" db:"author_name"`
	OwnerID          string            `json:"-" db:"owner_id"`
	ParentID         *string           `json:"parentId,omitempty" db:"parent_id"`
	IsOfficial       bool              `json:"isOfficial" db:"is_official"`
	HasOfficialReply bool              `json:"hasOfficialReply" db:"has_official_reply"`
	Likes            int               `json:"likes" db:"likes"`
	LikedBy          pq.StringArray    `json:"-" db:"liked_by"`
	Images           []PostImage       `json:"images" db:"-"`
	Replies          []CommunityPost   `json:"replies,omitempty" db:"-"`
	IsOwn            bool              `json:"isOwn" db:"-"`
	CreatedAt        time.Time         `json:"createdAt" db:"created_at"`
}

func (p *CommunityPost) LikedByDevice(device DeviceID) bool {
	for _, id := range p.LikedBy {
		if id == string(device) {
			return true
		}
	}
	return false
}

type PostImage struct {
	ID        string    `json:"id" db:"id"`
	PostID    string    `json:"postId" db:"post_id"`
	Position  int       `json:"position" db:"position"`
	ImageURL  string    `json:"imageUrl" db:"image_url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
