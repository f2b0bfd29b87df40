package service

import (
	"context"
	"fmt"
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

// Caller is whoever acts on the community board: always a device, and
// optionally a staff member signed in from it.
type Caller struct {
	Device models.DeviceID
	Staff  *auth.Identity
}

func (c Caller) IsAdmin() bool {
	return c.Staff != nil && c.Staff.Role.Is(models.RoleAdmin)
}

type CommunityPostRequest struct {
	Title      string                   `json:"title" validate:"required,max=200"`
	Content    string                   `json:"content" validate:"required,max=5000"`
	Category   models.CommunityCategory `json:"category" validate:"omitempty,oneof=General Infrastructura Mediu Transport Educatie Sugestii"`
	AuthorName string                   `json:"authorName" validate:"max=100"`
}

type ReplyRequest struct {
	ParentID   string `json:"parentId" validate:"required"`
	Content    string `json:"content" validate:"required,max=5000"`
	AuthorName string `json:"authorName" validate:"max=100"`
}

type LikeResult struct {
	PostID string `json:"postId"`
	Likes  int    `json:"likes"`
	Liked  bool   `json:"liked"`
	// Added is false when the device had liked the post before.
	Added bool `json:"added"`
}

// Feed is the board as seen from one device.
type Feed struct {
	Posts        []models.CommunityPost `json:"posts"`
	LikedPostIDs []string               `json:"likedPostIds"`
}

type CommunityService interface {
	Create(ctx context.Context, caller Caller, req CommunityPostRequest, images []*upload.TempFile) (*models.CommunityPost, error)
	Reply(ctx context.Context, caller Caller, req ReplyRequest) (*models.CommunityPost, error)
	Like(ctx context.Context, postID string, device models.DeviceID) (*LikeResult, error)
	Delete(ctx context.Context, caller Caller, postID string) error
	List(ctx context.Context, category models.CommunityCategory, device models.DeviceID) (*Feed, error)
}

type communityService struct {
	repo      repository.CommunityRepository
	storage   storage.Storage
	validate  *validator.Validate
	maxImages int
}

func NewCommunityService(repo repository.CommunityRepository, store storage.Storage, validate *validator.Validate, maxImages int) CommunityService {
	if maxImages <= 0 {
		maxImages = 5
	}
	return &communityService{
		repo:      repo,
		storage:   store,
		validate:  validate,
		maxImages: maxImages,
	}
}

func requireDevice(device models.DeviceID) error {
	if strings.TrimSpace(string(device)) == "" {
		return apperr.Validation("deviceId", "identificatorul dispozitivului este obligatoriu")
	}
	return nil
}

// authorName picks the displayed name: administrators always post as the
// town hall, everyone else must sign.
func authorName(caller Caller, name string) (string, bool, error) {
	if caller.IsAdmin() {
		return models.OfficialAuthorName, true, nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false, apperr.Validation("authorName", "este obligatoriu")
	}
	return name, false, nil
}

func (s *communityService) Create(ctx context.Context, caller Caller, req CommunityPostRequest, images []*upload.TempFile) (*models.CommunityPost, error) {
	if err := requireDevice(caller.Device); err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Category == "" {
		req.Category = models.CommunityGeneral
	}
	if err := validation.Struct(s.validate, req); err != nil {
		return nil, err
	}

	name, official, err := authorName(caller, req.AuthorName)
	if err != nil {
		return nil, err
	}

	if len(images) > s.maxImages {
		return nil, apperr.Validation("images", fmt.Sprintf("se pot atașa cel mult %d imagini", s.maxImages))
	}

	// every image is checked before any is stored
	for _, img := range images {
		if err := upload.Check(img, upload.ImageTypes...); err != nil {
			return nil, err
		}
	}

	urls := make([]string, 0, len(images))
	for _, img := range images {
		url, err := s.storage.Save(ctx, img)
		if err != nil {
			discardStored(ctx, s.storage, urls...)
			return nil, err
		}
		urls = append(urls, url)
	}

	post := &models.CommunityPost{
		Title:      req.Title,
		Content:    req.Content,
		Category:   req.Category,
		AuthorName: name,
		OwnerID:    string(caller.Device),
		IsOfficial: official,
	}

	if err := s.repo.Create(ctx, post, urls); err != nil {
		discardStored(ctx, s.storage, urls...)
		return nil, err
	}

	post.IsOwn = true
	return post, nil
}

func (s *communityService) Reply(ctx context.Context, caller Caller, req ReplyRequest) (*models.CommunityPost, error) {
	if err := requireDevice(caller.Device); err != nil {
		return nil, err
	}

	req.ParentID = strings.TrimSpace(req.ParentID)
	req.Content = strings.TrimSpace(req.Content)
	if err := validation.Struct(s.validate, req); err != nil {
		return nil, err
	}

	name, official, err := authorName(caller, req.AuthorName)
	if err != nil {
		return nil, err
	}

	reply := &models.CommunityPost{
		Content:    req.Content,
		Category:   models.CommunityReply,
		AuthorName: name,
		OwnerID:    string(caller.Device),
		ParentID:   &req.ParentID,
		IsOfficial: official,
	}

	if err := s.repo.CreateReply(ctx, reply); err != nil {
		return nil, err
	}

	if official {
		logger.Infof("răspuns oficial %s la postarea %s", reply.ID, req.ParentID)
	}
	reply.IsOwn = true
	return reply, nil
}

// Like is idempotent per (post, device); repeating it returns the current count.
func (s *communityService) Like(ctx context.Context, postID string, device models.DeviceID) (*LikeResult, error) {
	if err := requireDevice(device); err != nil {
		return nil, err
	}

	likes, added, err := s.repo.LikePost(ctx, postID, device)
	if err != nil {
		return nil, err
	}

	return &LikeResult{PostID: postID, Likes: likes, Liked: true, Added: added}, nil
}

// Delete is allowed to administrators and to the device that created the post.
func (s *communityService) Delete(ctx context.Context, caller Caller, postID string) error {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	owner := caller.Device != "" && string(caller.Device) == post.OwnerID
	if !caller.IsAdmin() && !owner {
		logger.Warningf("ștergere refuzată pentru postarea %s", postID)
		return apperr.Forbidden("doar autorul sau un administrator poate șterge postarea")
	}

	images, err := s.repo.ImagesByPostIDs(ctx, []string{postID})
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, postID); err != nil {
		return err
	}

	for _, img := range images {
		discardStored(ctx, s.storage, img.ImageURL)
	}
	return nil
}

// List returns top-level posts newest first, each with its replies oldest
// first, plus the ids the given device has liked.
func (s *communityService) List(ctx context.Context, category models.CommunityCategory, device models.DeviceID) (*Feed, error) {
	if category != "" && !category.Topical() {
		return nil, apperr.Validation("category", "categorie necunoscută")
	}

	posts, err := s.repo.ListTopLevel(ctx, category)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}

	replies, err := s.repo.ListReplies(ctx, ids)
	if err != nil {
		return nil, err
	}

	images, err := s.repo.ImagesByPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	repliesByParent := make(map[string][]models.CommunityPost, len(posts))
	for _, reply := range replies {
		reply.IsOwn = device != "" && reply.OwnerID == string(device)
		reply.Images = []models.PostImage{}
		repliesByParent[*reply.ParentID] = append(repliesByParent[*reply.ParentID], reply)
	}

	imagesByPost := make(map[string][]models.PostImage, len(posts))
	for _, img := range images {
		imagesByPost[img.PostID] = append(imagesByPost[img.PostID], img)
	}

	feed := &Feed{Posts: posts, LikedPostIDs: []string{}}
	for i := range feed.Posts {
		post := &feed.Posts[i]
		post.IsOwn = device != "" && post.OwnerID == string(device)
		post.Images = imagesByPost[post.ID]
		if post.Images == nil {
			post.Images = []models.PostImage{}
		}
		post.Replies = repliesByParent[post.ID]
		if post.Replies == nil {
			post.Replies = []models.CommunityPost{}
		}

		if device == "" {
			continue
		}
		if post.LikedByDevice(device) {
			feed.LikedPostIDs = append(feed.LikedPostIDs, post.ID)
		}
		for _, reply := range post.Replies {
			if reply.LikedByDevice(device) {
				feed.LikedPostIDs = append(feed.LikedPostIDs, reply.ID)
			}
		}
	}

	return feed, nil
}
