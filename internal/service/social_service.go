package service

import (
	"context"
	"strings"

	"levelup/internal/cache"
	"levelup/internal/models"
	"levelup/internal/observability"
	"levelup/internal/repository"
)

// feedSize is how many posts the feed renders.
const feedSize = 100

type SocialService struct {
	posts repository.PostRepository
	users repository.UserRepository
	cache *cache.Store
}

type CreatePostInput struct {
	UserID  string
	Content string
	Type    string
	Media   []string
}

type AddCommentInput struct {
	UserID  string
	PostID  string
	Content string
}

func NewSocialService(posts repository.PostRepository, users repository.UserRepository, store *cache.Store) *SocialService {
	return &SocialService{posts: posts, users: users, cache: store}
}

// Feed renders the newest posts for viewerID. An empty viewer sees nothing liked.
func (s *SocialService) Feed(ctx context.Context, viewerID string) ([]models.FeedPost, error) {
	ctx, span := observability.StartSpan(ctx, "social", "feed")
	var err error
	defer func() { observability.EndSpan(span, err) }()

	posts, err := s.posts.ListRecent(ctx, feedSize)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}

	liked, err := s.posts.LikedPostIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	comments, err := s.posts.CommentCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	authors := make(map[string]models.UserSummary)
	feed := make([]models.FeedPost, 0, len(posts))
	for _, p := range posts {
		author, seen := authors[p.UserID]
		if !seen {
			author, err = userSummary(ctx, s.cache, s.users, p.UserID)
			if err != nil {
				return nil, err
			}
			authors[p.UserID] = author
		}

		media := p.Media
		if media == nil {
			media = []string{}
		}
		feed = append(feed, models.FeedPost{
			ID:        p.ID,
			User:      author,
			Content:   p.Content,
			Type:      p.Type,
			Media:     media,
			Likes:     p.Likes,
			Comments:  comments[p.ID],
			Shares:    p.Shares,
			IsLiked:   liked[p.ID],
			Timestamp: p.CreatedAt,
		})
	}
	return feed, nil
}

func (s *SocialService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Post content is required")
	}
	if _, err := s.users.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:  in.UserID,
		Content: content,
		Type:    in.Type,
		Media:   in.Media,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.SocialActions.WithLabelValues("post").Inc()
	return post, nil
}

func (s *SocialService) ToggleLike(ctx context.Context, userID, postID string) (*models.LikeResult, error) {
	if userID == "" {
		return nil, models.NewValidationError("user_id is required")
	}
	result, err := s.posts.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	action := "unlike"
	if result.Liked {
		action = "like"
	}
	observability.SocialActions.WithLabelValues(action).Inc()
	return result, nil
}

func (s *SocialService) AddComment(ctx context.Context, in AddCommentInput) (*models.CommentView, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}

	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if _, err := s.posts.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	comment := &models.PostComment{PostID: in.PostID, UserID: user.ID, Content: content}
	if err := s.posts.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	observability.SocialActions.WithLabelValues("comment").Inc()

	return &models.CommentView{
		ID:        comment.ID,
		User:      models.UserSummary{ID: user.ID, Name: user.Name, Avatar: user.Avatar},
		Content:   comment.Content,
		Timestamp: comment.CreatedAt,
	}, nil
}

// ListComments returns a post's comments in the order they were written.
func (s *SocialService) ListComments(ctx context.Context, postID string) ([]models.CommentView, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := s.posts.ListComments(ctx, postID, 0)
	if err != nil {
		return nil, err
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		author, err := userSummary(ctx, s.cache, s.users, c.UserID)
		if err != nil {
			return nil, err
		}
		author.Level = 0
		views = append(views, models.CommentView{
			ID:        c.ID,
			User:      author,
			Content:   c.Content,
			Timestamp: c.CreatedAt,
		})
	}
	return views, nil
}

// Share bumps the post's share counter and returns the new value.
func (s *SocialService) Share(ctx context.Context, postID string) (int, error) {
	shares, err := s.posts.IncrementShares(ctx, postID)
	if err != nil {
		return 0, err
	}
	observability.SocialActions.WithLabelValues("share").Inc()
	return shares, nil
}
