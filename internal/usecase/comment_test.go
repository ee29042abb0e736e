package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
	"github.com/arklim/social-platform-publishing/internal/repository"
)

var testCommentTime = time.Date(2026, 8, 21, 14, 0, 0, 0, time.UTC)

func publishedPostMock() *mockPostRepository {
	return &mockPostRepository{
		getByIDFn: func(context.Context, string) (*domain.Post, error) {
			return &domain.Post{ID: "post-1", AuthorID: "author-1", Status: domain.PostStatusPublished}, nil
		},
	}
}

func TestAddCommentSuccess(t *testing.T) {
	var created domain.Comment
	comments := &mockCommentRepository{
		createFn: func(_ context.Context, comment domain.Comment) error {
			created = comment
			return nil
		},
	}

	service := NewCommentService(testConfig(), comments, publishedPostMock()).
		WithClock(fixedClock(testCommentTime))

	comment, err := service.Add(context.Background(), author(), "post-1", "  Nice writeup!  ")
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	if created.Content != "Nice writeup!" {
		t.Fatalf("expected trimmed content, got %q", created.Content)
	}
	if created.Status != domain.CommentStatusApproved {
		t.Fatalf("expected approved status, got %s", created.Status)
	}
	if !created.CreatedAt.Equal(testCommentTime) {
		t.Fatal("created_at must come from the clock")
	}
	if comment.ID == "" {
		t.Fatal("expected generated comment id")
	}
}

func TestAddCommentLengthBounds(t *testing.T) {
	service := NewCommentService(testConfig(), &mockCommentRepository{}, publishedPostMock())

	for _, content := range []string{"ab", strings.Repeat("x", 1001)} {
		_, err := service.Add(context.Background(), author(), "post-1", content)

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError for %d chars, got %v", len(content), err)
		}
		if _, ok := vErr.Fields["content"]; !ok {
			t.Fatalf("expected content violation, got %v", vErr.Fields)
		}
	}

	// boundary lengths are accepted
	comments := &mockCommentRepository{
		createFn: func(context.Context, domain.Comment) error { return nil },
	}
	service = NewCommentService(testConfig(), comments, publishedPostMock())
	for _, content := range []string{"abc", strings.Repeat("x", 1000)} {
		if _, err := service.Add(context.Background(), author(), "post-1", content); err != nil {
			t.Fatalf("expected %d chars to pass, got %v", len(content), err)
		}
	}
}

func TestAddCommentRequiresPublishedPost(t *testing.T) {
	posts := &mockPostRepository{
		getByIDFn: func(context.Context, string) (*domain.Post, error) {
			return &domain.Post{ID: "post-1", Status: domain.PostStatusDraft}, nil
		},
	}

	service := NewCommentService(testConfig(), &mockCommentRepository{}, posts)

	_, err := service.Add(context.Background(), author(), "post-1", "A perfectly fine comment")
	if !errors.Is(err, ErrPostNotPublished) {
		t.Fatalf("expected ErrPostNotPublished, got %v", err)
	}
}

func TestAddCommentMissingPost(t *testing.T) {
	posts := &mockPostRepository{
		getByIDFn: func(context.Context, string) (*domain.Post, error) {
			return nil, repository.ErrNotFound
		},
	}

	service := NewCommentService(testConfig(), &mockCommentRepository{}, posts)

	_, err := service.Add(context.Background(), author(), "missing", "A perfectly fine comment")
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestUpdateCommentOwnership(t *testing.T) {
	comments := &mockCommentRepository{
		getByIDFn: func(context.Context, string) (*domain.Comment, error) {
			return &domain.Comment{ID: "comment-1", AuthorID: "someone-else", Content: "original"}, nil
		},
	}

	service := NewCommentService(testConfig(), comments, &mockPostRepository{})

	_, err := service.Update(context.Background(), author(), "comment-1", "revised content")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateCommentAsAdmin(t *testing.T) {
	var updatedContent string
	comments := &mockCommentRepository{
		getByIDFn: func(context.Context, string) (*domain.Comment, error) {
			return &domain.Comment{ID: "comment-1", AuthorID: "someone-else", Content: "original"}, nil
		},
		updateFn: func(_ context.Context, _ string, content string, updatedAt time.Time) error {
			updatedContent = content
			if !updatedAt.Equal(testCommentTime) {
				t.Fatal("updated_at must come from the clock")
			}
			return nil
		},
	}

	service := NewCommentService(testConfig(), comments, &mockPostRepository{}).
		WithClock(fixedClock(testCommentTime))

	comment, err := service.Update(context.Background(), admin(), "comment-1", "moderated content")
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updatedContent != "moderated content" || comment.Content != "moderated content" {
		t.Fatal("expected content replacement")
	}
}

func TestDeleteCommentByOwner(t *testing.T) {
	deleted := false
	comments := &mockCommentRepository{
		getByIDFn: func(context.Context, string) (*domain.Comment, error) {
			return &domain.Comment{ID: "comment-1", AuthorID: "user-1"}, nil
		},
		deleteFn: func(_ context.Context, id string) error {
			deleted = id == "comment-1"
			return nil
		},
	}

	service := NewCommentService(testConfig(), comments, &mockPostRepository{})

	if err := service.Delete(context.Background(), author(), "comment-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if !deleted {
		t.Fatal("expected comment deletion")
	}
}

func TestListForPostPaginates(t *testing.T) {
	comments := &mockCommentRepository{
		countByPostFn: func(context.Context, string) (int, error) { return 45, nil },
		listByPostFn: func(_ context.Context, _ string, limit, offset int) ([]domain.CommentView, error) {
			if limit != 20 || offset != 20 {
				t.Fatalf("unexpected paging: limit=%d offset=%d", limit, offset)
			}
			return make([]domain.CommentView, 20), nil
		},
	}

	service := NewCommentService(testConfig(), comments, &mockPostRepository{})

	page, err := service.ListForPost(context.Background(), "post-1", 2, 0)
	if err != nil {
		t.Fatalf("ListForPost returned error: %v", err)
	}
	if page.Total != 45 || page.Pages != 3 || page.CurrentPage != 2 {
		t.Fatalf("unexpected pagination: %+v", page)
	}
}
