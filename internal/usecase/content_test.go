package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
	"github.com/arklim/social-platform-publishing/internal/core/port"
	"github.com/arklim/social-platform-publishing/internal/repository"
)

var testPostTime = time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

func newContentServiceForTest(
	t *testing.T,
	posts *mockPostRepository,
	categories *mockCategoryRepository,
	blobs *mockBlobStore,
	publisher *stubPublisher,
) *ContentService {
	t.Helper()
	return NewContentService(testConfig(), posts, categories, blobs, publisher, zaptest.NewLogger(t)).
		WithClock(fixedClock(testPostTime))
}

func author() domain.ActorContext {
	return domain.ActorContext{UserID: "user-1", Role: domain.RoleUser}
}

func admin() domain.ActorContext {
	return domain.ActorContext{UserID: "admin-1", Role: domain.RoleAdmin}
}

func validCreateInput() CreatePostInput {
	return CreatePostInput{
		Title:       "A Tour of the Standard Library",
		Content:     strings.Repeat("Interesting prose. ", 5),
		CategoryIDs: []string{"cat-1"},
		Status:      domain.PostStatusPublished,
	}
}

func TestCreatePostSuccess(t *testing.T) {
	var created domain.Post
	var linkedCategories []string

	posts := &mockPostRepository{
		listSlugsLikeFn: func(_ context.Context, base string) ([]string, error) {
			if base != "a-tour-of-the-standard-library" {
				t.Fatalf("unexpected slug base: %s", base)
			}
			return nil, nil
		},
		createWithLinksFn: func(_ context.Context, post domain.Post, categoryIDs []string) error {
			created = post
			linkedCategories = categoryIDs
			return nil
		},
	}
	categories := &mockCategoryRepository{
		existAllFn: func(context.Context, []string) (bool, error) { return true, nil },
	}
	publisher := &stubPublisher{}

	service := newContentServiceForTest(t, posts, categories, &mockBlobStore{}, publisher)

	post, err := service.CreatePost(context.Background(), author(), validCreateInput())
	if err != nil {
		t.Fatalf("CreatePost returned error: %v", err)
	}

	if post.Slug != "a-tour-of-the-standard-library" {
		t.Fatalf("unexpected slug: %s", post.Slug)
	}
	if created.AuthorID != "user-1" {
		t.Fatalf("unexpected author: %s", created.AuthorID)
	}
	if len(linkedCategories) != 1 || linkedCategories[0] != "cat-1" {
		t.Fatalf("unexpected category links: %v", linkedCategories)
	}
	if len(publisher.posts) != 1 || publisher.posts[0].Action != "created" {
		t.Fatal("expected a created post event")
	}
}

func TestCreatePostValidation(t *testing.T) {
	categories := &mockCategoryRepository{
		existAllFn: func(context.Context, []string) (bool, error) { return true, nil },
	}
	service := newContentServiceForTest(t, &mockPostRepository{}, categories, &mockBlobStore{}, &stubPublisher{})

	_, err := service.CreatePost(context.Background(), author(), CreatePostInput{
		Title:   "shrt",
		Content: "too short",
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"title", "content", "categories"} {
		if _, ok := vErr.Fields[field]; !ok {
			t.Fatalf("expected violation for %s, got %v", field, vErr.Fields)
		}
	}
}

func TestCreatePostRejectsUnknownCategories(t *testing.T) {
	categories := &mockCategoryRepository{
		existAllFn: func(context.Context, []string) (bool, error) { return false, nil },
	}
	service := newContentServiceForTest(t, &mockPostRepository{}, categories, &mockBlobStore{}, &stubPublisher{})

	_, err := service.CreatePost(context.Background(), author(), validCreateInput())

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.Fields["categories"]; !ok {
		t.Fatalf("expected categories violation, got %v", vErr.Fields)
	}
}

func TestCreatePostSuffixesTakenSlug(t *testing.T) {
	posts := &mockPostRepository{
		listSlugsLikeFn: func(context.Context, string) ([]string, error) {
			return []string{"a-tour-of-the-standard-library", "a-tour-of-the-standard-library-1"}, nil
		},
		createWithLinksFn: func(context.Context, domain.Post, []string) error { return nil },
	}
	categories := &mockCategoryRepository{
		existAllFn: func(context.Context, []string) (bool, error) { return true, nil },
	}

	service := newContentServiceForTest(t, posts, categories, &mockBlobStore{}, &stubPublisher{})

	post, err := service.CreatePost(context.Background(), author(), validCreateInput())
	if err != nil {
		t.Fatalf("CreatePost returned error: %v", err)
	}
	if post.Slug != "a-tour-of-the-standard-library-2" {
		t.Fatalf("unexpected slug: %s", post.Slug)
	}
}

func TestCreatePostRetriesOnRacedSlug(t *testing.T) {
	var attempts []string
	posts := &mockPostRepository{
		listSlugsLikeFn: func(context.Context, string) ([]string, error) { return nil, nil },
		createWithLinksFn: func(_ context.Context, post domain.Post, _ []string) error {
			attempts = append(attempts, post.Slug)
			if len(attempts) < 3 {
				return repository.ErrDuplicateSlug
			}
			return nil
		},
	}
	categories := &mockCategoryRepository{
		existAllFn: func(context.Context, []string) (bool, error) { return true, nil },
	}

	service := newContentServiceForTest(t, posts, categories, &mockBlobStore{}, &stubPublisher{})

	post, err := service.CreatePost(context.Background(), author(), validCreateInput())
	if err != nil {
		t.Fatalf("CreatePost returned error: %v", err)
	}

	want := []string{
		"a-tour-of-the-standard-library",
		"a-tour-of-the-standard-library-1",
		"a-tour-of-the-standard-library-2",
	}
	if len(attempts) != len(want) {
		t.Fatalf("unexpected attempts: %v", attempts)
	}
	for i := range want {
		if attempts[i] != want[i] {
			t.Fatalf("attempt %d = %q, want %q", i, attempts[i], want[i])
		}
	}
	if post.Slug != want[2] {
		t.Fatalf("unexpected final slug: %s", post.Slug)
	}
}

func TestCreatePostRetryKeepsNumericBaseIntact(t *testing.T) {
	var attempts []string
	posts := &mockPostRepository{
		listSlugsLikeFn: func(context.Context, string) ([]string, error) { return nil, nil },
		createWithLinksFn: func(_ context.Context, post domain.Post, _ []string) error {
			attempts = append(attempts, post.Slug)
			if len(attempts) < 2 {
				return repository.ErrDuplicateSlug
			}
			return nil
		},
	}
	categories := &mockCategoryRepository{
		existAllFn: func(context.Context, []string) (bool, error) { return true, nil },
	}

	service := newContentServiceForTest(t, posts, categories, &mockBlobStore{}, &stubPublisher{})

	input := validCreateInput()
	input.Title = "Release 2026"

	post, err := service.CreatePost(context.Background(), author(), input)
	if err != nil {
		t.Fatalf("CreatePost returned error: %v", err)
	}

	if len(attempts) != 2 || attempts[0] != "release-2026" || attempts[1] != "release-2026-1" {
		t.Fatalf("unexpected attempts: %v", attempts)
	}
	if post.Slug != "release-2026-1" {
		t.Fatalf("unexpected final slug: %s", post.Slug)
	}
}

func TestCreatePostDeduplicatesCategoryLinks(t *testing.T) {
	var checked, linked []string
	posts := &mockPostRepository{
		listSlugsLikeFn: func(context.Context, string) ([]string, error) { return nil, nil },
		createWithLinksFn: func(_ context.Context, _ domain.Post, categoryIDs []string) error {
			linked = categoryIDs
			return nil
		},
	}
	categories := &mockCategoryRepository{
		existAllFn: func(_ context.Context, ids []string) (bool, error) {
			checked = ids
			return true, nil
		},
	}

	service := newContentServiceForTest(t, posts, categories, &mockBlobStore{}, &stubPublisher{})

	input := validCreateInput()
	input.CategoryIDs = []string{"cat-1", "cat-2", "cat-1"}

	if _, err := service.CreatePost(context.Background(), author(), input); err != nil {
		t.Fatalf("CreatePost returned error: %v", err)
	}

	want := []string{"cat-1", "cat-2"}
	if len(linked) != len(want) || linked[0] != want[0] || linked[1] != want[1] {
		t.Fatalf("unexpected category links: %v", linked)
	}
	if len(checked) != len(want) {
		t.Fatalf("existence check must see deduplicated ids, got %v", checked)
	}
}

func TestCreatePostGivesUpAfterBoundedRetries(t *testing.T) {
	calls := 0
	posts := &mockPostRepository{
		listSlugsLikeFn: func(context.Context, string) ([]string, error) { return nil, nil },
		createWithLinksFn: func(context.Context, domain.Post, []string) error {
			calls++
			return repository.ErrDuplicateSlug
		},
	}
	categories := &mockCategoryRepository{
		existAllFn: func(context.Context, []string) (bool, error) { return true, nil },
	}

	service := newContentServiceForTest(t, posts, categories, &mockBlobStore{}, &stubPublisher{})

	_, err := service.CreatePost(context.Background(), author(), validCreateInput())
	if !errors.Is(err, ErrSlugExhausted) {
		t.Fatalf("expected ErrSlugExhausted, got %v", err)
	}
	if calls != testConfig().Content.SlugMaxRetries {
		t.Fatalf("expected %d attempts, got %d", testConfig().Content.SlugMaxRetries, calls)
	}
}

func TestCreatePostStoresImage(t *testing.T) {
	posts := &mockPostRepository{
		listSlugsLikeFn:   func(context.Context, string) ([]string, error) { return nil, nil },
		createWithLinksFn: func(context.Context, domain.Post, []string) error { return nil },
	}
	categories := &mockCategoryRepository{
		existAllFn: func(context.Context, []string) (bool, error) { return true, nil },
	}
	store := &mockBlobStore{
		saveFn: func(_ context.Context, name string, _ io.Reader) (string, error) {
			if name != "cover.png" {
				t.Fatalf("unexpected upload name: %s", name)
			}
			return "stored-ref.png", nil
		},
	}

	service := newContentServiceForTest(t, posts, categories, store, &stubPublisher{})

	input := validCreateInput()
	input.Image = &ImageUpload{Name: "cover.png", Data: strings.NewReader("img")}

	post, err := service.CreatePost(context.Background(), author(), input)
	if err != nil {
		t.Fatalf("CreatePost returned error: %v", err)
	}
	if post.Image == nil || *post.Image != "stored-ref.png" {
		t.Fatalf("unexpected image ref: %v", post.Image)
	}
}

func TestUpdatePostOwnershipAndAbsenceAreIndistinguishable(t *testing.T) {
	foreign := &domain.Post{ID: "post-1", AuthorID: "someone-else", Status: domain.PostStatusPublished}

	cases := []struct {
		name string
		post *domain.Post
		err  error
	}{
		{name: "absent post", post: nil, err: repository.ErrNotFound},
		{name: "foreign post", post: foreign, err: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			posts := &mockPostRepository{
				getByIDFn: func(context.Context, string) (*domain.Post, error) {
					if tc.post == nil {
						return nil, tc.err
					}
					copy := *tc.post
					return &copy, nil
				},
			}

			service := newContentServiceForTest(t, posts, &mockCategoryRepository{}, &mockBlobStore{}, &stubPublisher{})

			_, err := service.UpdatePost(context.Background(), author(), "post-1", UpdatePostInput{
				Title:       "A Valid Replacement Title",
				Content:     strings.Repeat("Replacement prose. ", 5),
				CategoryIDs: []string{"cat-1"},
			})
			if !errors.Is(err, ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
		})
	}
}

func TestUpdatePostPreservesImageWhenNoneUploaded(t *testing.T) {
	existingImage := "old-ref.png"
	var updated domain.Post

	posts := &mockPostRepository{
		getByIDFn: func(context.Context, string) (*domain.Post, error) {
			return &domain.Post{
				ID:       "post-1",
				AuthorID: "user-1",
				Slug:     "original-slug",
				Image:    &existingImage,
				Status:   domain.PostStatusPublished,
			}, nil
		},
		updateWithLinksFn: func(_ context.Context, post domain.Post, _ []string) error {
			updated = post
			return nil
		},
	}
	categories := &mockCategoryRepository{
		existAllFn: func(context.Context, []string) (bool, error) { return true, nil },
	}
	publisher := &stubPublisher{}

	service := newContentServiceForTest(t, posts, categories, &mockBlobStore{}, publisher)

	post, err := service.UpdatePost(context.Background(), author(), "post-1", UpdatePostInput{
		Title:       "A Valid Replacement Title",
		Content:     strings.Repeat("Replacement prose. ", 5),
		CategoryIDs: []string{"cat-1"},
	})
	if err != nil {
		t.Fatalf("UpdatePost returned error: %v", err)
	}

	if post.Image == nil || *post.Image != existingImage {
		t.Fatal("existing image must be preserved")
	}
	if updated.Slug != "original-slug" {
		t.Fatal("slug must not change on update")
	}
	if updated.UpdatedAt == nil || !updated.UpdatedAt.Equal(testPostTime) {
		t.Fatal("updated_at must be set to the clock time")
	}
	if len(publisher.posts) != 1 || publisher.posts[0].Action != "updated" {
		t.Fatal("expected an updated post event")
	}
}

func TestUpdatePostReplacesImageAndRemovesOld(t *testing.T) {
	existingImage := "old-ref.png"
	removed := ""

	posts := &mockPostRepository{
		getByIDFn: func(context.Context, string) (*domain.Post, error) {
			return &domain.Post{
				ID:       "post-1",
				AuthorID: "user-1",
				Image:    &existingImage,
				Status:   domain.PostStatusPublished,
			}, nil
		},
		updateWithLinksFn: func(context.Context, domain.Post, []string) error { return nil },
	}
	categories := &mockCategoryRepository{
		existAllFn: func(context.Context, []string) (bool, error) { return true, nil },
	}
	blobs := &mockBlobStore{
		saveFn: func(context.Context, string, io.Reader) (string, error) { return "new-ref.png", nil },
		removeFn: func(_ context.Context, ref string) error {
			removed = ref
			return nil
		},
	}

	service := newContentServiceForTest(t, posts, categories, blobs, &stubPublisher{})

	post, err := service.UpdatePost(context.Background(), author(), "post-1", UpdatePostInput{
		Title:       "A Valid Replacement Title",
		Content:     strings.Repeat("Replacement prose. ", 5),
		CategoryIDs: []string{"cat-1"},
		Image:       &ImageUpload{Name: "new.png", Data: strings.NewReader("img")},
	})
	if err != nil {
		t.Fatalf("UpdatePost returned error: %v", err)
	}

	if post.Image == nil || *post.Image != "new-ref.png" {
		t.Fatalf("unexpected image: %v", post.Image)
	}
	if removed != "old-ref.png" {
		t.Fatalf("expected old image removal, removed=%q", removed)
	}
}

func TestAdminCanUpdateForeignPost(t *testing.T) {
	posts := &mockPostRepository{
		getByIDFn: func(context.Context, string) (*domain.Post, error) {
			return &domain.Post{ID: "post-1", AuthorID: "user-1", Status: domain.PostStatusPublished}, nil
		},
		updateWithLinksFn: func(context.Context, domain.Post, []string) error { return nil },
	}
	categories := &mockCategoryRepository{
		existAllFn: func(context.Context, []string) (bool, error) { return true, nil },
	}

	service := newContentServiceForTest(t, posts, categories, &mockBlobStore{}, &stubPublisher{})

	_, err := service.UpdatePost(context.Background(), admin(), "post-1", UpdatePostInput{
		Title:       "A Valid Replacement Title",
		Content:     strings.Repeat("Replacement prose. ", 5),
		CategoryIDs: []string{"cat-1"},
	})
	if err != nil {
		t.Fatalf("admin update returned error: %v", err)
	}
}

func TestDeletePostCascadesAndPublishes(t *testing.T) {
	image := "cover.png"
	deleted := false
	removedImage := ""

	posts := &mockPostRepository{
		getByIDFn: func(context.Context, string) (*domain.Post, error) {
			return &domain.Post{ID: "post-1", AuthorID: "user-1", Slug: "hello", Image: &image}, nil
		},
		deleteCascadeFn: func(_ context.Context, id string) error {
			deleted = id == "post-1"
			return nil
		},
	}
	blobs := &mockBlobStore{}
	blobs.removeFn = func(_ context.Context, ref string) error {
		removedImage = ref
		return nil
	}
	publisher := &stubPublisher{}

	service := newContentServiceForTest(t, posts, &mockCategoryRepository{}, blobs, publisher)

	if err := service.DeletePost(context.Background(), author(), "post-1"); err != nil {
		t.Fatalf("DeletePost returned error: %v", err)
	}
	if !deleted {
		t.Fatal("expected cascade delete")
	}
	if removedImage != "cover.png" {
		t.Fatal("expected image cleanup")
	}
	if len(publisher.posts) != 1 || publisher.posts[0].Action != "deleted" {
		t.Fatal("expected a deleted post event")
	}
}

func TestListPublishedSharesPredicate(t *testing.T) {
	var countFilter, listFilter port.PostFilter

	posts := &mockPostRepository{
		countFn: func(_ context.Context, filter port.PostFilter) (int, error) {
			countFilter = filter
			return 25, nil
		},
		listFn: func(_ context.Context, filter port.PostFilter) ([]domain.PostView, error) {
			listFilter = filter
			return make([]domain.PostView, 10), nil
		},
	}

	service := newContentServiceForTest(t, posts, &mockCategoryRepository{}, &mockBlobStore{}, &stubPublisher{})

	page, err := service.ListPublished(context.Background(), ListPostsInput{
		Page:       2,
		CategoryID: "cat-1",
		Search:     "  golang ",
	})
	if err != nil {
		t.Fatalf("ListPublished returned error: %v", err)
	}

	if !countFilter.PublishedOnly || countFilter.CategoryID != "cat-1" || countFilter.Search != "golang" {
		t.Fatalf("unexpected count filter: %+v", countFilter)
	}
	if countFilter.CategoryID != listFilter.CategoryID || countFilter.Search != listFilter.Search ||
		countFilter.PublishedOnly != listFilter.PublishedOnly {
		t.Fatal("count and list must share the same predicate")
	}
	if listFilter.Limit != 10 || listFilter.Offset != 10 {
		t.Fatalf("unexpected paging: limit=%d offset=%d", listFilter.Limit, listFilter.Offset)
	}
	if page.Total != 25 || page.Pages != 3 || page.CurrentPage != 2 {
		t.Fatalf("unexpected pagination: %+v", page)
	}
}

func TestGetBySlugMapsNotFound(t *testing.T) {
	posts := &mockPostRepository{
		getViewBySlugFn: func(context.Context, string) (*domain.PostView, error) {
			return nil, repository.ErrNotFound
		},
	}

	service := newContentServiceForTest(t, posts, &mockCategoryRepository{}, &mockBlobStore{}, &stubPublisher{})

	_, err := service.GetBySlug(context.Background(), "missing")
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestRegisterViewSwallowsErrors(t *testing.T) {
	posts := &mockPostRepository{
		incrementViewsFn: func(context.Context, string) error {
			return errors.New("connection reset")
		},
	}

	service := newContentServiceForTest(t, posts, &mockCategoryRepository{}, &mockBlobStore{}, &stubPublisher{})

	// must not panic or propagate
	service.RegisterView(context.Background(), "post-1")
}
