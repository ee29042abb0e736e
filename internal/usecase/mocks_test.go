package usecase

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
	"github.com/arklim/social-platform-publishing/internal/core/port"
)

type mockUserRepository struct {
	createFn          func(ctx context.Context, user domain.User) error
	getByIDFn         func(ctx context.Context, id string) (*domain.User, error)
	getByEmailFn      func(ctx context.Context, email string) (*domain.User, error)
	getByUsernameFn   func(ctx context.Context, username string) (*domain.User, error)
	updateProfileFn   func(ctx context.Context, id string, update domain.ProfileUpdate) error
	updatePasswordFn  func(ctx context.Context, id, hash string, changedAt time.Time) error
	updateStatusFn    func(ctx context.Context, id string, status domain.UserStatus) error
	updateLastLoginFn func(ctx context.Context, id string, at time.Time) error
	deleteFn          func(ctx context.Context, id string) error
	listFn            func(ctx context.Context, filter port.UserFilter) ([]domain.UserSummary, error)
	countFn           func(ctx context.Context, filter port.UserFilter) (int, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user domain.User) error {
	if m.createFn == nil {
		return errors.New("unexpected call: Create")
	}
	return m.createFn(ctx, user)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.getByIDFn == nil {
		return nil, errors.New("unexpected call: GetByID")
	}
	return m.getByIDFn(ctx, id)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn == nil {
		return nil, errors.New("unexpected call: GetByEmail")
	}
	return m.getByEmailFn(ctx, email)
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsernameFn == nil {
		return nil, errors.New("unexpected call: GetByUsername")
	}
	return m.getByUsernameFn(ctx, username)
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) error {
	if m.updateProfileFn == nil {
		return errors.New("unexpected call: UpdateProfile")
	}
	return m.updateProfileFn(ctx, id, update)
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id, hash string, changedAt time.Time) error {
	if m.updatePasswordFn == nil {
		return errors.New("unexpected call: UpdatePassword")
	}
	return m.updatePasswordFn(ctx, id, hash, changedAt)
}

func (m *mockUserRepository) UpdateStatus(ctx context.Context, id string, status domain.UserStatus) error {
	if m.updateStatusFn == nil {
		return errors.New("unexpected call: UpdateStatus")
	}
	return m.updateStatusFn(ctx, id, status)
}

func (m *mockUserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	if m.updateLastLoginFn == nil {
		return errors.New("unexpected call: UpdateLastLogin")
	}
	return m.updateLastLoginFn(ctx, id, at)
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFn == nil {
		return errors.New("unexpected call: Delete")
	}
	return m.deleteFn(ctx, id)
}

func (m *mockUserRepository) List(ctx context.Context, filter port.UserFilter) ([]domain.UserSummary, error) {
	if m.listFn == nil {
		return nil, errors.New("unexpected call: List")
	}
	return m.listFn(ctx, filter)
}

func (m *mockUserRepository) Count(ctx context.Context, filter port.UserFilter) (int, error) {
	if m.countFn == nil {
		return 0, errors.New("unexpected call: Count")
	}
	return m.countFn(ctx, filter)
}

type mockLoginAttemptRepository struct {
	recordFn          func(ctx context.Context, attempt domain.LoginAttempt) error
	countFailuresFn   func(ctx context.Context, email string, window time.Duration, reference time.Time) (int, error)
	deleteOlderThanFn func(ctx context.Context, cutoff time.Time) (int, error)
}

func (m *mockLoginAttemptRepository) Record(ctx context.Context, attempt domain.LoginAttempt) error {
	if m.recordFn == nil {
		return errors.New("unexpected call: Record")
	}
	return m.recordFn(ctx, attempt)
}

func (m *mockLoginAttemptRepository) CountRecentFailures(ctx context.Context, email string, window time.Duration, reference time.Time) (int, error) {
	if m.countFailuresFn == nil {
		return 0, errors.New("unexpected call: CountRecentFailures")
	}
	return m.countFailuresFn(ctx, email, window, reference)
}

func (m *mockLoginAttemptRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	if m.deleteOlderThanFn == nil {
		return 0, errors.New("unexpected call: DeleteOlderThan")
	}
	return m.deleteOlderThanFn(ctx, cutoff)
}

type mockRememberTokenRepository struct {
	createFn        func(ctx context.Context, token domain.RememberToken) error
	getByHashFn     func(ctx context.Context, tokenHash string) (*domain.RememberToken, error)
	deleteByHashFn  func(ctx context.Context, tokenHash string) error
	deleteForUserFn func(ctx context.Context, userID string) (int, error)
	deleteExpiredFn func(ctx context.Context, reference time.Time) (int, error)
}

func (m *mockRememberTokenRepository) Create(ctx context.Context, token domain.RememberToken) error {
	if m.createFn == nil {
		return errors.New("unexpected call: Create")
	}
	return m.createFn(ctx, token)
}

func (m *mockRememberTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*domain.RememberToken, error) {
	if m.getByHashFn == nil {
		return nil, errors.New("unexpected call: GetByHash")
	}
	return m.getByHashFn(ctx, tokenHash)
}

func (m *mockRememberTokenRepository) DeleteByHash(ctx context.Context, tokenHash string) error {
	if m.deleteByHashFn == nil {
		return errors.New("unexpected call: DeleteByHash")
	}
	return m.deleteByHashFn(ctx, tokenHash)
}

func (m *mockRememberTokenRepository) DeleteForUser(ctx context.Context, userID string) (int, error) {
	if m.deleteForUserFn == nil {
		return 0, errors.New("unexpected call: DeleteForUser")
	}
	return m.deleteForUserFn(ctx, userID)
}

func (m *mockRememberTokenRepository) DeleteExpired(ctx context.Context, reference time.Time) (int, error) {
	if m.deleteExpiredFn == nil {
		return 0, errors.New("unexpected call: DeleteExpired")
	}
	return m.deleteExpiredFn(ctx, reference)
}

type mockSessionStore struct {
	putFn    func(ctx context.Context, session domain.Session) error
	getFn    func(ctx context.Context, key string) (*domain.Session, error)
	deleteFn func(ctx context.Context, key string) error
}

func (m *mockSessionStore) Put(ctx context.Context, session domain.Session) error {
	if m.putFn == nil {
		return errors.New("unexpected call: Put")
	}
	return m.putFn(ctx, session)
}

func (m *mockSessionStore) Get(ctx context.Context, key string) (*domain.Session, error) {
	if m.getFn == nil {
		return nil, errors.New("unexpected call: Get")
	}
	return m.getFn(ctx, key)
}

func (m *mockSessionStore) Delete(ctx context.Context, key string) error {
	if m.deleteFn == nil {
		return errors.New("unexpected call: Delete")
	}
	return m.deleteFn(ctx, key)
}

type mockPostRepository struct {
	createWithLinksFn func(ctx context.Context, post domain.Post, categoryIDs []string) error
	updateWithLinksFn func(ctx context.Context, post domain.Post, categoryIDs []string) error
	deleteCascadeFn   func(ctx context.Context, id string) error
	getByIDFn         func(ctx context.Context, id string) (*domain.Post, error)
	getViewByIDFn     func(ctx context.Context, id string) (*domain.PostView, error)
	getViewBySlugFn   func(ctx context.Context, slug string) (*domain.PostView, error)
	listFn            func(ctx context.Context, filter port.PostFilter) ([]domain.PostView, error)
	countFn           func(ctx context.Context, filter port.PostFilter) (int, error)
	listPopularFn     func(ctx context.Context, limit int) ([]domain.PostView, error)
	listRecentFn      func(ctx context.Context, limit int) ([]domain.PostView, error)
	listSlugsLikeFn   func(ctx context.Context, base string) ([]string, error)
	incrementViewsFn  func(ctx context.Context, id string) error
}

func (m *mockPostRepository) CreateWithLinks(ctx context.Context, post domain.Post, categoryIDs []string) error {
	if m.createWithLinksFn == nil {
		return errors.New("unexpected call: CreateWithLinks")
	}
	return m.createWithLinksFn(ctx, post, categoryIDs)
}

func (m *mockPostRepository) UpdateWithLinks(ctx context.Context, post domain.Post, categoryIDs []string) error {
	if m.updateWithLinksFn == nil {
		return errors.New("unexpected call: UpdateWithLinks")
	}
	return m.updateWithLinksFn(ctx, post, categoryIDs)
}

func (m *mockPostRepository) DeleteCascade(ctx context.Context, id string) error {
	if m.deleteCascadeFn == nil {
		return errors.New("unexpected call: DeleteCascade")
	}
	return m.deleteCascadeFn(ctx, id)
}

func (m *mockPostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	if m.getByIDFn == nil {
		return nil, errors.New("unexpected call: GetByID")
	}
	return m.getByIDFn(ctx, id)
}

func (m *mockPostRepository) GetViewByID(ctx context.Context, id string) (*domain.PostView, error) {
	if m.getViewByIDFn == nil {
		return nil, errors.New("unexpected call: GetViewByID")
	}
	return m.getViewByIDFn(ctx, id)
}

func (m *mockPostRepository) GetViewBySlug(ctx context.Context, slug string) (*domain.PostView, error) {
	if m.getViewBySlugFn == nil {
		return nil, errors.New("unexpected call: GetViewBySlug")
	}
	return m.getViewBySlugFn(ctx, slug)
}

func (m *mockPostRepository) List(ctx context.Context, filter port.PostFilter) ([]domain.PostView, error) {
	if m.listFn == nil {
		return nil, errors.New("unexpected call: List")
	}
	return m.listFn(ctx, filter)
}

func (m *mockPostRepository) Count(ctx context.Context, filter port.PostFilter) (int, error) {
	if m.countFn == nil {
		return 0, errors.New("unexpected call: Count")
	}
	return m.countFn(ctx, filter)
}

func (m *mockPostRepository) ListPopular(ctx context.Context, limit int) ([]domain.PostView, error) {
	if m.listPopularFn == nil {
		return nil, errors.New("unexpected call: ListPopular")
	}
	return m.listPopularFn(ctx, limit)
}

func (m *mockPostRepository) ListRecent(ctx context.Context, limit int) ([]domain.PostView, error) {
	if m.listRecentFn == nil {
		return nil, errors.New("unexpected call: ListRecent")
	}
	return m.listRecentFn(ctx, limit)
}

func (m *mockPostRepository) ListSlugsLike(ctx context.Context, base string) ([]string, error) {
	if m.listSlugsLikeFn == nil {
		return nil, errors.New("unexpected call: ListSlugsLike")
	}
	return m.listSlugsLikeFn(ctx, base)
}

func (m *mockPostRepository) IncrementViews(ctx context.Context, id string) error {
	if m.incrementViewsFn == nil {
		return errors.New("unexpected call: IncrementViews")
	}
	return m.incrementViewsFn(ctx, id)
}

type mockCategoryRepository struct {
	createFn        func(ctx context.Context, category domain.Category) error
	updateFn        func(ctx context.Context, category domain.Category) error
	deleteCascadeFn func(ctx context.Context, id string) error
	getByIDFn       func(ctx context.Context, id string) (*domain.Category, error)
	getByNameFn     func(ctx context.Context, name string) (*domain.Category, error)
	listFn          func(ctx context.Context) ([]domain.CategorySummary, error)
	existAllFn      func(ctx context.Context, ids []string) (bool, error)
}

func (m *mockCategoryRepository) Create(ctx context.Context, category domain.Category) error {
	if m.createFn == nil {
		return errors.New("unexpected call: Create")
	}
	return m.createFn(ctx, category)
}

func (m *mockCategoryRepository) Update(ctx context.Context, category domain.Category) error {
	if m.updateFn == nil {
		return errors.New("unexpected call: Update")
	}
	return m.updateFn(ctx, category)
}

func (m *mockCategoryRepository) DeleteCascade(ctx context.Context, id string) error {
	if m.deleteCascadeFn == nil {
		return errors.New("unexpected call: DeleteCascade")
	}
	return m.deleteCascadeFn(ctx, id)
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	if m.getByIDFn == nil {
		return nil, errors.New("unexpected call: GetByID")
	}
	return m.getByIDFn(ctx, id)
}

func (m *mockCategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	if m.getByNameFn == nil {
		return nil, errors.New("unexpected call: GetByName")
	}
	return m.getByNameFn(ctx, name)
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]domain.CategorySummary, error) {
	if m.listFn == nil {
		return nil, errors.New("unexpected call: List")
	}
	return m.listFn(ctx)
}

func (m *mockCategoryRepository) ExistAll(ctx context.Context, ids []string) (bool, error) {
	if m.existAllFn == nil {
		return false, errors.New("unexpected call: ExistAll")
	}
	return m.existAllFn(ctx, ids)
}

type mockCommentRepository struct {
	createFn      func(ctx context.Context, comment domain.Comment) error
	updateFn      func(ctx context.Context, id, content string, updatedAt time.Time) error
	deleteFn      func(ctx context.Context, id string) error
	getByIDFn     func(ctx context.Context, id string) (*domain.Comment, error)
	listByPostFn  func(ctx context.Context, postID string, limit, offset int) ([]domain.CommentView, error)
	countByPostFn func(ctx context.Context, postID string) (int, error)
}

func (m *mockCommentRepository) Create(ctx context.Context, comment domain.Comment) error {
	if m.createFn == nil {
		return errors.New("unexpected call: Create")
	}
	return m.createFn(ctx, comment)
}

func (m *mockCommentRepository) Update(ctx context.Context, id, content string, updatedAt time.Time) error {
	if m.updateFn == nil {
		return errors.New("unexpected call: Update")
	}
	return m.updateFn(ctx, id, content, updatedAt)
}

func (m *mockCommentRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFn == nil {
		return errors.New("unexpected call: Delete")
	}
	return m.deleteFn(ctx, id)
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	if m.getByIDFn == nil {
		return nil, errors.New("unexpected call: GetByID")
	}
	return m.getByIDFn(ctx, id)
}

func (m *mockCommentRepository) ListByPost(ctx context.Context, postID string, limit, offset int) ([]domain.CommentView, error) {
	if m.listByPostFn == nil {
		return nil, errors.New("unexpected call: ListByPost")
	}
	return m.listByPostFn(ctx, postID, limit, offset)
}

func (m *mockCommentRepository) CountByPost(ctx context.Context, postID string) (int, error) {
	if m.countByPostFn == nil {
		return 0, errors.New("unexpected call: CountByPost")
	}
	return m.countByPostFn(ctx, postID)
}

type mockBlobStore struct {
	saveFn   func(ctx context.Context, name string, r io.Reader) (string, error)
	removeFn func(ctx context.Context, ref string) error
}

func (m *mockBlobStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if m.saveFn == nil {
		return "", errors.New("unexpected call: Save")
	}
	return m.saveFn(ctx, name, r)
}

func (m *mockBlobStore) Remove(ctx context.Context, ref string) error {
	if m.removeFn == nil {
		return errors.New("unexpected call: Remove")
	}
	return m.removeFn(ctx, ref)
}

// stubPublisher records every published event and never fails.
type stubPublisher struct {
	registered []domain.UserRegisteredEvent
	logins     []domain.LoginEvent
	posts      []domain.PostEvent
}

func (p *stubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	p.registered = append(p.registered, event)
	return nil
}

func (p *stubPublisher) PublishLogin(_ context.Context, event domain.LoginEvent) error {
	p.logins = append(p.logins, event)
	return nil
}

func (p *stubPublisher) PublishPost(_ context.Context, event domain.PostEvent) error {
	p.posts = append(p.posts, event)
	return nil
}

var (
	_ port.UserRepository          = (*mockUserRepository)(nil)
	_ port.LoginAttemptRepository  = (*mockLoginAttemptRepository)(nil)
	_ port.RememberTokenRepository = (*mockRememberTokenRepository)(nil)
	_ port.SessionStore            = (*mockSessionStore)(nil)
	_ port.PostRepository          = (*mockPostRepository)(nil)
	_ port.CategoryRepository      = (*mockCategoryRepository)(nil)
	_ port.CommentRepository       = (*mockCommentRepository)(nil)
	_ port.BlobStore               = (*mockBlobStore)(nil)
	_ port.EventPublisher          = (*stubPublisher)(nil)
)
