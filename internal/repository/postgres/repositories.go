package postgres

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Users          *UserRepository
	LoginAttempts  *LoginAttemptRepository
	RememberTokens *RememberTokenRepository
	Categories     *CategoryRepository
	Posts          *PostRepository
	Comments       *CommentRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool pgPool) *Repositories {
	return &Repositories{
		Users:          NewUserRepository(pool),
		LoginAttempts:  NewLoginAttemptRepository(pool),
		RememberTokens: NewRememberTokenRepository(pool),
		Categories:     NewCategoryRepository(pool),
		Posts:          NewPostRepository(pool),
		Comments:       NewCommentRepository(pool),
	}
}
