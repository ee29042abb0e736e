package usecase

import (
	"errors"
	"time"

	"github.com/arklim/social-platform-publishing/internal/infra/config"
)

const strongTestPassword = "Sup3r!SecurePass#7890"

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		App: config.AppSettings{Name: "publishing-test", Env: "test"},
		Session: config.SessionSettings{
			TTL:         24 * time.Hour,
			RememberTTL: 30 * 24 * time.Hour,
		},
		Lockout: config.LockoutSettings{
			Window:      15 * time.Minute,
			MaxAttempts: 5,
		},
		Content: config.ContentSettings{
			PostsPerPage:     10,
			CommentsPerPage:  20,
			MinTitleLength:   5,
			MinContentLength: 20,
			MinCommentLength: 3,
			MaxCommentLength: 1000,
			SlugMaxRetries:   5,
		},
		Password: config.PasswordSettings{
			MinLength: 8,
			MinScore:  2,
		},
	}
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// sequenceTokens yields the provided values in order, failing once exhausted.
func sequenceTokens(values ...string) func(int) (string, error) {
	i := 0
	return func(int) (string, error) {
		if i >= len(values) {
			return "", errors.New("token source exhausted")
		}
		v := values[i]
		i++
		return v, nil
	}
}
