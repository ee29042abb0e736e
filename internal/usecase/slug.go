package usecase

import (
	"strconv"
	"strings"
)

const maxSlugLength = 100

// Slugify normalizes a title into a URL-safe slug: lowercase, alphanumeric
// runs preserved, everything else collapsed into single hyphens. Returns an
// empty string when nothing survives normalization.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true

	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLength {
		slug = strings.Trim(slug[:maxSlugLength], "-")
	}

	return slug
}

// chooseSlug picks the base slug when free, otherwise the lowest numbered
// "base-N" variant not present in taken, counting from 1. The base itself is
// never reinterpreted, so a title like "Release 2026" suffixes to
// "release-2026-1" rather than drifting into a neighbouring slug.
func chooseSlug(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, s := range taken {
		used[s] = struct{}{}
	}

	if _, ok := used[base]; !ok {
		return base
	}

	for n := 1; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}
