package usecase

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello-world"},
		{"  Spaces   everywhere  ", "spaces-everywhere"},
		{"Go 1.24 is out", "go-1-24-is-out"},
		{"---", ""},
		{"Już!", "ju"},
		{"UPPER case", "upper-case"},
		{"multiple---hyphens___and.dots", "multiple-hyphens-and-dots"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlugifyTruncatesLongTitles(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "verylongword "
	}

	slug := Slugify(long)
	if len(slug) > maxSlugLength {
		t.Fatalf("slug exceeds max length: %d", len(slug))
	}
	if slug[len(slug)-1] == '-' {
		t.Fatal("truncated slug must not end with a hyphen")
	}
}

func TestChooseSlug(t *testing.T) {
	if got := chooseSlug("hello", nil); got != "hello" {
		t.Fatalf("free base should be chosen, got %q", got)
	}

	if got := chooseSlug("hello", []string{"hello"}); got != "hello-1" {
		t.Fatalf("expected hello-1, got %q", got)
	}

	if got := chooseSlug("hello", []string{"hello", "hello-1", "hello-2"}); got != "hello-3" {
		t.Fatalf("expected hello-3, got %q", got)
	}

	if got := chooseSlug("hello", []string{"hello", "hello-2"}); got != "hello-1" {
		t.Fatalf("expected the gap hello-1, got %q", got)
	}
}

func TestChooseSlugKeepsNumericBaseIntact(t *testing.T) {
	if got := chooseSlug("release-2026", []string{"release-2026"}); got != "release-2026-1" {
		t.Fatalf("expected release-2026-1, got %q", got)
	}

	if got := chooseSlug("go-1", []string{"go-1", "go-1-1"}); got != "go-1-2" {
		t.Fatalf("expected go-1-2, got %q", got)
	}
}
