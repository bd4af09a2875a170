package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultRootURL is the URL prefix content pages live under when none is
// configured.
const DefaultRootURL = "/cms/content/"

const maxFieldLen = 255

// ErrValidation wraps every field-level rejection of a section, category,
// article or comment.
var ErrValidation = errors.New("invalid content")

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// NormalizeRootURL guarantees a leading and trailing slash.
func NormalizeRootURL(root string) string {
	root = strings.TrimSpace(root)
	if root == "" {
		return DefaultRootURL
	}
	if !strings.HasPrefix(root, "/") && !strings.Contains(root, "://") {
		root = "/" + root
	}
	if !strings.HasSuffix(root, "/") {
		root += "/"
	}
	return root
}

// ValidateSlug checks that slug is non-empty, at most 255 characters and
// made of letters, digits, hyphens and underscores.
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("%w: slug is required", ErrValidation)
	}
	if utf8.RuneCountInString(slug) > maxFieldLen {
		return fmt.Errorf("%w: slug %q exceeds %d characters", ErrValidation, slug, maxFieldLen)
	}
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("%w: slug %q may only contain letters, numbers, hyphens and underscores", ErrValidation, slug)
	}
	return nil
}

func requireField(name, value string, limit int) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, name)
	}
	if limit > 0 && utf8.RuneCountInString(value) > limit {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrValidation, name, limit)
	}
	return nil
}
