package domain

import (
	"fmt"
	"strings"
	"time"
)

// Comment is a reader comment attached to an article.
type Comment struct {
	ID        string
	ArticleID string
	UserName  string
	Body      string
	UserIP    string
	UserAgent string
	Referrer  string
	IsPublic  bool
	CreatedAt time.Time
}

func (c *Comment) Validate() error {
	if c.ArticleID == "" {
		return fmt.Errorf("%w: comment article is required", ErrValidation)
	}
	if strings.TrimSpace(c.UserName) == "" {
		return fmt.Errorf("%w: comment author is required", ErrValidation)
	}
	if strings.TrimSpace(c.Body) == "" {
		return fmt.Errorf("%w: comment body is required", ErrValidation)
	}
	return nil
}

// CommentFlag marks a comment, e.g. as spam, on behalf of a user.
type CommentFlag struct {
	CommentID string
	User      string
	Flag      FlagKind
	CreatedAt time.Time
}

// Actor is the caller of a content operation.
type Actor struct {
	Username    string
	IsSuperuser bool
}

// Authenticated reports whether the actor carries a username.
func (a Actor) Authenticated() bool {
	return strings.TrimSpace(a.Username) != ""
}
