package domain

import (
	"fmt"
	"time"
)

// DefaultPubEnd is the publish-window end assigned when none is given.
var DefaultPubEnd = time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC)

// DefaultHits is the counter value of a freshly created article.
const DefaultHits = 1

// Article is the leaf of the content hierarchy and carries the written
// content.
type Article struct {
	ID             string
	Title          string
	Slug           string
	Content        string
	CreatedBy      string
	CreatedAt      time.Time
	LastModifiedBy string
	LastModifiedAt time.Time
	CategoryID     string
	PubStatus      PubStatus
	Hits           int
	PubStart       time.Time
	PubEnd         time.Time
	MenuID         int64
	Tags           []string
}

// ApplyDefaults fills status, hits and the publish window when unset.
func (a *Article) ApplyDefaults(now time.Time) {
	if a.PubStatus == "" {
		a.PubStatus = PubPublished
	}
	if a.Hits == 0 {
		a.Hits = DefaultHits
	}
	if a.PubStart.IsZero() {
		a.PubStart = now
	}
	if a.PubEnd.IsZero() {
		a.PubEnd = DefaultPubEnd
	}
}

func (a *Article) Validate() error {
	if err := requireField("article title", a.Title, maxFieldLen); err != nil {
		return err
	}
	if err := ValidateSlug(a.Slug); err != nil {
		return err
	}
	if err := requireField("article content", a.Content, 0); err != nil {
		return err
	}
	if err := requireField("article author", a.CreatedBy, 0); err != nil {
		return err
	}
	if a.CategoryID == "" {
		return fmt.Errorf("%w: article category is required", ErrValidation)
	}
	if _, ok := ValidPubStatuses[a.PubStatus]; !ok {
		return fmt.Errorf("%w: invalid publish status %q", ErrValidation, a.PubStatus)
	}
	if a.PubEnd.Before(a.PubStart) {
		return fmt.Errorf("%w: publish end %s is before publish start %s", ErrValidation,
			a.PubEnd.Format(time.RFC3339), a.PubStart.Format(time.RFC3339))
	}
	return nil
}

// IsPublished reports whether the article is visible at now.
func (a *Article) IsPublished(now time.Time) bool {
	if a.PubStatus != PubPublished {
		return false
	}
	return !now.Before(a.PubStart) && !now.After(a.PubEnd)
}

// URL returns the dated article path: root/article/YYYY/MM/DD/slug/.
func (a *Article) URL(rootURL string) string {
	return fmt.Sprintf("%sarticle/%s/%s/", NormalizeRootURL(rootURL), a.CreatedAt.Format("2006/01/02"), a.Slug)
}

// ParentNode returns the navigation node of the article's category, matched
// by the category name.
func (a *Article) ParentNode(nodes []*NavNode, category *Category) *NavNode {
	if category == nil {
		return nil
	}
	return FindParent(nodes, category.Name)
}

func (a *Article) String() string {
	return fmt.Sprintf("%s - %s", a.CreatedBy, a.Title)
}

func (a *Article) OwnerKind() NodeKind { return NodeArticle }
func (a *Article) OwnerMenuID() int64  { return a.MenuID }

func (a *Article) OwnerLink(rootURL string) MenuEntry {
	return MenuEntry{
		NodeID: a.MenuID,
		Kind:   NodeArticle,
		URL:    a.URL(rootURL),
		Label:  a.Title,
	}
}
