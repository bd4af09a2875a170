package domain

import (
	"fmt"
	"time"
)

// Category is the second level of the content hierarchy; it belongs to a
// section.
type Category struct {
	ID          string
	Name        string
	Slug        string
	SectionID   string
	Description string
	Image       string
	MenuID      int64
	CreatedAt   time.Time
}

func (c *Category) Validate() error {
	if err := requireField("category name", c.Name, maxFieldLen); err != nil {
		return err
	}
	if err := ValidateSlug(c.Slug); err != nil {
		return err
	}
	if c.SectionID == "" {
		return fmt.Errorf("%w: category section is required", ErrValidation)
	}
	return requireField("category description", c.Description, 0)
}

func (c *Category) URL(rootURL string) string {
	return NormalizeRootURL(rootURL) + "category/" + c.Slug + "/"
}

func (c *Category) String() string { return c.Name }

func (c *Category) OwnerKind() NodeKind { return NodeCategory }
func (c *Category) OwnerMenuID() int64  { return c.MenuID }

func (c *Category) OwnerLink(rootURL string) MenuEntry {
	return MenuEntry{
		NodeID: c.MenuID,
		Kind:   NodeCategory,
		URL:    c.URL(rootURL),
		Label:  c.Name,
	}
}
