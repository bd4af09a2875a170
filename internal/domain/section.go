package domain

import "time"

// Section is the top level of the content hierarchy.
type Section struct {
	ID          string
	Name        string
	Slug        string
	Description string
	Image       string
	MenuID      int64
	CreatedAt   time.Time
}

// Validate checks the user-editable fields.
func (s *Section) Validate() error {
	if err := requireField("section name", s.Name, maxFieldLen); err != nil {
		return err
	}
	if err := ValidateSlug(s.Slug); err != nil {
		return err
	}
	return requireField("section description", s.Description, 0)
}

// URL returns the section page path under rootURL.
func (s *Section) URL(rootURL string) string {
	return NormalizeRootURL(rootURL) + "section/" + s.Slug + "/"
}

func (s *Section) String() string { return s.Name }

func (s *Section) OwnerKind() NodeKind { return NodeSection }
func (s *Section) OwnerMenuID() int64  { return s.MenuID }

func (s *Section) OwnerLink(rootURL string) MenuEntry {
	return MenuEntry{
		NodeID: s.MenuID,
		Kind:   NodeSection,
		URL:    s.URL(rootURL),
		Label:  s.Name,
		Anchor: true,
	}
}
