package domain

import (
	"errors"
	"fmt"
	"html"
	"time"
)

var (
	// ErrParentRequired is returned when a category or article node is
	// allocated without a parent.
	ErrParentRequired = errors.New("menu node parent is required")

	// ErrInvalidParent is returned when the supplied parent is not allowed
	// for the node kind.
	ErrInvalidParent = errors.New("invalid menu node parent")

	// ErrInvalidKind is returned for kinds outside section/category/article.
	ErrInvalidKind = errors.New("invalid menu node kind")

	// ErrOwnerMismatch is returned when an owner does not match the node it
	// is resolved against.
	ErrOwnerMismatch = errors.New("menu node owner does not match node kind")
)

// MenuNode is one addressable point of the navigation hierarchy. IDs are
// shared by all kinds and never reused.
type MenuNode struct {
	ID        int64
	ParentID  *int64
	Kind      NodeKind
	CreatedAt time.Time
}

// IsRoot reports whether the node has no parent.
func (n *MenuNode) IsRoot() bool {
	return n.ParentID == nil
}

// ValidateAllocation checks kind and parent presence before a node is
// persisted. Whether the parent exists and has the right kind is checked by
// the store.
func ValidateAllocation(kind NodeKind, parentID *int64) error {
	if !ValidNodeKinds[string(kind)] {
		return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if _, needsParent := kind.ParentKind(); needsParent {
		if parentID == nil {
			return fmt.Errorf("%s node: %w", kind, ErrParentRequired)
		}
		return nil
	}
	if parentID != nil {
		return fmt.Errorf("%w: section nodes are roots (got parent %d)", ErrInvalidParent, *parentID)
	}
	return nil
}

// MenuEntry is the display link of a node's owner.
type MenuEntry struct {
	NodeID int64
	Kind   NodeKind
	URL    string
	Label  string
	Anchor bool // root entries render as a full anchor element
}

// String renders the entry: an anchor for root sections, the bare URL
// otherwise.
func (e MenuEntry) String() string {
	if e.Anchor {
		return fmt.Sprintf("<a href='%s'>%s</a>", e.URL, html.EscapeString(e.Label))
	}
	return e.URL
}

// Owner is the entity that exclusively holds a menu node: *Section,
// *Category or *Article.
type Owner interface {
	OwnerKind() NodeKind
	OwnerMenuID() int64
	OwnerLink(rootURL string) MenuEntry
}

// ResolveEntry returns the display link for node given its owner. Root nodes
// always resolve through a section; the rest dispatch on the owner variant.
func ResolveEntry(node *MenuNode, owner Owner, rootURL string) (MenuEntry, error) {
	if owner == nil {
		return MenuEntry{}, fmt.Errorf("node %d: %w", node.ID, ErrOwnerMismatch)
	}
	if owner.OwnerMenuID() != node.ID {
		return MenuEntry{}, fmt.Errorf("node %d owned by menu id %d: %w", node.ID, owner.OwnerMenuID(), ErrOwnerMismatch)
	}
	if node.IsRoot() {
		s, ok := owner.(*Section)
		if !ok {
			return MenuEntry{}, fmt.Errorf("root node %d: %w", node.ID, ErrOwnerMismatch)
		}
		return s.OwnerLink(rootURL), nil
	}
	switch o := owner.(type) {
	case *Category:
		if node.Kind != NodeCategory {
			return MenuEntry{}, fmt.Errorf("node %d is %s: %w", node.ID, node.Kind, ErrOwnerMismatch)
		}
		return o.OwnerLink(rootURL), nil
	case *Article:
		if node.Kind != NodeArticle {
			return MenuEntry{}, fmt.Errorf("node %d is %s: %w", node.ID, node.Kind, ErrOwnerMismatch)
		}
		return o.OwnerLink(rootURL), nil
	default:
		return MenuEntry{}, fmt.Errorf("node %d is %s: %w", node.ID, node.Kind, ErrOwnerMismatch)
	}
}

// NavNode is a navigation-tree entry handed to menu builders.
type NavNode struct {
	ID       int64
	ParentID *int64
	Kind     NodeKind
	Title    string
	URL      string
}

// FindParent returns the first node whose title equals name, or nil.
// Order is whatever the caller supplied.
func FindParent(nodes []*NavNode, name string) *NavNode {
	for _, n := range nodes {
		if n != nil && n.Title == name {
			return n
		}
	}
	return nil
}

// MenuTreeNode is a NavNode with its resolved children.
type MenuTreeNode struct {
	*NavNode
	Children []*MenuTreeNode
}

// BuildMenuTree nests a flat node list by parent links, preserving input
// order among siblings. Nodes whose parent is missing from the list are
// treated as roots.
func BuildMenuTree(nodes []*NavNode) []*MenuTreeNode {
	byID := make(map[int64]*MenuTreeNode, len(nodes))
	ordered := make([]*MenuTreeNode, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		tn := &MenuTreeNode{NavNode: n}
		byID[n.ID] = tn
		ordered = append(ordered, tn)
	}

	var roots []*MenuTreeNode
	for _, tn := range ordered {
		if tn.ParentID != nil {
			if parent, ok := byID[*tn.ParentID]; ok && parent != tn {
				parent.Children = append(parent.Children, tn)
				continue
			}
		}
		roots = append(roots, tn)
	}
	return roots
}
