package domain

type NodeKind string

const (
	NodeSection  NodeKind = "section"
	NodeCategory NodeKind = "category"
	NodeArticle  NodeKind = "article"
)

// ValidNodeKinds is the canonical set of accepted menu node kind strings.
var ValidNodeKinds = map[string]bool{
	"section": true, "category": true, "article": true,
}

// ParentKind returns the kind a node of kind k must hang under.
// Sections are roots and report ok == false.
func (k NodeKind) ParentKind() (NodeKind, bool) {
	switch k {
	case NodeCategory:
		return NodeSection, true
	case NodeArticle:
		return NodeCategory, true
	default:
		return "", false
	}
}

type PubStatus string

const (
	PubPublished PubStatus = "pub"
	PubHidden    PubStatus = "hid"
	PubDraft     PubStatus = "dra"
	PubDeleted   PubStatus = "del"
)

// ValidPubStatuses maps each accepted status to its display label.
var ValidPubStatuses = map[PubStatus]string{
	PubPublished: "published",
	PubHidden:    "hidden",
	PubDraft:     "draft",
	PubDeleted:   "deleted",
}

// Label returns the human readable name of the status.
func (s PubStatus) Label() string {
	if l, ok := ValidPubStatuses[s]; ok {
		return l
	}
	return string(s)
}

type FlagKind string

const (
	FlagSpam FlagKind = "spam"
)
