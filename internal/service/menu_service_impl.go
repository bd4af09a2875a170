package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/cmscontent/internal/db"
	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/alexanderramin/cmscontent/internal/metric"
	"github.com/alexanderramin/cmscontent/internal/repository"
)

type menuService struct {
	nodes      repository.MenuNodeRepo
	sections   repository.SectionRepo
	categories repository.CategoryRepo
	articles   repository.ArticleRepo
	uow        db.UnitOfWork
	rootURL    string
	metrics    *metric.Metrics
	observer   UseCaseObserver
}

func NewMenuService(
	nodes repository.MenuNodeRepo,
	sections repository.SectionRepo,
	categories repository.CategoryRepo,
	articles repository.ArticleRepo,
	uow db.UnitOfWork,
	rootURL string,
	metrics *metric.Metrics,
	observers ...UseCaseObserver,
) MenuService {
	if metrics == nil {
		metrics = metric.NoopMetrics()
	}
	return &menuService{
		nodes:      nodes,
		sections:   sections,
		categories: categories,
		articles:   articles,
		uow:        uow,
		rootURL:    domain.NormalizeRootURL(rootURL),
		metrics:    metrics,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *menuService) Allocate(ctx context.Context, kind domain.NodeKind, parentID *int64) (node *domain.MenuNode, err error) {
	startedAt := time.Now()
	fields := map[string]any{"kind": string(kind)}
	defer func() {
		if node != nil {
			fields["menu_id"] = node.ID
		}
		observe(ctx, s.observer, "menu.allocate", startedAt, fields, &err)
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		n, err := allocateNode(ctx, tx, kind, parentID, time.Now().UTC())
		if err != nil {
			return err
		}
		node = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.MenuNodesAllocated.Increment(string(kind))
	return node, nil
}

// allocateNode takes the next id from the menu sequence and stores a node of
// kind under parentID, using tx for every read and write.
func allocateNode(ctx context.Context, tx db.DBTX, kind domain.NodeKind, parentID *int64, now time.Time) (*domain.MenuNode, error) {
	if err := domain.ValidateAllocation(kind, parentID); err != nil {
		return nil, err
	}
	txNodes := repository.NewSQLiteMenuNodeRepo(tx)

	if want, ok := kind.ParentKind(); ok {
		parent, err := txNodes.GetByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%s node parent %d does not exist: %w", kind, *parentID, domain.ErrInvalidParent)
			}
			return nil, err
		}
		if parent.Kind != want {
			return nil, fmt.Errorf("%s node parent %d is a %s node, want %s: %w",
				kind, *parentID, parent.Kind, want, domain.ErrInvalidParent)
		}
	}

	id, err := repository.NewSQLiteMenuSequenceRepo(tx).NextMenuID(ctx)
	if err != nil {
		return nil, err
	}
	node := &domain.MenuNode{
		ID:        id,
		ParentID:  parentID,
		Kind:      kind,
		CreatedAt: now,
	}
	if err := txNodes.Create(ctx, node); err != nil {
		return nil, err
	}
	return node, nil
}

func (s *menuService) Get(ctx context.Context, id int64) (*domain.MenuNode, error) {
	return s.nodes.GetByID(ctx, id)
}

func (s *menuService) ListChildren(ctx context.Context, parentID int64) ([]*domain.MenuNode, error) {
	return s.nodes.ListChildren(ctx, parentID)
}

func (s *menuService) ListByKind(ctx context.Context, kind domain.NodeKind) ([]*domain.MenuNode, error) {
	if !domain.ValidNodeKinds[string(kind)] {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKind, kind)
	}
	return s.nodes.ListByKind(ctx, kind)
}

// ResolveEntry looks up the owner of node and returns its display link.
// A node with no owner of its kind reports repository.ErrNotFound.
func (s *menuService) ResolveEntry(ctx context.Context, node *domain.MenuNode) (*domain.MenuEntry, error) {
	if node == nil {
		return nil, fmt.Errorf("menu node: %w", repository.ErrNotFound)
	}
	owner, err := s.owner(ctx, node)
	if err != nil {
		return nil, err
	}
	entry, err := domain.ResolveEntry(node, owner, s.rootURL)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *menuService) owner(ctx context.Context, node *domain.MenuNode) (domain.Owner, error) {
	kind := node.Kind
	if node.IsRoot() {
		kind = domain.NodeSection
	}
	var (
		owner domain.Owner
		err   error
	)
	switch kind {
	case domain.NodeSection:
		var sec *domain.Section
		sec, err = s.sections.GetByMenuID(ctx, node.ID)
		owner = sec
	case domain.NodeCategory:
		var cat *domain.Category
		cat, err = s.categories.GetByMenuID(ctx, node.ID)
		owner = cat
	case domain.NodeArticle:
		var art *domain.Article
		art, err = s.articles.GetByMenuID(ctx, node.ID)
		owner = art
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKind, node.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("owner of menu node %d: %w", node.ID, err)
	}
	return owner, nil
}

func (s *menuService) FindParent(nodes []*domain.NavNode, name string) *domain.NavNode {
	return domain.FindParent(nodes, name)
}

// Nodes lists the navigation entries: sections, then categories, then
// currently published articles.
func (s *menuService) Nodes(ctx context.Context) ([]*domain.NavNode, error) {
	sections, err := s.sections.List(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	articles, err := s.articles.ListPublished(ctx, time.Now().UTC(), -1)
	if err != nil {
		return nil, err
	}

	sectionNodes := make(map[string]int64, len(sections))
	categoryNodes := make(map[string]int64, len(categories))
	nodes := make([]*domain.NavNode, 0, len(sections)+len(categories)+len(articles))
	for _, sec := range sections {
		sectionNodes[sec.ID] = sec.MenuID
		nodes = append(nodes, &domain.NavNode{
			ID:    sec.MenuID,
			Kind:  domain.NodeSection,
			Title: sec.Name,
			URL:   sec.URL(s.rootURL),
		})
	}
	for _, cat := range categories {
		categoryNodes[cat.ID] = cat.MenuID
		nodes = append(nodes, &domain.NavNode{
			ID:       cat.MenuID,
			ParentID: lookupNode(sectionNodes, cat.SectionID),
			Kind:     domain.NodeCategory,
			Title:    cat.Name,
			URL:      cat.URL(s.rootURL),
		})
	}
	for _, art := range articles {
		nodes = append(nodes, &domain.NavNode{
			ID:       art.MenuID,
			ParentID: lookupNode(categoryNodes, art.CategoryID),
			Kind:     domain.NodeArticle,
			Title:    art.Title,
			URL:      art.URL(s.rootURL),
		})
	}
	return nodes, nil
}

func lookupNode(ids map[string]int64, ownerID string) *int64 {
	if id, ok := ids[ownerID]; ok {
		return &id
	}
	return nil
}

func (s *menuService) Tree(ctx context.Context) ([]*domain.MenuTreeNode, error) {
	nodes, err := s.Nodes(ctx)
	if err != nil {
		return nil, err
	}
	return domain.BuildMenuTree(nodes), nil
}
