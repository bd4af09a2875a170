package service

import (
	"context"
	"time"

	"github.com/alexanderramin/cmscontent/internal/db"
	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/alexanderramin/cmscontent/internal/metric"
	"github.com/alexanderramin/cmscontent/internal/repository"
	"github.com/google/uuid"
)

type sectionService struct {
	sections   repository.SectionRepo
	categories repository.CategoryRepo
	uow        db.UnitOfWork
	metrics    *metric.Metrics
	observer   UseCaseObserver
}

func NewSectionService(
	sections repository.SectionRepo,
	categories repository.CategoryRepo,
	uow db.UnitOfWork,
	metrics *metric.Metrics,
	observers ...UseCaseObserver,
) SectionService {
	if metrics == nil {
		metrics = metric.NoopMetrics()
	}
	return &sectionService{
		sections:   sections,
		categories: categories,
		uow:        uow,
		metrics:    metrics,
		observer:   useCaseObserverOrNoop(observers),
	}
}

// Create stores s together with a new root menu node.
func (s *sectionService) Create(ctx context.Context, sec *domain.Section) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"slug": sec.Slug}
	defer func() { observe(ctx, s.observer, "section.create", startedAt, fields, &err) }()

	if err := sec.Validate(); err != nil {
		return err
	}
	if sec.ID == "" {
		sec.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	sec.CreatedAt = now

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		node, err := allocateNode(ctx, tx, domain.NodeSection, nil, now)
		if err != nil {
			return err
		}
		sec.MenuID = node.ID
		return repository.NewSQLiteSectionRepo(tx).Create(ctx, sec)
	})
	if err != nil {
		sec.MenuID = 0
		return err
	}
	fields["menu_id"] = sec.MenuID
	s.metrics.MenuNodesAllocated.Increment(string(domain.NodeSection))
	return nil
}

func (s *sectionService) GetBySlug(ctx context.Context, slug string) (*domain.Section, error) {
	return s.sections.GetBySlug(ctx, slug)
}

func (s *sectionService) List(ctx context.Context) ([]*domain.Section, error) {
	return s.sections.List(ctx)
}

func (s *sectionService) Detail(ctx context.Context, slug string) (*SectionDetail, error) {
	sec, err := s.sections.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	cats, err := s.categories.ListBySection(ctx, sec.ID, -1, 0)
	if err != nil {
		return nil, err
	}
	return &SectionDetail{Section: sec, Categories: cats}, nil
}

func (s *sectionService) Update(ctx context.Context, sec *domain.Section) error {
	if err := sec.Validate(); err != nil {
		return err
	}
	return s.sections.Update(ctx, sec)
}

// Delete removes the section with its node, categories and articles.
func (s *sectionService) Delete(ctx context.Context, slug string) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "section.delete", startedAt, map[string]any{"slug": slug}, &err)
	}()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSections := repository.NewSQLiteSectionRepo(tx)
		sec, err := txSections.GetBySlug(ctx, slug)
		if err != nil {
			return err
		}
		return txSections.Delete(ctx, sec.ID)
	})
}
