package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/cmscontent/internal/db"
	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/alexanderramin/cmscontent/internal/metric"
	"github.com/alexanderramin/cmscontent/internal/repository"
	"github.com/alexanderramin/cmscontent/internal/spam"
	"github.com/google/uuid"
)

type commentService struct {
	articles repository.ArticleRepo
	comments repository.CommentRepo
	uow      db.UnitOfWork
	checker  spam.Checker
	rootURL  string
	blogURL  string
	metrics  *metric.Metrics
	observer UseCaseObserver
}

// NewCommentService builds the comment service. A nil checker disables spam
// checking and every comment is published as posted.
func NewCommentService(
	articles repository.ArticleRepo,
	comments repository.CommentRepo,
	uow db.UnitOfWork,
	checker spam.Checker,
	rootURL, blogURL string,
	metrics *metric.Metrics,
	observers ...UseCaseObserver,
) CommentService {
	if metrics == nil {
		metrics = metric.NoopMetrics()
	}
	return &commentService{
		articles: articles,
		comments: comments,
		uow:      uow,
		checker:  checker,
		rootURL:  domain.NormalizeRootURL(rootURL),
		blogURL:  blogURL,
		metrics:  metrics,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Post stores a comment on a published article. Comments the checker calls
// spam are hidden and flagged on behalf of the article's author.
func (s *commentService) Post(ctx context.Context, req CommentRequest) (c *domain.Comment, err error) {
	startedAt := time.Now()
	fields := map[string]any{"article": req.ArticleSlug}
	defer func() { observe(ctx, s.observer, "comment.post", startedAt, fields, &err) }()

	now := time.Now().UTC()
	article, err := s.articles.GetPublishedBySlug(ctx, req.ArticleSlug, now)
	if err != nil {
		return nil, err
	}
	comment := &domain.Comment{
		ID:        uuid.New().String(),
		ArticleID: article.ID,
		UserName:  strings.TrimSpace(req.UserName),
		Body:      req.Body,
		UserIP:    req.UserIP,
		UserAgent: req.UserAgent,
		Referrer:  req.Referrer,
		IsPublic:  true,
		CreatedAt: now,
	}
	if err := comment.Validate(); err != nil {
		return nil, err
	}

	verdict := s.check(ctx, article, comment)
	fields["verdict"] = verdict
	s.metrics.CommentsChecked.Increment(verdict)
	if verdict == metric.VerdictSpam {
		comment.IsPublic = false
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txComments := repository.NewSQLiteCommentRepo(tx)
		if err := txComments.Create(ctx, comment); err != nil {
			return err
		}
		if comment.IsPublic {
			return nil
		}
		return txComments.AddFlag(ctx, &domain.CommentFlag{
			CommentID: comment.ID,
			User:      article.CreatedBy,
			Flag:      domain.FlagSpam,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// check classifies comment and returns a metric verdict label. Checker
// failures, including a rejected key, leave the comment public.
func (s *commentService) check(ctx context.Context, article *domain.Article, comment *domain.Comment) string {
	if s.checker == nil {
		return metric.VerdictSkipped
	}
	verdict, err := s.checker.Check(ctx, spam.Comment{
		UserIP:    comment.UserIP,
		UserAgent: comment.UserAgent,
		Referrer:  comment.Referrer,
		Permalink: strings.TrimSuffix(s.blogURL, "/") + article.URL(s.rootURL),
		Author:    comment.UserName,
		Content:   comment.Body,
	})
	switch {
	case errors.Is(err, spam.ErrInvalidKey):
		return metric.VerdictSkipped
	case err != nil:
		return metric.VerdictError
	case verdict == spam.VerdictSpam:
		return metric.VerdictSpam
	default:
		return metric.VerdictHam
	}
}

func (s *commentService) ListPublic(ctx context.Context, articleSlug string) ([]*domain.Comment, error) {
	return s.list(ctx, articleSlug, true)
}

// ListAll includes comments hidden as spam.
func (s *commentService) ListAll(ctx context.Context, articleSlug string) ([]*domain.Comment, error) {
	return s.list(ctx, articleSlug, false)
}

func (s *commentService) list(ctx context.Context, articleSlug string, publicOnly bool) ([]*domain.Comment, error) {
	a, err := s.articles.GetBySlug(ctx, articleSlug)
	if err != nil {
		return nil, err
	}
	return s.comments.ListByArticle(ctx, a.ID, publicOnly)
}
