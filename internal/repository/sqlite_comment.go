package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/cmscontent/internal/db"
	"github.com/alexanderramin/cmscontent/internal/domain"
)

// commentColumns is the canonical SELECT column list for comments.
const commentColumns = `id, article_id, user_name, body, user_ip, user_agent, referrer,
		is_public, created_at`

// SQLiteCommentRepo implements CommentRepo using a SQLite database.
type SQLiteCommentRepo struct {
	db db.DBTX
}

// NewSQLiteCommentRepo creates a new SQLiteCommentRepo.
func NewSQLiteCommentRepo(conn db.DBTX) *SQLiteCommentRepo {
	return &SQLiteCommentRepo{db: conn}
}

func (r *SQLiteCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	query := `INSERT INTO comments (id, article_id, user_name, body, user_ip, user_agent,
		referrer, is_public, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.ArticleID, c.UserName, c.Body, c.UserIP, c.UserAgent,
		c.Referrer, boolToInt(c.IsPublic), formatTime(c.CreatedAt))
	return mapWriteErr("inserting comment", err)
}

func (r *SQLiteCommentRepo) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = ?`
	c, err := scanCommentRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("comment: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning comment: %w", err)
	}
	return c, nil
}

// ListByArticle returns the article's comments oldest first.
func (r *SQLiteCommentRepo) ListByArticle(ctx context.Context, articleID string, publicOnly bool) ([]*domain.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE article_id = ?`
	if publicOnly {
		query += ` AND is_public = 1`
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		c, err := scanCommentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comments: %w", err)
	}
	return comments, nil
}

func (r *SQLiteCommentRepo) SetPublic(ctx context.Context, id string, public bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE comments SET is_public = ? WHERE id = ?`, boolToInt(public), id)
	if err != nil {
		return fmt.Errorf("updating comment visibility: %w", err)
	}
	return requireAffected(res, "comment")
}

// AddFlag records a flag. Flagging the same comment twice for the same user
// is a no-op.
func (r *SQLiteCommentRepo) AddFlag(ctx context.Context, f *domain.CommentFlag) error {
	query := `INSERT OR IGNORE INTO comment_flags (comment_id, flagged_by, flag, created_at)
		VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, f.CommentID, f.User, string(f.Flag), formatTime(f.CreatedAt))
	if err != nil {
		return fmt.Errorf("flagging comment: %w", err)
	}
	return nil
}

func (r *SQLiteCommentRepo) ListFlags(ctx context.Context, commentID string) ([]*domain.CommentFlag, error) {
	query := `SELECT comment_id, flagged_by, flag, created_at FROM comment_flags
		WHERE comment_id = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, commentID)
	if err != nil {
		return nil, fmt.Errorf("listing comment flags: %w", err)
	}
	defer rows.Close()

	var flags []*domain.CommentFlag
	for rows.Next() {
		var f domain.CommentFlag
		var flagStr, createdAtStr string
		if err := rows.Scan(&f.CommentID, &f.User, &flagStr, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning comment flag: %w", err)
		}
		f.Flag = domain.FlagKind(flagStr)
		if f.CreatedAt, err = parseTime(createdAtStr, "created_at"); err != nil {
			return nil, err
		}
		flags = append(flags, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comment flags: %w", err)
	}
	return flags, nil
}

func scanCommentRow(row rowScanner) (*domain.Comment, error) {
	var c domain.Comment
	var isPublic int
	var createdAtStr string
	err := row.Scan(&c.ID, &c.ArticleID, &c.UserName, &c.Body, &c.UserIP, &c.UserAgent,
		&c.Referrer, &isPublic, &createdAtStr)
	if err != nil {
		return nil, err
	}
	c.IsPublic = intToBool(isPublic)
	if c.CreatedAt, err = parseTime(createdAtStr, "created_at"); err != nil {
		return nil, err
	}
	return &c, nil
}
