package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"ShiftEvidence/internal/domain"
	"ShiftEvidence/internal/ports"
)

// Article statuses eligible for evidence generation.
var eligibleStatuses = []string{"verified", "published"}

// CorpusRepository reads eligible articles with their primary body text
// from the corpus store.
type CorpusRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.CorpusRepository = (*CorpusRepository)(nil)

// NewCorpusRepository wires a sql.DB handle and a driver-matched builder.
func NewCorpusRepository(db *sql.DB, builder sq.StatementBuilderType) *CorpusRepository {
	return &CorpusRepository{db: db, builder: builder}
}

// FetchEligible returns verified/published articles in stable publication
// order, joined with the primary article text when one exists.
func (r *CorpusRepository) FetchEligible(ctx context.Context) ([]domain.Article, error) {
	query := r.builder.
		Select(
			"a.article_uid",
			"COALESCE(a.title, '') AS title",
			"COALESCE(a.canonical_url, '') AS url",
			"COALESCE(a.published_at, '') AS published_at",
			"COALESCE(p.name, '') AS publication",
			"COALESCE(tx.body_text, '') AS body_text",
			"COALESCE(tx.text_state, 'missing') AS text_state",
		).
		From("articles a").
		LeftJoin("publications p ON p.id = a.publication_id").
		LeftJoin("article_texts tx ON tx.article_uid = a.article_uid AND tx.is_primary = 1").
		Where(sq.Eq{"a.status": eligibleStatuses}).
		OrderBy("a.published_at ASC", "a.id ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build eligible query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query eligible articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		var a domain.Article
		if err := rows.Scan(&a.UID, &a.Title, &a.URL, &a.PublishedAt,
			&a.Publication, &a.BodyText, &a.TextState); err != nil {
			return nil, fmt.Errorf("scan article row: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate article rows: %w", err)
	}

	return articles, nil
}
