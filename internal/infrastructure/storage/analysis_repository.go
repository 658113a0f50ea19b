package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"ShiftEvidence/internal/ports"
)

// AnalysisRepository reads curated summaries and tag slugs from the
// analysis store.
type AnalysisRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.AnalysisRepository = (*AnalysisRepository)(nil)

// NewAnalysisRepository wires a sql.DB handle and a driver-matched builder.
func NewAnalysisRepository(db *sql.DB, builder sq.StatementBuilderType) *AnalysisRepository {
	return &AnalysisRepository{db: db, builder: builder}
}

// SummariesByArticle returns the curated summary per article uid.
func (r *AnalysisRepository) SummariesByArticle(ctx context.Context) (map[string]string, error) {
	query := r.builder.
		Select("article_uid", "COALESCE(summary, '') AS summary").
		From("article_analysis")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build summaries query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	summaries := map[string]string{}
	for rows.Next() {
		var uid, summary string
		if err := rows.Scan(&uid, &summary); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		summaries[uid] = summary
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary rows: %w", err)
	}

	return summaries, nil
}

// TagSlugsByArticle returns the distinct tag slugs per article uid in a
// stable order.
func (r *AnalysisRepository) TagSlugsByArticle(ctx context.Context) (map[string][]string, error) {
	query := r.builder.
		Select("at.article_uid", "t.slug").
		From("article_tags at").
		Join("tags t ON t.id = at.tag_id").
		OrderBy("at.article_uid ASC", "t.slug ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build tags query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	tags := map[string][]string{}
	for rows.Next() {
		var uid, slug string
		if err := rows.Scan(&uid, &slug); err != nil {
			return nil, fmt.Errorf("scan tag row: %w", err)
		}
		if !containsString(tags[uid], slug) {
			tags[uid] = append(tags[uid], slug)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tag rows: %w", err)
	}

	return tags, nil
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
