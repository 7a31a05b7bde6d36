package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/recshelf/internal/apperror"
	"github.com/sakif/recshelf/internal/model"
	"github.com/sakif/recshelf/internal/repository"
)

// compile-time check that *DB implements repository.RecommendationRepository
var _ repository.RecommendationRepository = (*DB)(nil)

const recommendationColumns = `id, owner_external_id, owner_display_name, owner_avatar_url,
	 title, genre, link, blurb, is_staff_pick, created_at`

// Create inserts a new recommendation. The ID (xid — URL-safe and sortable
// by creation time) and CreatedAt are generated here and written back onto
// rec so the caller gets the canonical record.
func (db *DB) Create(ctx context.Context, rec *model.Recommendation) error {
	rec.ID = xid.New().String()
	rec.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO recommendations
		 (id, owner_external_id, owner_display_name, owner_avatar_url,
		  title, genre, link, blurb, is_staff_pick, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.OwnerExternalID,
		rec.OwnerDisplayName,
		rec.OwnerAvatarURL,
		rec.Title,
		rec.Genre,
		rec.Link,
		rec.Blurb,
		rec.IsStaffPick,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating recommendation: %w", err)
	}

	return nil
}

// GetByID retrieves a single recommendation.
// Returns apperror.ErrNotFound if no row matches.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Recommendation, error) {
	var rec model.Recommendation

	err := db.conn.QueryRowContext(ctx,
		`SELECT `+recommendationColumns+`
		 FROM recommendations
		 WHERE id = ?`,
		id,
	).Scan(
		&rec.ID,
		&rec.OwnerExternalID,
		&rec.OwnerDisplayName,
		&rec.OwnerAvatarURL,
		&rec.Title,
		&rec.Genre,
		&rec.Link,
		&rec.Blurb,
		&rec.IsStaffPick,
		&rec.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Recommendation not found")
		}
		return nil, fmt.Errorf("sqlite: getting recommendation %s: %w", id, err)
	}

	return &rec, nil
}

// List returns recommendations matching the filter, newest first.
//
// Filter precedence mirrors the read API: staff picks only > genre > all.
// The filters are deliberately not combinable — each path hits exactly one
// secondary index. No pagination: the full matching set comes back.
func (db *DB) List(ctx context.Context, filter repository.ListFilter) ([]model.Recommendation, error) {
	query := `SELECT ` + recommendationColumns + ` FROM recommendations`
	var args []any

	switch {
	case filter.StaffPicksOnly:
		query += ` WHERE is_staff_pick = 1`
	case filter.Genre != "":
		query += ` WHERE genre = ?`
		args = append(args, filter.Genre)
	}
	query += ` ORDER BY created_at DESC`

	return db.queryRecommendations(ctx, query, args...)
}

// ListByOwner returns one owner's recommendations, newest first.
func (db *DB) ListByOwner(ctx context.Context, ownerExternalID string) ([]model.Recommendation, error) {
	return db.queryRecommendations(ctx,
		`SELECT `+recommendationColumns+`
		 FROM recommendations
		 WHERE owner_external_id = ?
		 ORDER BY created_at DESC`,
		ownerExternalID,
	)
}

// Latest returns the limit most recent recommendations, ignoring all
// filters. Backs the public landing view.
func (db *DB) Latest(ctx context.Context, limit int) ([]model.Recommendation, error) {
	return db.queryRecommendations(ctx,
		`SELECT `+recommendationColumns+`
		 FROM recommendations
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
}

func (db *DB) queryRecommendations(ctx context.Context, query string, args ...any) ([]model.Recommendation, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing recommendations: %w", err)
	}
	defer rows.Close()

	recs := []model.Recommendation{}
	for rows.Next() {
		var r model.Recommendation
		if err := rows.Scan(
			&r.ID, &r.OwnerExternalID, &r.OwnerDisplayName, &r.OwnerAvatarURL,
			&r.Title, &r.Genre, &r.Link, &r.Blurb, &r.IsStaffPick, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning recommendation row: %w", err)
		}
		recs = append(recs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating recommendations: %w", err)
	}

	return recs, nil
}

// SetStaffPick patches only the is_staff_pick column.
// RowsAffected detects "not found" without a prior SELECT — this is where a
// toggle racing a delete loses: the delete commits first, 0 rows match, and
// the caller gets ErrNotFound.
func (db *DB) SetStaffPick(ctx context.Context, id string, staffPick bool) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE recommendations SET is_staff_pick = ? WHERE id = ?`,
		staffPick, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: setting staff pick on %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("Recommendation not found")
	}

	return nil
}

// Delete removes a recommendation permanently. No soft delete, no tombstone.
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM recommendations WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting recommendation %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("Recommendation not found")
	}

	return nil
}
