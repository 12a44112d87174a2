package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"rsvphub/internal/domain"
)

type rsvpRepository struct {
	DB *sql.DB
}

func NewRsvpRepository(db *sql.DB) domain.RsvpRepository {
	return &rsvpRepository{
		DB: db,
	}
}

const rsvpColumns = "id, event_id, name, email, response, comment, added_by_owner, created_at"

func scanRsvp(row interface{ Scan(dest ...any) error }) (*domain.Rsvp, error) {
	r := &domain.Rsvp{}
	var commentNull sql.NullString
	var response string
	err := row.Scan(
		&r.ID, &r.EventID, &r.Name, &r.Email, &response, &commentNull,
		&r.AddedByOwner, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Response = domain.RsvpResponse(response)
	if commentNull.Valid {
		r.Comment = &commentNull.String
	}
	return r, nil
}

// Create inserts the RSVP inside a transaction. For real emails it first
// takes a transaction-scoped advisory lock keyed on (event_id, email) and
// re-checks existence, so two concurrent submissions for the same pair
// serialize and the loser gets ErrDuplicateRsvp. Empty and placeholder
// emails skip the check and may repeat freely. Owner edits of an existing
// record go through Update, which imposes no uniqueness rule.
func (r *rsvpRepository) Create(ctx context.Context, rsvp *domain.Rsvp) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if rsvp.Email != "" && rsvp.Email != domain.PlaceholderEmail {
		lockKey := rsvp.EventID + ":" + strings.ToLower(rsvp.Email)
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey); err != nil {
			return fmt.Errorf("acquire rsvp lock: %w", err)
		}
		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM rsvps WHERE event_id = $1 AND lower(email) = lower($2))`,
			rsvp.EventID, rsvp.Email,
		).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateRsvp
		}
	}

	query := `
		INSERT INTO rsvps (event_id, name, email, response, comment, added_by_owner, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query,
		rsvp.EventID, rsvp.Name, rsvp.Email, string(rsvp.Response), rsvp.Comment, rsvp.AddedByOwner, rsvp.CreatedAt,
	).Scan(&rsvp.ID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *rsvpRepository) GetByID(ctx context.Context, id string) (*domain.Rsvp, error) {
	query := fmt.Sprintf(`SELECT %s FROM rsvps WHERE id = $1`, rsvpColumns)
	rsvp, err := scanRsvp(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rsvp, nil
}

func (r *rsvpRepository) FindByEventAndEmail(ctx context.Context, eventID, email string) (*domain.Rsvp, error) {
	// Empty email matches nothing; placeholder records are likewise outside
	// the uniqueness scan.
	if email == "" || email == domain.PlaceholderEmail {
		return nil, domain.ErrNotFound
	}
	query := fmt.Sprintf(`
		SELECT %s FROM rsvps
		WHERE event_id = $1 AND lower(email) = lower($2)
	`, rsvpColumns)
	rsvp, err := scanRsvp(r.DB.QueryRowContext(ctx, query, eventID, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rsvp, nil
}

func (r *rsvpRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Rsvp, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM rsvps
		WHERE event_id = $1
		ORDER BY created_at DESC
	`, rsvpColumns)
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rsvps := make([]*domain.Rsvp, 0)
	for rows.Next() {
		rsvp, err := scanRsvp(rows)
		if err != nil {
			return nil, err
		}
		rsvps = append(rsvps, rsvp)
	}
	return rsvps, rows.Err()
}

func (r *rsvpRepository) Update(ctx context.Context, id string, upd domain.RsvpUpdate) (*domain.Rsvp, error) {
	query := fmt.Sprintf(`
		UPDATE rsvps
		SET name = $1, email = $2, response = $3, comment = $4
		WHERE id = $5
		RETURNING %s
	`, rsvpColumns)
	rsvp, err := scanRsvp(r.DB.QueryRowContext(ctx, query,
		upd.Name, upd.Email, string(upd.Response), upd.Comment, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rsvp, nil
}

func (r *rsvpRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM rsvps WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
