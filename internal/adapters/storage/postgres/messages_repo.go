package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dairy-herd-manager/internal/domain/messaging"
)

type MessagesRepo struct {
	db *sql.DB
}

func NewMessagesRepo(db *sql.DB) *MessagesRepo {
	return &MessagesRepo{db: db}
}

const messageColumns = `
	id, farm_id, cow_id, type, role,
	recipient, body, status, error, provider_ref, resend_of, sent_at
`

func (r *MessagesRepo) Append(ctx context.Context, m messaging.Message) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (`+messageColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		m.ID,
		m.FarmID,
		m.CowID,
		m.Type,
		m.Role,
		m.Recipient,
		m.Body,
		m.Status,
		m.Error,
		m.ProviderRef,
		m.ResendOf,
		m.SentAt,
	)
	return err
}

// Finalize flips a pending row exactly once; the status guard in the WHERE
// clause makes a second attempt a no-op error.
func (r *MessagesRepo) Finalize(ctx context.Context, id string, status messaging.Status, errText, providerRef string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE messages
		SET status = $2, error = $3, provider_ref = $4
		WHERE id = $1 AND status = $5
	`, id, status, errText, providerRef, messaging.StatusPending)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return errors.New("message not pending")
	}
	return nil
}

func (r *MessagesRepo) HasSentToday(ctx context.Context, farmID, cowID string, t messaging.MessageType, day time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM messages
			WHERE farm_id = $1 AND cow_id = $2 AND type = $3 AND status = $4
			  AND (sent_at AT TIME ZONE 'UTC')::date = $5::date
		)
	`, farmID, cowID, t, messaging.StatusSent, day.UTC()).Scan(&exists)
	return exists, err
}

func (r *MessagesRepo) HasSentSince(ctx context.Context, farmID, cowID string, t messaging.MessageType, since time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM messages
			WHERE farm_id = $1 AND cow_id = $2 AND type = $3 AND status = $4
			  AND sent_at >= $5
		)
	`, farmID, cowID, t, messaging.StatusSent, since).Scan(&exists)
	return exists, err
}

func (r *MessagesRepo) ListByFarm(ctx context.Context, farmID string, limit int) ([]messaging.Message, error) {
	return r.list(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE farm_id = $1
		ORDER BY sent_at DESC
		LIMIT $2
	`, farmID, nonZeroLimit(limit))
}

func (r *MessagesRepo) ListByCow(ctx context.Context, farmID, cowID string, limit int) ([]messaging.Message, error) {
	return r.list(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE farm_id = $1 AND cow_id = $2
		ORDER BY sent_at DESC
		LIMIT $3
	`, farmID, cowID, nonZeroLimit(limit))
}

func (r *MessagesRepo) ListFailedSince(ctx context.Context, cutoff time.Time, limit int) ([]messaging.Message, error) {
	return r.list(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE status = $1 AND sent_at >= $2
		ORDER BY sent_at ASC
		LIMIT $3
	`, messaging.StatusFailed, cutoff, nonZeroLimit(limit))
}

func (r *MessagesRepo) HasResend(ctx context.Context, originalID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM messages WHERE resend_of = $1)
	`, originalID).Scan(&exists)
	return exists, err
}

func (r *MessagesRepo) list(ctx context.Context, query string, args ...any) ([]messaging.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]messaging.Message, 0)
	for rows.Next() {
		var m messaging.Message
		if err := rows.Scan(
			&m.ID,
			&m.FarmID,
			&m.CowID,
			&m.Type,
			&m.Role,
			&m.Recipient,
			&m.Body,
			&m.Status,
			&m.Error,
			&m.ProviderRef,
			&m.ResendOf,
			&m.SentAt,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func nonZeroLimit(limit int) int {
	if limit <= 0 {
		return 1000
	}
	return limit
}
