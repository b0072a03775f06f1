package sqlite

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
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
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
		fmtTime(m.SentAt),
	)
	return err
}

func (r *MessagesRepo) Finalize(ctx context.Context, id string, status messaging.Status, errText, providerRef string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE messages
		SET status = ?, error = ?, provider_ref = ?
		WHERE id = ? AND status = ?
	`, status, errText, providerRef, id, messaging.StatusPending)
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
	// sent_at is RFC3339 UTC text: a calendar day is a prefix match.
	prefix := day.UTC().Format("2006-01-02") + "%"
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM messages
			WHERE farm_id = ? AND cow_id = ? AND type = ? AND status = ?
			  AND sent_at LIKE ?
		)
	`, farmID, cowID, t, messaging.StatusSent, prefix).Scan(&exists)
	return exists, err
}

func (r *MessagesRepo) HasSentSince(ctx context.Context, farmID, cowID string, t messaging.MessageType, since time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM messages
			WHERE farm_id = ? AND cow_id = ? AND type = ? AND status = ?
			  AND sent_at >= ?
		)
	`, farmID, cowID, t, messaging.StatusSent, fmtTime(since)).Scan(&exists)
	return exists, err
}

func (r *MessagesRepo) ListByFarm(ctx context.Context, farmID string, limit int) ([]messaging.Message, error) {
	return r.list(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE farm_id = ?
		ORDER BY sent_at DESC
		LIMIT ?
	`, farmID, nonZeroLimit(limit))
}

func (r *MessagesRepo) ListByCow(ctx context.Context, farmID, cowID string, limit int) ([]messaging.Message, error) {
	return r.list(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE farm_id = ? AND cow_id = ?
		ORDER BY sent_at DESC
		LIMIT ?
	`, farmID, cowID, nonZeroLimit(limit))
}

func (r *MessagesRepo) ListFailedSince(ctx context.Context, cutoff time.Time, limit int) ([]messaging.Message, error) {
	return r.list(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE status = ? AND sent_at >= ?
		ORDER BY sent_at ASC
		LIMIT ?
	`, messaging.StatusFailed, fmtTime(cutoff), nonZeroLimit(limit))
}

func (r *MessagesRepo) HasResend(ctx context.Context, originalID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM messages WHERE resend_of = ? AND resend_of != '')
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
		var sentAt string
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
			&sentAt,
		); err != nil {
			return nil, err
		}
		if m.SentAt, err = parseTime(sentAt); err != nil {
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
