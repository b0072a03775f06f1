package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"dairy-herd-manager/internal/domain/repro"
)

type EventsRepo struct {
	db *sql.DB
}

func NewEventsRepo(db *sql.DB) *EventsRepo {
	return &EventsRepo{db: db}
}

// The variant payload goes into a jsonb column; the closed type set keeps
// the shape per type stable.
func (r *EventsRepo) Append(ctx context.Context, e repro.Event) error {
	detail, err := marshalDetail(e)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO repro_events (
			id, farm_id, cow_id, type,
			occurred_at, recorded_at,
			status, reject_reason, detail
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		e.ID,
		e.FarmID,
		e.CowID,
		e.Type,
		e.OccurredAt,
		e.RecordedAt,
		e.Status,
		e.RejectReason,
		detail,
	)
	return err
}

func (r *EventsRepo) ListByCow(ctx context.Context, farmID, cowID string, t repro.EventType, limit int) ([]repro.Event, error) {
	query := `
		SELECT id, farm_id, cow_id, type, occurred_at, recorded_at, status, reject_reason, detail
		FROM repro_events
		WHERE farm_id = $1 AND cow_id = $2
	`
	args := []any{farmID, cowID}
	if t != "" {
		query += ` AND type = $3`
		args = append(args, t)
	}
	query += ` ORDER BY recorded_at DESC`
	if limit > 0 {
		args = append(args, limit)
		if t != "" {
			query += ` LIMIT $4`
		} else {
			query += ` LIMIT $3`
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]repro.Event, 0)
	for rows.Next() {
		var e repro.Event
		var detail []byte
		if err := rows.Scan(
			&e.ID,
			&e.FarmID,
			&e.CowID,
			&e.Type,
			&e.OccurredAt,
			&e.RecordedAt,
			&e.Status,
			&e.RejectReason,
			&detail,
		); err != nil {
			return nil, err
		}
		if err := unmarshalDetail(&e, detail); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func marshalDetail(e repro.Event) ([]byte, error) {
	switch e.Type {
	case repro.EventHeatSign:
		return json.Marshal(e.Heat)
	case repro.EventInsemination:
		return json.Marshal(e.Insemination)
	case repro.EventPregnancyConfirmation:
		return json.Marshal(e.Pregnancy)
	case repro.EventCalving:
		return json.Marshal(e.Calving)
	case repro.EventMedicalAssessment:
		return json.Marshal(e.Medical)
	}
	return []byte("null"), nil
}

func unmarshalDetail(e *repro.Event, detail []byte) error {
	if len(detail) == 0 {
		return nil
	}
	switch e.Type {
	case repro.EventHeatSign:
		e.Heat = &repro.HeatDetail{}
		return json.Unmarshal(detail, e.Heat)
	case repro.EventInsemination:
		e.Insemination = &repro.InseminationDetail{}
		return json.Unmarshal(detail, e.Insemination)
	case repro.EventPregnancyConfirmation:
		e.Pregnancy = &repro.PregnancyDetail{}
		return json.Unmarshal(detail, e.Pregnancy)
	case repro.EventCalving:
		e.Calving = &repro.CalvingDetail{}
		return json.Unmarshal(detail, e.Calving)
	case repro.EventMedicalAssessment:
		e.Medical = &repro.MedicalDetail{}
		return json.Unmarshal(detail, e.Medical)
	}
	return nil
}
