package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"dairy-herd-manager/internal/domain/farms"
)

type FarmsRepo struct {
	db *sql.DB
}

func NewFarmsRepo(db *sql.DB) *FarmsRepo {
	return &FarmsRepo{db: db}
}

func (r *FarmsRepo) Create(ctx context.Context, f farms.Farm) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO farms (
			id, owner_name, address, phone,
			inseminator_id, inseminator_name, inseminator_phone,
			doctor_id, doctor_name, doctor_phone,
			registered_at, active, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		f.ID,
		f.OwnerName,
		f.Address,
		f.Phone,
		staffField(f.Inseminator, func(s farms.Staff) string { return s.ID }),
		staffField(f.Inseminator, func(s farms.Staff) string { return s.Name }),
		staffField(f.Inseminator, func(s farms.Staff) string { return s.Phone }),
		staffField(f.Doctor, func(s farms.Staff) string { return s.ID }),
		staffField(f.Doctor, func(s farms.Staff) string { return s.Name }),
		staffField(f.Doctor, func(s farms.Staff) string { return s.Phone }),
		f.RegisteredAt,
		f.Active,
		f.CreatedAt,
		f.UpdatedAt,
	)
	return err
}

func (r *FarmsRepo) Get(ctx context.Context, id string) (farms.Farm, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return farms.Farm{}, farms.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, owner_name, address, phone,
			inseminator_id, inseminator_name, inseminator_phone,
			doctor_id, doctor_name, doctor_phone,
			registered_at, active, created_at, updated_at
		FROM farms
		WHERE id = $1
	`, id)

	f, err := scanFarm(row)
	if err == sql.ErrNoRows {
		return farms.Farm{}, farms.ErrNotFound
	}
	return f, err
}

func (r *FarmsRepo) Save(ctx context.Context, f farms.Farm) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE farms
		SET
			owner_name = $2,
			address = $3,
			phone = $4,
			inseminator_id = $5,
			inseminator_name = $6,
			inseminator_phone = $7,
			doctor_id = $8,
			doctor_name = $9,
			doctor_phone = $10,
			active = $11,
			updated_at = $12
		WHERE id = $1
	`,
		f.ID,
		f.OwnerName,
		f.Address,
		f.Phone,
		staffField(f.Inseminator, func(s farms.Staff) string { return s.ID }),
		staffField(f.Inseminator, func(s farms.Staff) string { return s.Name }),
		staffField(f.Inseminator, func(s farms.Staff) string { return s.Phone }),
		staffField(f.Doctor, func(s farms.Staff) string { return s.ID }),
		staffField(f.Doctor, func(s farms.Staff) string { return s.Name }),
		staffField(f.Doctor, func(s farms.Staff) string { return s.Phone }),
		f.Active,
		f.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return farms.ErrNotFound
	}
	return nil
}

func (r *FarmsRepo) List(ctx context.Context) ([]farms.Farm, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, owner_name, address, phone,
			inseminator_id, inseminator_name, inseminator_phone,
			doctor_id, doctor_name, doctor_phone,
			registered_at, active, created_at, updated_at
		FROM farms
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]farms.Farm, 0)
	for rows.Next() {
		f, err := scanFarm(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFarm(row rowScanner) (farms.Farm, error) {
	var f farms.Farm
	var insID, insName, insPhone sql.NullString
	var docID, docName, docPhone sql.NullString

	if err := row.Scan(
		&f.ID,
		&f.OwnerName,
		&f.Address,
		&f.Phone,
		&insID,
		&insName,
		&insPhone,
		&docID,
		&docName,
		&docPhone,
		&f.RegisteredAt,
		&f.Active,
		&f.CreatedAt,
		&f.UpdatedAt,
	); err != nil {
		return farms.Farm{}, err
	}

	if insID.Valid {
		f.Inseminator = &farms.Staff{ID: insID.String, Name: insName.String, Phone: insPhone.String}
	}
	if docID.Valid {
		f.Doctor = &farms.Staff{ID: docID.String, Name: docName.String, Phone: docPhone.String}
	}
	return f, nil
}

// Staff columns are nullable; absent staff stores NULLs.
func staffField(s *farms.Staff, get func(farms.Staff) string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: get(*s), Valid: true}
}

// Shared by the cow repo too.
func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func fromNullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
