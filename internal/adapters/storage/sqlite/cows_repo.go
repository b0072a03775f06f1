package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"dairy-herd-manager/internal/domain/cows"
)

type CowsRepo struct {
	db *sql.DB
}

func NewCowsRepo(db *sql.DB) *CowsRepo {
	return &CowsRepo{db: db}
}

const cowColumns = `
	farm_id, id, breed, sex, birth_date,
	lactation_number, days_in_milk,
	phase, pregnant,
	last_heat_at, last_insemination_at, pregnancy_confirmed_at,
	last_calving_at, expected_calving_at,
	insemination_attempts, last_bull_id,
	version, active, created_at, updated_at
`

func (r *CowsRepo) Create(ctx context.Context, c cows.Cow) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cows (`+cowColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`,
		c.FarmID,
		c.ID,
		c.Breed,
		c.Sex,
		fmtTimePtr(c.BirthDate),
		c.LactationNumber,
		c.DaysInMilk,
		c.Phase,
		c.Pregnant,
		fmtTimePtr(c.LastHeatAt),
		fmtTimePtr(c.LastInseminationAt),
		fmtTimePtr(c.PregnancyConfirmedAt),
		fmtTimePtr(c.LastCalvingAt),
		fmtTimePtr(c.ExpectedCalvingAt),
		c.InseminationAttempts,
		c.LastBullID,
		c.Version,
		c.Active,
		fmtTime(c.CreatedAt),
		fmtTime(c.UpdatedAt),
	)
	if err != nil && strings.Contains(strings.ToUpper(err.Error()), "UNIQUE") {
		return cows.ErrAlreadyExists
	}
	return err
}

func (r *CowsRepo) Get(ctx context.Context, farmID, id string) (cows.Cow, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+cowColumns+`
		FROM cows
		WHERE farm_id = ? AND id = ?
	`, farmID, id)

	c, err := scanCow(row)
	if err == sql.ErrNoRows {
		return cows.Cow{}, cows.ErrNotFound
	}
	return c, err
}

// Save bumps the version in the statement; the version guard in the WHERE
// clause is the optimistic check.
func (r *CowsRepo) Save(ctx context.Context, c cows.Cow) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cows
		SET
			breed = ?, sex = ?, birth_date = ?,
			lactation_number = ?, days_in_milk = ?,
			phase = ?, pregnant = ?,
			last_heat_at = ?, last_insemination_at = ?, pregnancy_confirmed_at = ?,
			last_calving_at = ?, expected_calving_at = ?,
			insemination_attempts = ?, last_bull_id = ?,
			version = version + 1,
			active = ?, updated_at = ?
		WHERE farm_id = ? AND id = ? AND version = ?
	`,
		c.Breed,
		c.Sex,
		fmtTimePtr(c.BirthDate),
		c.LactationNumber,
		c.DaysInMilk,
		c.Phase,
		c.Pregnant,
		fmtTimePtr(c.LastHeatAt),
		fmtTimePtr(c.LastInseminationAt),
		fmtTimePtr(c.PregnancyConfirmedAt),
		fmtTimePtr(c.LastCalvingAt),
		fmtTimePtr(c.ExpectedCalvingAt),
		c.InseminationAttempts,
		c.LastBullID,
		c.Active,
		fmtTime(c.UpdatedAt),
		c.FarmID,
		c.ID,
		c.Version,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM cows WHERE farm_id = ? AND id = ?)`,
			c.FarmID, c.ID,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return cows.ErrNotFound
		}
		return cows.ErrVersionConflict
	}
	return nil
}

func (r *CowsRepo) ListByFarm(ctx context.Context, farmID string) ([]cows.Cow, error) {
	return r.list(ctx, `
		SELECT `+cowColumns+`
		FROM cows
		WHERE farm_id = ?
		ORDER BY id ASC
	`, farmID)
}

func (r *CowsRepo) ListActive(ctx context.Context) ([]cows.Cow, error) {
	return r.list(ctx, `
		SELECT `+cowColumns+`
		FROM cows
		WHERE active = 1
		ORDER BY farm_id ASC, id ASC
	`)
}

func (r *CowsRepo) list(ctx context.Context, query string, args ...any) ([]cows.Cow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]cows.Cow, 0)
	for rows.Next() {
		c, err := scanCow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCow(row rowScanner) (cows.Cow, error) {
	var c cows.Cow
	var birth, heat, insem, preg, calv, expected sql.NullString
	var created, updated string

	if err := row.Scan(
		&c.FarmID,
		&c.ID,
		&c.Breed,
		&c.Sex,
		&birth,
		&c.LactationNumber,
		&c.DaysInMilk,
		&c.Phase,
		&c.Pregnant,
		&heat,
		&insem,
		&preg,
		&calv,
		&expected,
		&c.InseminationAttempts,
		&c.LastBullID,
		&c.Version,
		&c.Active,
		&created,
		&updated,
	); err != nil {
		return cows.Cow{}, err
	}

	var err error
	if c.BirthDate, err = parseTimePtr(birth); err != nil {
		return cows.Cow{}, err
	}
	if c.LastHeatAt, err = parseTimePtr(heat); err != nil {
		return cows.Cow{}, err
	}
	if c.LastInseminationAt, err = parseTimePtr(insem); err != nil {
		return cows.Cow{}, err
	}
	if c.PregnancyConfirmedAt, err = parseTimePtr(preg); err != nil {
		return cows.Cow{}, err
	}
	if c.LastCalvingAt, err = parseTimePtr(calv); err != nil {
		return cows.Cow{}, err
	}
	if c.ExpectedCalvingAt, err = parseTimePtr(expected); err != nil {
		return cows.Cow{}, err
	}
	if c.CreatedAt, err = parseTime(created); err != nil {
		return cows.Cow{}, err
	}
	if c.UpdatedAt, err = parseTime(updated); err != nil {
		return cows.Cow{}, err
	}
	return c, nil
}
