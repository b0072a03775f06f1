package postgres

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
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
	`,
		c.FarmID,
		c.ID,
		c.Breed,
		c.Sex,
		toNullTime(c.BirthDate),
		c.LactationNumber,
		c.DaysInMilk,
		c.Phase,
		c.Pregnant,
		toNullTime(c.LastHeatAt),
		toNullTime(c.LastInseminationAt),
		toNullTime(c.PregnancyConfirmedAt),
		toNullTime(c.LastCalvingAt),
		toNullTime(c.ExpectedCalvingAt),
		c.InseminationAttempts,
		c.LastBullID,
		c.Version,
		c.Active,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return cows.ErrAlreadyExists
	}
	return err
}

func (r *CowsRepo) Get(ctx context.Context, farmID, id string) (cows.Cow, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+cowColumns+`
		FROM cows
		WHERE farm_id = $1 AND id = $2
	`, farmID, id)

	c, err := scanCow(row)
	if err == sql.ErrNoRows {
		return cows.Cow{}, cows.ErrNotFound
	}
	return c, err
}

// Save is the optimistic write: the version in the WHERE clause must still
// match, and the stored version is bumped in the same statement.
func (r *CowsRepo) Save(ctx context.Context, c cows.Cow) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cows
		SET
			breed = $3,
			sex = $4,
			birth_date = $5,
			lactation_number = $6,
			days_in_milk = $7,
			phase = $8,
			pregnant = $9,
			last_heat_at = $10,
			last_insemination_at = $11,
			pregnancy_confirmed_at = $12,
			last_calving_at = $13,
			expected_calving_at = $14,
			insemination_attempts = $15,
			last_bull_id = $16,
			version = version + 1,
			active = $17,
			updated_at = $18
		WHERE farm_id = $1 AND id = $2 AND version = $19
	`,
		c.FarmID,
		c.ID,
		c.Breed,
		c.Sex,
		toNullTime(c.BirthDate),
		c.LactationNumber,
		c.DaysInMilk,
		c.Phase,
		c.Pregnant,
		toNullTime(c.LastHeatAt),
		toNullTime(c.LastInseminationAt),
		toNullTime(c.PregnancyConfirmedAt),
		toNullTime(c.LastCalvingAt),
		toNullTime(c.ExpectedCalvingAt),
		c.InseminationAttempts,
		c.LastBullID,
		c.Active,
		c.UpdatedAt,
		c.Version,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		// Row missing or version mismatch: disambiguate.
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM cows WHERE farm_id = $1 AND id = $2)`,
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
		WHERE farm_id = $1
		ORDER BY id ASC
	`, farmID)
}

func (r *CowsRepo) ListActive(ctx context.Context) ([]cows.Cow, error) {
	return r.list(ctx, `
		SELECT `+cowColumns+`
		FROM cows
		WHERE active
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
	var birth, heat, insem, preg, calv, expected sql.NullTime

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
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return cows.Cow{}, err
	}

	c.BirthDate = fromNullTime(birth)
	c.LastHeatAt = fromNullTime(heat)
	c.LastInseminationAt = fromNullTime(insem)
	c.PregnancyConfirmedAt = fromNullTime(preg)
	c.LastCalvingAt = fromNullTime(calv)
	c.ExpectedCalvingAt = fromNullTime(expected)
	return c, nil
}
