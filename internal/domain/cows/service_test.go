package cows

import (
	"context"
	"testing"
	"time"
)

type testRepo struct {
	byKey map[string]Cow
}

func newTestRepo() *testRepo {
	return &testRepo{byKey: map[string]Cow{}}
}

func key(farmID, id string) string { return farmID + "/" + id }

func (r *testRepo) Create(ctx context.Context, c Cow) error {
	k := key(c.FarmID, c.ID)
	if _, ok := r.byKey[k]; ok {
		return ErrAlreadyExists
	}
	r.byKey[k] = c
	return nil
}

func (r *testRepo) Get(ctx context.Context, farmID, id string) (Cow, error) {
	c, ok := r.byKey[key(farmID, id)]
	if !ok {
		return Cow{}, ErrNotFound
	}
	return c, nil
}

func (r *testRepo) Save(ctx context.Context, c Cow) error {
	k := key(c.FarmID, c.ID)
	cur, ok := r.byKey[k]
	if !ok {
		return ErrNotFound
	}
	if cur.Version != c.Version {
		return ErrVersionConflict
	}
	c.Version++
	r.byKey[k] = c
	return nil
}

func (r *testRepo) ListByFarm(ctx context.Context, farmID string) ([]Cow, error) {
	out := make([]Cow, 0)
	for _, c := range r.byKey {
		if c.FarmID == farmID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *testRepo) ListActive(ctx context.Context) ([]Cow, error) {
	out := make([]Cow, 0)
	for _, c := range r.byKey {
		if c.Active {
			out = append(out, c)
		}
	}
	return out, nil
}

func TestRegister_Defaults(t *testing.T) {
	svc := NewService(newTestRepo())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) }

	c, err := svc.Register(context.Background(), "f1", RegisterInput{ID: "C-7", Breed: "holstein"})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if c.Phase != PhaseOpen {
		t.Fatalf("new cow must start open, got %s", c.Phase)
	}
	if c.Sex != SexFemale {
		t.Fatalf("sex should default to female, got %s", c.Sex)
	}
	if !c.Active || c.Version != 1 {
		t.Fatalf("expected active cow at version 1, got active=%v version=%d", c.Active, c.Version)
	}
}

func TestRegister_Invalid(t *testing.T) {
	svc := NewService(newTestRepo())

	cases := []struct {
		name   string
		farmID string
		in     RegisterInput
	}{
		{"empty id", "f1", RegisterInput{}},
		{"empty farm", "", RegisterInput{ID: "C-1"}},
		{"bad sex", "f1", RegisterInput{ID: "C-1", Sex: "steer"}},
		{"negative lactation", "f1", RegisterInput{ID: "C-1", LactationNumber: -1}},
	}
	for _, tc := range cases {
		if _, err := svc.Register(context.Background(), tc.farmID, tc.in); err != ErrInvalidInput {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestRegister_DuplicateTag(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Register(context.Background(), "f1", RegisterInput{ID: "C-7"}); err != nil {
		t.Fatalf("first Register error: %v", err)
	}
	if _, err := svc.Register(context.Background(), "f1", RegisterInput{ID: "C-7"}); err != ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	// Same tag on another farm is fine.
	if _, err := svc.Register(context.Background(), "f2", RegisterInput{ID: "C-7"}); err != nil {
		t.Fatalf("same tag on other farm: %v", err)
	}
}

func TestDeactivate(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	if _, err := svc.Register(context.Background(), "f1", RegisterInput{ID: "C-7"}); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	c, err := svc.Deactivate(context.Background(), "f1", "C-7")
	if err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}
	if c.Active {
		t.Fatalf("cow should be inactive")
	}

	// Idempotent.
	if _, err := svc.Deactivate(context.Background(), "f1", "C-7"); err != nil {
		t.Fatalf("second Deactivate error: %v", err)
	}

	active, _ := repo.ListActive(context.Background())
	if len(active) != 0 {
		t.Fatalf("expected no active cows, got %d", len(active))
	}
}
