package cows

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("cow not found")
	ErrAlreadyExists   = errors.New("cow already exists")
	ErrVersionConflict = errors.New("cow version conflict")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type RegisterInput struct {
	ID              string
	Breed           string
	Sex             string
	BirthDate       *time.Time
	LactationNumber int
	DaysInMilk      int
}

// Register adds a cow to a farm. New cows start in the open phase with no
// reproductive history.
func (s *Service) Register(ctx context.Context, farmID string, in RegisterInput) (Cow, error) {
	if strings.TrimSpace(farmID) == "" {
		return Cow{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.ID) == "" {
		return Cow{}, ErrInvalidInput
	}
	sex := Sex(strings.TrimSpace(in.Sex))
	if sex == "" {
		sex = SexFemale
	}
	if sex != SexFemale && sex != SexMale {
		return Cow{}, ErrInvalidInput
	}
	if in.LactationNumber < 0 || in.DaysInMilk < 0 {
		return Cow{}, ErrInvalidInput
	}

	now := s.now()
	c := Cow{
		FarmID:          farmID,
		ID:              strings.TrimSpace(in.ID),
		Breed:           strings.TrimSpace(in.Breed),
		Sex:             sex,
		BirthDate:       in.BirthDate,
		LactationNumber: in.LactationNumber,
		DaysInMilk:      in.DaysInMilk,
		Phase:           PhaseOpen,
		Version:         1,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Cow{}, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, farmID, id string) (Cow, error) {
	return s.repo.Get(ctx, farmID, id)
}

func (s *Service) ListByFarm(ctx context.Context, farmID string) ([]Cow, error) {
	return s.repo.ListByFarm(ctx, farmID)
}

// Deactivate retires a cow from the active herd. The record and its event
// and message history stay readable.
func (s *Service) Deactivate(ctx context.Context, farmID, id string) (Cow, error) {
	c, err := s.repo.Get(ctx, farmID, id)
	if err != nil {
		return Cow{}, err
	}
	if !c.Active {
		return c, nil
	}
	c.Active = false
	c.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, c); err != nil {
		return Cow{}, err
	}
	c.Version++
	return c, nil
}
