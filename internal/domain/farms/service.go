package farms

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"dairy-herd-manager/internal/domain/messaging"
	"dairy-herd-manager/internal/platform/phone"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("farm not found")
)

// Notifier is the dispatcher seen from this package. Staff changes go
// through the same dispatch path as reproductive alerts.
type Notifier interface {
	Dispatch(ctx context.Context, intents []messaging.Intent) []messaging.Message
}

type Service struct {
	repo     Repository
	notifier Notifier
	now      func() time.Time
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

type RegisterInput struct {
	OwnerName string
	Address   string
	Phone     string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Farm, error) {
	if strings.TrimSpace(in.OwnerName) == "" {
		return Farm{}, ErrInvalidInput
	}
	p, err := phone.Normalize(in.Phone)
	if err != nil {
		return Farm{}, ErrInvalidInput
	}

	now := s.now()
	f := Farm{
		ID:           uuid.NewString(),
		OwnerName:    strings.TrimSpace(in.OwnerName),
		Address:      strings.TrimSpace(in.Address),
		Phone:        p,
		RegisteredAt: now,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return Farm{}, err
	}
	return f, nil
}

func (s *Service) Get(ctx context.Context, id string) (Farm, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Farm, error) {
	return s.repo.List(ctx)
}

type StaffInput struct {
	Name  string
	Phone string
}

// AssignInseminator attaches an inseminator to the farm. The new person is
// notified, and a previously assigned one gets an unassignment notice.
func (s *Service) AssignInseminator(ctx context.Context, farmID string, in StaffInput) (Farm, error) {
	return s.assign(ctx, farmID, in, messaging.RoleInseminator)
}

// AssignDoctor attaches a doctor. On a change the farmer is additionally
// told the new doctor's name and number.
func (s *Service) AssignDoctor(ctx context.Context, farmID string, in StaffInput) (Farm, error) {
	return s.assign(ctx, farmID, in, messaging.RoleDoctor)
}

func (s *Service) assign(ctx context.Context, farmID string, in StaffInput, role messaging.Role) (Farm, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Farm{}, ErrInvalidInput
	}
	p, err := phone.Normalize(in.Phone)
	if err != nil {
		return Farm{}, ErrInvalidInput
	}

	f, err := s.repo.Get(ctx, farmID)
	if err != nil {
		return Farm{}, err
	}

	staff := &Staff{ID: uuid.NewString(), Name: strings.TrimSpace(in.Name), Phone: p}

	var prev *Staff
	switch role {
	case messaging.RoleInseminator:
		prev = f.Inseminator
		f.Inseminator = staff
	case messaging.RoleDoctor:
		prev = f.Doctor
		f.Doctor = staff
	default:
		return Farm{}, ErrInvalidInput
	}
	f.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, f); err != nil {
		return Farm{}, err
	}

	intents := []messaging.Intent{{
		Type:      messaging.TypeStaffAssignment,
		Role:      role,
		FarmID:    f.ID,
		Recipient: staff.Phone,
		Params: map[string]string{
			"farm_id":    f.ID,
			"owner_name": f.OwnerName,
			"address":    f.Address,
			"farm_phone": f.Phone,
		},
	}}
	if prev != nil && prev.Phone != staff.Phone {
		intents = append(intents, messaging.Intent{
			Type:      messaging.TypeStaffUnassignment,
			Role:      role,
			FarmID:    f.ID,
			Recipient: prev.Phone,
			Params: map[string]string{
				"farm_id":    f.ID,
				"owner_name": f.OwnerName,
			},
		})
	}
	if role == messaging.RoleDoctor && (prev == nil || prev.Phone != staff.Phone) {
		intents = append(intents, messaging.Intent{
			Type:   messaging.TypeDoctorChangeNotice,
			Role:   messaging.RoleFarmer,
			FarmID: f.ID,
			Params: map[string]string{
				"doctor_name":  staff.Name,
				"doctor_phone": staff.Phone,
			},
		})
	}
	s.notifier.Dispatch(ctx, intents)

	return f, nil
}

// UnassignInseminator detaches the farm's inseminator, if any, and notifies
// the detached person.
func (s *Service) UnassignInseminator(ctx context.Context, farmID string) (Farm, error) {
	return s.unassign(ctx, farmID, messaging.RoleInseminator)
}

func (s *Service) UnassignDoctor(ctx context.Context, farmID string) (Farm, error) {
	return s.unassign(ctx, farmID, messaging.RoleDoctor)
}

func (s *Service) unassign(ctx context.Context, farmID string, role messaging.Role) (Farm, error) {
	f, err := s.repo.Get(ctx, farmID)
	if err != nil {
		return Farm{}, err
	}

	var prev *Staff
	switch role {
	case messaging.RoleInseminator:
		prev = f.Inseminator
		f.Inseminator = nil
	case messaging.RoleDoctor:
		prev = f.Doctor
		f.Doctor = nil
	default:
		return Farm{}, ErrInvalidInput
	}
	if prev == nil {
		return f, nil
	}
	f.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, f); err != nil {
		return Farm{}, err
	}

	s.notifier.Dispatch(ctx, []messaging.Intent{{
		Type:      messaging.TypeStaffUnassignment,
		Role:      role,
		FarmID:    f.ID,
		Recipient: prev.Phone,
		Params: map[string]string{
			"farm_id":    f.ID,
			"owner_name": f.OwnerName,
		},
	}})

	return f, nil
}

// FarmContacts resolves the farm's people for the dispatcher. Satisfies
// messaging.ContactDirectory.
func (s *Service) FarmContacts(ctx context.Context, farmID string) (messaging.FarmContacts, error) {
	f, err := s.repo.Get(ctx, farmID)
	if err != nil {
		return messaging.FarmContacts{}, err
	}

	c := messaging.FarmContacts{
		FarmID:      f.ID,
		OwnerName:   f.OwnerName,
		FarmerPhone: f.Phone,
	}
	if f.Inseminator != nil {
		c.InseminatorName = f.Inseminator.Name
		c.InseminatorPhone = f.Inseminator.Phone
	}
	if f.Doctor != nil {
		c.DoctorName = f.Doctor.Name
		c.DoctorPhone = f.Doctor.Phone
	}
	return c, nil
}
