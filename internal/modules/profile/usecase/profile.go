package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"davomat/internal/modules/profile/domain"
	"davomat/internal/modules/profile/dto"
	profilein "davomat/internal/modules/profile/port/in"
	profileout "davomat/internal/modules/profile/port/out"
	"davomat/internal/modules/profile/service"
	apperrors "davomat/internal/platform/errors"
	"davomat/internal/platform/id"
)

type Interactor struct {
	svc   *service.ProfileService
	store profileout.ProfileStore
}

func NewInteractor(svc *service.ProfileService, store profileout.ProfileStore) profilein.Usecase {
	return &Interactor{svc: svc, store: store}
}

func (i *Interactor) Register(ctx context.Context, input dto.RegisterInput) (dto.RegisterOutput, error) {
	userID := id.Normalize(input.UserID)
	if userID == "" {
		return dto.RegisterOutput{}, fmt.Errorf("user id is required: %w", apperrors.ErrInvalidInput)
	}
	existing, err := i.store.Get(ctx, userID)
	if err == nil {
		return dto.RegisterOutput{Profile: toOutput(existing)}, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return dto.RegisterOutput{}, err
	}
	profile := i.svc.New(userID, input.Username)
	if err := i.store.Put(ctx, profile); err != nil {
		return dto.RegisterOutput{Profile: toOutput(profile), Created: true}, err
	}
	return dto.RegisterOutput{Profile: toOutput(profile), Created: true}, nil
}

func (i *Interactor) Get(ctx context.Context, userID string) (dto.ProfileOutput, error) {
	profile, err := i.store.Get(ctx, id.Normalize(userID))
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return toOutput(profile), nil
}

func (i *Interactor) List(ctx context.Context) ([]dto.ProfileOutput, error) {
	profiles, err := i.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProfileOutput, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toOutput(p))
	}
	return out, nil
}

func (i *Interactor) SetName(ctx context.Context, userID, name string) (dto.ProfileOutput, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return dto.ProfileOutput{}, fmt.Errorf("name is required: %w", apperrors.ErrInvalidInput)
	}
	return i.update(ctx, userID, func(p *domain.Profile) error {
		p.Name = name
		return nil
	})
}

func (i *Interactor) SetPhone(ctx context.Context, userID, phone string) (dto.ProfileOutput, error) {
	return i.update(ctx, userID, func(p *domain.Profile) error {
		return i.svc.ApplyPhone(p, phone)
	})
}

func (i *Interactor) SetContactPhone(ctx context.Context, userID, phone string) (dto.ProfileOutput, error) {
	return i.update(ctx, userID, func(p *domain.Profile) error {
		return i.svc.ApplyContactPhone(p, phone)
	})
}

func (i *Interactor) SetPassportSerial(ctx context.Context, userID, serial string) (dto.ProfileOutput, error) {
	return i.update(ctx, userID, func(p *domain.Profile) error {
		p.PassportSerial = strings.TrimSpace(serial)
		p.PassportPhotos = []string{}
		return nil
	})
}

func (i *Interactor) AddPassportPhoto(ctx context.Context, userID, fileID string) (dto.PhotoOutput, error) {
	out, err := i.update(ctx, userID, func(p *domain.Profile) error {
		p.PassportPhotos = append(p.PassportPhotos, fileID)
		return nil
	})
	return dto.PhotoOutput{Profile: out, Count: len(out.PassportPhotos)}, err
}

func (i *Interactor) ResetPassportPhotos(ctx context.Context, userID string) (dto.ProfileOutput, error) {
	return i.update(ctx, userID, func(p *domain.Profile) error {
		p.PassportPhotos = []string{}
		return nil
	})
}

func (i *Interactor) SetDiplomaSerial(ctx context.Context, userID, serial string) (dto.ProfileOutput, error) {
	return i.update(ctx, userID, func(p *domain.Profile) error {
		i.svc.ApplyDiplomaSerial(p, serial)
		return nil
	})
}

func (i *Interactor) AddDiplomaPhoto(ctx context.Context, userID, fileID string) (dto.PhotoOutput, error) {
	out, err := i.update(ctx, userID, func(p *domain.Profile) error {
		p.DiplomaPhotos = append(p.DiplomaPhotos, fileID)
		return nil
	})
	return dto.PhotoOutput{Profile: out, Count: len(out.DiplomaPhotos)}, err
}

func (i *Interactor) ResetDiplomaPhotos(ctx context.Context, userID string) (dto.ProfileOutput, error) {
	return i.update(ctx, userID, func(p *domain.Profile) error {
		p.DiplomaPhotos = []string{}
		return nil
	})
}

func (i *Interactor) SkipDiploma(ctx context.Context, userID string) (dto.ProfileOutput, error) {
	return i.update(ctx, userID, func(p *domain.Profile) error {
		i.svc.ApplyNoDiploma(p)
		return nil
	})
}

func (i *Interactor) SetLastLocation(ctx context.Context, userID string, lat, lon float64) (dto.ProfileOutput, error) {
	return i.update(ctx, userID, func(p *domain.Profile) error {
		i.svc.ApplyLocation(p, lat, lon)
		return nil
	})
}

func (i *Interactor) SetCurrentObject(ctx context.Context, userID, object string) (dto.ProfileOutput, error) {
	return i.update(ctx, userID, func(p *domain.Profile) error {
		p.CurrentObject = strings.TrimSpace(object)
		return nil
	})
}

func (i *Interactor) SetPendingObject(ctx context.Context, userID, object string) (dto.ProfileOutput, error) {
	return i.update(ctx, userID, func(p *domain.Profile) error {
		p.PendingObject = strings.TrimSpace(object)
		return nil
	})
}

func (i *Interactor) ClearShift(ctx context.Context, userID string) (dto.ProfileOutput, error) {
	return i.update(ctx, userID, func(p *domain.Profile) error {
		p.CurrentObject = ""
		p.PendingObject = ""
		return nil
	})
}

func (i *Interactor) SetExpenseType(ctx context.Context, userID, expenseType string) (dto.ProfileOutput, error) {
	return i.update(ctx, userID, func(p *domain.Profile) error {
		p.ExpenseType = expenseType
		return nil
	})
}

func (i *Interactor) SetPendingExpense(ctx context.Context, userID, name string) (dto.ProfileOutput, error) {
	return i.update(ctx, userID, func(p *domain.Profile) error {
		p.PendingExpense = strings.TrimSpace(name)
		return nil
	})
}

func (i *Interactor) ClearPendingExpense(ctx context.Context, userID string) (dto.ProfileOutput, error) {
	return i.update(ctx, userID, func(p *domain.Profile) error {
		p.PendingExpense = ""
		return nil
	})
}

// update applies fn to a copy of the stored profile. Validation failures leave
// the store untouched; a failed save is returned together with the new state.
func (i *Interactor) update(ctx context.Context, userID string, fn func(*domain.Profile) error) (dto.ProfileOutput, error) {
	profile, err := i.store.Get(ctx, id.Normalize(userID))
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	next := profile.Clone()
	if err := fn(&next); err != nil {
		return toOutput(profile), err
	}
	if err := i.store.Put(ctx, next); err != nil {
		return toOutput(next), err
	}
	return toOutput(next), nil
}

func toOutput(p domain.Profile) dto.ProfileOutput {
	return dto.ProfileOutput{
		ID:             p.ID,
		Username:       p.Username,
		Handle:         p.Handle(),
		Name:           p.Name,
		Phone:          p.Phone,
		PassportSerial: p.PassportSerial,
		PassportPhotos: append([]string(nil), p.PassportPhotos...),
		DiplomaSerial:  p.DiplomaSerial,
		DiplomaPhotos:  append([]string(nil), p.DiplomaPhotos...),
		HasDiploma:     p.HasDiploma,
		DiplomaStatus:  p.DiplomaStatus(),
		LastLocation:   p.LastLocation,
		CurrentObject:  p.CurrentObject,
		PendingObject:  p.PendingObject,
		ExpenseType:    p.ExpenseType,
		PendingExpense: p.PendingExpense,
		RegisteredAt:   p.RegisteredAt,
	}
}
