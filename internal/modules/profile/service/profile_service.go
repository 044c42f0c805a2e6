package service

import (
	"fmt"
	"strings"

	"davomat/internal/modules/profile/domain"
	"davomat/internal/platform/clock"
	apperrors "davomat/internal/platform/errors"
)

type ProfileService struct {
	clock clock.Clock
}

func NewProfileService(clock clock.Clock) *ProfileService {
	return &ProfileService{clock: clock}
}

func (s *ProfileService) New(userID, username string) domain.Profile {
	return domain.Profile{
		ID:           userID,
		Username:     strings.TrimPrefix(strings.TrimSpace(username), "@"),
		RegisteredAt: s.clock.Now(),
	}
}

func (s *ProfileService) ApplyPhone(p *domain.Profile, raw string) error {
	phone, ok := domain.NormalizePhone(raw)
	if !ok {
		return fmt.Errorf("phone must start with 998 and have 12 digits: %w", apperrors.ErrInvalidInput)
	}
	p.Phone = phone
	return nil
}

func (s *ProfileService) ApplyContactPhone(p *domain.Profile, raw string) error {
	phone := domain.DigitsOnly(raw)
	if phone == "" {
		return fmt.Errorf("contact has no phone number: %w", apperrors.ErrInvalidInput)
	}
	p.Phone = phone
	return nil
}

func (s *ProfileService) ApplyDiplomaSerial(p *domain.Profile, serial string) {
	p.DiplomaSerial = strings.TrimSpace(serial)
	p.DiplomaPhotos = []string{}
	p.HasDiploma = true
}

func (s *ProfileService) ApplyNoDiploma(p *domain.Profile) {
	p.HasDiploma = false
	p.DiplomaSerial = domain.NoDiploma
	p.DiplomaPhotos = nil
}

func (s *ProfileService) ApplyLocation(p *domain.Profile, lat, lon float64) {
	p.LastLocation = fmt.Sprintf("%v,%v", lat, lon)
}
