package out

import (
	"context"

	profilein "davomat/internal/modules/profile/port/in"
	"davomat/internal/modules/report/domain"
	reportout "davomat/internal/modules/report/port/out"
)

type ProfileDirectoryAdapter struct {
	profiles profilein.Usecase
}

func NewProfileDirectoryAdapter(profiles profilein.Usecase) reportout.PersonDirectory {
	return &ProfileDirectoryAdapter{profiles: profiles}
}

func (a *ProfileDirectoryAdapter) List(ctx context.Context) ([]domain.Person, error) {
	profiles, err := a.profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Person, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, domain.Person{
			ID:         p.ID,
			Username:   p.Username,
			Name:       p.Name,
			Phone:      p.Phone,
			HasDiploma: p.HasDiploma,
		})
	}
	return out, nil
}
