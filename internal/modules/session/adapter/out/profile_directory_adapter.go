package out

import (
	"context"

	profilein "davomat/internal/modules/profile/port/in"
	"davomat/internal/modules/session/domain"
	sessionout "davomat/internal/modules/session/port/out"
)

type ProfileDirectoryAdapter struct {
	profiles profilein.Usecase
}

func NewProfileDirectoryAdapter(profiles profilein.Usecase) sessionout.ProfileDirectory {
	return &ProfileDirectoryAdapter{profiles: profiles}
}

func (a *ProfileDirectoryAdapter) Owner(ctx context.Context, userID string) (domain.Owner, error) {
	profile, err := a.profiles.Get(ctx, userID)
	if err != nil {
		return domain.Owner{}, err
	}
	return domain.Owner{
		UserID:        profile.ID,
		Username:      profile.Username,
		Name:          profile.Name,
		Phone:         profile.Phone,
		DiplomaStatus: profile.DiplomaStatus,
		CurrentObject: profile.CurrentObject,
	}, nil
}

func (a *ProfileDirectoryAdapter) SetCurrentObject(ctx context.Context, userID, object string) error {
	_, err := a.profiles.SetCurrentObject(ctx, userID, object)
	return err
}
