package service

import (
	"fmt"
	"strings"

	"davomat/internal/modules/notify/domain"
	apperrors "davomat/internal/platform/errors"
)

// Steps expands a payload into the ordered chat calls that deliver it.
func Steps(p domain.Payload) ([]domain.Step, error) {
	switch p.Kind {
	case domain.KindText, "":
		if strings.TrimSpace(p.Text) == "" {
			return nil, fmt.Errorf("text payload is empty: %w", apperrors.ErrInvalidInput)
		}
		return []domain.Step{{Kind: domain.KindText, Text: p.Text}}, nil
	case domain.KindPhoto:
		if p.FileID == "" {
			return nil, fmt.Errorf("photo payload without file: %w", apperrors.ErrInvalidInput)
		}
		return []domain.Step{{Kind: domain.KindPhoto, FileID: p.FileID, Text: p.Text}}, nil
	case domain.KindVideoNote:
		if p.FileID == "" {
			return nil, fmt.Errorf("video note payload without file: %w", apperrors.ErrInvalidInput)
		}
		steps := []domain.Step{{Kind: domain.KindVideoNote, FileID: p.FileID, Length: p.Length}}
		if strings.TrimSpace(p.Text) != "" {
			steps = append(steps, domain.Step{Kind: domain.KindText, Text: p.Text})
		}
		return steps, nil
	case domain.KindLocation:
		var steps []domain.Step
		if strings.TrimSpace(p.Text) != "" {
			steps = append(steps, domain.Step{Kind: domain.KindText, Text: p.Text})
		}
		return append(steps, domain.Step{Kind: domain.KindLocation, Latitude: p.Latitude, Longitude: p.Longitude}), nil
	case domain.KindDocument:
		if p.FilePath == "" {
			return nil, fmt.Errorf("document payload without path: %w", apperrors.ErrInvalidInput)
		}
		return []domain.Step{{Kind: domain.KindDocument, FilePath: p.FilePath, Text: p.Text}}, nil
	default:
		return nil, fmt.Errorf("unknown payload kind %q: %w", p.Kind, apperrors.ErrInvalidInput)
	}
}
