package reconcile

import (
	"context"
	"fmt"

	"github.com/farellandr/boxoffice/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	unknownName  = "Unknown"
	unknownEmail = "N/A"
)

type profileSet map[uuid.UUID]models.Profile

// lookup never fails; ids that did not resolve get placeholder values.
func (p profileSet) lookup(id uuid.UUID) models.Profile {
	if profile, ok := p[id]; ok {
		if profile.Name == "" {
			profile.Name = unknownName
		}
		if profile.Email == "" {
			profile.Email = unknownEmail
		}
		return profile
	}
	return models.Profile{ID: id, Name: unknownName, Email: unknownEmail}
}

// resolveProfiles loads buyers of the codes and deficient transactions plus
// the staff who scanned codes.
func (s *Service) resolveProfiles(ctx context.Context, codes []models.QRCode, deficient []Deficiency) (profileSet, int, error) {
	var ids []uuid.UUID
	seen := make(map[uuid.UUID]struct{})
	add := func(id uuid.UUID) {
		if id == uuid.Nil {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, code := range codes {
		add(code.UserID)
		if code.ScannerID != nil {
			add(*code.ScannerID)
		}
	}
	for _, d := range deficient {
		add(d.Transaction.UserID)
	}

	profiles := make(profileSet, len(ids))
	failed := 0
	for n, batch := range chunk(ids, s.opts.BatchSize) {
		rows, err := s.store.ProfilesByIDs(ctx, batch)
		if err != nil {
			if s.opts.Strict {
				return nil, 0, fmt.Errorf("%w: profiles batch %d: %w", ErrBatchFetch, n, err)
			}
			s.log.Warn("profile batch failed, using placeholders",
				zap.Int("batch", n),
				zap.Int("batch_size", len(batch)),
				zap.Error(err),
			)
			failed++
			continue
		}
		for _, profile := range rows {
			profiles[profile.ID] = profile
		}
	}

	return profiles, failed, nil
}
