package service

import (
	"context"

	"github.com/trimline/seatcase/internal/domain"
	"github.com/trimline/seatcase/internal/store"
	"github.com/trimline/seatcase/pkg/idx"
)

// CaseService owns the case-study catalogue.
type CaseService struct {
	Store store.Store
}

// ListPublished returns the public catalogue.
func (s *CaseService) ListPublished(ctx context.Context) ([]domain.Case, error) {
	return s.Store.Cases().ListCases(ctx, true)
}

// GetPublished returns one published case. Unpublished cases are reported as
// not found so the public surface cannot probe drafts.
func (s *CaseService) GetPublished(ctx context.Context, id string) (domain.Case, error) {
	c, err := s.Store.Cases().GetCaseByID(ctx, id)
	if err != nil {
		return domain.Case{}, err
	}
	if !c.Published {
		return domain.Case{}, store.ErrNotFound
	}
	return c, nil
}

// ListAll returns every case including drafts.
func (s *CaseService) ListAll(ctx context.Context) ([]domain.Case, error) {
	return s.Store.Cases().ListCases(ctx, false)
}

// Get returns one case regardless of publication state.
func (s *CaseService) Get(ctx context.Context, id string) (domain.Case, error) {
	return s.Store.Cases().GetCaseByID(ctx, id)
}

// Create inserts a case and its media atomically.
func (s *CaseService) Create(ctx context.Context, c domain.Case) (domain.Case, error) {
	c.ID = idx.New().String()
	media := normalizeMedia(c.ID, c.Media)
	c.Media = nil

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Cases().CreateCase(ctx, c); err != nil {
			return err
		}
		for _, m := range media {
			if err := tx.Media().CreateMedia(ctx, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Case{}, err
	}

	return s.Store.Cases().GetCaseByID(ctx, c.ID)
}

// Update applies a partial update. When the patch carries a media set, the
// case's media is replaced in the same transaction as the scalar update.
func (s *CaseService) Update(ctx context.Context, id string, patch domain.CasePatch) (domain.Case, error) {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Cases().UpdateCase(ctx, id, patch); err != nil {
			return err
		}
		if !patch.HasMedia {
			return nil
		}
		if err := tx.Media().DeleteMediaByCase(ctx, id); err != nil {
			return err
		}
		for _, m := range normalizeMedia(id, patch.Media) {
			if err := tx.Media().CreateMedia(ctx, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Case{}, err
	}

	return s.Store.Cases().GetCaseByID(ctx, id)
}

// Delete removes a case; its media rows cascade.
func (s *CaseService) Delete(ctx context.Context, id string) error {
	return s.Store.Cases().DeleteCase(ctx, id)
}

// normalizeMedia assigns ids and the owning case, drops items with unknown
// kinds/types or no URL, and defaults sort order to list position.
func normalizeMedia(caseID string, in []domain.Media) []domain.Media {
	out := make([]domain.Media, 0, len(in))
	for i, m := range in {
		if m.URL == "" || !domain.ValidMediaKind(m.Kind) || !domain.ValidMediaType(m.Type) {
			continue
		}
		m.ID = idx.New().String()
		m.CaseID = caseID
		if m.SortOrder == 0 {
			m.SortOrder = i
		}
		out = append(out, m)
	}
	return out
}
