package garments

import (
	"context"
	"fmt"
)

// Bounds for the random-selection count. A request outside the range is
// clamped, not rejected: the front end treats selection size as a hint.
const (
	minRandomCount = 1
	maxRandomCount = 10
)

// GarmentService defines the business logic contract for garment reads.
// Every method takes the caller's privilege, resolved per request from the
// session cookie; privilege is never cached alongside the data.
type GarmentService interface {
	List(ctx context.Context, privileged bool) ([]GarmentView, error)
	SelectRandom(ctx context.Context, count int, excludeSlugs []string, privileged bool) ([]GarmentView, error)
	GetBySlug(ctx context.Context, slug string, privileged bool) (*GarmentView, error)
	GetManyBySlugs(ctx context.Context, slugs []string, privileged bool) ([]GarmentView, error)
}

// garmentService implements GarmentService on top of the cached repository.
type garmentService struct {
	repo GarmentRepository
}

// NewGarmentService creates a new garment service with the given repository.
func NewGarmentService(repo GarmentRepository) GarmentService {
	return &garmentService{repo: repo}
}

// List returns every garment, redacted for the caller's privilege.
func (s *garmentService) List(ctx context.Context, privileged bool) ([]GarmentView, error) {
	garments, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return viewAll(garments, privileged), nil
}

// SelectRandom picks count garments at random from the listable pool,
// preferring slugs not in excludeSlugs. Guarantees: result size is
// min(clamped count, pool size), no duplicates, and excluded slugs appear
// only as backfill when the non-excluded pool runs short.
func (s *garmentService) SelectRandom(ctx context.Context, count int, excludeSlugs []string, privileged bool) ([]GarmentView, error) {
	if count < minRandomCount {
		count = minRandomCount
	}
	if count > maxRandomCount {
		count = maxRandomCount
	}

	garments, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	// Garments flagged out of the homepage listing never enter the pool.
	pool := make([]Garment, 0, len(garments))
	for _, g := range garments {
		if g.ExcludeFromListing {
			continue
		}
		pool = append(pool, g)
	}

	if len(pool) <= count {
		secureShuffle(pool)
		return viewAll(pool, privileged), nil
	}

	// Partition into garments not shown recently (available) and the
	// rest (excluded), shuffle each, and backfill from excluded only if
	// the available partition cannot satisfy the count on its own.
	excluded := make(map[string]bool, len(excludeSlugs))
	for _, slug := range excludeSlugs {
		excluded[slug] = true
	}

	var available, recentlyShown []Garment
	for _, g := range pool {
		if excluded[g.Slug] {
			recentlyShown = append(recentlyShown, g)
		} else {
			available = append(available, g)
		}
	}

	secureShuffle(available)
	secureShuffle(recentlyShown)

	selected := available
	if len(selected) > count {
		selected = selected[:count]
	} else if len(selected) < count {
		selected = append(selected, recentlyShown[:count-len(selected)]...)
	}

	return viewAll(selected, privileged), nil
}

// GetBySlug returns a single garment by slug, or nil if no garment has
// that slug. Deliberately ignores the homepage-listing exclusion: direct
// links to any garment must always resolve.
func (s *garmentService) GetBySlug(ctx context.Context, slug string, privileged bool) (*GarmentView, error) {
	if slug == "" {
		return nil, fmt.Errorf("slug is empty")
	}

	garments, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, g := range garments {
		if g.Slug == slug {
			view := g.View(privileged)
			return &view, nil
		}
	}
	return nil, nil
}

// GetManyBySlugs returns the garments for the given slugs in input order,
// silently dropping slugs with no match. Stable positions matter to the
// caller: the carousel keys its slots by position.
func (s *garmentService) GetManyBySlugs(ctx context.Context, slugs []string, privileged bool) ([]GarmentView, error) {
	garments, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	bySlug := make(map[string]Garment, len(garments))
	for _, g := range garments {
		bySlug[g.Slug] = g
	}

	views := make([]GarmentView, 0, len(slugs))
	for _, slug := range slugs {
		if g, ok := bySlug[slug]; ok {
			views = append(views, g.View(privileged))
		}
	}
	return views, nil
}
