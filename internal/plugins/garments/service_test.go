package garments

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// --- Mock Repository ---

// mockRepository implements GarmentRepository for testing.
type mockRepository struct {
	listAllFn func(ctx context.Context) ([]Garment, error)
}

func (m *mockRepository) ListAll(ctx context.Context) ([]Garment, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

// --- Test Helpers ---

// testGarment builds a listable garment with research details attached.
func testGarment(slug string) Garment {
	return Garment{
		Slug:            slug,
		Name:            "Garment " + slug,
		Designer:        "Atelier",
		BackgroundTheme: ThemeLight,
		Media: []Media{
			{URL: "https://cdn.example.com/" + slug + ".jpg", Kind: "image"},
		},
		Research: ResearchDetails{
			PatternAssets:     []Media{{URL: "https://cdn.example.com/" + slug + ".pdf", Kind: "document"}},
			Provenance:        "acquired 2019",
			ConstructionNotes: "bias-cut silk",
		},
	}
}

// testPool builds n listable garments with slugs g1..gn.
func testPool(n int) []Garment {
	garments := make([]Garment, 0, n)
	for i := 1; i <= n; i++ {
		garments = append(garments, testGarment(fmt.Sprintf("g%d", i)))
	}
	return garments
}

// newTestService creates a garmentService over a fixed garment list.
func newTestService(garments []Garment) GarmentService {
	return NewGarmentService(&mockRepository{
		listAllFn: func(ctx context.Context) ([]Garment, error) {
			return garments, nil
		},
	})
}

// slugsOf extracts the slugs of a view list in order.
func slugsOf(views []GarmentView) []string {
	slugs := make([]string, 0, len(views))
	for _, v := range views {
		slugs = append(slugs, v.Slug)
	}
	return slugs
}

// slugSet turns a view list into a set of slugs, failing on duplicates.
func slugSet(t *testing.T, views []GarmentView) map[string]bool {
	t.Helper()
	set := make(map[string]bool, len(views))
	for _, v := range views {
		if set[v.Slug] {
			t.Fatalf("duplicate slug %s in selection", v.Slug)
		}
		set[v.Slug] = true
	}
	return set
}

// --- List / Redaction Tests ---

func TestList_RedactsResearchForPublicCallers(t *testing.T) {
	svc := newTestService(testPool(3))

	views, err := svc.List(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 garments, got %d", len(views))
	}
	for _, v := range views {
		if v.Research != nil {
			t.Errorf("garment %s: expected research details withheld", v.Slug)
		}
	}
}

func TestList_IncludesResearchForPrivilegedCallers(t *testing.T) {
	svc := newTestService(testPool(3))

	views, err := svc.List(context.Background(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, v := range views {
		if v.Research == nil {
			t.Fatalf("garment %s: expected research details present", v.Slug)
		}
		if v.Research.Provenance != "acquired 2019" {
			t.Errorf("garment %s: unexpected provenance %q", v.Slug, v.Research.Provenance)
		}
	}
}

func TestList_IncludesHiddenGarments(t *testing.T) {
	pool := testPool(3)
	pool[1].ExcludeFromListing = true
	svc := newTestService(pool)

	views, err := svc.List(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The listing flag only affects random selection, not the full list.
	if len(views) != 3 {
		t.Errorf("expected all 3 garments, got %d", len(views))
	}
}

func TestList_RepositoryError(t *testing.T) {
	svc := NewGarmentService(&mockRepository{
		listAllFn: func(ctx context.Context) ([]Garment, error) {
			return nil, errors.New("redis down")
		},
	})

	if _, err := svc.List(context.Background(), false); err == nil {
		t.Error("expected repository error to propagate")
	}
}

// --- SelectRandom Tests ---

func TestSelectRandom_SizeAndUniqueness(t *testing.T) {
	svc := newTestService(testPool(20))

	views, err := svc.SelectRandom(context.Background(), 5, nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 5 {
		t.Fatalf("expected 5 garments, got %d", len(views))
	}
	slugSet(t, views)
}

func TestSelectRandom_CountClamped(t *testing.T) {
	svc := newTestService(testPool(20))

	tests := []struct {
		name     string
		count    int
		expected int
	}{
		{"zero clamps to min", 0, 1},
		{"negative clamps to min", -3, 1},
		{"over max clamps to max", 50, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := svc.SelectRandom(context.Background(), tt.count, nil, false)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(views) != tt.expected {
				t.Errorf("expected %d garments, got %d", tt.expected, len(views))
			}
		})
	}
}

func TestSelectRandom_PoolSmallerThanCount(t *testing.T) {
	svc := newTestService(testPool(2))

	views, err := svc.SelectRandom(context.Background(), 5, nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 2 {
		t.Errorf("expected the whole pool of 2, got %d", len(views))
	}
	slugSet(t, views)
}

func TestSelectRandom_EmptyPool(t *testing.T) {
	svc := newTestService(nil)

	views, err := svc.SelectRandom(context.Background(), 3, nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 0 {
		t.Errorf("expected empty selection, got %d", len(views))
	}
}

func TestSelectRandom_SkipsHiddenGarments(t *testing.T) {
	pool := testPool(6)
	pool[0].ExcludeFromListing = true
	pool[3].ExcludeFromListing = true
	svc := newTestService(pool)

	// Draw repeatedly: hidden garments must never appear.
	for i := 0; i < 25; i++ {
		views, err := svc.SelectRandom(context.Background(), 4, nil, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, v := range views {
			if v.Slug == "g1" || v.Slug == "g4" {
				t.Fatalf("hidden garment %s appeared in selection", v.Slug)
			}
		}
	}
}

func TestSelectRandom_HonorsExclusions(t *testing.T) {
	// Pool of 5, ask for 3, exclude 2: the 3 non-excluded garments must
	// be selected and neither excluded garment may appear.
	svc := newTestService(testPool(5))

	views, err := svc.SelectRandom(context.Background(), 3, []string{"g1", "g2"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 garments, got %d", len(views))
	}
	set := slugSet(t, views)
	if set["g1"] || set["g2"] {
		t.Errorf("excluded garment appeared without backfill need: %v", slugsOf(views))
	}
}

func TestSelectRandom_BackfillsFromExcluded(t *testing.T) {
	// Pool of 5, ask for 4, exclude 3: only 2 non-excluded garments
	// exist, so exactly 2 of the excluded ones backfill the selection.
	svc := newTestService(testPool(5))

	views, err := svc.SelectRandom(context.Background(), 4, []string{"g1", "g2", "g3"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 4 {
		t.Fatalf("expected 4 garments, got %d", len(views))
	}
	set := slugSet(t, views)
	if !set["g4"] || !set["g5"] {
		t.Errorf("expected both non-excluded garments selected, got %v", slugsOf(views))
	}
}

func TestSelectRandom_AllExcluded(t *testing.T) {
	// Every slug excluded: the selection still fills entirely by backfill.
	svc := newTestService(testPool(5))

	views, err := svc.SelectRandom(context.Background(), 3,
		[]string{"g1", "g2", "g3", "g4", "g5"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 3 {
		t.Errorf("expected 3 garments via backfill, got %d", len(views))
	}
	slugSet(t, views)
}

func TestSelectRandom_VariesAcrossCalls(t *testing.T) {
	svc := newTestService(testPool(30))

	// With 30 garments and draws of 3, identical selections across many
	// calls are vanishingly unlikely unless the shuffle is broken.
	first, err := svc.SelectRandom(context.Background(), 3, nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 50; i++ {
		next, err := svc.SelectRandom(context.Background(), 3, nil, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fmt.Sprint(slugsOf(next)) != fmt.Sprint(slugsOf(first)) {
			return
		}
	}
	t.Error("50 draws returned the identical selection; shuffle appears inert")
}

func TestSelectRandom_RedactsForPublicCallers(t *testing.T) {
	svc := newTestService(testPool(5))

	views, err := svc.SelectRandom(context.Background(), 3, nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, v := range views {
		if v.Research != nil {
			t.Errorf("garment %s: expected research details withheld", v.Slug)
		}
	}
}

// --- GetBySlug Tests ---

func TestGetBySlug_Found(t *testing.T) {
	svc := newTestService(testPool(3))

	view, err := svc.GetBySlug(context.Background(), "g2", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view == nil {
		t.Fatal("expected a garment")
	}
	if view.Slug != "g2" || view.Name != "Garment g2" {
		t.Errorf("unexpected garment: %+v", view)
	}
	if view.Research == nil {
		t.Error("expected research details for privileged caller")
	}
}

func TestGetBySlug_NotFound(t *testing.T) {
	svc := newTestService(testPool(3))

	view, err := svc.GetBySlug(context.Background(), "missing", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view != nil {
		t.Errorf("expected nil for unknown slug, got %+v", view)
	}
}

func TestGetBySlug_EmptySlug(t *testing.T) {
	svc := newTestService(testPool(3))

	if _, err := svc.GetBySlug(context.Background(), "", false); err == nil {
		t.Error("expected error for empty slug")
	}
}

func TestGetBySlug_IgnoresListingExclusion(t *testing.T) {
	pool := testPool(3)
	pool[0].ExcludeFromListing = true
	svc := newTestService(pool)

	// Direct lookups must resolve garments hidden from the homepage.
	view, err := svc.GetBySlug(context.Background(), "g1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view == nil {
		t.Error("expected hidden garment to resolve by direct slug")
	}
}

// --- GetManyBySlugs Tests ---

func TestGetManyBySlugs_PreservesInputOrder(t *testing.T) {
	svc := newTestService(testPool(5))

	views, err := svc.GetManyBySlugs(context.Background(), []string{"g4", "g1", "g3"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := slugsOf(views)
	want := []string{"g4", "g1", "g3"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("expected order %v, got %v", want, got)
	}
}

func TestGetManyBySlugs_DropsUnknownSlugs(t *testing.T) {
	svc := newTestService(testPool(3))

	views, err := svc.GetManyBySlugs(context.Background(), []string{"g1", "missing", "g3"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := slugsOf(views)
	want := []string{"g1", "g3"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestGetManyBySlugs_Empty(t *testing.T) {
	svc := newTestService(testPool(3))

	views, err := svc.GetManyBySlugs(context.Background(), nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 0 {
		t.Errorf("expected empty result, got %d", len(views))
	}
}
