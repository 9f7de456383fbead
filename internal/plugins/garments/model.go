// Package garments serves the archive's garment records: a cached mirror
// of the CMS collection with field-level redaction, randomized homepage
// selection, and slug lookups. All read paths work for anonymous callers;
// a valid research session additionally unlocks the privileged fields.
package garments

import (
	"github.com/eccearchive/ecce/internal/cms"
)

// Theme is the declared brightness of a garment's backdrop image. The
// front end uses it to pick the complementary solid background when the
// visitor toggles away from the image.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Media is a reference to an asset in the CMS media library.
type Media struct {
	URL  string `json:"url"`
	Alt  string `json:"alt,omitempty"`
	Kind string `json:"kind,omitempty"`
}

// ResearchDetails are the privileged fields unlocked by research mode.
type ResearchDetails struct {
	PatternAssets     []Media `json:"patternAssets,omitempty"`
	Provenance        string  `json:"provenance,omitempty"`
	ConstructionNotes string  `json:"constructionNotes,omitempty"`
}

// Garment is the canonical internal record, cached as-is. It always holds
// the privileged fields; they only leave the process through View, which
// is the single mapping from canonical record to response shape.
type Garment struct {
	Slug               string          `json:"slug"`
	Name               string          `json:"name"`
	Description        string          `json:"description,omitempty"`
	Designer           string          `json:"designer,omitempty"`
	Year               int             `json:"year,omitempty"`
	BackgroundTheme    Theme           `json:"backgroundTheme,omitempty"`
	ExcludeFromListing bool            `json:"excludeFromListing,omitempty"`
	Media              []Media         `json:"media,omitempty"`
	Research           ResearchDetails `json:"research"`
}

// GarmentView is the response shape. Research is present only for
// privileged callers; there is no code path that copies a privileged
// field anywhere else in the view, so redaction cannot be bypassed by a
// missed field name.
type GarmentView struct {
	Slug            string           `json:"slug"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Designer        string           `json:"designer,omitempty"`
	Year            int              `json:"year,omitempty"`
	BackgroundTheme Theme            `json:"backgroundTheme,omitempty"`
	Media           []Media          `json:"media,omitempty"`
	Research        *ResearchDetails `json:"research,omitempty"`
}

// View maps the canonical record to its response shape. It copies; the
// cached original is never handed out or mutated.
func (g Garment) View(privileged bool) GarmentView {
	view := GarmentView{
		Slug:            g.Slug,
		Name:            g.Name,
		Description:     g.Description,
		Designer:        g.Designer,
		Year:            g.Year,
		BackgroundTheme: g.BackgroundTheme,
		Media:           append([]Media(nil), g.Media...),
	}
	if privileged {
		research := ResearchDetails{
			PatternAssets:     append([]Media(nil), g.Research.PatternAssets...),
			Provenance:        g.Research.Provenance,
			ConstructionNotes: g.Research.ConstructionNotes,
		}
		view.Research = &research
	}
	return view
}

// viewAll maps a slice of records, applying the same privilege to each.
func viewAll(records []Garment, privileged bool) []GarmentView {
	views := make([]GarmentView, 0, len(records))
	for _, g := range records {
		views = append(views, g.View(privileged))
	}
	return views
}

// fromRecord converts a raw CMS record to the canonical model. Returns
// false when the record is too malformed to keep: a garment without a slug
// or a name cannot be selected or displayed.
func fromRecord(rec cms.GarmentRecord) (Garment, bool) {
	if rec.Slug == nil || *rec.Slug == "" || rec.Name == nil || *rec.Name == "" {
		return Garment{}, false
	}

	g := Garment{
		Slug:  *rec.Slug,
		Name:  *rec.Name,
		Media: mediaFromRecords(rec.Media),
		Research: ResearchDetails{
			PatternAssets: mediaFromRecords(rec.PatternAssets),
		},
	}
	if rec.Description != nil {
		g.Description = *rec.Description
	}
	if rec.Designer != nil {
		g.Designer = *rec.Designer
	}
	if rec.Year != nil {
		g.Year = *rec.Year
	}
	if rec.BackgroundTheme != nil && *rec.BackgroundTheme == string(ThemeDark) {
		g.BackgroundTheme = ThemeDark
	} else {
		// Unset or unknown themes render as light backdrops.
		g.BackgroundTheme = ThemeLight
	}
	if rec.ExcludeFromListing != nil {
		g.ExcludeFromListing = *rec.ExcludeFromListing
	}
	if rec.Provenance != nil {
		g.Research.Provenance = *rec.Provenance
	}
	if rec.ConstructionNotes != nil {
		g.Research.ConstructionNotes = *rec.ConstructionNotes
	}
	return g, true
}

func mediaFromRecords(records []cms.MediaRecord) []Media {
	if len(records) == 0 {
		return nil
	}
	media := make([]Media, 0, len(records))
	for _, m := range records {
		if m.URL == "" {
			continue
		}
		media = append(media, Media{URL: m.URL, Alt: m.Alt, Kind: m.Kind})
	}
	return media
}
