// Package cms is the client for the headless CMS that owns all garment
// content and the research-access configuration. The CMS is an external
// collaborator consumed over GraphQL; this package is the only place that
// knows its query shapes. Callers get typed records and wrapped errors,
// never raw HTTP details.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/eccearchive/ecce/internal/config"
)

// cacheControlHint is sent on every CMS request so the CMS's CDN layer can
// serve cached responses while revalidating in the background. Our own
// Redis cache is the primary cache; this hint is for the upstream edge.
const cacheControlHint = "max-age=3600, stale-while-revalidate=86400"

// garmentQuery fetches every garment record with both public and
// privileged fields. Field-level redaction happens server-side in the
// garments service, never in the CMS query.
const garmentQuery = `
query Garments($limit: Int!) {
  Garments(limit: $limit) {
    docs {
      slug
      name
      description
      designer
      year
      backgroundTheme
      excludeFromListing
      media { url alt kind }
      patternAssets { url alt kind }
      provenance
      constructionNotes
    }
  }
}`

// researchAccessQuery fetches the global settings record. The researchAccess
// field is a JSON-encoded object mapping role name to expected credential.
const researchAccessQuery = `
query ResearchAccess {
  GlobalSettings {
    researchAccess
  }
}`

// garmentQueryLimit bounds the number of records fetched per query. The
// archive is a curated collection, well under this size.
const garmentQueryLimit = 500

// Client talks to the CMS GraphQL endpoint.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
}

// NewClient creates a CMS client from the given config.
func NewClient(cfg config.CMSConfig) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		http:     &http.Client{Timeout: cfg.Timeout},
	}
}

// MediaRecord is a reference to an asset hosted by the CMS media library.
type MediaRecord struct {
	URL  string `json:"url"`
	Alt  string `json:"alt"`
	Kind string `json:"kind"`
}

// GarmentRecord is the raw CMS shape of a garment. Every scalar is a
// pointer because the CMS returns null for unset fields; the garments
// repository decides which records are well-formed enough to keep.
type GarmentRecord struct {
	Slug               *string       `json:"slug"`
	Name               *string       `json:"name"`
	Description        *string       `json:"description"`
	Designer           *string       `json:"designer"`
	Year               *int          `json:"year"`
	BackgroundTheme    *string       `json:"backgroundTheme"`
	ExcludeFromListing *bool         `json:"excludeFromListing"`
	Media              []MediaRecord `json:"media"`
	PatternAssets      []MediaRecord `json:"patternAssets"`
	Provenance         *string       `json:"provenance"`
	ConstructionNotes  *string       `json:"constructionNotes"`
}

// GarmentRecords fetches all garment records from the CMS.
func (c *Client) GarmentRecords(ctx context.Context) ([]GarmentRecord, error) {
	var out struct {
		Garments struct {
			Docs []GarmentRecord `json:"docs"`
		} `json:"Garments"`
	}

	vars := map[string]any{"limit": garmentQueryLimit}
	if err := c.query(ctx, garmentQuery, vars, &out); err != nil {
		return nil, fmt.Errorf("fetching garments: %w", err)
	}

	return out.Garments.Docs, nil
}

// ResearchAccess fetches and decodes the role-to-credential map from the
// CMS global settings. Returns an error if the settings record is missing
// or the embedded JSON is malformed.
func (c *Client) ResearchAccess(ctx context.Context) (map[string]string, error) {
	var out struct {
		GlobalSettings struct {
			ResearchAccess string `json:"researchAccess"`
		} `json:"GlobalSettings"`
	}

	if err := c.query(ctx, researchAccessQuery, nil, &out); err != nil {
		return nil, fmt.Errorf("fetching research access settings: %w", err)
	}

	if out.GlobalSettings.ResearchAccess == "" {
		return nil, fmt.Errorf("research access settings are empty")
	}

	credentials := make(map[string]string)
	if err := json.Unmarshal([]byte(out.GlobalSettings.ResearchAccess), &credentials); err != nil {
		return nil, fmt.Errorf("decoding research access settings: %w", err)
	}

	return credentials, nil
}

// --- GraphQL transport ---

// graphqlRequest is the standard GraphQL-over-HTTP request body.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphqlError is a single error entry in a GraphQL response.
type graphqlError struct {
	Message string `json:"message"`
}

// query executes a GraphQL query and unmarshals the data payload into out.
func (c *Client) query(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encoding query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", cacheControlHint)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling CMS: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		// Drain so the connection can be reused, then report the status.
		io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return fmt.Errorf("CMS returned status %d", res.StatusCode)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding CMS response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		return fmt.Errorf("CMS query failed: %s", envelope.Errors[0].Message)
	}
	if len(envelope.Data) == 0 {
		return fmt.Errorf("CMS response has no data")
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decoding CMS data: %w", err)
	}

	return nil
}
