package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fieldguide/internal/errdefs"
)

const defaultMediaBaseURL = "https://api.idigbio.org/v2/media/"

// Provider discovers candidate media URLs for a subject.
type Provider interface {
	Search(ctx context.Context, subject string, limit int) ([]string, error)
}

// SpecimenProvider queries a specimen-record search endpoint that returns
// media record identifiers, in the style of the iDigBio records API.
type SpecimenProvider struct {
	searchURL    string
	mediaBaseURL string
	client       *http.Client
}

// NewSpecimenProvider builds a provider against searchURL with the given
// per-request timeout.
func NewSpecimenProvider(searchURL string, timeout time.Duration) *SpecimenProvider {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SpecimenProvider{
		searchURL:    searchURL,
		mediaBaseURL: defaultMediaBaseURL,
		client:       &http.Client{Timeout: timeout},
	}
}

// SetMediaBaseURL overrides the base URL media identifiers are joined to.
// Used by tests and alternate providers sharing the record format.
func (p *SpecimenProvider) SetMediaBaseURL(base string) {
	if base != "" {
		p.mediaBaseURL = base
	}
}

type searchRequest struct {
	Query searchQuery  `json:"rq"`
	Sort  []sortClause `json:"sort"`
	Limit int          `json:"limit"`
}

type searchQuery struct {
	Name     string `json:"scientificname"`
	HasImage bool   `json:"hasImage"`
}

type sortClause map[string]string

type searchResponse struct {
	Items []struct {
		IndexTerms struct {
			MediaRecords []string `json:"mediarecords"`
		} `json:"indexTerms"`
	} `json:"items"`
}

// Search returns up to limit candidate media URLs for subject. A non-success
// response from the provider is an upstream error; callers retry at their
// discretion.
func (p *SpecimenProvider) Search(ctx context.Context, subject string, limit int) ([]string, error) {
	payload := searchRequest{
		Query: searchQuery{Name: subject, HasImage: true},
		Sort:  []sortClause{{"scientificname": "asc"}, {"datecollected": "asc"}},
		Limit: limit,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.searchURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errdefs.Wrap(errdefs.ErrUpstream, "fetch", "search", subject, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errdefs.Wrap(errdefs.ErrUpstream, "fetch", "search",
			fmt.Sprintf("%s: status %d", subject, resp.StatusCode), nil)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errdefs.Wrap(errdefs.ErrUpstream, "fetch", "decode search response", subject, err)
	}

	urls := make([]string, 0, limit)
	for _, item := range parsed.Items {
		for _, record := range item.IndexTerms.MediaRecords {
			if len(urls) == limit {
				return urls, nil
			}
			urls = append(urls, p.mediaBaseURL+record)
		}
	}
	return urls, nil
}
