package out

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"cpt/internal/modules/puzzle/domain"
	puzzleout "cpt/internal/modules/puzzle/port/out"
	apperrors "cpt/internal/platform/errors"
)

const maxBodyBytes = 64 << 20

// remotePuzzle is one element of the endpoint's JSON array.
type remotePuzzle struct {
	Puzzle string `json:"Puzzle"`
	White  string `json:"White"`
	Black  string `json:"Black"`
	Event  string `json:"Event"`
	Site   string `json:"Site"`
}

type HTTPSetSource struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

func NewHTTPSetSource(endpoint string, timeout time.Duration, logger *zap.Logger) puzzleout.SetSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPSetSource{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.Named("http-source"),
	}
}

// Fetch issues GET <endpoint>?tournament=<category>.
func (s *HTTPSetSource) Fetch(ctx context.Context, category string) (domain.Set, error) {
	if s.endpoint == "" {
		return domain.Set{}, &domain.FetchError{Category: category, Err: fmt.Errorf("%w: source endpoint", apperrors.ErrNotConfigured)}
	}
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return domain.Set{}, &domain.FetchError{Category: category, URL: s.endpoint, Err: err}
	}
	q := u.Query()
	q.Set("tournament", category)
	u.RawQuery = q.Encode()
	target := u.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return domain.Set{}, &domain.FetchError{Category: category, URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return domain.Set{}, &domain.FetchError{Category: category, URL: target, Err: err}
	}
	defer resp.Body.Close()
	s.logger.Debug("http",
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("dur", time.Since(start).Round(time.Millisecond)),
	)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Set{}, &domain.FetchError{Category: category, URL: target, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var payload []remotePuzzle
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return domain.Set{}, &domain.FetchError{Category: category, URL: target, Err: fmt.Errorf("decode body: %w", err)}
	}
	set := domain.Set{Category: category, Entries: make([]domain.Entry, 0, len(payload))}
	for _, p := range payload {
		set.Entries = append(set.Entries, domain.Entry{Raw: p.Puzzle, White: p.White, Black: p.Black, Event: p.Event, Site: p.Site})
	}
	return set, nil
}
