package taskset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/spachava753/webmall-eval/internal/models"
)

// LoadFromURL loads a task_sets.json from a remote URL.
func LoadFromURL(ctx context.Context, url string) ([]any, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrInvalidTaskSet, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %w", ErrInvalidTaskSet, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetching %s: HTTP %d", ErrInvalidTaskSet, url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %w", ErrInvalidTaskSet, err)
	}

	return Parse(data)
}

// LoadSource loads a single task-set source.
func LoadSource(ctx context.Context, src models.TaskSetSource) ([]any, error) {
	switch {
	case src.Path != nil && *src.Path != "":
		return Load(*src.Path)
	case src.URL != nil && *src.URL != "":
		return LoadFromURL(ctx, *src.URL)
	default:
		return nil, fmt.Errorf("%w: source has neither path nor url", ErrInvalidTaskSet)
	}
}

// FetchAll loads all sources in parallel and concatenates their suites in
// source order. Any failing source fails the whole fetch.
func FetchAll(ctx context.Context, sources []models.TaskSetSource) ([]any, error) {
	parts := make([][]any, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			slog.Debug("loading task set", "source", src.String())
			suites, err := LoadSource(ctx, src)
			if err != nil {
				return fmt.Errorf("loading task set %s: %w", src.String(), err)
			}
			parts[i] = suites
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []any
	for _, p := range parts {
		all = append(all, p...)
	}
	slog.Debug("loaded task sets", "sources", len(sources), "suites", len(all))
	return all, nil
}
