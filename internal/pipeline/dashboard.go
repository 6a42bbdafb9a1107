package pipeline

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"dashboard-pipeline/internal/model"
)

// maxWidgetFetches bounds concurrent source fetches for one dashboard.
const maxWidgetFetches = 8

// WidgetQuery is one widget's source plus its transform.
type WidgetQuery struct {
	WidgetID     string
	DataSourceID string
	Config       model.SourceConfig
	Transform    model.TransformConfig
}

// WidgetResult is either transformed data or the reason there is none.
type WidgetResult struct {
	Data     interface{} `json:"data,omitempty"`
	Metadata *WidgetMeta `json:"metadata,omitempty"`
	Error    string      `json:"error,omitempty"`
}

type WidgetMeta struct {
	OriginalRowCount    int       `json:"originalRowCount"`
	TransformedRowCount int       `json:"transformedRowCount"`
	Transformations     []string  `json:"transformations"`
	LastUpdated         time.Time `json:"lastUpdated"`
	Cached              bool      `json:"cached"`
}

// RefreshWidgets fetches and transforms every widget concurrently. A failing
// widget gets an error entry; the others are unaffected.
func (s *Service) RefreshWidgets(ctx context.Context, owner string, queries []WidgetQuery, refresh bool) map[string]WidgetResult {
	var mu sync.Mutex
	out := make(map[string]WidgetResult, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWidgetFetches)
	for _, q := range queries {
		g.Go(func() error {
			res := s.refreshWidget(gctx, owner, q, refresh)
			mu.Lock()
			out[q.WidgetID] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	log.Printf("📊 Dashboard refresh: %d widgets", len(queries))
	return out
}

func (s *Service) refreshWidget(ctx context.Context, owner string, q WidgetQuery, refresh bool) WidgetResult {
	fr, err := s.Fetch(ctx, FetchRequest{
		Owner:        owner,
		DataSourceID: q.DataSourceID,
		Config:       q.Config,
		Refresh:      refresh,
	})
	if err != nil {
		return WidgetResult{Error: err.Error()}
	}

	rows, err := s.Transform(fr.Dataset.Rows, q.Transform)
	if err != nil {
		return WidgetResult{Error: err.Error()}
	}
	return WidgetResult{
		Data: rows,
		Metadata: &WidgetMeta{
			OriginalRowCount:    fr.Dataset.Len(),
			TransformedRowCount: len(rows),
			Transformations:     q.Transform.Stages(),
			LastUpdated:         fr.FetchedAt,
			Cached:              fr.Cached,
		},
	}
}
