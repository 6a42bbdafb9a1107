package pipeline

import (
	"context"
	"log"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/singleflight"

	"dashboard-pipeline/internal/config"
	"dashboard-pipeline/internal/httpds"
	"dashboard-pipeline/internal/metrics"
	"dashboard-pipeline/internal/model"
	"dashboard-pipeline/pkg/utils"
)

// DefaultPreviewLimit is the row count of a preview when none is given.
const DefaultPreviewLimit = 10

// Options configures a Service. Zero fields get working defaults.
type Options struct {
	HTTP    *httpds.Client
	Secrets config.Secrets
	Uploads *utils.UploadManager
	Cache   Cache

	Now     func() time.Time
	NewRand func() *rand.Rand
}

// Service runs fetch, preview, validate and transform requests. It holds no
// per-request state; the cache is the only thing shared between calls.
type Service struct {
	opts  Options
	group singleflight.Group
}

func NewService(opts Options) *Service {
	if opts.HTTP == nil {
		opts.HTTP = httpds.NewClient(httpds.Config{})
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{opts: opts}
}

// Bind binds cfg for owner.
func (s *Service) Bind(owner string, cfg model.SourceConfig) (Source, error) {
	return Bind(cfg, Env{
		HTTP:    s.opts.HTTP,
		Secrets: s.opts.Secrets,
		Uploads: s.opts.Uploads,
		Owner:   owner,
		Now:     s.opts.Now,
		NewRand: s.opts.NewRand,
	})
}

// FetchRequest identifies what to fetch. DataSourceID, when set, keys the
// cache; Refresh skips the cached copy.
type FetchRequest struct {
	Owner        string
	DataSourceID string
	Config       model.SourceConfig
	Refresh      bool
}

// FetchResult is a dataset plus where it came from.
type FetchResult struct {
	Dataset   model.Dataset
	FetchedAt time.Time
	Cached    bool
}

// Fetch returns the full dataset for a source. Only successful results are
// cached, and concurrent fetches of the same key share one request.
func (s *Service) Fetch(ctx context.Context, req FetchRequest) (FetchResult, error) {
	src, err := s.Bind(req.Owner, req.Config)
	if err != nil {
		return FetchResult{}, err
	}
	if s.opts.Cache == nil {
		return s.fetchNow(ctx, src)
	}

	key, err := CacheKey(req.Owner, req.DataSourceID, req.Config)
	if err != nil {
		return FetchResult{}, err
	}
	if !req.Refresh {
		if hit, ok := s.opts.Cache.Get(key); ok {
			metrics.RecordCache("hit")
			return FetchResult{Dataset: hit.Dataset, FetchedAt: hit.FetchedAt, Cached: true}, nil
		}
	}
	metrics.RecordCache("miss")

	ch := s.group.DoChan(key, func() (interface{}, error) {
		// Detached so one caller going away does not fail the others.
		res, err := s.fetchNow(context.WithoutCancel(ctx), src)
		if err != nil {
			return nil, err
		}
		s.opts.Cache.Set(key, CachedResult{Dataset: res.Dataset, FetchedAt: res.FetchedAt})
		return res, nil
	})

	select {
	case <-ctx.Done():
		return FetchResult{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return FetchResult{}, r.Err
		}
		return r.Val.(FetchResult), nil
	}
}

// Forget drops the cached rows of a saved source's config. Handlers call it
// after the source is updated or deleted.
func (s *Service) Forget(owner, dataSourceID string, cfg model.SourceConfig) {
	if s.opts.Cache == nil {
		return
	}
	key, err := CacheKey(owner, dataSourceID, cfg)
	if err != nil {
		return
	}
	s.opts.Cache.Delete(key)
}

func (s *Service) fetchNow(ctx context.Context, src Source) (FetchResult, error) {
	start := time.Now()
	ds, err := src.Fetch(ctx, 0)
	metrics.RecordStep("fetch", string(src.Kind()), err, time.Since(start))
	if err != nil {
		log.Printf("❌ Fetch from %s source failed: %v", src.Kind(), err)
		return FetchResult{}, err
	}
	metrics.RecordRows("fetch", ds.Len())
	return FetchResult{Dataset: ds, FetchedAt: s.opts.Now().UTC()}, nil
}

// Preview fetches at most limit rows (DefaultPreviewLimit when limit <= 0),
// bypassing the cache.
func (s *Service) Preview(ctx context.Context, owner string, cfg model.SourceConfig, limit int) (model.Dataset, error) {
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}
	src, err := s.Bind(owner, cfg)
	if err != nil {
		return model.Dataset{}, err
	}

	start := time.Now()
	ds, err := src.Fetch(ctx, limit)
	metrics.RecordStep("preview", string(src.Kind()), err, time.Since(start))
	if err != nil {
		return model.Dataset{}, err
	}
	metrics.RecordRows("preview", ds.Len())
	return ds, nil
}

// Validate checks that cfg can be bound and read. Binding errors, such as an
// undefined secret, are reported as an invalid result.
func (s *Service) Validate(ctx context.Context, owner string, cfg model.SourceConfig) ValidationResult {
	start := time.Now()
	src, err := s.Bind(owner, cfg)
	if err != nil {
		metrics.RecordStep("validate", string(cfg.Normalize().Kind), err, time.Since(start))
		return invalid("Data source validation failed: " + err.Error())
	}

	res := ValidateSource(ctx, src)
	var stepErr error
	if !res.IsValid {
		stepErr = errInvalidSource
	}
	metrics.RecordStep("validate", string(src.Kind()), stepErr, time.Since(start))
	return res
}

type sentinel string

func (e sentinel) Error() string { return string(e) }

const errInvalidSource = sentinel("invalid source")

// Transform applies cfg to rows.
func (s *Service) Transform(rows []model.Row, cfg model.TransformConfig) ([]model.Row, error) {
	start := time.Now()
	out, err := Apply(rows, cfg)
	metrics.RecordStep("transform", "", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	metrics.RecordRows("transform", len(out))
	return out, nil
}
