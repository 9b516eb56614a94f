package collector

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Guliveer/sysfacts/internal/errors"
	"github.com/Guliveer/sysfacts/internal/models"
)

// DefaultConcurrency bounds how many collectors run at once.
const DefaultConcurrency = 4

// Registry holds the collectors of one report section and runs them.
type Registry struct {
	collectors  []Collector
	unavailable []string
	concurrency int
	logger      *zap.Logger
}

// NewRegistry creates a registry that runs at most concurrency collectors
// at a time. A non-positive concurrency uses DefaultConcurrency.
func NewRegistry(logger *zap.Logger, concurrency int) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Registry{
		collectors:  make([]Collector, 0),
		concurrency: concurrency,
		logger:      logger,
	}
}

// Register adds a collector. A collector unavailable on this platform is
// remembered so its key is still emitted, as null.
func (r *Registry) Register(c Collector) {
	if c.IsAvailable() {
		r.collectors = append(r.collectors, c)
		r.logger.Debug("Registered collector", zap.String("name", c.Name()))
	} else {
		r.unavailable = append(r.unavailable, c.Name())
		r.logger.Info("Collector not available on this platform", zap.String("name", c.Name()))
	}
}

// CollectAll runs every registered collector and returns one entry per
// collector. A collector that fails or panics is logged and replaced by a
// CollectionFailed marker; the others are unaffected.
func (r *Registry) CollectAll(ctx context.Context) models.Section {
	results := make(models.Section, len(r.collectors)+len(r.unavailable))
	for _, name := range r.unavailable {
		results[name] = nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for _, c := range r.collectors {
		col := c
		g.Go(func() error {
			data, err := r.run(gctx, col)
			if err != nil {
				r.logger.Error("Collection failed",
					zap.String("collector", col.Name()),
					zap.Error(err))
				data = models.Failed(errors.Reason(err))
			}
			mu.Lock()
			results[col.Name()] = data
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// run calls Collect, converting a panic into a COLLECTION_FAILED error.
func (r *Registry) run(ctx context.Context, c Collector) (data interface{}, err error) {
	defer func() {
		if p := recover(); p != nil {
			data = nil
			err = errors.New(errors.ErrCodeCollectionFailed, fmt.Sprintf("%s panicked: %v", c.Name(), p))
		}
	}()
	return c.Collect(ctx)
}

// Collectors returns a copy of all registered collectors.
func (r *Registry) Collectors() []Collector {
	result := make([]Collector, len(r.collectors))
	copy(result, r.collectors)
	return result
}

// Names returns every key the registry will emit, available or not.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.collectors)+len(r.unavailable))
	for _, c := range r.collectors {
		names = append(names, c.Name())
	}
	return append(names, r.unavailable...)
}
