package catalog

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	domcatalog "github.com/riverdub/riverdub/internal/domain/search/catalog"
	domvideo "github.com/riverdub/riverdub/internal/domain/video"
	"github.com/riverdub/riverdub/internal/logger"
	"github.com/riverdub/riverdub/internal/metrics"
)

// Service runs catalog searches.
type Service struct {
	lister Lister
	engine *domcatalog.Engine
}

// New creates a catalog service. A nil engine uses the default matcher.
func New(lister Lister, engine *domcatalog.Engine) *Service {
	if engine == nil {
		engine = domcatalog.NewEngine(nil)
	}
	return &Service{lister: lister, engine: engine}
}

// Search loads the catalog and returns the records matching q in listing order.
// The type filter is pushed down to the store; the engine applies it again.
func (s *Service) Search(ctx context.Context, q domcatalog.Query) ([]domvideo.Video, error) {
	start := time.Now()
	filtered := strconv.FormatBool(!q.IsEmpty())

	typ, _ := q.Type()
	records, err := s.lister.List(ctx, typ)
	if err != nil {
		metrics.CatalogSearchesTotal.WithLabelValues(filtered, "error").Inc()
		return nil, fmt.Errorf("list videos: %w", err)
	}

	result := s.engine.Filter(records, q)

	metrics.CatalogSearchesTotal.WithLabelValues(filtered, "ok").Inc()
	metrics.CatalogSearchDuration.Observe(time.Since(start).Seconds())
	metrics.CatalogSearchResults.Observe(float64(len(result)))
	metrics.CatalogRecordsScanned.Add(float64(len(records)))

	logger.FromContext(ctx).Debug("Catalog search",
		zap.Int("scanned", len(records)),
		zap.Int("matched", len(result)),
		zap.Strings("terms", q.Terms()),
	)
	return result, nil
}
