// Package export stores downloaded artifacts (patient exports, SOAP
// documents, analytics reports) on the local disk or in an S3-compatible
// bucket.
package export

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/medscribe/internal/client/metrics"
	"github.com/dmitrijs2005/medscribe/internal/client/models"
	"github.com/dmitrijs2005/medscribe/internal/common"
	"github.com/dmitrijs2005/medscribe/internal/logging"
)

// Artifact kinds, used as the first key segment.
const (
	KindPatient   = "patients"
	KindSOAP      = "soap-notes"
	KindAnalytics = "analytics"
)

const defaultExt = ".bin"

// Sink persists an artifact under key and returns where it ended up.
type Sink interface {
	Name() string
	Put(ctx context.Context, key string, a *models.Artifact) (string, error)
}

// Exporter names artifacts and hands them to a Sink.
type Exporter struct {
	sink    Sink
	metrics *metrics.Collector
	logger  logging.Logger
	now     func() time.Time
	newID   func() string
}

// NewExporter returns an Exporter writing to sink. m may be nil.
func NewExporter(sink Sink, m *metrics.Collector, logger logging.Logger) *Exporter {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Exporter{
		sink:    sink,
		metrics: m,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Save stores a under a fresh key and returns the sink location.
func (e *Exporter) Save(ctx context.Context, kind string, a *models.Artifact) (string, error) {
	if a == nil || len(a.Data) == 0 {
		return "", fmt.Errorf("%w: empty artifact", common.ErrorValidation)
	}

	key := Key(kind, a.FileName, e.now(), e.newID())
	loc, err := e.sink.Put(ctx, key, a)
	if err != nil {
		return "", fmt.Errorf("%s put %s: %w", e.sink.Name(), key, err)
	}

	e.metrics.ObserveExport(e.sink.Name(), kind)
	e.logger.Info(ctx, "artifact exported", "sink", e.sink.Name(), "kind", kind, "location", loc, "bytes", len(a.Data))
	return loc, nil
}

// Key builds <kind>/<yyyy>/<mm>/<dd>/<id><ext>. The extension comes from
// fileName; artifacts without one get .bin.
func Key(kind, fileName string, at time.Time, id string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" || ext == "." {
		ext = defaultExt
	}
	at = at.UTC()
	return path.Join(kind, at.Format("2006"), at.Format("01"), at.Format("02"), id+ext)
}
