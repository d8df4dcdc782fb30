package prometheus

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/MrEthical07/jwtservice"
	"github.com/MrEthical07/jwtservice/metrics/export/internaldefs"
)

const contentType = "text/plain; version=0.0.4; charset=utf-8"

type metricsSource interface {
	MetricsSnapshot() jwtservice.MetricsSnapshot
	AuditDropped() uint64
}

// PrometheusExporter serves the sign and verify counters of one Service.
type PrometheusExporter struct {
	source metricsSource
}

func NewPrometheusExporter(svc *jwtservice.Service) *PrometheusExporter {
	return &PrometheusExporter{source: svc}
}

// NewPrometheusExporterFromSource is NewPrometheusExporter for any value that
// exposes a snapshot and a dropped-audit count.
func NewPrometheusExporterFromSource(source metricsSource) *PrometheusExporter {
	return &PrometheusExporter{source: source}
}

func (p *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(p.Render()))
	})
}

// Render returns one exposition of every series. It is empty while the
// service has metrics disabled and nothing was dropped.
func (p *PrometheusExporter) Render() string {
	if p == nil || p.source == nil {
		return ""
	}

	snap := p.source.MetricsSnapshot()
	dropped := p.source.AuditDropped()
	if len(snap.Counters) == 0 && len(snap.Histograms) == 0 && dropped == 0 {
		return ""
	}

	e := &exposition{}
	e.Grow(4096)
	for _, def := range internaldefs.CounterDefs {
		e.counter(def.Name, def.Help, snap.Counters[def.ID])
	}
	for _, def := range internaldefs.HistogramDefs {
		e.histogram(def.Name, def.Help, internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(snap.Histograms[def.ID])))
	}
	e.counter(internaldefs.AuditDropped.Name, internaldefs.AuditDropped.Help, dropped)
	return e.String()
}

type exposition struct {
	strings.Builder
}

func (e *exposition) family(name, help, kind string) {
	help = strings.NewReplacer(`\`, `\\`, "\n", `\n`).Replace(help)
	fmt.Fprintf(e, "# HELP %s %s\n# TYPE %s %s\n", name, help, name, kind)
}

func (e *exposition) counter(name, help string, v uint64) {
	e.family(name, help, "counter")
	fmt.Fprintf(e, "%s %d\n", name, v)
}

// histogram writes cumulative buckets. Snapshots keep no sum, so _sum is 0.
func (e *exposition) histogram(name, help string, cumulative [8]uint64) {
	e.family(name, help, "histogram")
	for i, le := range internaldefs.HistogramBounds {
		fmt.Fprintf(e, "%s_bucket{le=%q} %d\n", name, le, cumulative[i])
	}
	fmt.Fprintf(e, "%s_count %d\n%s_sum 0\n", name, cumulative[len(cumulative)-1], name)
}
