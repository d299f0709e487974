package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline reúne os coletores do pipeline de normalização e exportação.
// Um *Pipeline nil é válido e ignora todas as observações.
type Pipeline struct {
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	cacheLookups     *prometheus.CounterVec
	marketsAdded     *prometheus.CounterVec
	exports          *prometheus.CounterVec
	exportRows       prometheus.Counter
	recorderErrors   *prometheus.CounterVec
}

// NewPipeline cria e registra os coletores no registerer informado
func NewPipeline(reg prometheus.Registerer) *Pipeline {
	p := &Pipeline{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slip_upstream_requests_total",
			Help: "requisições ao fornecedor de odds por tipo e resultado",
		}, []string{"kind", "status"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "slip_upstream_request_seconds",
			Help:    "latência das requisições ao fornecedor de odds",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slip_cache_lookups_total",
			Help: "consultas ao cache de odds por tipo e resultado (hit|miss|error)",
		}, []string{"kind", "result"}),
		marketsAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slip_markets_added_total",
			Help: "mercados adicionados à seleção por categoria",
		}, []string{"category"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slip_exports_total",
			Help: "exportações CSV geradas (edited=true quando veio da cópia de staging)",
		}, []string{"edited"}),
		exportRows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "slip_export_rows_total",
			Help: "linhas escritas em exportações CSV",
		}),
		recorderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slip_export_recorder_errors_total",
			Help: "falhas ao registrar exportações por estágio",
		}, []string{"stage"}),
	}

	reg.MustRegister(
		p.upstreamRequests,
		p.upstreamLatency,
		p.cacheLookups,
		p.marketsAdded,
		p.exports,
		p.exportRows,
		p.recorderErrors,
	)
	return p
}

func (p *Pipeline) ObserveUpstream(kind, status string, d time.Duration) {
	if p == nil {
		return
	}
	p.upstreamRequests.WithLabelValues(kind, status).Inc()
	p.upstreamLatency.WithLabelValues(kind).Observe(d.Seconds())
}

func (p *Pipeline) CacheLookup(kind, result string) {
	if p == nil {
		return
	}
	p.cacheLookups.WithLabelValues(kind, result).Inc()
}

func (p *Pipeline) MarketAdded(category string) {
	if p == nil {
		return
	}
	p.marketsAdded.WithLabelValues(category).Inc()
}

func (p *Pipeline) Exported(rows int, edited bool) {
	if p == nil {
		return
	}
	label := "false"
	if edited {
		label = "true"
	}
	p.exports.WithLabelValues(label).Inc()
	p.exportRows.Add(float64(rows))
}

func (p *Pipeline) RecorderError(stage string) {
	if p == nil {
		return
	}
	p.recorderErrors.WithLabelValues(stage).Inc()
}
