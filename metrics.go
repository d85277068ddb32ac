package folio

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type siteMetrics struct {
	pagesRendered *prometheus.CounterVec
	buildDuration prometheus.Histogram
	indexSyncs    *prometheus.CounterVec
	entries       prometheus.Gauge
}

func newSiteMetrics(reg prometheus.Registerer) *siteMetrics {
	f := promauto.With(reg)
	return &siteMetrics{
		pagesRendered: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "pages_rendered_total",
			Help:      "Pages rendered, by page kind.",
		}, []string{"kind"}),
		buildDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "folio",
			Name:      "build_duration_seconds",
			Help:      "Wall time of static site builds.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		indexSyncs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "index_syncs_total",
			Help:      "Content index synchronisations, by result.",
		}, []string{"result"}),
		entries: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "folio",
			Name:      "blog_entries",
			Help:      "Entries in the blog collection at the last load.",
		}),
	}
}
