// Package metric exposes the Prometheus counters recorded by cmscontent.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type IncrementalCounter interface {
	Increment(val ...string)
}

type Counter struct {
	Name string
	Help string

	vec *prometheus.CounterVec
}

func (c *Counter) Increment(val ...string) {
	c.vec.WithLabelValues(val...).Inc()
}

func NewCounterWithRegistry(reg prometheus.Registerer, name, help string, labels ...string) *Counter {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: help,
	}, labels)

	reg.MustRegister(counter)

	return &Counter{
		Name: name,
		Help: help,
		vec:  counter,
	}
}

// NoopCounter discards increments.
type NoopCounter struct{}

func (NoopCounter) Increment(...string) {}

// Metrics groups the counters services report to.
type Metrics struct {
	MenuNodesAllocated IncrementalCounter // label: kind
	ArticleHits        IncrementalCounter
	CommentsChecked    IncrementalCounter // label: verdict
}

// Verdict label values for CommentsChecked.
const (
	VerdictHam     = "ham"
	VerdictSpam    = "spam"
	VerdictSkipped = "skipped"
	VerdictError   = "error"
)

// NewMetrics registers the cmscontent counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		MenuNodesAllocated: NewCounterWithRegistry(reg, "cms_menu_nodes_allocated_total",
			"Menu node ids handed out, by node kind.", "kind"),
		ArticleHits: NewCounterWithRegistry(reg, "cms_article_hits_total",
			"Article detail views."),
		CommentsChecked: NewCounterWithRegistry(reg, "cms_comments_checked_total",
			"Comments run through the spam checker, by verdict.", "verdict"),
	}
}

// NoopMetrics returns counters that record nothing.
func NoopMetrics() *Metrics {
	return &Metrics{
		MenuNodesAllocated: NoopCounter{},
		ArticleHits:        NoopCounter{},
		CommentsChecked:    NoopCounter{},
	}
}

// GetHandlerForRegistry returns an HTTP handler for serving Prometheus metrics from a custom registry.
func GetHandlerForRegistry(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
