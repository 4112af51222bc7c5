// Package observability wires Prometheus metrics into the engine's
// lifecycle hooks and exposes them over HTTP.
package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ncardoz/cesta/pkg/domain"
)

// Metrics holds the collectors fed by lifecycle hooks.
type Metrics struct {
	registry     *prometheus.Registry
	nodeVisits   *prometheus.CounterVec
	nodeFailures *prometheus.CounterVec
	toolDuration *prometheus.HistogramVec
	toolErrors   *prometheus.CounterVec
	intents      *prometheus.CounterVec
}

// New creates and registers the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		nodeVisits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cesta",
			Name:      "workflow_node_visits_total",
			Help:      "Workflow node executions, by node.",
		}, []string{"node"}),
		nodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cesta",
			Name:      "workflow_node_failures_total",
			Help:      "Workflow node executions that did not commit, by node.",
		}, []string{"node"}),
		toolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cesta",
			Name:      "tool_duration_seconds",
			Help:      "Tool execution latency, by tool.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
		toolErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cesta",
			Name:      "tool_errors_total",
			Help:      "Tool executions that returned an error payload, by tool.",
		}, []string{"tool"}),
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cesta",
			Name:      "conversation_intents_total",
			Help:      "Classified conversation intents.",
		}, []string{"intent"}),
	}
	m.registry.MustRegister(m.nodeVisits, m.nodeFailures, m.toolDuration, m.toolErrors, m.intents)
	return m
}

// Hooks returns lifecycle hooks feeding the collectors. Safe to combine
// with other hooks via Merge.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(_ context.Context, ev *domain.NodeEvent) {
			m.nodeVisits.WithLabelValues(ev.NodeID).Inc()
		},
		OnToolReturn: func(_ context.Context, ev *domain.ToolEvent) {
			m.toolDuration.WithLabelValues(ev.ToolName).Observe(ev.Duration.Seconds())
			if ev.IsError {
				m.toolErrors.WithLabelValues(ev.ToolName).Inc()
			}
		},
	}
}

// ObserveNodeFailure records an aborted node execution.
func (m *Metrics) ObserveNodeFailure(node string) {
	m.nodeFailures.WithLabelValues(node).Inc()
}

// ObserveIntent records one classified intent.
func (m *Metrics) ObserveIntent(intent domain.Intent) {
	m.intents.WithLabelValues(string(intent)).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Merge combines hook sets; every non-nil callback fires.
func Merge(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var merged domain.LifecycleHooks
	for _, hooks := range sets {
		hooks := hooks
		merged = domain.LifecycleHooks{
			OnNodeEnter:  chainNode(merged.OnNodeEnter, hooks.OnNodeEnter),
			OnNodeLeave:  chainNode(merged.OnNodeLeave, hooks.OnNodeLeave),
			OnToolCall:   chainTool(merged.OnToolCall, hooks.OnToolCall),
			OnToolReturn: chainTool(merged.OnToolReturn, hooks.OnToolReturn),
		}
	}
	return merged
}

func chainNode(a, b func(context.Context, *domain.NodeEvent)) func(context.Context, *domain.NodeEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, ev *domain.NodeEvent) {
		a(ctx, ev)
		b(ctx, ev)
	}
}

func chainTool(a, b func(context.Context, *domain.ToolEvent)) func(context.Context, *domain.ToolEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, ev *domain.ToolEvent) {
		a(ctx, ev)
		b(ctx, ev)
	}
}
