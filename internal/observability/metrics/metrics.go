// Package metrics defines the metric names and tags emitted by doctrack.
package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/target/doctrack-api/internal/observability/errors"
	"github.com/target/doctrack-api/internal/observability/statsd"
)

// Result tags.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultHit     = "hit"
	ResultMiss    = "miss"
)

// RequestMetric describes one served HTTP request.
type RequestMetric struct {
	Route    string // mux pattern, e.g. "GET /documents"
	Status   int
	Duration time.Duration
}

// EmitRequest records the request count and latency tagged by route and status class.
func EmitRequest(sink statsd.Sink, in RequestMetric) {
	if sink == nil {
		return
	}
	route := in.Route
	if route == "" {
		route = "unmatched"
	}
	tags := map[string]string{
		"route":        route,
		"status":       strconv.Itoa(in.Status),
		"status_class": strconv.Itoa(in.Status/100) + "xx",
	}
	sink.Count("http.requests", 1, tags)
	sink.Timing("http.duration", in.Duration, CloneTags(tags))
}

// EmitCacheLookup records a job catalog cache lookup. A non-nil err marks a cache failure.
func EmitCacheLookup(sink statsd.Sink, hit bool, err error) {
	if sink == nil {
		return
	}
	tags := map[string]string{"cache": "job_catalog", "result": ResultMiss}
	switch {
	case err != nil:
		tags["result"] = ResultError
		tags["error_class"] = obserrors.Classify(err)
	case hit:
		tags["result"] = ResultHit
	}
	sink.Count("cache.lookup", 1, tags)
}

// EmitEventPublish records the outcome of a document event publish.
func EmitEventPublish(sink statsd.Sink, eventType string, err error) {
	if sink == nil {
		return
	}
	tags := map[string]string{"event_type": eventType, "result": ResultSuccess}
	if err != nil {
		tags["result"] = ResultError
		tags["error_class"] = obserrors.Classify(err)
	}
	sink.Count("events.published", 1, tags)
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
