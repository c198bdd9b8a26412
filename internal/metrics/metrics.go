package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "daytrack"

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route pattern, method and status code.",
	}, []string{"route", "method", "code"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	activityMutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "activities",
		Name:      "mutations_total",
		Help:      "Activity create, update and delete operations.",
	}, []string{"operation"})

	overlapRejections = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "activities",
		Name:      "overlap_rejections_total",
		Help:      "Activity writes rejected because they overlapped an existing activity.",
	})

	loggedMinutes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "activities",
		Name:      "logged_minutes_total",
		Help:      "Minutes logged by newly created activities, per category.",
	}, []string{"category"})

	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "analytics",
		Name:      "cache_lookups_total",
		Help:      "Analytics cache lookups by view and result.",
	}, []string{"view", "result"})

	eventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "published_total",
		Help:      "day.changed events by publish outcome.",
	}, []string{"outcome"})

	rollups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rollup",
		Name:      "processed_total",
		Help:      "Weekly rollups by outcome.",
	}, []string{"outcome"})

	securityEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "security_events_total",
		Help:      "Rate-limited and suspicious requests.",
	}, []string{"kind"})

	lastRollup = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "rollup",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful rollup.",
	})
)

func init() {
	prometheus.MustRegister(
		httpRequests, httpDuration,
		activityMutations, overlapRejections, loggedMinutes,
		cacheLookups, eventsPublished,
		rollups, lastRollup,
		securityEvents,
	)
}

// RecordHTTP observes one finished request. route is the mux pattern, not
// the raw path, to keep label cardinality bounded.
func RecordHTTP(route, method string, code int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

func RecordActivityMutation(op string) {
	activityMutations.WithLabelValues(op).Inc()
}

func RecordOverlapRejected() {
	overlapRejections.Inc()
}

func RecordLoggedMinutes(categoryID string, minutes int) {
	if minutes <= 0 {
		return
	}
	loggedMinutes.WithLabelValues(categoryID).Add(float64(minutes))
}

func RecordCacheLookup(view string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(view, result).Inc()
}

func RecordPublish(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	eventsPublished.WithLabelValues(outcome).Inc()
}

func RecordRollup(err error, at time.Time) {
	if err != nil {
		rollups.WithLabelValues("error").Inc()
		return
	}
	rollups.WithLabelValues("ok").Inc()
	if !at.IsZero() {
		lastRollup.Set(float64(at.Unix()))
	}
}

func RecordRateLimited() {
	securityEvents.WithLabelValues("rate_limited").Inc()
}

func RecordSuspicious() {
	securityEvents.WithLabelValues("suspicious").Inc()
}
