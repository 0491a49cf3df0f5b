package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func familyNames(reg *prometheus.Registry) map[string]bool {
	names := map[string]bool{}
	mfs, err := reg.Gather()
	So(err, ShouldBeNil)
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	return names
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a custom registry and options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should register metrics under the namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.cacheHits.WithLabelValues("standings").Inc()
				manager.upstreamRequests.WithLabelValues("standings", "200").Inc()

				names := familyNames(registry)
				So(names["test_unit_cache_hits_total"], ShouldBeTrue)
				So(names["test_unit_upstream_requests_total"], ShouldBeTrue)
			})
		})

		Convey("When empty options are passed", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "footstats")
				So(manager.subsystem, ShouldEqual, "dashboard")
				So(manager.histogramBuckets, ShouldResemble, defaultBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording every metric", func() {
			So(func() {
				RecordCacheHit("standings")
				RecordCacheMiss("teams", "expired")
				RecordCacheWriteError("team")
				RecordUpstreamRequest("standings", "200", 120)
				RecordUpstreamFallback()
				RecordEntitiesBuilt("player", 25)
				RecordEntitiesSkipped("match", 1)
				UpdateFavoritesTotal(3)
				RecordHTTPRequest("standings", "GET", "200")
				RecordHTTPRequestDuration("standings", "GET", "200", 3)
				RecordErrorByEndpoint("team", "GET", "not_found")
				RecordErrorByType("not_found", "medium")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(12)
			}, ShouldNotPanic)

			Convey("Then the custom registry exposes them", func() {
				names := familyNames(GetRegistry())
				So(names["footstats_dashboard_cache_misses_total"], ShouldBeTrue)
				So(names["footstats_dashboard_entities_skipped_total"], ShouldBeTrue)
				So(names["footstats_dashboard_favorites_total"], ShouldBeTrue)
				So(names["footstats_dashboard_http_requests_total"], ShouldBeTrue)
			})
		})
	})
}
