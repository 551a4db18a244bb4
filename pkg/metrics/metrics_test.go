package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "mergington")
				So(manager.subsystem, ShouldEqual, "activities")
				So(manager.enabled, ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithPrometheusRegistry(registry),
			)

			Convey("Then options should be applied", func() {
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.subsystem, ShouldEqual, "test_subsystem")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
			})
		})

		Convey("When empty options are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "mergington")
				So(manager.subsystem, ShouldEqual, "activities")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(registry))

		Convey("When recording operations", func() {
			So(m.RecordOperation(OpSignup, OutcomeOK), ShouldBeNil)
			So(m.RecordOperation(OpSignup, OutcomeOK), ShouldBeNil)
			So(m.RecordOperation(OpSignup, OutcomeDuplicate), ShouldBeNil)
			So(m.RecordOperation(OpUnregister, OutcomeParticipantGone), ShouldBeNil)

			Convey("Then counters should reflect each outcome", func() {
				So(testutil.ToFloat64(m.operations.WithLabelValues(OpSignup, OutcomeOK)), ShouldEqual, 2)
				So(testutil.ToFloat64(m.operations.WithLabelValues(OpSignup, OutcomeDuplicate)), ShouldEqual, 1)
				So(testutil.ToFloat64(m.operations.WithLabelValues(OpUnregister, OutcomeParticipantGone)), ShouldEqual, 1)
			})
		})

		Convey("When recording an unknown outcome", func() {
			err := m.RecordOperation(OpSignup, "exploded")

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, ErrUnknownOutcome), ShouldBeTrue)
			})
		})

		Convey("When updating gauges", func() {
			m.SetActivities(9)
			m.SetParticipants("Chess Club", 3)

			Convey("Then gauges should hold the last value", func() {
				So(testutil.ToFloat64(m.activitiesTotal), ShouldEqual, 9)
				So(testutil.ToFloat64(m.participantsTotal.WithLabelValues("Chess Club")), ShouldEqual, 3)
			})
		})

		Convey("When recording HTTP metrics", func() {
			m.RecordHTTPRequest("activities", "GET", "200", 1.5)
			m.RecordHTTPError("signup", "POST", "not_found")

			Convey("Then they should be collected", func() {
				So(testutil.ToFloat64(m.httpRequests.WithLabelValues("activities", "GET", "200")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.errorRateByEndpoint.WithLabelValues("signup", "POST", "not_found")), ShouldEqual, 1)
			})
		})

		Convey("When recording system metrics", func() {
			So(func() { m.UpdateSystem(1024, 12, 0.3) }, ShouldNotPanic)
			So(testutil.ToFloat64(m.systemGoroutineCount), ShouldEqual, 12)
		})
	})
}

func TestMetricsDisabled(t *testing.T) {
	Convey("Given a disabled manager", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()), WithMetricsEnabled(false))

		Convey("When recording", func() {
			So(m.RecordOperation(OpSignup, OutcomeOK), ShouldBeNil)
			m.SetActivities(4)

			Convey("Then nothing should be collected", func() {
				So(testutil.ToFloat64(m.operations.WithLabelValues(OpSignup, OutcomeOK)), ShouldEqual, 0)
				So(testutil.ToFloat64(m.activitiesTotal), ShouldEqual, 0)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then helpers should not panic", func() {
			So(func() {
				_ = RecordOperation(OpUnregister, OutcomeOK)
				UpdateActivities(3)
				UpdateParticipants("Gym Class", 2)
				RecordHTTPRequest("healthz", "GET", "200", 0.2)
				RecordErrorByEndpoint("signup", "POST", "client_error")
				UpdateSystem(2048, 5, 0)
			}, ShouldNotPanic)
		})

		Convey("And the registry should gather registered families", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
