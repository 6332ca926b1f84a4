package service_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/okian/qualitydash/internal/adapters/repository"
	service "github.com/okian/qualitydash/internal/app"
	"github.com/okian/qualitydash/internal/dataset"
	"github.com/okian/qualitydash/internal/domain/measure"
	"github.com/okian/qualitydash/internal/domain/scoring"
	"github.com/okian/qualitydash/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

const fixtureMeasures = `
measures:
  - id: A
    name: Alpha
    domain: Mortality
    weight: 10
    polarity: lower
    observations:
      - { period: "2023", local: 11, benchmark: 10 }
      - { period: "2024", local: 12, benchmark: 10 }
      - { period: "2025", local: 13, benchmark: 0 }
      - { period: "2026", local: 14, benchmark: 10, forecast: true }
    summary: { local_mean: 12, benchmark_mean: 10, local_slope: 0.5 }
  - id: B
    name: Bravo
    domain: Mortality
    weight: 5
    polarity: higher
    summary: { local_mean: 90, benchmark_mean: 80, local_slope: -0.2 }
  - id: C
    name: Charlie
    domain: Readmission
    weight: 0
    polarity: lower
    summary: { local_mean: 5, benchmark_mean: 4, local_slope: 1 }
  - id: D
    name: Delta
    domain: Readmission
    weight: 8
    polarity: lower
    summary: { local_mean: 3, benchmark_mean: 3.1, local_slope: -0.005 }
  - id: E
    name: Echo
    domain: Outcome
    weight: 1
    polarity: higher
    summary: { local_mean: 7 }
`

const fixtureDisplay = `
overrides:
  A: { local_slope: 0.9, benchmark_slope: 0.1 }
`

func fixtureService(opts ...service.Option) *service.Service {
	fsys := fstest.MapFS{
		"m.yaml": {Data: []byte(fixtureMeasures)},
		"d.yaml": {Data: []byte(fixtureDisplay)},
	}
	opts = append(opts, service.WithDatasetOptions(dataset.WithFS(fsys, []string{"m.yaml"}, "d.yaml")))
	return service.New(opts...)
}

func ids(entries []repository.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.MeasureID)
	}
	return out
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		ctx := context.Background()
		svc := fixtureService()
		defer svc.Stop()

		Convey("When it is not started", func() {
			_, err := svc.Priorities(ctx, 3)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})

		Convey("When starting the service", func() {
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then stats describe the snapshot", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["measures"], ShouldEqual, 5)
				So(stats["excluded"], ShouldEqual, 1)
				So(stats["ranked"], ShouldEqual, 3)
				So(stats["snapshot_id"], ShouldNotBeEmpty)
			})

			Convey("And starting again is a no-op", func() {
				id := svc.GetStats()["snapshot_id"]
				So(svc.Start(ctx), ShouldBeNil)
				So(svc.GetStats()["snapshot_id"], ShouldEqual, id)
			})

			Convey("And stopping releases the snapshot", func() {
				svc.Stop()
				_, err := svc.Measures(ctx, "")
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})

	Convey("Given a broken dataset", t, func() {
		fsys := fstest.MapFS{"bad.yaml": {Data: []byte("measures: [")}}
		svc := service.New(service.WithDatasetOptions(dataset.WithFS(fsys, []string{"bad.yaml"}, "")))

		Convey("Then Start fails with a decode error", func() {
			So(errors.Is(svc.Start(context.Background()), dataset.ErrDecode), ShouldBeTrue)
		})
	})
}

func TestService_Views(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := fixtureService()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When reading a measure with a series", func() {
			v, err := svc.Measure(ctx, "A")
			So(err, ShouldBeNil)

			Convey("Then the mean status and trend are derived", func() {
				So(v.Status.Status, ShouldEqual, scoring.StatusWorse)
				So(v.Trend, ShouldEqual, scoring.TrendWorsening)
				So(v.Priority.Score, ShouldAlmostEqual, 30.0, 1e-9)
				So(v.Ranked, ShouldBeTrue)
			})

			Convey("And the latest period skips the forecast", func() {
				So(v.Latest, ShouldNotBeNil)
				So(v.Latest.Period, ShouldEqual, "2025")
				So(v.Latest.Status.ZeroBenchmark, ShouldBeTrue)
				So(v.CurrentStatus, ShouldEqual, scoring.StatusWorse)
				So(v.Previous.Period, ShouldEqual, "2024")
				change, ok := v.ChangePercent.Get()
				So(ok, ShouldBeTrue)
				So(change, ShouldAlmostEqual, 8.3333, 1e-3)
			})

			Convey("And forecast rows carry no status", func() {
				So(v.Observations[3].Status.Status, ShouldEqual, scoring.StatusNoData)
			})
		})

		Convey("When reading measures that cannot be ranked", func() {
			c, _ := svc.Measure(ctx, "C")
			e, _ := svc.Measure(ctx, "E")
			So(c.Ranked, ShouldBeFalse)
			So(e.Ranked, ShouldBeFalse)
			So(e.Status.Status, ShouldEqual, scoring.StatusNoData)
		})

		Convey("When reading an unknown measure", func() {
			_, err := svc.Measure(ctx, "nope")
			So(errors.Is(err, service.ErrMeasureNotFound), ShouldBeTrue)
		})

		Convey("When filtering by domain", func() {
			views, err := svc.Measures(ctx, "readmission")
			So(err, ShouldBeNil)
			So(len(views), ShouldEqual, 2)

			_, err = svc.Measures(ctx, "Cardiology")
			So(errors.Is(err, service.ErrUnknownDomain), ShouldBeTrue)
		})
	})
}

func TestService_Rankings(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := fixtureService()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then priorities are ordered by score", func() {
			entries, err := svc.Priorities(ctx, 10)
			So(err, ShouldBeNil)
			So(ids(entries), ShouldResemble, []string{"B", "A", "D"})
			So(entries[0].Score, ShouldAlmostEqual, 75.0, 1e-9)
			So(entries[2].Rank, ShouldEqual, 3)
		})

		Convey("And the gap view is ordered by raw gap", func() {
			entries, err := svc.GapRanking(ctx, 2)
			So(err, ShouldBeNil)
			So(ids(entries), ShouldResemble, []string{"B", "A"})
		})

		Convey("And underperforming keeps only worse measures", func() {
			entries, err := svc.Underperforming(ctx, 10)
			So(err, ShouldBeNil)
			So(ids(entries), ShouldResemble, []string{"A"})
			So(entries[0].Rank, ShouldEqual, 1)
		})

		Convey("And rank lookups match the priority view", func() {
			e, err := svc.Rank(ctx, "D")
			So(err, ShouldBeNil)
			So(e.Rank, ShouldEqual, 3)
			_, err = svc.Rank(ctx, "C")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("And invalid limits are rejected", func() {
			_, err := svc.Priorities(ctx, 0)
			So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
			_, err = svc.Underperforming(ctx, 0)
			So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
		})
	})
}

func TestService_Aggregates(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := fixtureService()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When summarizing all measures", func() {
			s, err := svc.Summary(ctx, "")
			So(err, ShouldBeNil)
			So(s.Total, ShouldEqual, 5)
			So(s.Excluded, ShouldEqual, 1)
			So(s.Trends.Worsening, ShouldEqual, 2)
			So(s.Trends.Stable, ShouldEqual, 2)
			So(s.Statuses.Better, ShouldEqual, 1)
			So(s.Statuses.Similar, ShouldEqual, 1)
			So(s.Statuses.Worse, ShouldEqual, 1)
			So(s.Statuses.NoData, ShouldEqual, 1)
		})

		Convey("When computing the weighted distribution", func() {
			d, err := svc.Distribution(ctx, "")
			So(err, ShouldBeNil)
			So(d.TotalWeight, ShouldEqual, 23.0)
			So(d.Worse, ShouldAlmostEqual, 1000.0/23, 1e-9)
			So(d.Better+d.Similar+d.Worse, ShouldAlmostEqual, 100.0, 1e-9)
		})

		Convey("When building the slope chart of a domain", func() {
			chart, err := svc.Slopes(ctx, "Mortality")
			So(err, ShouldBeNil)
			So(chart.Q3, ShouldEqual, 0.5)
			So(chart.Outliers, ShouldBeEmpty)
			So(len(chart.Regular), ShouldEqual, 2)
			So(chart.Regular[0].Adjusted, ShouldBeTrue)
			So(chart.Regular[0].LocalSlope, ShouldEqual, 0.5)
			So(chart.Regular[0].DisplayLocalSlope, ShouldEqual, 0.9)
		})

		Convey("When the domain is unknown", func() {
			_, err := svc.Summary(ctx, "Oncology")
			So(errors.Is(err, service.ErrUnknownDomain), ShouldBeTrue)
		})
	})
}

func TestService_Classify(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()

		Convey("When classifying a known measure", func() {
			svc := fixtureService()
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			res, err := svc.Classify(ctx, service.ClassifyRequest{
				MeasureID: "A", Local: measure.Some(20.643), Benchmark: measure.Some(6.296), Slope: 0.0019,
			})
			So(err, ShouldBeNil)
			So(res.Fallback, ShouldBeFalse)
			So(res.Polarity, ShouldEqual, measure.LowerIsBetter)
			So(res.Status.Status, ShouldEqual, scoring.StatusWorse)
			So(res.Trend, ShouldEqual, scoring.TrendStable)
		})

		Convey("When classifying an unknown id", func() {
			svc := fixtureService()
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			res, err := svc.Classify(ctx, service.ClassifyRequest{
				MeasureID: "ZZZ", Local: measure.Some(1), Benchmark: measure.Some(2),
			})
			So(err, ShouldBeNil)
			So(res.Fallback, ShouldBeTrue)
			So(res.Polarity, ShouldEqual, measure.HigherIsBetter)
			So(res.Status.Status, ShouldEqual, scoring.StatusWorse)
		})

		Convey("When the default polarity is lower-is-better", func() {
			svc := fixtureService(service.WithDefaultPolarity(measure.LowerIsBetter))
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			res, _ := svc.Classify(ctx, service.ClassifyRequest{
				MeasureID: "ZZZ", Local: measure.Some(1), Benchmark: measure.Some(2),
			})
			So(res.Status.Status, ShouldEqual, scoring.StatusBetter)
		})
	})
}

func TestService_EmbeddedDataset(t *testing.T) {
	Convey("Given the service on the embedded dataset", t, func() {
		ctx := context.Background()
		svc := service.New()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then the AMI excess days measure is worse and worsening", func() {
			v, err := svc.Measure(ctx, "EDAC-30-AMI")
			So(err, ShouldBeNil)
			So(v.Status.Status, ShouldEqual, scoring.StatusWorse)
			So(v.Trend, ShouldEqual, scoring.TrendWorsening)
			So(v.Priority.Multiplier, ShouldEqual, 1.5)
			So(v.Latest.Period, ShouldEqual, "2025")
		})

		Convey("And every domain yields a slope chart", func() {
			for _, d := range []string{"Mortality", "Readmission", "Safety of Care", "Patient Experience", "Timely & Effective Care"} {
				chart, err := svc.Slopes(ctx, d)
				So(err, ShouldBeNil)
				So(len(chart.Regular)+len(chart.Outliers), ShouldBeGreaterThan, 0)
			}
		})

		Convey("And priorities are non-increasing", func() {
			entries, err := svc.Priorities(ctx, 100)
			So(err, ShouldBeNil)
			for i := 1; i < len(entries); i++ {
				So(entries[i].Score, ShouldBeLessThanOrEqualTo, entries[i-1].Score)
			}
		})
	})
}
