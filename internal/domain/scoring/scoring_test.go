package scoring_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/okian/qualitydash/internal/domain/measure"
	scoring "github.com/okian/qualitydash/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

var polarities = []measure.Polarity{measure.HigherIsBetter, measure.LowerIsBetter}

func TestClassifier_Status(t *testing.T) {
	Convey("Given a default classifier", t, func() {
		c := scoring.NewClassifier()

		Convey("When either value is absent", func() {
			Convey("Then the status is no_data", func() {
				for _, p := range polarities {
					So(c.Status(measure.None(), measure.Some(1), p), ShouldEqual, scoring.StatusNoData)
					So(c.Status(measure.Some(1), measure.None(), p), ShouldEqual, scoring.StatusNoData)
					So(c.Status(measure.Some(math.NaN()), measure.Some(1), p), ShouldEqual, scoring.StatusNoData)
				}
			})
		})

		Convey("When a lower-is-better local value is far above the benchmark", func() {
			r := c.Evaluate(measure.Some(20.643), measure.Some(6.296), measure.LowerIsBetter)

			Convey("Then it is worse with a ~227.9% difference", func() {
				So(r.Status, ShouldEqual, scoring.StatusWorse)
				pd, ok := r.PercentDifference.Get()
				So(ok, ShouldBeTrue)
				So(pd, ShouldAlmostEqual, 227.87, 0.01)
			})
		})

		Convey("When a higher-is-better local value is ~10% below the benchmark", func() {
			r := c.Evaluate(measure.Some(3.0), measure.Some(3.34), measure.HigherIsBetter)

			Convey("Then it is worse", func() {
				So(r.Status, ShouldEqual, scoring.StatusWorse)
				pd, _ := r.PercentDifference.Get()
				So(pd, ShouldAlmostEqual, 10.18, 0.01)
			})

			Convey("And the same numbers are better under lower-is-better", func() {
				So(c.Status(measure.Some(3.0), measure.Some(3.34), measure.LowerIsBetter), ShouldEqual, scoring.StatusBetter)
			})
		})

		Convey("When values sit inside the 5% band", func() {
			Convey("Then the status is similar regardless of polarity", func() {
				pairs := [][2]float64{{100, 105}, {100, 96}, {12.0, 12.6}, {0.5, 0.5}, {-10, -10.4}}
				for _, pr := range pairs {
					for _, p := range polarities {
						So(c.Status(measure.Some(pr[0]), measure.Some(pr[1]), p), ShouldEqual, scoring.StatusSimilar)
					}
				}
			})
		})

		Convey("When the difference is exactly 5%", func() {
			for _, local := range []float64{105, 95} {
				local := local
				r := c.Evaluate(measure.Some(local), measure.Some(100), measure.HigherIsBetter)
				pd, _ := r.PercentDifference.Get()
				So(pd, ShouldEqual, 5.0)

				Convey(fmt.Sprintf("Then %v vs 100 is similar under both polarities", local), func() {
					for _, p := range polarities {
						So(c.Status(measure.Some(local), measure.Some(100), p), ShouldEqual, scoring.StatusSimilar)
					}
				})
			}
		})

		Convey("When the difference is just over 5%", func() {
			So(c.Status(measure.Some(105.01), measure.Some(100), measure.HigherIsBetter), ShouldEqual, scoring.StatusBetter)
			So(c.Status(measure.Some(105.01), measure.Some(100), measure.LowerIsBetter), ShouldEqual, scoring.StatusWorse)
			So(c.Status(measure.Some(94.99), measure.Some(100), measure.HigherIsBetter), ShouldEqual, scoring.StatusWorse)
			So(c.Status(measure.Some(94.99), measure.Some(100), measure.LowerIsBetter), ShouldEqual, scoring.StatusBetter)
		})

		Convey("When values are outside the band", func() {
			Convey("Then better follows the polarity", func() {
				for _, local := range []float64{1, 50, 89, 111, 150, 400} {
					bench := 100.0
					higher := c.Status(measure.Some(local), measure.Some(bench), measure.HigherIsBetter)
					lower := c.Status(measure.Some(local), measure.Some(bench), measure.LowerIsBetter)
					So(higher == scoring.StatusBetter, ShouldEqual, local > bench)
					So(lower == scoring.StatusBetter, ShouldEqual, local < bench)
					So(higher, ShouldNotEqual, lower)
				}
			})
		})

		Convey("When the benchmark is zero", func() {
			Convey("And the local value is zero too", func() {
				r := c.Evaluate(measure.Some(0), measure.Some(0), measure.LowerIsBetter)
				So(r.Status, ShouldEqual, scoring.StatusSimilar)
				So(r.ZeroBenchmark, ShouldBeTrue)
				So(r.PercentDifference.Valid(), ShouldBeFalse)
			})

			Convey("And the local value is non-zero", func() {
				r := c.Evaluate(measure.Some(0.2), measure.Some(0), measure.LowerIsBetter)
				So(r.Status, ShouldEqual, scoring.StatusWorse)
				So(r.ZeroBenchmark, ShouldBeTrue)
				So(c.Status(measure.Some(0.2), measure.Some(0), measure.HigherIsBetter), ShouldEqual, scoring.StatusBetter)
			})
		})

		Convey("When infinite values are passed", func() {
			So(c.Status(measure.Some(math.Inf(1)), measure.Some(1), measure.HigherIsBetter), ShouldEqual, scoring.StatusNoData)
		})
	})

	Convey("Given a classifier with a wider band", t, func() {
		c := scoring.NewClassifier(scoring.WithSimilarityPercent(15))
		So(c.SimilarityPercent(), ShouldEqual, 15.0)
		So(c.Status(measure.Some(3.0), measure.Some(3.34), measure.HigherIsBetter), ShouldEqual, scoring.StatusSimilar)
	})
}

func TestClassifier_Trend(t *testing.T) {
	Convey("Given a default classifier", t, func() {
		c := scoring.NewClassifier()
		So(c.SlopeThreshold(), ShouldEqual, 0.01)

		Convey("When the slope is inside the threshold", func() {
			Convey("Then the trend is stable regardless of polarity", func() {
				for _, s := range []float64{0.0019, -0.0019, 0, 0.01, -0.01, math.NaN()} {
					for _, p := range polarities {
						So(c.Trend(s, p), ShouldEqual, scoring.TrendStable)
					}
				}
			})
		})

		Convey("When the slope is significant", func() {
			So(c.Trend(2.682, measure.LowerIsBetter), ShouldEqual, scoring.TrendWorsening)
			So(c.Trend(-4.468, measure.LowerIsBetter), ShouldEqual, scoring.TrendImproving)
			So(c.Trend(5.99, measure.HigherIsBetter), ShouldEqual, scoring.TrendImproving)
			So(c.Trend(-0.1, measure.HigherIsBetter), ShouldEqual, scoring.TrendWorsening)
		})

		Convey("When polarity is flipped for the same slope", func() {
			Convey("Then improving and worsening swap and stable stays", func() {
				swap := map[scoring.Trend]scoring.Trend{
					scoring.TrendImproving: scoring.TrendWorsening,
					scoring.TrendWorsening: scoring.TrendImproving,
					scoring.TrendStable:    scoring.TrendStable,
				}
				for _, s := range []float64{-3, -0.5, -0.011, 0, 0.005, 0.011, 0.7, 12} {
					for _, p := range polarities {
						So(c.Trend(s, p.Flip()), ShouldEqual, swap[c.Trend(s, p)])
					}
				}
			})
		})
	})

	Convey("Given a classifier with a custom threshold", t, func() {
		c := scoring.NewClassifier(scoring.WithSlopeThreshold(0.05))
		So(c.Trend(0.04, measure.HigherIsBetter), ShouldEqual, scoring.TrendStable)
		So(c.Trend(0.06, measure.HigherIsBetter), ShouldEqual, scoring.TrendImproving)
	})
}

func TestClassifier_Priority(t *testing.T) {
	Convey("Given a default classifier", t, func() {
		c := scoring.NewClassifier()

		Convey("Then multipliers follow the trend", func() {
			So(c.Multiplier(scoring.TrendWorsening), ShouldEqual, 1.5)
			So(c.Multiplier(scoring.TrendImproving), ShouldEqual, 0.7)
			So(c.Multiplier(scoring.TrendStable), ShouldEqual, 1.0)
			So(c.Multiplier(scoring.Trend("unknown")), ShouldEqual, 1.0)
		})

		Convey("When scoring a worsening measure", func() {
			r := c.Priority(scoring.PriorityInput{MeasureID: "EDAC-30-AMI", Gap: 14.347, Weight: 10, Trend: scoring.TrendWorsening})

			Convey("Then the score is gap x weight x 1.5", func() {
				So(r.WeightedImpact, ShouldAlmostEqual, 143.47, 1e-9)
				So(r.Multiplier, ShouldEqual, 1.5)
				So(r.Score, ShouldAlmostEqual, 215.205, 1e-9)
			})
		})

		Convey("Then the score is monotone in weight and gap", func() {
			for _, tr := range []scoring.Trend{scoring.TrendImproving, scoring.TrendStable, scoring.TrendWorsening} {
				prev := -1.0
				for _, w := range []float64{0, 1, 8.3, 12.5, 16.7} {
					s := c.Priority(scoring.PriorityInput{Gap: 2, Weight: w, Trend: tr}).Score
					So(s, ShouldBeGreaterThan, prev)
					prev = s
				}
				prev = -1.0
				for _, g := range []float64{0, 0.01, 1, 5, 100} {
					s := c.Priority(scoring.PriorityInput{Gap: g, Weight: 10, Trend: tr}).Score
					So(s, ShouldBeGreaterThan, prev)
					prev = s
				}
			}
		})

		Convey("When the gap is NaN", func() {
			r := c.Priority(scoring.PriorityInput{Gap: math.NaN(), Weight: 10, Trend: scoring.TrendStable})
			So(r.Score, ShouldEqual, 0.0)
		})
	})

	Convey("Given custom multipliers", t, func() {
		c := scoring.NewClassifier(scoring.WithTrendMultipliers(2, 0.5, 1))
		So(c.Multiplier(scoring.TrendWorsening), ShouldEqual, 2.0)

		Convey("When a multiplier is not positive the defaults are kept", func() {
			c := scoring.NewClassifier(scoring.WithTrendMultipliers(0, 0.5, 1))
			So(c.Multiplier(scoring.TrendWorsening), ShouldEqual, 1.5)
		})
	})
}

func TestGapAndRanking(t *testing.T) {
	Convey("Given mean pairs", t, func() {
		g, ok := scoring.Gap(measure.Some(6.0), measure.Some(4.2))
		So(ok, ShouldBeTrue)
		So(g, ShouldAlmostEqual, 1.8, 1e-12)

		_, ok = scoring.Gap(measure.None(), measure.Some(4.2))
		So(ok, ShouldBeFalse)
	})

	Convey("Given scored results", t, func() {
		results := []scoring.PriorityResult{
			{MeasureID: "B", Gap: 1, Score: 10},
			{MeasureID: "A", Gap: 3, Score: 10},
			{MeasureID: "C", Gap: 2, Score: 30},
		}

		Convey("When ranking by priority", func() {
			scoring.RankByPriority(results)
			So([]string{results[0].MeasureID, results[1].MeasureID, results[2].MeasureID}, ShouldResemble, []string{"C", "A", "B"})
		})

		Convey("When ranking by gap", func() {
			scoring.RankByGap(results)
			So([]string{results[0].MeasureID, results[1].MeasureID, results[2].MeasureID}, ShouldResemble, []string{"A", "C", "B"})
		})
	})
}
