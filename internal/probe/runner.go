package probe

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/qualitydash/pkg/logger"
)

// Run executes every check against the dashboard at cfg.BaseURL. Transport
// failures abort the run; failed checks are reported and wrapped in ErrChecks.
func Run(ctx context.Context, cfg *Config) (Report, error) {
	start := time.Now()
	log := logger.Named("probe")
	log.Info(ctx, "starting dashboard probe",
		logger.String("base_url", cfg.BaseURL),
		logger.Int("limit", cfg.Limit),
		logger.Int("workers", cfg.Workers))

	c := newClient(cfg)
	var rep Report

	// Step 1: health
	if err := c.health(ctx); err != nil {
		return rep, err
	}

	// Step 2: priority ordering
	top, err := c.priorities(ctx, "priority", cfg.Limit)
	if err != nil {
		return rep, err
	}
	rep.Results = append(rep.Results, checkOrdering("priority_order", top, true))

	// Step 3: every ranked entry resolves to the same rank and score
	res, err := checkRanks(ctx, c, top, cfg.Workers)
	if err != nil {
		return rep, err
	}
	rep.Results = append(rep.Results, res)

	// Step 4: underperforming holds only worse measures
	under, err := c.priorities(ctx, "underperforming", cfg.Limit)
	if err != nil {
		return rep, err
	}
	rep.Results = append(rep.Results, checkUnderperforming(under), checkOrdering("underperforming_order", under, false))

	// Step 5: gap view is ordered by gap
	gap, err := c.priorities(ctx, "gap", cfg.Limit)
	if err != nil {
		return rep, err
	}
	rep.Results = append(rep.Results, checkOrdering("gap_order", gap, true))

	// Step 6: summary arithmetic
	sum, err := c.summary(ctx)
	if err != nil {
		return rep, err
	}
	rep.Results = append(rep.Results, checkSummary(sum)...)

	rep.Duration = time.Since(start)
	failed := rep.Failed()
	for _, f := range failed {
		log.Warn(ctx, "check failed", logger.String("check", f.Name), logger.String("detail", f.Detail))
	}
	log.Info(ctx, "probe completed",
		logger.Int("checks", len(rep.Results)),
		logger.Int("failed", len(failed)),
		logger.Duration("took", rep.Duration))
	if len(failed) > 0 {
		return rep, fmt.Errorf("%w: %d of %d", ErrChecks, len(failed), len(rep.Results))
	}
	return rep, nil
}

// checkOrdering verifies non-increasing scores and consecutive ranks. With
// shared set, equal scores must share a rank; otherwise ranks are positions.
func checkOrdering(name string, entries []Entry, shared bool) Result {
	for i := range entries {
		if i == 0 {
			if entries[0].Rank != 1 {
				return Result{Name: name, Detail: fmt.Sprintf("first rank is %d", entries[0].Rank)}
			}
			continue
		}
		prev, cur := entries[i-1], entries[i]
		if cur.Score > prev.Score {
			return Result{Name: name, Detail: fmt.Sprintf("%s scores above %s", cur.MeasureID, prev.MeasureID)}
		}
		want := prev.Rank + 1
		if shared && cur.Score == prev.Score {
			want = prev.Rank
		}
		if cur.Rank != want {
			return Result{Name: name, Detail: fmt.Sprintf("%s has rank %d, want %d", cur.MeasureID, cur.Rank, want)}
		}
	}
	return Result{Name: name, Passed: true}
}

func checkUnderperforming(entries []Entry) Result {
	for _, e := range entries {
		if e.Status != "worse" {
			return Result{Name: "underperforming_filter", Detail: fmt.Sprintf("%s has status %s", e.MeasureID, e.Status)}
		}
	}
	return Result{Name: "underperforming_filter", Passed: true}
}

// checkRanks looks up every entry by id with at most workers requests in flight.
func checkRanks(ctx context.Context, c *client, entries []Entry, workers int) (Result, error) {
	mismatches := make([]string, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			got, err := c.rank(gctx, e.MeasureID)
			if err != nil {
				return err
			}
			if got.Rank != e.Rank || got.Score != e.Score {
				mismatches[i] = fmt.Sprintf("%s: rank %d score %.3f, listed %d %.3f",
					e.MeasureID, got.Rank, got.Score, e.Rank, e.Score)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	for _, m := range mismatches {
		if m != "" {
			return Result{Name: "rank_lookup", Detail: m}, nil
		}
	}
	return Result{Name: "rank_lookup", Passed: true}, nil
}

func checkSummary(doc summaryDoc) []Result {
	s, d := doc.Summary, doc.Distribution
	counted := s.Total - s.Excluded

	statuses := Result{Name: "summary_statuses", Passed: true}
	if n := s.Statuses.Better + s.Statuses.Similar + s.Statuses.Worse + s.Statuses.NoData; n != counted {
		statuses = Result{Name: "summary_statuses", Detail: fmt.Sprintf("statuses sum to %d, want %d", n, counted)}
	}

	trends := Result{Name: "summary_trends", Passed: true}
	if n := s.Trends.Improving + s.Trends.Worsening + s.Trends.Stable; n != counted {
		trends = Result{Name: "summary_trends", Detail: fmt.Sprintf("trends sum to %d, want %d", n, counted)}
	}

	dist := Result{Name: "distribution_total", Passed: true}
	if d.TotalWeight > 0 {
		if sum := d.Better + d.Similar + d.Worse; math.Abs(sum-percentTotal) > percentSlack {
			dist = Result{Name: "distribution_total", Detail: fmt.Sprintf("percentages sum to %.6f", sum)}
		}
	}
	return []Result{statuses, trends, dist}
}
