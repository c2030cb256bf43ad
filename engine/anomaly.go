package engine

import (
	"context"
	"math"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/spektr-org/spendlens/errs"
)

// ============================================================================
// ANOMALY DETECTOR — z-score over daily totals
// ============================================================================
// Uses the population standard deviation (divide by n). A day is flagged
// when |z| >= threshold. Series shorter than two days, or with zero spread,
// never produce anomalies.
// ============================================================================

// DefaultZThreshold applies when the caller passes a threshold <= 0.
const DefaultZThreshold = 2.5

// AnomalyOrder controls the order of DetectAnomalies output.
type AnomalyOrder string

const (
	// ByMagnitude sorts by |z| descending, then date ascending.
	ByMagnitude AnomalyOrder = "magnitude"
	// ByDate sorts by date ascending.
	ByDate AnomalyOrder = "date"
)

// ParseAnomalyOrder accepts "magnitude" (default for "") or "date".
func ParseAnomalyOrder(s string) (AnomalyOrder, error) {
	switch AnomalyOrder(s) {
	case ByMagnitude, "":
		return ByMagnitude, nil
	case ByDate:
		return ByDate, nil
	default:
		return "", errs.InvalidParameter("order", s, "want magnitude or date")
	}
}

func distinctDates(series []SeriesPoint) int {
	seen := make(map[string]struct{}, len(series))
	for _, p := range series {
		seen[p.Date] = struct{}{}
	}
	return len(seen)
}

// DetectAnomalies flags days whose total deviates from the series mean by at
// least threshold standard deviations. A series covering fewer than two
// distinct dates yields no anomalies.
func DetectAnomalies(series []SeriesPoint, threshold float64, order AnomalyOrder) []AnomalyPoint {
	if threshold <= 0 {
		threshold = DefaultZThreshold
	}
	if distinctDates(series) < 2 {
		return []AnomalyPoint{}
	}
	n := len(series)

	var sum float64
	for _, p := range series {
		sum += p.Cost
	}
	mean := sum / float64(n)

	var sq float64
	for _, p := range series {
		d := p.Cost - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(n))
	if std == 0 {
		return []AnomalyPoint{}
	}

	out := []AnomalyPoint{}
	for _, p := range series {
		z := (p.Cost - mean) / std
		if math.Abs(z) < threshold {
			continue
		}
		dir := DirectionDip
		if z > 0 {
			dir = DirectionSpike
		}
		out = append(out, AnomalyPoint{
			Date:      p.Date,
			Cost:      RoundTo2(p.Cost),
			ZScore:    RoundTo2(z),
			Direction: dir,
		})
	}

	sortAnomalies(out, order)
	return out
}

func sortAnomalies(points []AnomalyPoint, order AnomalyOrder) {
	if order == ByDate {
		sort.SliceStable(points, func(i, j int) bool { return points[i].Date < points[j].Date })
		return
	}
	sort.SliceStable(points, func(i, j int) bool {
		ai, aj := math.Abs(points[i].ZScore), math.Abs(points[j].ZScore)
		if ai != aj {
			return ai > aj
		}
		return points[i].Date < points[j].Date
	})
}

// ============================================================================
// PER-ENTITY DETECTION
// ============================================================================

// DetectEntityAnomalies runs detection over one entity's daily totals.
func DetectEntityAnomalies(ctx context.Context, rows []SpendRecord, entityID string, threshold float64, order AnomalyOrder) ([]AnomalyPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	view := ApplyFilter(NewSliceView(rows), &Filter{EntityID: entityID})
	return DetectAnomalies(DailyTotals(view), threshold, order), nil
}

// DetectAllEntityAnomalies runs detection for every entity in rows, one
// goroutine per entity. The result is keyed by entity ID and only holds
// entities with at least one anomaly.
func DetectAllEntityAnomalies(ctx context.Context, rows []SpendRecord, threshold float64) (map[string][]AnomalyPoint, error) {
	byEntity := make(map[string][]SpendRecord)
	var ids []string
	for _, r := range rows {
		if _, ok := byEntity[r.EntityID]; !ok {
			ids = append(ids, r.EntityID)
		}
		byEntity[r.EntityID] = append(byEntity[r.EntityID], r)
	}

	var (
		mu     sync.Mutex
		result = make(map[string][]AnomalyPoint)
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id, entityRows := id, byEntity[id]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			points := DetectAnomalies(DailyTotals(NewSliceView(entityRows)), threshold, ByDate)
			if len(points) == 0 {
				return nil
			}
			mu.Lock()
			result[id] = points
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
