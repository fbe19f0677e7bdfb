package dashboard

import (
	"cmp"
	"math"
	"slices"

	"ridepulse/pkg/contracts/domain"
)

// histogramBins is the bucket count of every histogram
const histogramBins = 20

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ratio divides, returning 0 for a zero denominator
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// percent is num/den*100 rounded to two decimals, 0 for a zero denominator
func percent(num, den float64) float64 {
	return round2(ratio(num, den) * 100)
}

// meanAcc accumulates a running sum for a mean
type meanAcc struct {
	sum float64
	n   int
}

func (m *meanAcc) add(v float64) {
	m.sum += v
	m.n++
}

func (m meanAcc) mean() float64 {
	return ratio(m.sum, float64(m.n))
}

// distinct counts unique non-empty string keys
type distinct map[string]struct{}

func (d distinct) add(key string) {
	if key != "" {
		d[key] = struct{}{}
	}
}

func (d distinct) count() int { return len(d) }

// groups keeps one accumulator per key and remembers first-encounter order
type groups[K cmp.Ordered, T any] struct {
	order []K
	accs  map[K]*T
}

func newGroups[K cmp.Ordered, T any]() *groups[K, T] {
	return &groups[K, T]{accs: make(map[K]*T)}
}

// at returns the accumulator for key, creating it on first use
func (g *groups[K, T]) at(key K) *T {
	acc, ok := g.accs[key]
	if !ok {
		acc = new(T)
		g.accs[key] = acc
		g.order = append(g.order, key)
	}
	return acc
}

// sumInto adds v under key. Blank keys are not groups: the row still counts
// toward frame totals but forms no bar or table entry of its own.
func sumInto(g *groups[string, float64], key string, v float64) {
	if key != "" {
		*g.at(key) += v
	}
}

// sorted returns the keys in ascending order
func (g *groups[K, T]) sorted() []K {
	keys := slices.Clone(g.order)
	slices.Sort(keys)
	return keys
}

// sumsByKey returns per-key sums sorted by key
func sumsByKey(g *groups[string, float64]) []domain.LabeledValue {
	out := make([]domain.LabeledValue, 0, len(g.order))
	for _, k := range g.sorted() {
		out = append(out, domain.LabeledValue{Label: k, Value: *g.at(k)})
	}
	return out
}

// dateOf converts a day key back into a calendar date
func dateOf(key int64) domain.Date {
	return domain.NewDate(unixDay(key))
}

// valueCounts counts non-empty values, most frequent first, ties by encounter order
func valueCounts(values []string) []domain.ReasonCount {
	counts := newGroups[string, int]()
	for _, v := range values {
		if v == "" {
			continue
		}
		*counts.at(v)++
	}

	out := make([]domain.ReasonCount, 0, len(counts.order))
	for _, k := range counts.order {
		out = append(out, domain.ReasonCount{Reason: k, Count: *counts.at(k)})
	}
	slices.SortStableFunc(out, func(a, b domain.ReasonCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return out
}

// valueRange returns the minimum and maximum over every value of every column
func valueRange(columns ...[]float64) (lo, hi float64, ok bool) {
	for _, col := range columns {
		for _, v := range col {
			if !ok {
				lo, hi, ok = v, v, true
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi, ok
}

// histogramEdges splits [lo, hi] into equal-width bins. A degenerate range is
// widened by half a unit on each side.
func histogramEdges(lo, hi float64, bins int) (float64, float64) {
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	return lo, (hi - lo) / float64(bins)
}

// histogram buckets values over bins starting at lo with the given width. Each
// bin is half-open except the last, which also holds the maximum.
func histogram(values []float64, lo, width float64, bins int) []domain.HistogramBin {
	out := make([]domain.HistogramBin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	for _, v := range values {
		idx := int(math.Floor((v - lo) / width))
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		out[idx].Count++
	}
	return out
}

// histogramOf buckets a single column; empty input yields no bins
func histogramOf(values []float64) []domain.HistogramBin {
	lo, hi, ok := valueRange(values)
	if !ok {
		return []domain.HistogramBin{}
	}
	start, width := histogramEdges(lo, hi, histogramBins)
	return histogram(values, start, width, histogramBins)
}
