package dashboard

import (
	"sort"
	"time"

	"github.com/RoaringBitmap/roaring"

	"ridepulse/internal/bookings"
	"ridepulse/pkg/contracts/domain"
)

const secondsPerDay = 24 * 60 * 60

// dayKey maps a calendar date onto a sortable integer key
func dayKey(d domain.Date) int64 {
	return d.Unix() / secondsPerDay
}

// unixDay is the inverse of dayKey
func unixDay(key int64) time.Time {
	return time.Unix(key*secondsPerDay, 0).UTC()
}

// Index holds row-ordinal bitmaps for every filterable column of a table.
// It is built once and only read afterwards.
type Index struct {
	days      []int64
	byDay     map[int64]*roaring.Bitmap
	byVehicle map[string]*roaring.Bitmap
	byStatus  map[string]*roaring.Bitmap
	byPayment map[string]*roaring.Bitmap
}

// NewIndex scans the table once and builds its bitmaps
func NewIndex(table *bookings.Table) *Index {
	ix := &Index{
		byDay:     make(map[int64]*roaring.Bitmap),
		byVehicle: make(map[string]*roaring.Bitmap),
		byStatus:  make(map[string]*roaring.Bitmap),
		byPayment: make(map[string]*roaring.Bitmap),
	}

	for i := 0; i < table.Len(); i++ {
		row := table.Row(i)
		ordinal := uint32(i)

		key := dayKey(row.DateOnly)
		bm, ok := ix.byDay[key]
		if !ok {
			bm = roaring.New()
			ix.byDay[key] = bm
			ix.days = append(ix.days, key)
		}
		bm.Add(ordinal)

		addTo(ix.byVehicle, row.VehicleType, ordinal)
		addTo(ix.byStatus, row.Status, ordinal)
		addTo(ix.byPayment, row.PaymentMethod, ordinal)
	}

	sort.Slice(ix.days, func(i, j int) bool { return ix.days[i] < ix.days[j] })
	for _, bm := range ix.byDay {
		bm.RunOptimize()
	}
	return ix
}

func addTo(m map[string]*roaring.Bitmap, key string, ordinal uint32) {
	bm, ok := m[key]
	if !ok {
		bm = roaring.New()
		m[key] = bm
	}
	bm.Add(ordinal)
}

// dateRange returns the rows whose DateOnly lies in [start, end]
func (ix *Index) dateRange(start, end domain.Date) *roaring.Bitmap {
	lo, hi := dayKey(start), dayKey(end)
	if lo > hi {
		return roaring.New()
	}

	first := sort.Search(len(ix.days), func(i int) bool { return ix.days[i] >= lo })
	var parts []*roaring.Bitmap
	for _, day := range ix.days[first:] {
		if day > hi {
			break
		}
		parts = append(parts, ix.byDay[day])
	}
	if len(parts) == 0 {
		return roaring.New()
	}
	return roaring.FastOr(parts...)
}

// narrow intersects bm with the rows carrying value in column m. An
// unconstrained value leaves bm untouched.
func narrow(bm *roaring.Bitmap, m map[string]*roaring.Bitmap, value string) {
	if !domain.IsConstrained(value) {
		return
	}
	col, ok := m[value]
	if !ok {
		bm.Clear()
		return
	}
	bm.And(col)
}
