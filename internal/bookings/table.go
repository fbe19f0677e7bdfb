package bookings

import (
	"time"

	"ridepulse/pkg/contracts/domain"
)

// Table is the enriched booking set. It is never modified after NewTable returns;
// views read it through filtered projections.
type Table struct {
	records     []domain.Booking
	bounds      domain.DateRange
	options     domain.FilterOptions
	source      string
	fingerprint string
	loadedAt    time.Time
}

// NewTable wraps already-enriched records and computes the dataset bounds and
// dropdown options. The slice is owned by the table afterwards.
func NewTable(records []domain.Booking, source, fingerprint string, loadedAt time.Time) *Table {
	t := &Table{
		records:     records,
		source:      source,
		fingerprint: fingerprint,
		loadedAt:    loadedAt,
	}

	vehicles := newOrderedSet()
	statuses := newOrderedSet()
	payments := newOrderedSet()
	for i, r := range records {
		if i == 0 || r.DateOnly.Before(t.bounds.Start) {
			t.bounds.Start = r.DateOnly
		}
		if i == 0 || r.DateOnly.After(t.bounds.End) {
			t.bounds.End = r.DateOnly
		}
		vehicles.add(r.VehicleType)
		statuses.add(r.Status)
		payments.add(r.PaymentMethod)
	}
	t.options = domain.FilterOptions{
		VehicleTypes:   vehicles.values,
		Statuses:       statuses.values,
		PaymentMethods: payments.values,
	}
	return t
}

// Len returns the number of rows
func (t *Table) Len() int { return len(t.records) }

// Row returns a copy of row i
func (t *Table) Row(i int) domain.Booking { return t.records[i] }

// Bounds returns the dataset-wide minimum and maximum DateOnly
func (t *Table) Bounds() domain.DateRange { return t.bounds }

// Options returns distinct non-empty categorical values in encounter order
func (t *Table) Options() domain.FilterOptions {
	return domain.FilterOptions{
		VehicleTypes:   append([]string(nil), t.options.VehicleTypes...),
		Statuses:       append([]string(nil), t.options.Statuses...),
		PaymentMethods: append([]string(nil), t.options.PaymentMethods...),
	}
}

// Source names where the data came from
func (t *Table) Source() string { return t.source }

// Fingerprint is the digest of the source bytes
func (t *Table) Fingerprint() string { return t.fingerprint }

// LoadedAt is when the source was read
func (t *Table) LoadedAt() time.Time { return t.loadedAt }

// Info summarizes the table for API consumers
func (t *Table) Info() domain.DatasetInfo {
	return domain.DatasetInfo{
		Source:      t.source,
		Rows:        t.Len(),
		Bounds:      t.bounds,
		Fingerprint: t.fingerprint,
		Options:     t.Options(),
	}
}

type orderedSet struct {
	seen   map[string]struct{}
	values []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{}), values: []string{}}
}

func (s *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.values = append(s.values, v)
}
