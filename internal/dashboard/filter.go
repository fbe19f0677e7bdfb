package dashboard

import (
	"ridepulse/internal/bookings"
	"ridepulse/pkg/contracts/domain"
)

// Dataset pairs the enriched table with its filter index
type Dataset struct {
	table *bookings.Table
	index *Index
}

// NewDataset indexes table for filtering
func NewDataset(table *bookings.Table) *Dataset {
	return &Dataset{table: table, index: NewIndex(table)}
}

// Table returns the underlying enriched table
func (d *Dataset) Table() *bookings.Table { return d.table }

// Criteria is a resolved filter: both dates set, categoricals optional
type Criteria struct {
	Start         domain.Date
	End           domain.Date
	VehicleType   string
	Status        string
	PaymentMethod string
}

// Select returns the rows matching c. The table is never modified; an empty
// Subset is a valid result.
func (d *Dataset) Select(c Criteria) *Subset {
	bm := d.index.dateRange(c.Start, c.End)
	narrow(bm, d.index.byVehicle, c.VehicleType)
	narrow(bm, d.index.byStatus, c.Status)
	narrow(bm, d.index.byPayment, c.PaymentMethod)

	return &Subset{table: d.table, rows: bm.ToArray()}
}

// Subset is a read-only projection of a table. Rows are held in ascending
// ordinal order, which is the table's encounter order.
type Subset struct {
	table *bookings.Table
	rows  []uint32
}

// Len returns the number of selected rows
func (s *Subset) Len() int { return len(s.rows) }

// Each calls fn for every selected row in encounter order
func (s *Subset) Each(fn func(domain.Booking)) {
	for _, ordinal := range s.rows {
		fn(s.table.Row(int(ordinal)))
	}
}

// Where returns the rows of s satisfying pred
func (s *Subset) Where(pred func(domain.Booking) bool) *Subset {
	out := &Subset{table: s.table}
	for _, ordinal := range s.rows {
		if pred(s.table.Row(int(ordinal))) {
			out.rows = append(out.rows, ordinal)
		}
	}
	return out
}
