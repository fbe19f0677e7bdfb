package domain

// ChartType names a chart family understood by the presentation layer
type ChartType string

const (
	ChartBar              ChartType = "bar"
	ChartGroupedBar       ChartType = "grouped_bar"
	ChartLine             ChartType = "line"
	ChartArea             ChartType = "area"
	ChartPie              ChartType = "pie"
	ChartDonut            ChartType = "donut"
	ChartScatter          ChartType = "scatter"
	ChartBubble           ChartType = "bubble"
	ChartHistogram        ChartType = "histogram"
	ChartOverlayHistogram ChartType = "overlay_histogram"
)

// ViewModel is everything one render of a view produces
type ViewModel struct {
	View     View          `json:"view"`
	Range    DateRange     `json:"range"`
	Filters  Filters       `json:"filters"`
	Options  FilterOptions `json:"options"`
	RowCount int           `json:"row_count"`
	Cards    []KPICard     `json:"cards"`
	Charts   []ChartSpec   `json:"charts"`
	Tables   []TableSpec   `json:"tables,omitempty"`
	Summary  interface{}   `json:"summary"`
}

// KPICard is a headline metric
type KPICard struct {
	Key   string  `json:"key"`
	Title string  `json:"title"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// ChartSpec is a chart-ready description of one figure
type ChartSpec struct {
	ID     string        `json:"id"`
	Type   ChartType     `json:"type"`
	Title  string        `json:"title"`
	XAxis  string        `json:"x_axis,omitempty"`
	YAxis  string        `json:"y_axis,omitempty"`
	Series []ChartSeries `json:"series"`
}

// ChartSeries is one named trace
type ChartSeries struct {
	Name   string       `json:"name"`
	Points []ChartPoint `json:"points"`
}

// ChartPoint is a single datum. Label carries categorical or date x values,
// X carries numeric x values for scatter and bubble charts.
type ChartPoint struct {
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x,omitempty"`
	Value float64 `json:"value"`
	Size  float64 `json:"size,omitempty"`
}

// TableSpec is a tabular block
type TableSpec struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}
