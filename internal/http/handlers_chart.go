package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// chartDataset mirrors the Chart.js dataset shape so the frontend can feed
// the response straight into a chart instance.
type chartDataset struct {
	Label           string    `json:"label,omitempty"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor,omitempty"`
	BorderColor     []string  `json:"borderColor,omitempty"`
	BorderWidth     int       `json:"borderWidth"`
}

type chartData struct {
	Labels   []string       `json:"labels"`
	Datasets []chartDataset `json:"datasets"`
}

// chartColors is the palette applied to the spending doughnut slices.
var chartColors = []string{
	"#667EEA", "#764BA2", "#F093FB", "#F5576C", "#4FACFE",
	"#00F2FE", "#43E97B", "#38F9D7", "#FA709A", "#FEE140",
	"#30CFD0", "#A8EDEA", "#FF9A9E", "#FBC2EB", "#FDCBF1",
}

// handleExpenseChart returns doughnut data of actual spending per category.
// Categories with zero actuals are excluded so the chart stays readable.
func (s *Server) handleExpenseChart(w http.ResponseWriter, r *http.Request) {
	rows := s.ledger.Rows()

	data := chartData{Labels: []string{}}
	slice := chartDataset{Data: []float64{}, BorderWidth: 2}
	for _, row := range rows {
		if row.Actual.Cents <= 0 {
			continue
		}
		data.Labels = append(data.Labels, row.Category.Name)
		slice.Data = append(slice.Data, row.Actual.Dollars())
		slice.BackgroundColor = append(slice.BackgroundColor, chartColors[len(slice.BackgroundColor)%len(chartColors)])
	}
	data.Datasets = []chartDataset{slice}

	writeJSON(w, r, data)
}

// handleComparisonChart returns planned-vs-actual bar data for every
// category, including untouched ones.
func (s *Server) handleComparisonChart(w http.ResponseWriter, r *http.Request) {
	rows := s.ledger.Rows()

	planned := chartDataset{Label: "Planned", Data: []float64{}, BorderWidth: 1,
		BackgroundColor: []string{"rgba(102, 126, 234, 0.7)"},
		BorderColor:     []string{"rgba(102, 126, 234, 1)"}}
	actual := chartDataset{Label: "Actual", Data: []float64{}, BorderWidth: 1,
		BackgroundColor: []string{"rgba(255, 99, 132, 0.7)"},
		BorderColor:     []string{"rgba(255, 99, 132, 1)"}}

	data := chartData{Labels: []string{}}
	for _, row := range rows {
		data.Labels = append(data.Labels, row.Category.Name)
		planned.Data = append(planned.Data, row.Category.Planned.Dollars())
		actual.Data = append(actual.Data, row.Actual.Dollars())
	}
	data.Datasets = []chartDataset{planned, actual}

	writeJSON(w, r, data)
}

func writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "JSON encode error", "error", err, "url", r.URL.Path)
	}
}
