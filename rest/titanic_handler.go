package rest

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"

	"visitboard/domain"
)

// TitanicHandler serves GET /titanic.
type TitanicHandler struct {
	summaries SummaryBuilder
	policy    *bluemonday.Policy
}

// NewTitanicHandler creates a new TitanicHandler.
func NewTitanicHandler(summaries SummaryBuilder) *TitanicHandler {
	return &TitanicHandler{
		summaries: summaries,
		policy:    bluemonday.UGCPolicy(),
	}
}

type titanicView struct {
	Error           string
	Columns         []string
	Rows            [][]template.HTML
	TotalPassengers int
	Survived        int
	SurvivalRate    string
	ChartURL        template.URL
}

// HandleTitanic always answers 200; dataset problems are shown in the page.
func (h *TitanicHandler) HandleTitanic(c echo.Context) error {
	summary := h.summaries.BuildSummary(c.Request().Context())
	return c.Render(http.StatusOK, "titanic.html", h.view(summary))
}

func (h *TitanicHandler) view(s domain.RenderedSummary) titanicView {
	if s.Unavailable() {
		return titanicView{Error: s.ErrorMessage()}
	}

	v := titanicView{
		Columns:         s.Preview.Columns,
		Rows:            make([][]template.HTML, 0, len(s.Preview.Rows)),
		TotalPassengers: s.Stats.Total,
		Survived:        s.Stats.Survived,
		SurvivalRate:    strconv.FormatFloat(s.Stats.Rate, 'f', 1, 64),
	}

	// Cells may carry markup; only what the policy allows is kept.
	for _, record := range s.Preview.Rows {
		row := make([]template.HTML, len(record))
		for i, cell := range record {
			row[i] = template.HTML(h.policy.Sanitize(cell))
		}
		v.Rows = append(v.Rows, row)
	}

	if s.Chart != nil {
		v.ChartURL = template.URL(s.Chart.DataURI())
	}
	return v
}
