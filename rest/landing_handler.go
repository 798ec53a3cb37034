package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// LandingHandler serves GET /.
type LandingHandler struct {
	visits VisitRecorder
}

// NewLandingHandler creates a new LandingHandler.
func NewLandingHandler(visits VisitRecorder) *LandingHandler {
	return &LandingHandler{visits: visits}
}

type helloView struct {
	Count int64
}

// HandleHello increments the hit counter and renders it. Counter failures are
// returned to the error handler as they are.
func (h *LandingHandler) HandleHello(c echo.Context) error {
	count, err := h.visits.RecordVisit(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "hello.html", helloView{Count: count})
}
