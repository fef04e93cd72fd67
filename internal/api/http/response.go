package httpapi

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/grocerly/reports-manager/internal/entity"
)

// ErrResponse is the JSON error envelope for request-level failures.
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText string `json:"status"`
	ErrorText  string `json:"error,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrInternalServerError(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     http.StatusText(http.StatusInternalServerError),
		ErrorText:      err.Error(),
	}
}

// PeriodResponse pairs a period's buckets with the aligned prior period for
// side by side charting.
type PeriodResponse struct {
	Period         []entity.Bucket `json:"period"`
	PreviousPeriod []entity.Bucket `json:"previousPeriod"`
}

// DayReportResponse carries the single-day summaries for today and yesterday.
type DayReportResponse struct {
	Today     []entity.DaySummary `json:"today"`
	Yesterday []entity.DaySummary `json:"yesterday"`
}

// NewCustomersResponse is the first-order cohort for the requested period.
type NewCustomersResponse struct {
	Period []entity.NewCustomer `json:"period"`
}

// TimeframesResponse is the debug payload of /timeframes showing how a
// preset resolves.
type TimeframesResponse struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	PrevStart string `json:"prevStart"`
	PrevEnd   string `json:"prevEnd"`
	Diff      int    `json:"diff"`
	Unit      string `json:"unit"`
}

func bucketsOrEmpty(buckets []entity.Bucket) []entity.Bucket {
	if buckets == nil {
		return []entity.Bucket{}
	}
	return buckets
}
