package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"github.com/grocerly/reports-manager/internal/apisrv/auth"
	"github.com/grocerly/reports-manager/internal/entity"
	"github.com/grocerly/reports-manager/internal/report"
)

// noCompanyID is the historical sentinel body for requests without a
// company_id. Dashboards match on the literal string, so it stays a plain
// body instead of a JSON error.
const noCompanyID = "no-company-id"

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// parseDateParam accepts a date with optional time of day.
func parseDateParam(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(dateTimeLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// defaultWindow is the fallback range when neither a timeframe nor explicit
// filters are present: the last 7 days up to now.
func defaultWindow(now time.Time) entity.DateRange {
	return entity.DateRange{Start: report.Midnight(now).AddDate(0, 0, -7), End: now}
}

// rangeFromFilters overrides the given defaults with filterStart/filterEnd
// query parameters.
func rangeFromFilters(r *http.Request, def entity.DateRange, loc *time.Location) (entity.DateRange, error) {
	rng := def
	if v := r.URL.Query().Get("filterStart"); v != "" {
		start, err := parseDateParam(v, loc)
		if err != nil {
			return rng, err
		}
		rng.Start = start
	}
	if v := r.URL.Query().Get("filterEnd"); v != "" {
		end, err := parseDateParam(v, loc)
		if err != nil {
			return rng, err
		}
		rng.End = end
	}
	return rng, nil
}

func (s *Server) getDayReport(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("company_id")
	if companyID == "" {
		w.Write([]byte(noCompanyID))
		return
	}

	now := s.now()

	today, err := s.rep.Reports().DaySummary(r.Context(), companyID, now)
	if err != nil {
		render.Render(w, r, ErrInternalServerError(err))
		return
	}
	yesterday, err := s.rep.Reports().DaySummary(r.Context(), companyID, now.AddDate(0, 0, -1))
	if err != nil {
		render.Render(w, r, ErrInternalServerError(err))
		return
	}

	render.JSON(w, r, DayReportResponse{Today: today, Yesterday: yesterday})
}

func (s *Server) getOrderReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	companyID := q.Get("company_id")
	if companyID == "" {
		w.Write([]byte(noCompanyID))
		return
	}

	metric := entity.ParseMetric(q.Get("metric"))
	now := s.now()

	// A timeframe preset wins over explicit filters; without either the
	// report covers today so far.
	var tf entity.Timeframe
	var rng entity.DateRange
	if v := q.Get("timeframe"); v != "" {
		var err error
		tf, err = entity.ParseTimeframe(v)
		if err != nil {
			render.Render(w, r, ErrInvalidRequest(err))
			return
		}
		rng, err = report.Resolve(tf, now)
		if err != nil {
			render.Render(w, r, ErrInvalidRequest(err))
			return
		}
	} else {
		var err error
		rng, err = rangeFromFilters(r, entity.DateRange{Start: report.Midnight(now), End: now}, now.Location())
		if err != nil {
			render.Render(w, r, ErrInvalidRequest(err))
			return
		}
	}

	prior := report.PriorPeriod(rng, tf)

	unit := report.UnitForSpan(rng.Days())
	if v := q.Get("unit"); v != "" {
		unit = entity.ParseBucketUnit(v)
	}
	unit = report.UnitForTimeframe(tf, unit)

	current, previous, err := s.queryPeriods(r, companyID, rng, prior, metric, unit, s.rep.Reports().OrderBuckets)
	if err != nil {
		render.Render(w, r, ErrInternalServerError(err))
		return
	}

	render.JSON(w, r, PeriodResponse{Period: current, PreviousPeriod: previous})
}

func (s *Server) getChurnReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	companyID := q.Get("company_id")
	if companyID == "" {
		w.Write([]byte(noCompanyID))
		return
	}

	metric := entity.ParseMetric(q.Get("metric"))
	now := s.now()

	rng, err := rangeFromFilters(r, defaultWindow(now), now.Location())
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	prior := report.PriorPeriod(rng, "")

	// On this path the timeframe token doubles as the bucket unit, with the
	// to-date presets remapped to whole-range windows first.
	tfRaw := q.Get("timeframe")
	unit := entity.ParseBucketUnit(tfRaw)
	switch entity.Timeframe(tfRaw) {
	case entity.TimeframeMTD:
		rng = entity.DateRange{
			Start: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
			End:   now,
		}
		prior = rng.Shift(0, -1, 0)
		unit = entity.UnitDay
	case entity.TimeframeYTD:
		rng = entity.DateRange{
			Start: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()),
			End:   now,
		}
		prior = rng.Shift(-1, 0, 0)
		unit = entity.UnitWeek
	}

	current, previous, err := s.queryPeriods(r, companyID, rng, prior, metric, unit, s.rep.Reports().ChurnBuckets)
	if err != nil {
		render.Render(w, r, ErrInternalServerError(err))
		return
	}

	render.JSON(w, r, PeriodResponse{Period: current, PreviousPeriod: previous})
}

// queryPeriods runs the period and prior-period aggregations concurrently and
// applies the configured post-processing. The two queries are independent
// reads; both must finish before alignment.
func (s *Server) queryPeriods(
	r *http.Request,
	companyID string,
	rng, prior entity.DateRange,
	metric entity.Metric,
	unit entity.BucketUnit,
	query func(context.Context, string, entity.DateRange, entity.Metric, entity.BucketUnit) ([]entity.Bucket, error),
) ([]entity.Bucket, []entity.Bucket, error) {
	var current, previous []entity.Bucket
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		current, err = query(gctx, companyID, rng, metric, unit)
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = query(gctx, companyID, prior, metric, unit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if s.rc.FillGaps && unit == entity.UnitDay {
		current = report.FillGaps(rng, current)
		previous = report.FillGaps(prior, previous)
	}

	if s.rc.AlignByLabel {
		previous = report.AlignByLabel(previous, rng.Start.Sub(prior.Start))
	} else {
		previous = report.AlignPeriods(current, previous)
	}

	return bucketsOrEmpty(current), bucketsOrEmpty(previous), nil
}

func (s *Server) getNewCustomers(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("company_id")
	now := s.now()

	rng, err := rangeFromFilters(r, defaultWindow(now), now.Location())
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	customers, err := s.rep.Reports().NewCustomers(r.Context(), companyID, rng)
	if err != nil {
		render.Render(w, r, ErrInternalServerError(err))
		return
	}
	if customers == nil {
		customers = []entity.NewCustomer{}
	}

	render.JSON(w, r, NewCustomersResponse{Period: customers})
}

func (s *Server) getTimeframes(w http.ResponseWriter, r *http.Request) {
	tf, err := entity.ParseTimeframe(r.URL.Query().Get("timeframe"))
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	now := s.now()
	rng, err := report.Resolve(tf, now)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	prior := report.PriorPeriod(rng, tf)
	unit := report.UnitForTimeframe(tf, report.UnitForSpan(rng.Days()))

	render.JSON(w, r, TimeframesResponse{
		Start:     rng.Start.Format(dateTimeLayout),
		End:       rng.End.Format(dateTimeLayout),
		PrevStart: prior.Start.Format(dateTimeLayout),
		PrevEnd:   prior.End.Format(dateTimeLayout),
		Diff:      rng.Days(),
		Unit:      string(unit),
	})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromContext(r)
	if err != nil {
		render.Render(w, r, &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusUnauthorized,
			StatusText:     "Unauthorized.",
			ErrorText:      err.Error(),
		})
		return
	}
	render.JSON(w, r, principal)
}
