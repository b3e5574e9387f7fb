package http

import (
	"errors"
	"net/http"

	"spendbook/internal/charts"
	"spendbook/internal/controller"
)

type analyticsPageData struct {
	Username string
	State    controller.AnalyticsState

	// Groupings drives the grouping select in filter order.
	Groupings []string

	// ChartQuery carries the current filter to the chart image URLs so a
	// cached image from another filter is never served.
	ChartQuery string
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	if err := s.analytics.LoadCatalog(ctx); err != nil {
		s.log.ErrorContext(ctx, "Failed to load analytics catalog", "error", err)
	}

	filter := parseAnalyticsFilter(r, s.analytics.DefaultFilter())
	s.analytics.SetFilter(ctx, filter)

	state := s.analytics.State()
	data := analyticsPageData{
		State:      state,
		Groupings:  []string{"day", "week", "month", "year"},
		ChartQuery: analyticsQuery(state.Filter),
	}
	if u := s.session.User(); u != nil {
		data.Username = u.Username
	}
	s.render(w, r, "analytics.html", data)
}

// analyticsQuery encodes a filter the same way the screen URL does.
func analyticsQuery(f controller.AnalyticsFilter) string {
	q := f.Values()
	q.Set("grouping", string(f.Grouping))
	return q.Encode()
}

// The chart endpoints render from the controller's current snapshot; they
// never fetch. The screen request just before them did the fetching, and
// its query pins the filter the image belongs to: a request whose query no
// longer matches the snapshot is refused rather than served another
// filter's chart.

func (s *Server) chartSnapshot(r *http.Request) (controller.AnalyticsState, bool) {
	state := s.analytics.State()
	return state, r.URL.Query().Encode() == analyticsQuery(state.Filter)
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	state, ok := s.chartSnapshot(r)
	if !ok || !state.ByCategoryOK {
		http.Error(w, "no data", http.StatusNotFound)
		return
	}
	png, err := charts.CategoryPie(state.ByCategory)
	if err != nil {
		s.serveChartError(w, r, "by-category", err)
		return
	}
	serveChart(w, png)
}

func (s *Server) handleDateChart(w http.ResponseWriter, r *http.Request) {
	state, ok := s.chartSnapshot(r)
	if !ok || !state.ByDateOK {
		http.Error(w, "no data", http.StatusNotFound)
		return
	}
	png, err := charts.DateSeries(state.ByDate, state.Filter.Grouping)
	if err != nil {
		s.serveChartError(w, r, "by-date", err)
		return
	}
	serveChart(w, png)
}

func serveChart(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

func (s *Server) serveChartError(w http.ResponseWriter, r *http.Request, name string, err error) {
	if errors.Is(err, charts.ErrNoData) {
		http.Error(w, "no data", http.StatusNotFound)
		return
	}
	s.log.ErrorContext(r.Context(), "Chart render failed", "chart", name, "error", err)
	http.Error(w, "chart render failed", http.StatusInternalServerError)
}
