package operateur

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"drilling-dashboard/internal/backend"
	"drilling-dashboard/internal/services"
	"drilling-dashboard/internal/util"
)

// parseAnalyseQuery: phase, site, operation, costStatus, delayStatus,
// start/end (YYYY-MM-DD), q, sort, order, page, per_page.
func parseAnalyseQuery(r *http.Request) (services.AnalyseQuery, error) {
	v := r.URL.Query()
	start, err := parseDay(v.Get("start"), "start")
	if err != nil {
		return services.AnalyseQuery{}, err
	}
	end, err := parseDay(v.Get("end"), "end")
	if err != nil {
		return services.AnalyseQuery{}, err
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return services.AnalyseQuery{}, util.BadInput("end before start")
	}
	return services.AnalyseQuery{
		Filter: services.RowFilter{
			Phase:       v.Get("phase"),
			Operation:   v.Get("operation"),
			Site:        v.Get("site"),
			CostStatus:  v.Get("costStatus"),
			DelayStatus: v.Get("delayStatus"),
			Start:       start,
			End:         end,
			Search:      v.Get("q"),
		},
		Sort:    services.ParseSortKey(v.Get("sort")),
		Desc:    v.Get("order") == "" || strings.EqualFold(v.Get("order"), "desc"),
		Page:    atoiOr(v.Get("page"), 1),
		PerPage: atoiOr(v.Get("per_page"), 0),
	}, nil
}

func parseDay(s, field string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	t, ok := backend.ParseDate(s)
	if !ok {
		return time.Time{}, util.BadInput(field + " must be YYYY-MM-DD")
	}
	return t, nil
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
