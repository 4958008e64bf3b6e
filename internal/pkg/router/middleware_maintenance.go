package router

import (
	"net/http"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/seedauth/internal/pkg/config"
)

// maintenanceAll blocks every route except the health check.
const maintenanceAll = "*"

func middlewareMaintenance(cfg config.Config) Middleware {
	var endpoints map[string]struct{}
	if cfg != nil {
		endpoints = lo.SliceToMap(
			lo.Compact(lo.Map(cfg.GetArray("app.maintenance.endpoints"), func(e string, _ int) string {
				return strings.TrimSpace(e)
			})),
			func(e string) (string, struct{}) { return e, struct{}{} },
		)
	}
	_, all := endpoints[maintenanceAll]

	return func(next http.Handler) http.Handler {
		if len(endpoints) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := matchedRoutePath(r)
			_, blocked := endpoints[route]
			if blocked || (all && route != "/health") {
				writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
