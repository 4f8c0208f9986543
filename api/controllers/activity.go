package controllers

import (
	"net/http"
	"strings"

	"github.com/gmml-lab/inventory-backend/api/responses"
	"github.com/gmml-lab/inventory-backend/api/validators"
	activitysvc "github.com/gmml-lab/inventory-backend/internal/activity"
	pkgerrors "github.com/gmml-lab/inventory-backend/pkg/errors"
	"github.com/gmml-lab/inventory-backend/pkg/logger"
	"github.com/gmml-lab/inventory-backend/pkg/pagination"
)

// ActivityFeed returns the newest-first activity log page.
func ActivityFeed(svc activitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "activity service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		feed, err := svc.ListEntries(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, feed)
	}
}
