package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/gmml-lab/inventory-backend/api/middleware"
	"github.com/gmml-lab/inventory-backend/api/responses"
	"github.com/gmml-lab/inventory-backend/internal/authz"
	usersvc "github.com/gmml-lab/inventory-backend/internal/users"
	pkgerrors "github.com/gmml-lab/inventory-backend/pkg/errors"
	"github.com/gmml-lab/inventory-backend/pkg/logger"
)

type meResponse struct {
	User        *usersvc.ProfileDTO `json:"user"`
	Permissions authz.Permissions   `json:"permissions"`
}

// Me returns the signed-in profile with an advisory permissions map. The
// flags mirror what services enforce; the frontend uses them to hide
// controls, not to grant access.
func Me(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		actorID, err := actorIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.GetProfile(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, meResponse{
			User:        profile,
			Permissions: authz.PermissionsFor(profile.Role),
		})
	}
}

func actorIDFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}
