package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/gmml-lab/inventory-backend/api/responses"
	"github.com/gmml-lab/inventory-backend/api/validators"
	categoriessvc "github.com/gmml-lab/inventory-backend/internal/categories"
	locationssvc "github.com/gmml-lab/inventory-backend/internal/locations"
	pkgerrors "github.com/gmml-lab/inventory-backend/pkg/errors"
	"github.com/gmml-lab/inventory-backend/pkg/logger"
)

// lookupActions adapts a lookup service (categories or locations) to the
// action-dispatch contract of the manage-* function endpoints.
type lookupActions struct {
	list   func(ctx context.Context) (any, error)
	create func(ctx context.Context, actorID uuid.UUID, name, description string) (any, error)
	update func(ctx context.Context, actorID, id uuid.UUID, name string) (any, error)
	delete func(ctx context.Context, actorID, id uuid.UUID) error
}

// ManageCategories dispatches ?action=list|create|update|delete for categories.
func ManageCategories(svc categoriessvc.Service, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return lookupUnavailable("category", logg)
	}
	return manageLookup(lookupActions{
		list: func(ctx context.Context) (any, error) {
			return svc.ListCategories(ctx)
		},
		create: func(ctx context.Context, actorID uuid.UUID, name, description string) (any, error) {
			return svc.CreateCategory(ctx, actorID, name, description)
		},
		update: func(ctx context.Context, actorID, id uuid.UUID, name string) (any, error) {
			return svc.RenameCategory(ctx, actorID, id, name)
		},
		delete: svc.DeleteCategory,
	}, logg)
}

// ManageLocations dispatches ?action=list|create|update|delete for storage locations.
func ManageLocations(svc locationssvc.Service, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return lookupUnavailable("location", logg)
	}
	return manageLookup(lookupActions{
		list: func(ctx context.Context) (any, error) {
			return svc.ListLocations(ctx)
		},
		create: func(ctx context.Context, actorID uuid.UUID, name, description string) (any, error) {
			return svc.CreateLocation(ctx, actorID, name, description)
		},
		update: func(ctx context.Context, actorID, id uuid.UUID, name string) (any, error) {
			return svc.RenameLocation(ctx, actorID, id, name)
		},
		delete: svc.DeleteLocation,
	}, logg)
}

type createLookupRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type updateLookupRequest struct {
	ID   string `json:"id" validate:"required,uuid"`
	Name string `json:"name" validate:"required"`
}

type deleteLookupRequest struct {
	ID string `json:"id" validate:"required,uuid"`
}

func manageLookup(actions lookupActions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		action := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("action")))

		if action == "list" {
			result, err := actions.list(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, result)
			return
		}

		actorID, err := actorIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		switch action {
		case "create":
			var payload createLookupRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			result, err := actions.create(r.Context(), actorID, payload.Name, payload.Description)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccessStatus(w, http.StatusCreated, result)

		case "update":
			var payload updateLookupRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			id, err := validators.ParsePathUUID(payload.ID, "id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			result, err := actions.update(r.Context(), actorID, id, payload.Name)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, result)

		case "delete":
			var payload deleteLookupRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			id, err := validators.ParsePathUUID(payload.ID, "id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if err := actions.delete(r.Context(), actorID, id); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, map[string]string{"status": "deleted"})

		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown action").WithDetails(map[string]any{"action": action}))
		}
	}
}

func lookupUnavailable(kind string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, kind+" service unavailable"))
	}
}
