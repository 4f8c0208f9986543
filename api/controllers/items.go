package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/gmml-lab/inventory-backend/api/responses"
	"github.com/gmml-lab/inventory-backend/api/validators"
	inventorysvc "github.com/gmml-lab/inventory-backend/internal/inventory"
	pkgerrors "github.com/gmml-lab/inventory-backend/pkg/errors"
	"github.com/gmml-lab/inventory-backend/pkg/logger"
)

const expireDateLayout = "2006-01-02"

// ListItems returns the filtered inventory view with derived statuses.
func ListItems(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		items, err := svc.ListItems(r.Context(), filtersFromQuery(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// CreateItem inserts a new inventory item and logs a creation snapshot.
func CreateItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		actorID, err := actorIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateItem(r.Context(), actorID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// UpdateItem applies a full-field update and logs the resulting diff.
func UpdateItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		actorID, err := actorIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := validators.ParsePathUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdateItem(r.Context(), actorID, itemID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// DeleteItem removes an item, logging the snapshot before the delete.
func DeleteItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		actorID, err := actorIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := validators.ParsePathUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteItem(r.Context(), actorID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ExportItemsCSV streams the filtered list as a CSV download.
func ExportItemsCSV(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		filename := fmt.Sprintf("inventory_export_%s.csv", time.Now().UTC().Format(expireDateLayout))
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		if err := svc.ExportCSV(r.Context(), filtersFromQuery(r), w); err != nil {
			// Headers may already be written; log and bail.
			if logg != nil {
				logg.Error(r.Context(), "items.export_failed", err)
			}
		}
	}
}

func filtersFromQuery(r *http.Request) inventorysvc.ListFilters {
	q := r.URL.Query()
	return inventorysvc.ListFilters{
		Search:   strings.TrimSpace(q.Get("search")),
		Category: strings.TrimSpace(q.Get("category")),
		Location: strings.TrimSpace(q.Get("location")),
		Status:   strings.TrimSpace(q.Get("status")),
	}
}

type createItemRequest struct {
	Name         string  `json:"name" validate:"required"`
	Category     string  `json:"category" validate:"required"`
	CurrentStock int     `json:"current_stock" validate:"min=0"`
	MinStock     int     `json:"min_stock" validate:"min=0"`
	Unit         string  `json:"unit" validate:"required"`
	ExpireDate   *string `json:"expire_date,omitempty"`
	Location     string  `json:"location" validate:"required"`
}

func (r createItemRequest) toCreateInput() (inventorysvc.CreateItemInput, error) {
	expire, err := parseExpireDate(r.ExpireDate)
	if err != nil {
		return inventorysvc.CreateItemInput{}, err
	}
	return inventorysvc.CreateItemInput{
		Name:         strings.TrimSpace(r.Name),
		Category:     strings.TrimSpace(r.Category),
		CurrentStock: r.CurrentStock,
		MinStock:     r.MinStock,
		Unit:         strings.TrimSpace(r.Unit),
		ExpireDate:   expire,
		Location:     strings.TrimSpace(r.Location),
	}, nil
}

type updateItemRequest struct {
	Name         string  `json:"name" validate:"required"`
	Category     string  `json:"category" validate:"required"`
	CurrentStock int     `json:"current_stock" validate:"min=0"`
	MinStock     int     `json:"min_stock" validate:"min=0"`
	Unit         string  `json:"unit" validate:"required"`
	ExpireDate   *string `json:"expire_date,omitempty"`
	Location     string  `json:"location" validate:"required"`
}

// toUpdateInput maps the full-field payload onto the service input. A null
// or absent expire_date clears any stored expiry.
func (r updateItemRequest) toUpdateInput() (inventorysvc.UpdateItemInput, error) {
	expire, err := parseExpireDate(r.ExpireDate)
	if err != nil {
		return inventorysvc.UpdateItemInput{}, err
	}
	name := strings.TrimSpace(r.Name)
	category := strings.TrimSpace(r.Category)
	unit := strings.TrimSpace(r.Unit)
	location := strings.TrimSpace(r.Location)
	input := inventorysvc.UpdateItemInput{
		Name:         &name,
		Category:     &category,
		CurrentStock: &r.CurrentStock,
		MinStock:     &r.MinStock,
		Unit:         &unit,
		Location:     &location,
	}
	if expire != nil {
		input.ExpireDate = expire
	} else {
		input.ClearExpireDate = true
	}
	return input, nil
}

func parseExpireDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation(expireDateLayout, strings.TrimSpace(*raw), time.UTC)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid expire_date").WithDetails(map[string]any{"field": "expire_date"})
	}
	return &parsed, nil
}
