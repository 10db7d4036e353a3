// Package rest provides HTTP handlers for slider-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	slidererrors "github.com/mkrylov/storefront/internal/slider/errors"
	"github.com/mkrylov/storefront/internal/slider/service"
	"github.com/mkrylov/storefront/pkg/web"
)

type Handler struct {
	service  service.SliderService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the slider API with the provided service.
func NewHandler(service service.SliderService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the slider service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/sliders", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
		})
	})
	r.Get("/healthz", h.HealthCheck)
}

// FindAll retrieves all sliders.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving slider list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to read sliders")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved slider list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// Create handles the creation of a new slider.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var createDto service.SliderCreateDto
	if err := json.NewDecoder(r.Body).Decode(&createDto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if ok := h.validateStruct(w, r, mLogger, createDto); !ok {
		return
	}

	created, err := h.service.Create(r.Context(), createDto)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error creating slider", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create slider")
		return
	}
	mLogger.InfoContext(r.Context(), "Slider created successfully", slog.Int64("ID", created.ID))
	web.RespondJSON(w, mLogger, http.StatusCreated, map[string]any{"success": true, "slider": created})
}

// Update handles the merge-update of an existing slider.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var updateDto service.SliderUpdateDto
	if err := json.NewDecoder(r.Body).Decode(&updateDto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if ok := h.validateStruct(w, r, mLogger, updateDto); !ok {
		return
	}

	updated, err := h.service.Update(r.Context(), id, updateDto)
	if err != nil {
		if errors.Is(err, slidererrors.ErrSliderNotFound) {
			mLogger.WarnContext(r.Context(), "Slider not found for update", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Slider with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating slider", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to update slider with ID %d", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Slider updated successfully", slog.Int64("ID", updated.ID))
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]any{"success": true, "slider": updated})
}

// Delete handles the removal of a slider.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, slidererrors.ErrSliderNotFound) {
			mLogger.WarnContext(r.Context(), "Slider not found for delete", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Slider with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error deleting slider", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to delete slider with ID %d", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Slider deleted successfully", slog.Int64("ID", deleted.ID))
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]any{"success": true, "slider": deleted})
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// validateStruct runs the validator and writes field-specific errors on failure.
func (h *Handler) validateStruct(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, dto any) bool {
	if err := h.validate.Struct(dto); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return false
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
