package snapshot

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/renalcare/renalcare/internal/platform/auth"
	"github.com/renalcare/renalcare/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "clinician", "viewer"))
	readGroup.GET("/patients/:patientId/snapshot", h.Compute)
	readGroup.GET("/patients/:patientId/reviews", h.ListReviews)
	readGroup.GET("/patients/:patientId/history-tags", h.ListTags)

	writeGroup := api.Group("", auth.RequireRole("admin", "clinician"))
	writeGroup.POST("/patients/:patientId/reviews", h.RecordReview)
	writeGroup.POST("/patients/:patientId/history-tags", h.AddTag)
	writeGroup.DELETE("/patients/:patientId/history-tags/:tag", h.RemoveTag)
}

func patientID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	return id, nil
}

func (h *Handler) Compute(c echo.Context) error {
	pid, err := patientID(c)
	if err != nil {
		return err
	}
	actor := auth.UserIDFromContext(c.Request().Context())

	var snap *Snapshot
	if raw := c.QueryParam("as_of"); raw != "" {
		asOf, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid as_of timestamp")
		}
		snap, err = h.svc.ComputeAt(c.Request().Context(), pid, actor, asOf.UTC())
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	} else {
		snap, err = h.svc.Compute(c.Request().Context(), pid, actor)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *Handler) RecordReview(c echo.Context) error {
	pid, err := patientID(c)
	if err != nil {
		return err
	}
	var r Review
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r.PatientID = pid
	if r.ReviewedBy == "" {
		r.ReviewedBy = auth.UserIDFromContext(c.Request().Context())
	}
	if err := h.svc.RecordReview(c.Request().Context(), &r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) ListReviews(c echo.Context) error {
	pid, err := patientID(c)
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)
	items, total, err := h.svc.ListReviews(c.Request().Context(), pid, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) AddTag(c echo.Context) error {
	pid, err := patientID(c)
	if err != nil {
		return err
	}
	var t HistoryTag
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t.PatientID = pid
	if actor := auth.UserIDFromContext(c.Request().Context()); actor != "" && t.CreatedBy == nil {
		t.CreatedBy = &actor
	}
	if err := h.svc.AddTag(c.Request().Context(), &t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) RemoveTag(c echo.Context) error {
	pid, err := patientID(c)
	if err != nil {
		return err
	}
	if err := h.svc.RemoveTag(c.Request().Context(), pid, c.Param("tag")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListTags(c echo.Context) error {
	pid, err := patientID(c)
	if err != nil {
		return err
	}
	items, err := h.svc.ListTags(c.Request().Context(), pid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}
