package labs

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
	readGroup.GET("/patients/:patientId/labs", h.ListResults)
	readGroup.GET("/patients/:patientId/labs/latest", h.LatestResults)
	readGroup.GET("/patients/:patientId/labs/series", h.ResultSeries)
	readGroup.GET("/patients/:patientId/vitals", h.ListVitals)
	readGroup.GET("/patients/:patientId/schedule-override", h.GetOverride)
	readGroup.GET("/labs/:id", h.GetResult)

	writeGroup := api.Group("", auth.RequireRole("admin", "clinician"))
	writeGroup.POST("/patients/:patientId/labs", h.RecordResult)
	writeGroup.DELETE("/labs/:id", h.DeleteResult)
	writeGroup.POST("/patients/:patientId/vitals", h.RecordVitals)
	writeGroup.PUT("/patients/:patientId/schedule-override", h.SetOverride)
	writeGroup.DELETE("/patients/:patientId/schedule-override", h.ClearOverride)
}

func patientID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	return id, nil
}

func (h *Handler) RecordResult(c echo.Context) error {
	pid, err := patientID(c)
	if err != nil {
		return err
	}
	var r LabResult
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r.PatientID = pid
	if err := h.svc.RecordResult(c.Request().Context(), &r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) GetResult(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	r, err := h.svc.GetResult(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "lab result not found")
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) DeleteResult(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteResult(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListResults(c echo.Context) error {
	pid, err := patientID(c)
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)
	items, total, err := h.svc.ListResults(c.Request().Context(), pid, c.QueryParam("type"), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) LatestResults(c echo.Context) error {
	pid, err := patientID(c)
	if err != nil {
		return err
	}
	latest, err := h.svc.LatestResults(c.Request().Context(), pid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, latest)
}

func (h *Handler) ResultSeries(c echo.Context) error {
	pid, err := patientID(c)
	if err != nil {
		return err
	}
	since := time.Time{}
	if raw := c.QueryParam("since"); raw != "" {
		since, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid since timestamp")
		}
	}
	items, err := h.svc.ResultSeries(c.Request().Context(), pid, c.QueryParam("type"), since)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) RecordVitals(c echo.Context) error {
	pid, err := patientID(c)
	if err != nil {
		return err
	}
	var v VitalsReading
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v.PatientID = pid
	if err := h.svc.RecordVitals(c.Request().Context(), &v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) ListVitals(c echo.Context) error {
	pid, err := patientID(c)
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)
	items, total, err := h.svc.ListVitals(c.Request().Context(), pid, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) SetOverride(c echo.Context) error {
	pid, err := patientID(c)
	if err != nil {
		return err
	}
	var o ScheduleOverride
	if err := c.Bind(&o); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	o.PatientID = pid
	if actor := auth.UserIDFromContext(c.Request().Context()); actor != "" && o.CreatedBy == nil {
		o.CreatedBy = &actor
	}
	if err := h.svc.SetOverride(c.Request().Context(), &o); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) GetOverride(c echo.Context) error {
	pid, err := patientID(c)
	if err != nil {
		return err
	}
	o, err := h.svc.GetOverride(c.Request().Context(), pid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if o == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no schedule override")
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) ClearOverride(c echo.Context) error {
	pid, err := patientID(c)
	if err != nil {
		return err
	}
	if err := h.svc.ClearOverride(c.Request().Context(), pid); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
