package appointment

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carenet/hms/internal/platform/auth"
	"github.com/carenet/hms/internal/platform/hmserr"
	"github.com/carenet/hms/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse", "registrar"))
	readGroup.GET("/appointments", h.List)
	readGroup.GET("/appointments/:id", h.Get)
	readGroup.GET("/appointments/:id/history", h.History)

	writeGroup := api.Group("", auth.RequireRole("admin", "registrar"))
	writeGroup.POST("/appointments", h.Book)
	writeGroup.POST("/appointments/:id/arrive", h.Arrive)
	writeGroup.POST("/appointments/:id/cancel", h.Cancel)
	writeGroup.DELETE("/appointments/:id", h.Delete)

	// Completing is a clinical act, registrars stay out.
	clinGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	clinGroup.POST("/appointments/:id/complete", h.Complete)
}

func (h *Handler) Book(c echo.Context) error {
	var in BookInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Book(c.Request().Context(), in)
	if err != nil {
		return hmserr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return hmserr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	if d := c.QueryParam("date"); d != "" {
		date, err := time.Parse("2006-01-02", d)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		}
		appts, total, err := h.svc.DayList(ctx, date, pg.Limit, pg.Offset)
		if err != nil {
			return hmserr.ToHTTP(err)
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(appts, total, pg.Limit, pg.Offset))
	}

	appts, total, err := h.svc.List(ctx, pg.Limit, pg.Offset)
	if err != nil {
		return hmserr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(appts, total, pg.Limit, pg.Offset))
}

func (h *Handler) Arrive(c echo.Context) error {
	return h.lifecycle(c, h.svc.Arrive)
}

func (h *Handler) Cancel(c echo.Context) error {
	return h.lifecycle(c, h.svc.Cancel)
}

func (h *Handler) Complete(c echo.Context) error {
	return h.lifecycle(c, h.svc.Complete)
}

func (h *Handler) lifecycle(c echo.Context, fn func(ctx context.Context, id uuid.UUID) (*Appointment, error)) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := fn(c.Request().Context(), id)
	if err != nil {
		return hmserr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	confirmed := c.QueryParam("confirmed") == "true"
	if err := h.svc.Delete(c.Request().Context(), id, confirmed); err != nil {
		return hmserr.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) History(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	changes, err := h.svc.History(c.Request().Context(), id)
	if err != nil {
		return hmserr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, changes)
}
