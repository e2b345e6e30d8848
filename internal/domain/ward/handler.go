package ward

import (
	"context"
	"net/http"

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
	readGroup.GET("/wards", h.ListWards)
	readGroup.GET("/wards/:id", h.GetWard)
	readGroup.GET("/wards/:id/beds", h.BedBoard)

	adminGroup := api.Group("", auth.RequireRole("admin"))
	adminGroup.POST("/wards", h.CreateWard)
	adminGroup.POST("/wards/:id/beds", h.AddBed)

	careGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	careGroup.POST("/wards/:id/beds/:bedId/admit", h.Admit)
	careGroup.POST("/wards/:id/beds/:bedId/discharge", h.Discharge)
	careGroup.POST("/wards/:id/beds/:bedId/cleaning", h.MarkCleaning)
	careGroup.POST("/wards/:id/beds/:bedId/ready", h.FinishCleaning)
}

func (h *Handler) CreateWard(c echo.Context) error {
	var in struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	w, err := h.svc.CreateWard(c.Request().Context(), in.Name)
	if err != nil {
		return hmserr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, w)
}

func (h *Handler) GetWard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	w, err := h.svc.GetWard(c.Request().Context(), id)
	if err != nil {
		return hmserr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, w)
}

func (h *Handler) ListWards(c echo.Context) error {
	pg := pagination.FromContext(c)
	wards, total, err := h.svc.ListWards(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return hmserr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(wards, total, pg.Limit, pg.Offset))
}

func (h *Handler) AddBed(c echo.Context) error {
	wardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid ward id")
	}
	var in struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.svc.AddBed(c.Request().Context(), wardID, in.Name)
	if err != nil {
		return hmserr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) BedBoard(c echo.Context) error {
	wardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid ward id")
	}
	beds, err := h.svc.Beds(c.Request().Context(), wardID)
	if err != nil {
		return hmserr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, beds)
}

func (h *Handler) Admit(c echo.Context) error {
	wardID, bedID, err := bedParams(c)
	if err != nil {
		return err
	}
	var occ Occupant
	if err := c.Bind(&occ); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.svc.Admit(c.Request().Context(), wardID, bedID, occ)
	if err != nil {
		return hmserr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) Discharge(c echo.Context) error {
	return h.bedAction(c, h.svc.Discharge)
}

func (h *Handler) MarkCleaning(c echo.Context) error {
	return h.bedAction(c, h.svc.MarkCleaning)
}

func (h *Handler) FinishCleaning(c echo.Context) error {
	return h.bedAction(c, h.svc.FinishCleaning)
}

func (h *Handler) bedAction(c echo.Context, fn func(ctx context.Context, wardID, bedID uuid.UUID) (*Bed, error)) error {
	wardID, bedID, err := bedParams(c)
	if err != nil {
		return err
	}
	b, err := fn(c.Request().Context(), wardID, bedID)
	if err != nil {
		return hmserr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, b)
}

func bedParams(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	wardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid ward id")
	}
	bedID, err := uuid.Parse(c.Param("bedId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid bed id")
	}
	return wardID, bedID, nil
}
