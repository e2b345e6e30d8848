package episode

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carenet/hms/internal/domain/note"
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
	clinGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	clinGroup.POST("/notes", h.SaveNote)
	clinGroup.POST("/admissions", h.Admit)
	clinGroup.POST("/appointments/:id/retry-completion", h.RetryCompletion)

	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse", "registrar"))
	readGroup.GET("/notes", h.ListNotes)
	readGroup.GET("/notes/:id", h.GetNote)
}

func (h *Handler) SaveNote(c echo.Context) error {
	var n note.Note
	if err := c.Bind(&n); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	saved, err := h.svc.SaveNote(c.Request().Context(), &n)
	if err != nil {
		return hmserr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, saved)
}

func (h *Handler) GetNote(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	n, err := h.svc.notes.Get(c.Request().Context(), id)
	if err != nil {
		return hmserr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) ListNotes(c echo.Context) error {
	patientID, err := uuid.Parse(c.QueryParam("patient_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
	}
	pg := pagination.FromContext(c)
	notes, total, err := h.svc.notes.ListByPatient(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return hmserr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(notes, total, pg.Limit, pg.Offset))
}

func (h *Handler) Admit(c echo.Context) error {
	var req AdmissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.svc.AdmitToWard(c.Request().Context(), req)
	if err != nil {
		return hmserr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) RetryCompletion(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.RetryCompletion(c.Request().Context(), id)
	if err != nil {
		return hmserr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, a)
}
