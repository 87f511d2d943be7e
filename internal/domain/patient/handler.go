package patient

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dentaltax/dentaltax/internal/platform/db"
	"github.com/dentaltax/dentaltax/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.SearchPatients)
	api.GET("/patients/:id", h.GetPatient)
}

func (h *Handler) SearchPatients(c echo.Context) error {
	branchID := 0
	if raw := c.QueryParam("branch"); raw != "" {
		var err error
		branchID, err = strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid branch")
		}
	}

	items, err := h.svc.Search(c.Request().Context(), branchID, c.QueryParam("q"))
	if err != nil {
		if errors.Is(err, ErrEmptyQuery) {
			return echo.NewHTTPError(http.StatusBadRequest, "query must not be empty")
		}
		if db.IsDataAccess(err) {
			return echo.NewHTTPError(http.StatusBadGateway, "clinic database unavailable")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	pg := pagination.FromContext(c)
	start, end := pg.Window(len(items))
	return c.JSON(http.StatusOK, pagination.NewResponse(items[start:end], len(items), pg.Limit, pg.Offset))
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		if db.IsDataAccess(err) {
			return echo.NewHTTPError(http.StatusBadGateway, "clinic database unavailable")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}
