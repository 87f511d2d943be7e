package report

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dentaltax/dentaltax/internal/domain/settings"
	"github.com/dentaltax/dentaltax/internal/platform/db"
	"github.com/dentaltax/dentaltax/pkg/pagination"
)

type Handler struct {
	svc   *Service
	store *settings.Store

	// The operator reviews the most recent result set row by row before
	// export; include/exclude toggles live here, never in the clinic
	// database.
	mu      sync.Mutex
	current []Account
	byID    map[int]int
}

func NewHandler(svc *Service, store *settings.Store) *Handler {
	return &Handler{svc: svc, store: store}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/reports/accounts", h.AccountsByCategories)
	api.GET("/reports/patient-accounts", h.AccountsByPatient)
	api.PATCH("/reports/accounts/:id", h.ToggleAccount)
}

func parsePeriod(c echo.Context) (time.Time, time.Time, error) {
	var start, end time.Time
	if raw := c.QueryParam("start"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return start, end, errors.New("start must be YYYY-MM-DD")
		}
		start = t
	}
	if raw := c.QueryParam("end"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return start, end, errors.New("end must be YYYY-MM-DD")
		}
		end = t
	}
	return start, end, nil
}

func parseBranch(c echo.Context) (int, error) {
	raw := c.QueryParam("branch")
	if raw == "" {
		return 0, nil
	}
	b, err := strconv.Atoi(raw)
	if err != nil || b < 0 {
		return 0, errors.New("invalid branch")
	}
	return b, nil
}

func (h *Handler) AccountsByCategories(c echo.Context) error {
	start, end, err := parsePeriod(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	branchID, err := parseBranch(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var categories []string
	if c.QueryParams().Has("categories") {
		for _, raw := range c.QueryParams()["categories"] {
			categories = append(categories, splitList(raw)...)
		}
	} else {
		categories = h.store.Snapshot().SelectedCategories()
	}

	items, err := h.svc.AccountsByCategories(c.Request().Context(), branchID, start, end, categories)
	if err != nil {
		return reportError(err)
	}
	h.remember(items)
	return h.respond(c, items)
}

func (h *Handler) AccountsByPatient(c echo.Context) error {
	start, end, err := parsePeriod(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	branchID, err := parseBranch(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patientID := 0
	if raw := c.QueryParam("patient"); raw != "" {
		patientID, err = strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient")
		}
	} else if sp := h.store.Snapshot().SelectedPatient; sp != nil {
		patientID = sp.ID
	}

	items, err := h.svc.AccountsByPatient(c.Request().Context(), branchID, start, end, patientID)
	if err != nil {
		return reportError(err)
	}
	h.remember(items)
	return h.respond(c, items)
}

type toggleRequest struct {
	Included bool `json:"included"`
}

// ToggleAccount flips the export flag on one row of the most recent
// result set.
func (h *Handler) ToggleAccount(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req toggleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	idx, ok := h.byID[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "account not in the current result set")
	}
	h.current[idx].Included = req.Included
	return c.JSON(http.StatusOK, h.current[idx])
}

func (h *Handler) remember(items []Account) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = items
	h.byID = make(map[int]int, len(items))
	for i := range items {
		h.byID[items[i].ID] = i
	}
}

func (h *Handler) respond(c echo.Context, items []Account) error {
	pg := pagination.FromContext(c)
	start, end := pg.Window(len(items))
	return c.JSON(http.StatusOK, pagination.NewResponse(items[start:end], len(items), pg.Limit, pg.Offset))
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func reportError(err error) error {
	switch {
	case errors.Is(err, ErrMissingPeriod), errors.Is(err, ErrNoPatient):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case db.IsDataAccess(err):
		return echo.NewHTTPError(http.StatusBadGateway, "clinic database unavailable")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
