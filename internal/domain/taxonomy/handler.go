package taxonomy

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dentaltax/dentaltax/internal/domain/settings"
	"github.com/dentaltax/dentaltax/internal/platform/db"
)

type Handler struct {
	svc   *Service
	store *settings.Store
}

func NewHandler(svc *Service, store *settings.Store) *Handler {
	return &Handler{svc: svc, store: store}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/categories", h.ListCategories)
	api.GET("/branches", h.ListBranches)
	api.POST("/settings/categories/reconcile", h.Reconcile)
	api.POST("/settings/categories/select-all", h.SelectAll)
	api.PUT("/settings/categories/selection", h.SaveSelection)
}

func (h *Handler) ListCategories(c echo.Context) error {
	cats, err := h.svc.ListCategories(c.Request().Context())
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"categories": cats})
}

func (h *Handler) ListBranches(c echo.Context) error {
	branches, err := h.svc.ListBranches(c.Request().Context())
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"branches": branches})
}

func (h *Handler) Reconcile(c echo.Context) error {
	added, err := h.svc.Reconcile(c.Request().Context(), h.store)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"added": added,
		"known": h.store.Snapshot().ProcedureCategories(),
	})
}

func (h *Handler) SelectAll(c echo.Context) error {
	selected, err := h.svc.SelectAll(c.Request().Context(), h.store)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"selected": selected})
}

type saveSelectionRequest struct {
	Categories []string `json:"categories"`
}

func (h *Handler) SaveSelection(c echo.Context) error {
	var req saveSelectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.svc.SaveSelection(h.store, req.Categories)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"selected": h.store.Snapshot().SelectedCategories(),
	})
}

func storeError(err error) error {
	if db.IsDataAccess(err) {
		return echo.NewHTTPError(http.StatusBadGateway, "clinic database unavailable")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
