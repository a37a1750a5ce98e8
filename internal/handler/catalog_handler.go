package handler

import (
	"net/http"
	"strconv"

	"github.com/zevliandragovets/EcoBankWebsite/internal/middleware"
	"github.com/zevliandragovets/EcoBankWebsite/internal/service"
	"github.com/zevliandragovets/EcoBankWebsite/pkg/response"

	"github.com/gin-gonic/gin"
)

// boolQuery parses an optional boolean query parameter. Absent means nil;
// anything strconv.ParseBool rejects is a caller error rather than a silent
// false.
func boolQuery(c *gin.Context, name string) (*bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, &service.FieldError{Field: name, Reason: "must be a boolean"}
	}
	return &value, nil
}

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	categories := router.Group("/api/categories")
	{
		categories.GET("", middleware.RequireAuth(), h.ListCategories)
		categories.POST("", middleware.RequireAdmin(), h.CreateCategory)
	}

	items := router.Group("/api/waste-items")
	{
		items.GET("", middleware.RequireAuth(), h.ListWasteItems)
		items.POST("", middleware.RequireAdmin(), h.CreateWasteItem)
		items.PUT("/:id", middleware.RequireAdmin(), h.UpdateWasteItem)
		items.DELETE("/:id", middleware.RequireAdmin(), h.DeleteWasteItem)
	}
}

// ListCategories returns all categories with their active waste items
// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /api/categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, categories))
}

// CreateCategory adds a waste category
// @Summary      Create category
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateCategoryRequest  true  "Create Category Payload"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/categories [post]
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req service.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	callerID, callerRole := middleware.Caller(c)
	category, err := h.catalogService.CreateCategory(c.Request.Context(), callerID, callerRole, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, category))
}

// ListWasteItems returns catalog items filtered by category, name or active flag
// @Summary      List waste items
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        categoryId  query     string  false  "Filter by category id"
// @Param        search      query     string  false  "Case-insensitive name search"
// @Param        isActive    query     bool    false  "Filter by active flag (default: active only)"
// @Success      200         {object}  response.Response
// @Router       /api/waste-items [get]
func (h *CatalogHandler) ListWasteItems(c *gin.Context) {
	req := service.ListWasteItemsRequest{
		CategoryID: c.Query("categoryId"),
		Search:     c.Query("search"),
	}
	isActive, err := boolQuery(c, "isActive")
	if err != nil {
		writeServiceError(c, err)
		return
	}
	req.IsActive = isActive

	items, err := h.catalogService.ListWasteItems(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	}))
}

// CreateWasteItem adds a catalog item
// @Summary      Create waste item
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateWasteItemRequest  true  "Create Waste Item Payload"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/waste-items [post]
func (h *CatalogHandler) CreateWasteItem(c *gin.Context) {
	var req service.CreateWasteItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	callerID, callerRole := middleware.Caller(c)
	item, err := h.catalogService.CreateWasteItem(c.Request.Context(), callerID, callerRole, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateWasteItem partially updates a catalog item
// @Summary      Update waste item
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                          true  "Waste Item ID"
// @Param        payload  body      service.UpdateWasteItemRequest  true  "Partial Update Payload"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/waste-items/{id} [put]
func (h *CatalogHandler) UpdateWasteItem(c *gin.Context) {
	var req service.UpdateWasteItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	callerID, callerRole := middleware.Caller(c)
	item, err := h.catalogService.UpdateWasteItem(c.Request.Context(), callerID, callerRole, c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteWasteItem removes or deactivates a catalog item
// @Summary      Delete waste item
// @Description  Items referenced by transactions are deactivated; unreferenced items are removed.
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Waste Item ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/waste-items/{id} [delete]
func (h *CatalogHandler) DeleteWasteItem(c *gin.Context) {
	callerID, callerRole := middleware.Caller(c)
	outcome, err := h.catalogService.DeleteWasteItem(c.Request.Context(), callerID, callerRole, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	message := "Waste item deleted"
	if outcome == service.DeleteOutcomeDeactivated {
		message = "Waste item deactivated because it is referenced by transactions"
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, message, map[string]interface{}{
		"outcome": outcome,
	}))
}
