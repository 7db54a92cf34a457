package handler

import (
	"net/http"

	"hidetrade/internal/middleware"
	"hidetrade/internal/service"
	"hidetrade/pkg/pagination"
	"hidetrade/pkg/response"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/api/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
		products.POST("", middleware.RequireAdmin(), h.CreateProduct)
		products.PUT("/:id", middleware.RequireAdmin(), h.UpdateProduct)
		products.DELETE("/:id", middleware.RequireAdmin(), h.DeleteProduct)
	}

	rawLeathers := router.Group("/api/raw-leathers")
	{
		rawLeathers.GET("", h.ListRawLeathers)
		rawLeathers.GET("/:id", h.GetRawLeather)
		rawLeathers.POST("", middleware.RequireAdmin(), h.CreateRawLeather)
		rawLeathers.PUT("/:id", middleware.RequireAdmin(), h.UpdateRawLeather)
		rawLeathers.DELETE("/:id", middleware.RequireAdmin(), h.DeleteRawLeather)
	}

	types := router.Group("/api/types")
	{
		types.GET("/products", h.ListProductTypes)
		types.GET("/raw-leathers", h.ListRawLeatherTypes)
		types.POST("/products", middleware.RequireAdmin(), h.CreateProductType)
		types.POST("/raw-leathers", middleware.RequireAdmin(), h.CreateRawLeatherType)
	}
}

// ListProducts returns the product catalog
// @Summary      List products
// @Tags         catalog
// @Produce      json
// @Param        type_id  query     string  false  "Product type filter"
// @Param        active   query     bool    false  "Active only"
// @Param        page     query     int     false  "Page number"
// @Param        limit    query     int     false  "Items per page"
// @Success      200      {object}  response.Response{data=[]model.Product}
// @Router       /api/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	params := pagination.Parse(c)
	activeOnly := c.Query("active") == "true"

	products, total, err := h.catalogService.ListProducts(c.Request.Context(), c.Query("type_id"), activeOnly, params.Page, params.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated("products fetched", products, params.Page, params.Limit, total))
}

// GetProduct returns one product
// @Summary      Get product
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=model.Product}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("product fetched", product))
}

// CreateProduct adds a product to the catalog
// @Summary      Create product
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ProductInput  true  "Product Payload"
// @Success      201      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Router       /api/products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload: "+err.Error()))
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.OK("product created", product))
}

// UpdateProduct replaces a product's editable fields
// @Summary      Update product
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Product ID"
// @Param        payload  body      service.ProductInput  true  "Product Payload"
// @Success      200      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Router       /api/products/{id} [put]
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload: "+err.Error()))
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("product updated", product))
}

// DeleteProduct soft-deletes a product
// @Summary      Delete product
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/products/{id} [delete]
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	if err := h.catalogService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("product deleted", nil))
}

// ListRawLeathers returns the raw leather catalog
// @Summary      List raw leathers
// @Tags         catalog
// @Produce      json
// @Param        type_id  query     string  false  "Raw leather type filter"
// @Param        active   query     bool    false  "Active only"
// @Param        page     query     int     false  "Page number"
// @Param        limit    query     int     false  "Items per page"
// @Success      200      {object}  response.Response{data=[]model.RawLeather}
// @Router       /api/raw-leathers [get]
func (h *CatalogHandler) ListRawLeathers(c *gin.Context) {
	params := pagination.Parse(c)
	activeOnly := c.Query("active") == "true"

	leathers, total, err := h.catalogService.ListRawLeathers(c.Request.Context(), c.Query("type_id"), activeOnly, params.Page, params.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated("raw leathers fetched", leathers, params.Page, params.Limit, total))
}

// GetRawLeather returns one raw leather listing
// @Summary      Get raw leather
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Raw Leather ID"
// @Success      200  {object}  response.Response{data=model.RawLeather}
// @Failure      404  {object}  response.Response
// @Router       /api/raw-leathers/{id} [get]
func (h *CatalogHandler) GetRawLeather(c *gin.Context) {
	leather, err := h.catalogService.GetRawLeather(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("raw leather fetched", leather))
}

// CreateRawLeather adds a raw leather listing
// @Summary      Create raw leather
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RawLeatherInput  true  "Raw Leather Payload"
// @Success      201      {object}  response.Response{data=model.RawLeather}
// @Failure      400      {object}  response.Response
// @Router       /api/raw-leathers [post]
func (h *CatalogHandler) CreateRawLeather(c *gin.Context) {
	var input service.RawLeatherInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload: "+err.Error()))
		return
	}

	leather, err := h.catalogService.CreateRawLeather(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.OK("raw leather created", leather))
}

// UpdateRawLeather replaces a raw leather's editable fields
// @Summary      Update raw leather
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Raw Leather ID"
// @Param        payload  body      service.RawLeatherInput  true  "Raw Leather Payload"
// @Success      200      {object}  response.Response{data=model.RawLeather}
// @Failure      400      {object}  response.Response
// @Router       /api/raw-leathers/{id} [put]
func (h *CatalogHandler) UpdateRawLeather(c *gin.Context) {
	var input service.RawLeatherInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload: "+err.Error()))
		return
	}

	leather, err := h.catalogService.UpdateRawLeather(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("raw leather updated", leather))
}

// DeleteRawLeather soft-deletes a raw leather listing
// @Summary      Delete raw leather
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Raw Leather ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/raw-leathers/{id} [delete]
func (h *CatalogHandler) DeleteRawLeather(c *gin.Context) {
	if err := h.catalogService.DeleteRawLeather(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("raw leather deleted", nil))
}

// ListProductTypes returns the product type taxonomy
// @Summary      List product types
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.ProductType}
// @Router       /api/types/products [get]
func (h *CatalogHandler) ListProductTypes(c *gin.Context) {
	types, err := h.catalogService.ListProductTypes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("product types fetched", types))
}

// ListRawLeatherTypes returns the raw leather type taxonomy
// @Summary      List raw leather types
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.RawLeatherType}
// @Router       /api/types/raw-leathers [get]
func (h *CatalogHandler) ListRawLeatherTypes(c *gin.Context) {
	types, err := h.catalogService.ListRawLeatherTypes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("raw leather types fetched", types))
}

// CreateProductType adds a product type
// @Summary      Create product type
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.TypeInput  true  "Type Payload"
// @Success      201      {object}  response.Response{data=model.ProductType}
// @Failure      400      {object}  response.Response
// @Router       /api/types/products [post]
func (h *CatalogHandler) CreateProductType(c *gin.Context) {
	var input service.TypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload: "+err.Error()))
		return
	}

	t, err := h.catalogService.CreateProductType(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.OK("product type created", t))
}

// CreateRawLeatherType adds a raw leather type
// @Summary      Create raw leather type
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.TypeInput  true  "Type Payload"
// @Success      201      {object}  response.Response{data=model.RawLeatherType}
// @Failure      400      {object}  response.Response
// @Router       /api/types/raw-leathers [post]
func (h *CatalogHandler) CreateRawLeatherType(c *gin.Context) {
	var input service.TypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload: "+err.Error()))
		return
	}

	t, err := h.catalogService.CreateRawLeatherType(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.OK("raw leather type created", t))
}
