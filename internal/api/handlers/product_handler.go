package handlers

import (
	"net/http"

	"github.com/freshcast/backend-go/internal/catalog"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	catalog *catalog.Catalog
}

func NewProductHandler(cat *catalog.Catalog) *ProductHandler {
	return &ProductHandler{catalog: cat}
}

// List returns the full products dataset.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.catalog.Products(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    len(products),
	})
}

// Stats summarizes the products dataset.
func (h *ProductHandler) Stats(c *gin.Context) {
	products, err := h.catalog.Products(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	categories := make(map[string]int)
	missingShelfLife := 0
	for _, product := range products {
		if product.Category != "" {
			categories[product.Category]++
		}
		if product.ShelfLifeDays <= 0 {
			missingShelfLife++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total_products":        len(products),
		"category_distribution": categories,
		"missing_shelf_life":    missingShelfLife,
	})
}

// Info returns the shelf profile used by the planner for one product.
func (h *ProductHandler) Info(c *gin.Context) {
	profile, err := h.catalog.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
