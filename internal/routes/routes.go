package routes

import (
	"github.com/gin-gonic/gin"

	"catalogforge/internal/handlers"
)

func RegisterRoutes(router *gin.Engine, products *handlers.ProductHandler, categories *handlers.CategoryHandler, catalog *handlers.CatalogHandler) {
	v1 := router.Group("/v1", handlers.OwnerRequired())
	{
		v1.GET("/products", products.ListProducts)
		v1.POST("/products", products.CreateProduct)
		v1.GET("/products/:id", products.GetProduct)
		v1.PATCH("/products/:id", products.UpdateProduct)
		v1.DELETE("/products/:id", products.DeleteProduct)

		v1.GET("/categories", categories.ListCategories)
		v1.POST("/categories", categories.CreateCategory)
		v1.DELETE("/categories/:id", categories.DeleteCategory)

		v1.POST("/catalog", catalog.Export)
	}
}
