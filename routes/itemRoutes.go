package routes

import (
	"lostfound-be/controllers"

	"github.com/gin-gonic/gin"
)

// ItemRoutes sets up the public item routes. The claim endpoint carries the
// rate limiter; direct update and delete require the admin gate.
func ItemRoutes(r *gin.Engine, ic *controllers.ItemController, ac *controllers.AdminController, adminAuth, claimLimiter gin.HandlerFunc) {
	items := r.Group("/api/items")
	{
		items.POST("", ic.CreateItem)
		items.GET("", ic.GetAllItems)
		items.GET("/search", ic.SearchItems)
		items.GET("/filter", ic.FilterItems)
		items.POST("/claim", claimLimiter, ic.ClaimItem)
		items.GET("/:id", ic.GetItem)
		items.GET("/:id/qr-code", ic.GenerateQRCode)

		items.PUT("/:id", adminAuth, ac.UpdateItem)
		items.DELETE("/:id", adminAuth, ac.DeleteItem)
	}
}
