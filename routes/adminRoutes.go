package routes

import (
	"lostfound-be/controllers"

	"github.com/gin-gonic/gin"
)

// AdminRoutes sets up the admin console routes. Everything except login sits
// behind the admin gate.
func AdminRoutes(r *gin.Engine, ac *controllers.AdminController, adminAuth gin.HandlerFunc) {
	admin := r.Group("/api/admin")
	{
		admin.POST("/login", ac.Login)

		protected := admin.Group("")
		protected.Use(adminAuth)
		{
			protected.GET("/claims", ac.GetClaimRequests)
			protected.POST("/claims/:id/approve", ac.ApproveClaim)
			protected.POST("/claims/:id/reject", ac.RejectClaim)
			protected.POST("/send-details", ac.SendItemDetails)
			protected.PUT("/items/:id", ac.UpdateItem)
			protected.DELETE("/items/:id", ac.DeleteItem)
		}
	}
}
