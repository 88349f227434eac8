package route

import (
	"cafelist/controller"
	"cafelist/utils"

	"github.com/gin-gonic/gin"
)

// CafeRoutes registers every page and API route. session must run before
// any guard so the guards can see the current user.
func CafeRoutes(router *gin.Engine, h *controller.Controller, session gin.HandlerFunc) {
	router.Use(session)

	router.GET("/", h.ListCafes)
	router.GET("/all", h.ListCafes)
	router.GET("/random", h.RandomCafe)
	router.GET("/cafe/:id", h.ShowCafe)
	router.GET("/search", h.SearchCafes)
	router.GET("/about", h.About)
	router.GET("/contact", h.Contact)
	router.GET("/health", h.Health)
	router.GET("/cafes/export", h.ExportCafes)

	router.GET("/register", h.RegisterForm)
	router.POST("/register", h.Register)
	router.GET("/login", h.LoginForm)
	router.POST("/login", h.Login)
	router.GET("/logout", h.Logout)

	userGroup := router.Group("/")
	userGroup.Use(utils.Require(utils.UserOnly))
	{
		userGroup.GET("/new-cafe", h.NewCafeForm)
		userGroup.POST("/new-cafe", h.CreateCafe)
	}

	adminGroup := router.Group("/")
	adminGroup.Use(utils.Require(utils.AdminOnly))
	{
		adminGroup.GET("/edit-cafe/:id", h.EditCafeForm)
		adminGroup.POST("/edit-cafe/:id", h.UpdateCafe)
		adminGroup.GET("/delete/:id", h.DeleteCafe)
		adminGroup.POST("/cafes/import", h.ImportCafes)
	}
}
