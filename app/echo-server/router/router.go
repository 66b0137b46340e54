package router

import (
	"hungryHub/domain"
	"hungryHub/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc, perm func(string) echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.GET("/email-verification/:code", handler.VerifyEmail)
	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)

	users.GET("/me", handler.Me, authRequired)
	users.PUT("/me", handler.UpdateMe, authRequired)

	users.GET("", handler.ListUsers, authRequired, perm(domain.PermUserRead))
	users.POST("", handler.CreateUser, authRequired, perm(domain.PermUserWrite))
	users.GET("/:id", handler.GetUserByID, authRequired, perm(domain.PermUserRead))
	users.PUT("/:id", handler.UpdateUser, authRequired, perm(domain.PermUserWrite))
	users.PUT("/:id/password", handler.UpdatePassword, authRequired, perm(domain.PermUserWrite))
	users.DELETE("/:id", handler.DeleteUser, authRequired, perm(domain.PermUserDelete))
}

func SetupRestaurantRoutes(api *echo.Group, handler *rest.RestaurantHandler, authRequired echo.MiddlewareFunc, perm func(string) echo.MiddlewareFunc) {
	restaurants := api.Group("/restaurants")

	restaurants.GET("", handler.ListApprovedRestaurants)
	restaurants.GET("/preview", handler.GetPreview)
	restaurants.GET("/:id", handler.GetRestaurantByID)

	restaurants.POST("/requests", handler.RequestRestaurant, authRequired, perm(domain.PermRestaurantCreate))
	restaurants.POST("/requests/files", handler.RequestRestaurantWithFiles, authRequired, perm(domain.PermRestaurantCreate))
	restaurants.DELETE("/requests/:id", handler.DeleteRestaurantRequest, authRequired, perm(domain.PermRestaurantCreate))
	restaurants.PUT("/:id", handler.UpdateRestaurant, authRequired, perm(domain.PermRestaurantCreate))
	restaurants.GET("/owner/stats", handler.OwnerStats, authRequired, perm(domain.PermRestaurantCreate))

	restaurants.GET("/all", handler.ListRestaurants, authRequired, perm(domain.PermRestaurantApprove))
	restaurants.GET("/requests", handler.ListRestaurantRequests, authRequired, perm(domain.PermRestaurantApprove))
	restaurants.POST("", handler.CreateRestaurant, authRequired, perm(domain.PermRestaurantApprove))
	restaurants.PUT("/requests/:id/approve", handler.ApproveRestaurant, authRequired, perm(domain.PermRestaurantApprove))
	restaurants.PUT("/requests/:id/reject", handler.RejectRestaurant, authRequired, perm(domain.PermRestaurantApprove))
}

func SetupShippingRoutes(api *echo.Group, handler *rest.ShippingHandler, authRequired echo.MiddlewareFunc, perm func(string) echo.MiddlewareFunc) {
	shippings := api.Group("/shippings", authRequired)

	shippings.GET("/me", handler.MyShippings)
	shippings.GET("/order/:orderID", handler.GetShippingByOrder)
	shippings.POST("", handler.AssignShipping, perm(domain.PermShippingAssign))
	shippings.PUT("/:id/status", handler.UpdateShippingStatus, perm(domain.PermShippingUpdate))
}
