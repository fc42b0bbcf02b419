package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"garagepro-backend/config"
	"garagepro-backend/controllers"
	"garagepro-backend/models"
	"garagepro-backend/services"
	"garagepro-backend/store"
	"garagepro-backend/utils"
)

// Deps carries everything the router needs; nothing is reached through
// globals so tests can wire their own store.
type Deps struct {
	Store     store.Store
	Lifecycle *services.LifecycleService
	Purchases *services.PurchaseService
	Invoices  *services.InvoiceService
	Reports   *services.ReportService
	Log       *logrus.Logger
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.RequestLogger(deps.Log))

	authController := controllers.AuthController{Store: deps.Store}
	customerController := controllers.CustomerController{Store: deps.Store}
	vehicleController := controllers.VehicleController{Store: deps.Store}
	partController := controllers.PartController{Store: deps.Store}
	serviceController := controllers.ServiceController{Lifecycle: deps.Lifecycle}
	purchaseController := controllers.PurchaseController{Purchases: deps.Purchases}
	invoiceController := controllers.InvoiceController{Invoices: deps.Invoices}
	dashboardController := controllers.DashboardController{Reports: deps.Reports}

	auth := r.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", authController.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		customers := api.Group("/customers")
		{
			customers.POST("", customerController.CreateCustomer)
			customers.GET("", customerController.GetCustomers)
			customers.GET("/:id", customerController.GetCustomer)
			customers.PUT("/:id", customerController.UpdateCustomer)
			customers.DELETE("/:id", customerController.DeleteCustomer)
			customers.POST("/:id/vehicles", vehicleController.CreateVehicle)
			customers.GET("/:id/vehicles", vehicleController.GetCustomerVehicles)
		}

		api.GET("/vehicles/:id", vehicleController.GetVehicle)

		parts := api.Group("/parts")
		{
			parts.POST("", partController.CreatePart)
			parts.GET("", partController.GetParts)
			parts.GET("/:id", partController.GetPart)
			parts.PUT("/:id", partController.UpdatePart)
		}

		svcRoutes := api.Group("/services")
		{
			svcRoutes.POST("", serviceController.CreateService)
			svcRoutes.GET("", serviceController.GetServices)
			svcRoutes.GET("/:id", serviceController.GetService)
			svcRoutes.PUT("/:id", serviceController.UpdateService)
			svcRoutes.POST("/:id/convert-to-work-order", serviceController.ConvertToWorkOrder)
		}

		// only admins may record purchases
		purchases := api.Group("/purchases", utils.RequireRole(models.RoleAdmin))
		{
			purchases.POST("", purchaseController.CreatePurchase)
			purchases.GET("", purchaseController.GetPurchases)
		}

		invoices := api.Group("/invoices")
		{
			invoices.POST("", invoiceController.CreateInvoice)
			invoices.GET("", invoiceController.GetInvoices)
			invoices.GET("/:id", invoiceController.GetInvoice)
		}

		api.GET("/dashboard/stats", dashboardController.GetStats)
		api.GET("/dashboard/aging-stock", dashboardController.GetAgingStock)
	}

	return r
}
