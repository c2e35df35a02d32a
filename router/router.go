package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ddaazzz/qr-restaurant-sub000/controllers"
	"github.com/ddaazzz/qr-restaurant-sub000/middlewares"
	"github.com/ddaazzz/qr-restaurant-sub000/services"
)

func SetupRouter(db *gorm.DB, notifier services.POSNotifier) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.CORSMiddlewares())

	tableCtrl := controllers.NewTableController(db)
	sessionCtrl := controllers.NewSessionController(db)
	orderCtrl := controllers.NewOrderController(db)
	billingCtrl := controllers.NewBillingController(db, notifier)

	// Diner-facing scan flow
	r.POST("/scan", sessionCtrl.Scan)

	// Staff-facing engine surface
	restaurant := r.Group("/restaurants/:restaurant_id")
	{
		restaurant.POST("/tables", tableCtrl.CreateTable)
		restaurant.GET("/tables", tableCtrl.GetAllTables)
		restaurant.POST("/tables/:table_id/sessions", sessionCtrl.StartSession)
		restaurant.POST("/sessions/:session_id/close", billingCtrl.CloseBill)
	}

	r.GET("/units/:unit_id/qr", tableCtrl.GetUnitQR)

	sessions := r.Group("/sessions/:session_id")
	{
		sessions.GET("", sessionCtrl.GetSession)
		sessions.PATCH("/pax", sessionCtrl.UpdatePax)
		sessions.POST("/end", sessionCtrl.EndSession)
		sessions.POST("/orders", orderCtrl.CreateOrder)
		sessions.GET("/bill", billingCtrl.GetBill)
	}

	r.POST("/orders/:order_id/cancel", orderCtrl.CancelOrder)

	return r
}
