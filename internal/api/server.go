// Package api wires the REST endpoints of the purchasing service.
package api

import (
	"net/http"

	"campstock/internal/auth"
	"campstock/internal/monitoring"
	"campstock/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

// Server is the main API handler for the purchasing service
type Server struct {
	router    *gin.Engine
	db        *gorm.DB
	tokens    *auth.Manager
	monitor   *monitoring.Monitor
	notifier  *notify.Notifier
	hub       *notify.Hub
	uploadDir string
}

// NewServer creates an API server with all routes configured
func NewServer(db *gorm.DB, tokens *auth.Manager, monitor *monitoring.Monitor, uploadDir string) *Server {
	hub := notify.NewHub()

	s := &Server{
		router:    gin.Default(),
		db:        db,
		tokens:    tokens,
		monitor:   monitor,
		notifier:  notify.NewNotifier(db, hub),
		hub:       hub,
		uploadDir: uploadDir,
	}

	s.setupRoutes()
	return s
}

// Router returns the Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	if s.monitor != nil {
		s.router.Use(s.monitor.Middleware())
	}

	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "campstock API is running"})
	})

	v1 := s.router.Group("/api/v1")

	// Auth
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", s.Login)
		authGroup.POST("/register", s.Register)
		authGroup.GET("/me", s.requireAuth(), s.GetMe)
		authGroup.PUT("/me", s.requireAuth(), s.UpdateMe)
	}

	// Everything below requires a valid bearer token
	private := v1.Group("")
	private.Use(s.requireAuth())

	orders := private.Group("/orders")
	{
		orders.GET("", s.ListOrders)
		orders.POST("", s.CreateOrder)
		orders.POST("/auto-generate", s.AutoGenerateOrder)
		orders.GET("/pending-review", s.requireSupervisor(), s.ListPendingReview)
		orders.GET("/ready-to-order", s.requirePurchasing(), s.ListReadyToOrder)
		orders.GET("/my-orders", s.ListMyOrders)
		orders.GET("/supplier-purchase-list", s.requirePurchasing(), s.GetSupplierPurchaseList)
		orders.GET("/flagged-items", s.requirePurchasing(), s.GetFlaggedItems)
		orders.GET("/unreceived-items", s.requirePurchasing(), s.GetUnreceivedItems)
		orders.GET("/unreceived-items/:propertyId", s.GetUnreceivedItems)
		orders.GET("/summary/by-property", s.requireSupervisor(), s.GetOrderSummaryByProperty)
		orders.GET("/:id", s.GetOrder)
		orders.PUT("/:id", s.UpdateOrder)
		orders.DELETE("/:id", s.DeleteOrder)
		orders.POST("/:id/items", s.AddOrderItem)
		orders.PUT("/:id/items/:itemId", s.UpdateOrderItem)
		orders.DELETE("/:id/items/:itemId", s.DeleteOrderItem)
		orders.POST("/:id/items/:itemId/issue-photo", s.UploadIssuePhoto)
		orders.POST("/:id/submit", s.SubmitOrder)
		orders.POST("/:id/resubmit", s.ResubmitOrder)
		orders.POST("/:id/review", s.requireSupervisor(), s.ReviewOrder)
		orders.POST("/:id/mark-ordered", s.requirePurchasing(), s.MarkOrdered)
		orders.POST("/:id/unmark-ordered", s.requirePurchasing(), s.UnmarkOrdered)
		orders.POST("/:id/receive", s.ReceiveOrder)
		orders.POST("/:id/withdraw", s.WithdrawOrder)
	}

	inventory := private.Group("/inventory")
	{
		inventory.GET("/items", s.ListInventoryItems)
		inventory.POST("/items", s.CreateInventoryItem)
		inventory.GET("/items/categories", s.ListItemCategories)
		inventory.GET("/items/:id", s.GetInventoryItem)
		inventory.PUT("/items/:id", s.UpdateInventoryItem)
		inventory.DELETE("/items/:id", s.DeleteInventoryItem)
		inventory.GET("/counts", s.ListInventoryCounts)
		inventory.POST("/counts", s.CreateInventoryCount)
		inventory.GET("/counts/:id", s.GetInventoryCount)
		inventory.POST("/counts/:id/finalize", s.FinalizeInventoryCount)
		inventory.GET("/export/:propertyId", s.ExportInventoryCSV)
	}

	suppliers := private.Group("/suppliers")
	{
		suppliers.GET("", s.ListSuppliers)
		suppliers.POST("", s.requirePurchasing(), s.CreateSupplier)
		suppliers.GET("/:id", s.GetSupplier)
		suppliers.PUT("/:id", s.requirePurchasing(), s.UpdateSupplier)
		suppliers.DELETE("/:id", s.requireSupervisor(), s.DeleteSupplier)
	}

	categories := private.Group("/categories")
	{
		categories.GET("", s.ListCategories)
		categories.POST("", s.requireSupervisor(), s.CreateCategory)
		categories.PUT("/:id", s.requireSupervisor(), s.UpdateCategory)
		categories.DELETE("/:id", s.requireSupervisor(), s.DeleteCategory)
	}

	properties := private.Group("/properties")
	{
		properties.GET("", s.ListProperties)
		properties.POST("", s.requireAdmin(), s.CreateProperty)
		properties.GET("/:id", s.GetProperty)
		properties.PUT("/:id", s.requireAdmin(), s.UpdateProperty)
		properties.DELETE("/:id", s.requireAdmin(), s.DeleteProperty)
	}

	users := private.Group("/users")
	{
		users.GET("", s.requireAdmin(), s.ListUsers)
		users.POST("", s.requireAdmin(), s.CreateUser)
		users.GET("/:id", s.requireAdmin(), s.GetUser)
		users.PUT("/:id", s.requireAdmin(), s.UpdateUser)
		users.DELETE("/:id", s.requireAdmin(), s.DeleteUser)
		users.POST("/:id/reset-password", s.requireAdmin(), s.ResetUserPassword)
	}

	receipts := private.Group("/receipts")
	{
		receipts.GET("", s.requirePurchasing(), s.ListReceipts)
		receipts.POST("", s.requirePurchasing(), s.CreateReceipt)
		receipts.POST("/upload", s.requirePurchasing(), s.UploadReceipt)
		receipts.GET("/pending-verification", s.requirePurchasing(), s.ListPendingVerification)
		receipts.GET("/financial-dashboard", s.requirePurchasing(), s.GetFinancialDashboard)
		receipts.GET("/properties", s.requirePurchasing(), s.ListReceiptProperties)
		receipts.GET("/orders-by-property/:id", s.requirePurchasing(), s.ListOrdersByProperty)
		receipts.POST("/add-to-inventory", s.requirePurchasing(), s.AddUnmatchedToInventory)
		receipts.GET("/:id", s.requirePurchasing(), s.GetReceipt)
		receipts.PUT("/:id", s.requirePurchasing(), s.UpdateReceipt)
		receipts.POST("/:id/verify", s.requirePurchasing(), s.VerifyReceipt)
		receipts.DELETE("/:id", s.requireSupervisor(), s.DeleteReceipt)
		receipts.DELETE("/:id/line-items/:idx", s.requirePurchasing(), s.DeleteReceiptLineItem)
	}

	master := private.Group("/master-products")
	{
		master.GET("", s.requirePurchasing(), s.ListMasterProducts)
		master.POST("", s.requireSupervisor(), s.CreateMasterProduct)
		master.POST("/sync-from-master", s.requireSupervisor(), s.SyncFromMaster)
		master.POST("/sync-all", s.requireSupervisor(), s.SyncAll)
		master.POST("/seed-from-property", s.requireSupervisor(), s.SeedFromProperty)
		master.POST("/upload-csv", s.requireSupervisor(), s.UploadMasterProductsCSV)
		master.GET("/unlinked-items", s.requireSupervisor(), s.ListUnlinkedItems)
		master.GET("/:id", s.requirePurchasing(), s.GetMasterProduct)
		master.PUT("/:id", s.requireSupervisor(), s.UpdateMasterProduct)
		master.DELETE("/:id", s.requireSupervisor(), s.DeleteMasterProduct)
		master.POST("/:id/assign", s.requireSupervisor(), s.AssignMasterProduct)
		master.POST("/:id/unassign/:propertyId", s.requireSupervisor(), s.UnassignMasterProduct)
	}

	notifications := private.Group("/notifications")
	{
		notifications.GET("", s.ListNotifications)
		notifications.GET("/unread-count", s.GetUnreadCount)
		notifications.GET("/ws", s.NotificationSocket)
		notifications.POST("/mark-read", s.MarkNotificationsRead)
		notifications.POST("/mark-all-read", s.MarkAllNotificationsRead)
		notifications.DELETE("/:id", s.DeleteNotification)
	}

	admin := private.Group("/admin")
	admin.Use(s.requireAdmin())
	{
		admin.GET("/item-trends/:itemId", s.GetItemTrends)
		admin.POST("/extract-order-pdf", s.ExtractOrderPDF)
		admin.POST("/seed-historical-order", s.SeedHistoricalOrder)
		admin.GET("/properties", s.ListAdminProperties)
	}
}
