package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	appmw "github.com/chillwithnegi/Leafora/internal/middleware"

	admin "github.com/chillwithnegi/Leafora/internal/admin"
	auth "github.com/chillwithnegi/Leafora/internal/auth"
	"github.com/chillwithnegi/Leafora/internal/db"
	market "github.com/chillwithnegi/Leafora/internal/marketplace"
	messaging "github.com/chillwithnegi/Leafora/internal/messaging"
	session "github.com/chillwithnegi/Leafora/internal/session"
	user "github.com/chillwithnegi/Leafora/internal/user"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	db.Init()

	// Stores
	services := market.NewPGServiceStore(db.Conn)
	orders := market.NewPGOrderStore(db.Conn)
	reviews := market.NewPGReviewStore(db.Conn)
	profiles := market.NewPGProfileAggregates(db.Conn)
	settings := admin.NewPGSettingsStore(db.Conn)
	messages := messaging.NewPGMessageStore(db.Conn)

	// Engines
	catalog := market.NewCatalog(services, settings)
	orderEngine := market.NewOrders(orders, services, profiles, settings)
	reviewEngine := market.NewReviews(reviews, orders, services, profiles)
	ledger := messaging.NewLedger(messages)

	// Auth-state plumbing
	notifier := session.NewNotifier()
	sessionCtx := session.NewContext(session.NewPGProfileWriter(db.Conn))
	sessionCtx.Attach(notifier)
	auth.Events = notifier

	// Handlers
	marketH := market.NewHandlers(catalog, orderEngine, reviewEngine)
	messagingH := messaging.NewHandlers(ledger)
	sessionH := session.NewHandlers(db.Conn)
	adminH := admin.NewHandlers(settings)
	adminOrdersH := admin.NewOrderHandlers(orderEngine)

	// Warm the catalog view before serving; Refresh logs its own failures
	_ = catalog.Refresh(context.Background())

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Health
	e.GET("/health", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// Public routes
	e.POST("/signup", auth.Signup)
	e.POST("/login", auth.Login)
	e.GET("/user/:id/profile", user.GetPublicProfile)
	e.GET("/marketplace/services", marketH.GetServices)
	e.GET("/marketplace/services/featured", marketH.GetFeatured)
	e.GET("/marketplace/services/:id", marketH.GetService)
	e.GET("/marketplace/sellers/:id/reviews", marketH.GetSellerReviews)

	// Authenticated group
	g := e.Group("")
	g.Use(appmw.JWTMiddleware)

	g.GET("/me", sessionH.Me)
	g.POST("/logout", auth.Logout)
	g.PATCH("/user/profile", user.UpdateProfile)
	g.POST("/user/become-seller", sessionH.BecomeSeller)
	g.POST("/user/switch-mode", sessionH.SwitchMode)

	// Services (seller-managed)
	g.POST("/marketplace/services", marketH.CreateService, appmw.RequireRoles(user.RoleSeller, user.RoleAdmin))
	g.GET("/marketplace/services/me", marketH.GetMyServices)
	g.PUT("/marketplace/services/:id", marketH.UpdateService)
	g.DELETE("/marketplace/services/:id", marketH.DeleteService)

	// Orders
	g.POST("/marketplace/orders", marketH.CreateOrder)
	g.GET("/marketplace/orders", marketH.GetUserOrders)
	g.PATCH("/marketplace/orders/:id/status", marketH.UpdateOrderStatus)
	g.POST("/marketplace/orders/:id/revision", marketH.RequestRevision)
	g.GET("/marketplace/dashboard", marketH.GetDashboard)

	// Reviews
	g.POST("/marketplace/orders/:id/review", marketH.CreateReview)

	// Messaging
	g.POST("/messages", messagingH.SendMessage)
	g.GET("/messages/conversations", messagingH.GetConversations)
	g.GET("/messages/thread/:id", messagingH.GetThread)
	g.POST("/messages/thread/:id/read", messagingH.MarkAsRead)

	// Admin routes
	adminGroup := e.Group("/admin")
	adminGroup.Use(appmw.JWTMiddleware)
	adminGroup.Use(appmw.AdminGuard)
	adminGroup.GET("/stats", admin.Stats)
	adminGroup.GET("/settings", adminH.GetSettings)
	adminGroup.PUT("/settings", adminH.UpdateSettings)
	adminGroup.GET("/users", admin.ListUsers)
	adminGroup.POST("/users/:id/suspend", admin.SuspendUser)
	adminGroup.POST("/users/:id/activate", admin.ActivateUser)
	adminGroup.GET("/services", admin.ListServices)
	adminGroup.POST("/services/:id/approve", admin.ApproveService)
	adminGroup.POST("/services/:id/reject", admin.RejectService)
	adminGroup.GET("/orders", admin.ListOrders)
	adminGroup.POST("/orders/:id/resolve", adminOrdersH.ResolveDispute)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("API server listening on :%s", port)
	if err := e.Start(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
