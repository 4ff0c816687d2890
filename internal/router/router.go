package router

import (
	"time"

	"tillpoint/internal/config"
	"tillpoint/internal/handler"
	"tillpoint/internal/middleware"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"
	"tillpoint/internal/service"
	"tillpoint/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	returnRepo := repository.NewReturnRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo)
	inventorySvc := service.NewInventoryService(productRepo)
	ledgerSvc := service.NewLedgerService(ledgerRepo)
	customerSvc := service.NewCustomerService(customerRepo)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	saleSvc := service.NewSaleService(saleRepo, productRepo, inventorySvc, dispatcher)
	orderSvc := service.NewOrderService(orderRepo, productRepo, inventorySvc, ledgerSvc)
	returnSvc := service.NewReturnService(returnRepo, saleRepo, ledgerSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	returnsH := handler.NewReturnsHandler(returnSvc)
	ledgerH := handler.NewLedgerHandler(ledgerSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	priceH := handler.NewPriceLookupHandler(productRepo, rdb,
		time.Duration(cfg.PriceCacheTTLSeconds)*time.Second)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Price check — no auth required
	r.GET("/v1/price/:barcode", priceH.GetByBarcode)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RoleAdministrator, model.RoleManager, model.RoleCashier)
	managerUp := middleware.RequireRole(model.RoleAdministrator, model.RoleManager)
	adminOnly := middleware.RequireRole(model.RoleAdministrator)

	v1 := r.Group("/v1", jwtMW)
	{
		// Catalog — everyone reads, managers and administrators write
		v1.GET("/products", anyRole, productsH.List)
		v1.GET("/products/:id", anyRole, productsH.Get)
		v1.GET("/products/barcode/:barcode", anyRole, productsH.GetByBarcode)
		products := v1.Group("/products", managerUp)
		{
			products.POST("", productsH.Create)
			products.PUT("/:id", productsH.Update)
			products.PUT("/:id/position", productsH.UpdatePosition)
			products.PATCH("/:id/quantity", productsH.AdjustQuantity)
			products.DELETE("/:id", productsH.Delete)
		}

		// Sales — cashier territory
		sales := v1.Group("/sales", anyRole)
		{
			sales.POST("", salesH.Create)
			sales.GET("/:id", salesH.Get)
			sales.POST("/:id/items", salesH.AttachItem)
			sales.PATCH("/:id/items", salesH.EditItemQuantity)
			sales.PUT("/:id/discount", salesH.SetDiscount)
			sales.PUT("/:id/items/discount", salesH.SetLineDiscount)
			sales.POST("/:id/close", salesH.Close)
			sales.POST("/:id/pay", salesH.Pay)
			sales.DELETE("/:id", salesH.Delete)
			sales.GET("/:id/points", salesH.ComputePoints)
		}

		// Restocking orders — managers and administrators
		orders := v1.Group("/orders", managerUp)
		{
			orders.POST("", ordersH.Issue)
			orders.POST("/paid", ordersH.IssueAndPay)
			orders.GET("", ordersH.List)
			orders.GET("/:id", ordersH.Get)
			orders.POST("/:id/pay", ordersH.Pay)
			orders.POST("/:id/arrival", ordersH.RecordArrival)
		}

		// Returns — cashiers handle them at the till
		returns := v1.Group("/returns", anyRole)
		{
			returns.POST("", returnsH.Create)
			returns.GET("/:id", returnsH.Get)
			returns.POST("/:id/items", returnsH.AttachItem)
			returns.PATCH("/:id/items", returnsH.EditItemQuantity)
			returns.POST("/:id/close", returnsH.Close)
			returns.POST("/:id/reimburse", returnsH.Reimburse)
			returns.DELETE("/:id", returnsH.Delete)
		}

		// Ledger — balance visible to managers, override is administrative
		v1.GET("/ledger/balance", managerUp, ledgerH.GetBalance)
		v1.PUT("/ledger/balance", adminOnly, ledgerH.SetBalance)

		// Customers and loyalty cards
		customers := v1.Group("/customers", anyRole)
		{
			customers.POST("", customersH.Create)
			customers.GET("", customersH.List)
			customers.GET("/:id", customersH.Get)
			customers.PUT("/:id", customersH.Update)
			customers.DELETE("/:id", customersH.Delete)
			customers.PATCH("/cards/:card/points", customersH.ModifyPoints)
		}

		// User administration
		users := v1.Group("/users", adminOnly)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.PUT("/:id", authH.UpdateUser)
			users.DELETE("/:id", authH.DeleteUser)
		}
	}

	return r
}
