package v1

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"tenderdesk/internal/core/events"
	"tenderdesk/internal/domain/audit"
	"tenderdesk/internal/domain/catalogs/company"
	"tenderdesk/internal/domain/catalogs/employee"
	"tenderdesk/internal/domain/catalogs/material"
	"tenderdesk/internal/domain/documents/tender"
	"tenderdesk/internal/domain/reports"
	"tenderdesk/internal/domain/staging"
	"tenderdesk/internal/infrastructure/http/v1/handlers"
	"tenderdesk/internal/infrastructure/http/v1/middleware"
	infrastaging "tenderdesk/internal/infrastructure/staging"
	"tenderdesk/internal/infrastructure/storage/postgres"
	"tenderdesk/internal/infrastructure/storage/postgres/catalog_repo"
	"tenderdesk/internal/infrastructure/storage/postgres/document_repo"
	"tenderdesk/internal/infrastructure/storage/postgres/report_repo"
	"tenderdesk/pkg/logger"
	"tenderdesk/pkg/numerator"
)

// materialRoutePaths maps each material kind to its route segment.
var materialRoutePaths = map[material.Kind]string{
	material.KindRawMaterial:  "/raw-materials",
	material.KindLocalProduct: "/local-products",
	material.KindForeign:      "/foreign-products",
	material.KindManufactured: "/manufactured-products",
}

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool
	Pool *postgres.Pool

	// TxManager runs repository operations in transactions
	TxManager *postgres.TxManager

	// Redis is the primary staging tier; nil falls back to memory only
	Redis *redis.Client

	// Logger for request logging
	Logger *logger.Logger

	// Numerator for document number generation
	Numerator numerator.Generator

	// Bus delivers in-process domain events
	Bus *events.Bus

	// Outbox persists events alongside the owning transaction (optional)
	Outbox events.Outbox

	// Blobs stores attachment bytes (optional; uploads fail without it)
	Blobs tender.BlobStore

	// Metrics records bulk refresh outcomes (optional)
	Metrics tender.RefreshMetrics

	// Audit is the change journal (optional)
	Audit *postgres.AuditService

	// IdempotencyEnabled enables idempotency middleware
	IdempotencyEnabled bool

	// IdempotencyTTL bounds replay of completed keys (default 10m)
	IdempotencyTTL time.Duration

	// StagingTTL bounds staged entry lifetime (default staging.DefaultTTL)
	StagingTTL time.Duration
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no identity required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Redis)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		v1.Use(middleware.UserContext())

		if cfg.IdempotencyEnabled {
			ttl := cfg.IdempotencyTTL
			if ttl <= 0 {
				ttl = 10 * time.Minute
			}
			store := postgres.NewIdempotencyStore(cfg.Pool, cfg.TxManager, ttl)
			v1.Use(middleware.Idempotency(store))
		}

		registry := buildRegistry(v1, cfg)
		registerTenderRoutes(v1, cfg, registry)
		registerReportRoutes(v1, cfg)
	}

	return router
}

// buildRegistry registers catalog endpoints and returns the material
// registry the reconciliation engine resolves against.
func buildRegistry(rg *gin.RouterGroup, cfg RouterConfig) *material.Registry {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	// --- COMPANIES ---
	{
		repo := catalog_repo.NewCompanyRepo(cfg.TxManager)
		service := company.NewService(repo, cfg.TxManager, cfg.Numerator)
		handler := handlers.NewCompanyHandler(baseHandler, service)
		group := catalogs.Group("/companies")
		group.GET("/by-tax-number/:taxNumber", handler.FindByTaxNumber)
		RegisterCatalogRoutes(group, handler)
	}

	// --- EMPLOYEES ---
	{
		repo := catalog_repo.NewEmployeeRepo(cfg.TxManager)
		service := employee.NewService(repo, cfg.TxManager, cfg.Numerator)
		handler := handlers.NewEmployeeHandler(baseHandler, service)
		group := catalogs.Group("/employees")
		group.GET("/by-company/:companyRef", handler.ListByCompany)
		RegisterCatalogRoutes(group, handler)
	}

	// --- MATERIAL CATALOGS (one group per kind) ---
	registry := material.NewRegistry(map[material.Kind]material.Source{})
	for _, kind := range material.AllKinds {
		repo, err := catalog_repo.NewMaterialRepo(cfg.TxManager, kind)
		if err != nil {
			// Unreachable: AllKinds only holds known kinds.
			panic(err)
		}
		service := material.NewService(kind, repo, cfg.TxManager, cfg.Numerator, cfg.Bus)
		registry.Register(kind, service)

		handler := handlers.NewMaterialHandler(baseHandler, service)
		group := catalogs.Group(materialRoutePaths[kind])
		group.GET("/active", handler.ListActive)
		RegisterCatalogRoutes(group, handler)
	}

	return registry
}

// registerTenderRoutes registers the tender document, line item, staging,
// and attachment endpoints.
func registerTenderRoutes(rg *gin.RouterGroup, cfg RouterConfig, registry *material.Registry) {
	baseHandler := handlers.NewBaseHandler()

	tenderRepo := document_repo.NewTenderRepo(cfg.TxManager)
	tenderService := tender.NewService(tender.Config{
		Repo:      tenderRepo,
		Registry:  registry,
		TxManager: cfg.TxManager,
		Numerator: cfg.Numerator,
		Bus:       cfg.Bus,
		Outbox:    cfg.Outbox,
		Blobs:     cfg.Blobs,
		Metrics:   cfg.Metrics,
	})

	tenderService.Hooks().OnBeforeCreate(func(ctx context.Context, doc *tender.Tender) error {
		audit.EnrichCreatedByDirect(ctx, &doc.CreatedBy, &doc.UpdatedBy)
		return nil
	})
	tenderService.Hooks().OnBeforeUpdate(func(ctx context.Context, doc *tender.Tender) error {
		audit.EnrichUpdatedByDirect(ctx, &doc.UpdatedBy)
		return nil
	})
	if cfg.Audit != nil {
		tenderService.Hooks().OnAfterCreate(func(ctx context.Context, doc *tender.Tender) error {
			return cfg.Audit.LogChange(ctx, "tender", doc.RefID, postgres.AuditActionCreate, map[string]any{
				"number": doc.Number,
				"title":  doc.Title,
				"status": string(doc.Status),
			})
		})
		tenderService.Hooks().OnAfterUpdate(func(ctx context.Context, doc *tender.Tender) error {
			return cfg.Audit.LogChange(ctx, "tender", doc.RefID, postgres.AuditActionUpdate, map[string]any{
				"title":       doc.Title,
				"status":      string(doc.Status),
				"totalAmount": doc.TotalAmount.String(),
				"itemCount":   doc.ItemCount,
			})
		})
		tenderService.Hooks().OnBeforeDelete(func(ctx context.Context, doc *tender.Tender) error {
			return cfg.Audit.LogChange(ctx, "tender", doc.RefID, postgres.AuditActionDelete, nil)
		})
	}

	tenderHandler := handlers.NewTenderHandler(baseHandler, tenderService, cfg.Audit)

	stagingHandler := handlers.NewStagingHandler(baseHandler, buildStagingGuard(cfg), registry)

	tenders := rg.Group("/document/tenders")
	{
		tenders.GET("", tenderHandler.List)
		tenders.POST("", tenderHandler.Create)
		tenders.GET("/:id", tenderHandler.Get)
		tenders.PUT("/:id", tenderHandler.Update)
		tenders.DELETE("/:id", tenderHandler.Delete)
		tenders.POST("/:id/status", tenderHandler.SetStatus)
		tenders.GET("/:id/history", tenderHandler.History)

		tenders.POST("/:id/items", tenderHandler.AddItem)
		tenders.PUT("/:id/items/:itemRef/quantity", tenderHandler.UpdateItemQuantity)
		tenders.DELETE("/:id/items/:itemRef", tenderHandler.DeleteItem)
		tenders.POST("/:id/refresh", tenderHandler.BulkRefresh)

		tenders.POST("/:id/attachments", tenderHandler.AttachFile)
		tenders.DELETE("/:id/attachments", tenderHandler.RemoveAttachment)

		tenders.POST("/:id/staging", stagingHandler.Stage)
		tenders.GET("/:id/staging", stagingHandler.List)
		tenders.DELETE("/:id/staging/:key", stagingHandler.Remove)
		tenders.DELETE("/:id/staging", stagingHandler.Clear)
	}
}

// buildStagingGuard assembles the staging store: Redis primary with memory
// fallback when Redis is configured, memory only otherwise.
func buildStagingGuard(cfg RouterConfig) *staging.Guard {
	memory := staging.NewMemoryStore(time.Minute)

	var store staging.Store = memory
	if cfg.Redis != nil {
		store = staging.NewTieredStore(infrastaging.NewRedisStore(cfg.Redis), memory)
	}

	return staging.NewGuard(store, cfg.StagingTTL)
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	repo := report_repo.NewReportRepo(cfg.TxManager)
	tenderRepo := document_repo.NewTenderRepo(cfg.TxManager)
	service := reports.NewService(repo, tenderRepo)
	handler := handlers.NewReportsHandler(baseHandler, service)

	group := rg.Group("/reports")
	{
		group.GET("/tender-summary", handler.TenderSummary)
		group.GET("/price-freshness", handler.PriceFreshness)
		group.GET("/tenders/:id/export", handler.ExportTender)
	}
}
