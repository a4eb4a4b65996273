// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/finance-tracker/categorizer/config"
	"github.com/finance-tracker/categorizer/internal/application/adapter"
	"github.com/finance-tracker/categorizer/internal/application/usecase/audit"
	"github.com/finance-tracker/categorizer/internal/application/usecase/auth"
	"github.com/finance-tracker/categorizer/internal/application/usecase/category"
	categoryrule "github.com/finance-tracker/categorizer/internal/application/usecase/category_rule"
	"github.com/finance-tracker/categorizer/internal/application/usecase/transaction"
	"github.com/finance-tracker/categorizer/internal/infra/server/router"
	"github.com/finance-tracker/categorizer/internal/integration/adapters"
	"github.com/finance-tracker/categorizer/internal/integration/cache"
	"github.com/finance-tracker/categorizer/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/categorizer/internal/integration/entrypoint/middleware"
	"github.com/finance-tracker/categorizer/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config      *config.Config
	DB          *gorm.DB
	Redis       *redis.Client
	Snapshots   adapter.RuleSnapshotProvider
	RateLimiter *middleware.RateLimiter
	Router      *router.Router
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil, in which case rule snapshots are read from the database on every request.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Injector {
	// Create repositories
	userRepo := persistence.NewUserRepository(db)
	categoryRepo := persistence.NewCategoryRepository(db)
	ruleRepo := persistence.NewCategoryRuleRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	auditRepo := persistence.NewAuditLogRepository(db)

	var snapshots adapter.RuleSnapshotProvider
	if redisClient != nil {
		snapshots = cache.NewRuleSnapshotCache(redisClient, ruleRepo, cfg.Redis.SnapshotTTL)
	} else {
		snapshots = cache.NewRepositorySnapshots(ruleRepo)
	}

	// Create adapters/services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenExpiry)

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)

	// Create category use cases
	listCategoriesUseCase := category.NewListCategoriesUseCase(categoryRepo)
	createCategoryUseCase := category.NewCreateCategoryUseCase(categoryRepo)
	updateCategoryUseCase := category.NewUpdateCategoryUseCase(categoryRepo)
	deleteCategoryUseCase := category.NewDeleteCategoryUseCase(categoryRepo, ruleRepo)

	// Create category rule use cases
	listRulesUseCase := categoryrule.NewListCategoryRulesUseCase(ruleRepo)
	createRuleUseCase := categoryrule.NewCreateCategoryRuleUseCase(ruleRepo, categoryRepo, transactionRepo, auditRepo, snapshots)
	updateRuleUseCase := categoryrule.NewUpdateCategoryRuleUseCase(ruleRepo, categoryRepo, auditRepo, snapshots)
	deleteRuleUseCase := categoryrule.NewDeleteCategoryRuleUseCase(ruleRepo, auditRepo, snapshots)
	reorderRulesUseCase := categoryrule.NewReorderCategoryRulesUseCase(ruleRepo, auditRepo, snapshots)
	testPatternUseCase := categoryrule.NewTestPatternUseCase()
	validatePatternUseCase := categoryrule.NewValidatePatternUseCase()
	previewPatternUseCase := categoryrule.NewPreviewPatternUseCase(transactionRepo)
	applyRulesUseCase := categoryrule.NewApplyRulesUseCase(snapshots, transactionRepo)

	// Create transaction use cases
	listTransactionsUseCase := transaction.NewListTransactionsUseCase(transactionRepo)
	createTransactionUseCase := transaction.NewCreateTransactionUseCase(transactionRepo, categoryRepo, snapshots)
	updateTransactionUseCase := transaction.NewUpdateTransactionUseCase(transactionRepo, categoryRepo, snapshots)
	deleteTransactionUseCase := transaction.NewDeleteTransactionUseCase(transactionRepo)
	bulkCategorizeTransactionsUseCase := transaction.NewBulkCategorizeTransactionsUseCase(transactionRepo, categoryRepo)
	importTransactionsUseCase := transaction.NewImportTransactionsUseCase(transactionRepo, categoryRepo, snapshots, transaction.ImportOptions{
		Workers: cfg.Rules.ImportWorkers,
		MaxRows: cfg.Rules.ImportMaxRows,
	})

	listAuditLogsUseCase := audit.NewListAuditLogsUseCase(auditRepo)

	// Create controllers
	healthController := controller.NewHealthController(databaseHealthChecker(db), cacheHealthChecker(redisClient))

	authController := controller.NewAuthController(
		registerUseCase,
		loginUseCase,
	)

	categoryController := controller.NewCategoryController(
		listCategoriesUseCase,
		createCategoryUseCase,
		updateCategoryUseCase,
		deleteCategoryUseCase,
	)

	categoryRuleController := controller.NewCategoryRuleController(
		listRulesUseCase,
		createRuleUseCase,
		updateRuleUseCase,
		deleteRuleUseCase,
		reorderRulesUseCase,
		testPatternUseCase,
		validatePatternUseCase,
		previewPatternUseCase,
		applyRulesUseCase,
	)

	transactionController := controller.NewTransactionController(
		listTransactionsUseCase,
		createTransactionUseCase,
		updateTransactionUseCase,
		deleteTransactionUseCase,
		bulkCategorizeTransactionsUseCase,
		importTransactionsUseCase,
	)

	auditLogController := controller.NewAuditLogController(listAuditLogsUseCase)

	// Create middleware
	authRateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimit.MaxAttempts, cfg.RateLimit.Window)
	if cfg.IsTest() {
		authRateLimiter.Disable()
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	r := router.NewRouter(
		healthController,
		authController,
		categoryController,
		categoryRuleController,
		transactionController,
		auditLogController,
		authRateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config:      cfg,
		DB:          db,
		Redis:       redisClient,
		Snapshots:   snapshots,
		RateLimiter: authRateLimiter,
		Router:      r,
	}
}

func databaseHealthChecker(db *gorm.DB) controller.HealthChecker {
	return func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return sqlDB.PingContext(ctx) == nil
	}
}

func cacheHealthChecker(client *redis.Client) controller.HealthChecker {
	if client == nil {
		return nil
	}
	return func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return client.Ping(ctx).Err() == nil
	}
}
