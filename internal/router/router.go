package router

import (
	"github.com/GaneshVarma1/Goodmoney/internal/config"
	"github.com/GaneshVarma1/Goodmoney/internal/copilot"
	"github.com/GaneshVarma1/Goodmoney/internal/handler"
	"github.com/GaneshVarma1/Goodmoney/internal/mail"
	"github.com/GaneshVarma1/Goodmoney/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and all API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")

	// register/login do not require auth
	authHandler := handler.NewAuthHandler(db, cfg.JWT.Secret, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret, db))

	protected.GET("/me", handler.GetMe)
	protected.POST("/profile", handler.UpdateProfile(db))
	protected.POST("/profile/password", handler.ChangePassword(db))

	txHandler := handler.NewTransactionHandler(db)
	protected.POST("/transactions", txHandler.CreateTransaction)
	protected.GET("/transactions", txHandler.ListTransactions)
	protected.PUT("/transactions/:id", txHandler.UpdateTransaction)
	protected.DELETE("/transactions/:id", txHandler.DeleteTransaction)
	protected.GET("/stats/monthly", txHandler.GetMonthlyStats)

	categoryHandler := handler.NewCategoryHandler(db)
	protected.POST("/categories", categoryHandler.CreateCategory)
	protected.GET("/categories", categoryHandler.ListCategories)
	protected.PUT("/categories/:id", categoryHandler.UpdateCategory)
	protected.DELETE("/categories/:id", categoryHandler.DeleteCategory)

	goalHandler := handler.NewGoalHandler(db)
	protected.POST("/goals", goalHandler.CreateGoal)
	protected.GET("/goals", goalHandler.ListGoals)
	protected.PUT("/goals/:id", goalHandler.UpdateGoal)
	protected.DELETE("/goals/:id", goalHandler.DeleteGoal)

	mailer := mail.NewClient(cfg.Mail)
	statementHandler := handler.NewStatementHandler(db, mailer)
	protected.GET("/export/csv", statementHandler.ExportCSV)
	protected.GET("/export/xlsx", statementHandler.ExportXLSX)
	protected.POST("/statement/email", statementHandler.EmailStatement)

	copilotSvc := copilot.NewService(
		cfg.AI,
		&copilot.GormTransactionSource{DB: db},
		&copilot.GormMessageStore{DB: db},
		copilot.NewCompletionClient(cfg.AI),
	)
	copilotHandler := handler.NewCopilotHandler(copilotSvc)
	protected.POST("/copilot", copilotHandler.Chat)
	protected.GET("/copilot/history", copilotHandler.History)
	protected.GET("/copilot/test", copilotHandler.Test)

	return r
}
