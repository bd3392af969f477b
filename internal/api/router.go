package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"astrocrm/internal/api/controllers"
	"astrocrm/internal/config"
	"astrocrm/internal/models/db_models"
	"astrocrm/pkg/metrics"
	"astrocrm/pkg/middleware"
	"astrocrm/pkg/utils"
)

// Handlers groups the controllers mounted by the router.
type Handlers struct {
	Account      *controllers.AccountController
	Admin        *controllers.AdminController
	Consultation *controllers.ConsultationController
	History      *controllers.ConsultationHistoryController
	Client       *controllers.ClientController
	Category     *controllers.CategoryController
}

func NewRouter(h Handlers, guard *middleware.Guard, m *metrics.Metrics, cors config.CORSConfig, log *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(log))
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cors.AllowedOrigins))
	r.Use(m.Middleware())

	r.NoRoute(func(c *gin.Context) {
		utils.RespondError(c, http.StatusNotFound, "Route not found")
	})

	r.GET("/health", func(c *gin.Context) {
		utils.RespondSuccess(c, gin.H{"status": "ok"}, "")
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	RegisterRoutes(r.Group("/api"), h, guard)
	return r
}

func RegisterRoutes(api *gin.RouterGroup, h Handlers, guard *middleware.Guard) {
	auth := api.Group("/auth")
	auth.POST("/register", h.Account.Register)
	auth.POST("/login", h.Account.Login)
	auth.GET("/profile", guard.Authenticate(), h.Account.Profile)

	admin := api.Group("/admin", guard.Authenticate(), guard.RequireRole(db_models.RoleAdmin))
	admin.GET("/stats", h.Admin.Stats)
	admin.GET("/users", h.Admin.ListAccounts)
	admin.GET("/users/pending", h.Admin.PendingAccounts)
	admin.PUT("/users/:userId/approve", h.Admin.Approve)
	admin.PUT("/users/:userId/reject", h.Admin.Reject)
	admin.DELETE("/users/:userId", h.Admin.DeleteAccount)

	approved := api.Group("", guard.Authenticate(), guard.RequireApproval())

	clients := approved.Group("/clients")
	clients.POST("", h.Client.Create)
	clients.GET("", h.Client.List)
	clients.GET("/:id", h.Client.Get)
	clients.PUT("/:id", h.Client.Update)
	clients.DELETE("/:id", h.Client.Delete)

	categories := approved.Group("/categories")
	categories.POST("", h.Category.CreateCategory)
	categories.GET("", h.Category.ListCategories)
	categories.GET("/:id", h.Category.GetCategory)
	categories.PUT("/:id", h.Category.UpdateCategory)
	categories.DELETE("/:id", h.Category.DeleteCategory)

	subcategories := approved.Group("/subcategories")
	subcategories.POST("", h.Category.CreateSubcategory)
	subcategories.GET("", h.Category.ListSubcategories)
	subcategories.GET("/category/:categoryId", h.Category.ListSubcategoriesByCategory)
	subcategories.GET("/:id", h.Category.GetSubcategory)
	subcategories.PUT("/:id", h.Category.UpdateSubcategory)
	subcategories.DELETE("/:id", h.Category.DeleteSubcategory)

	consultations := approved.Group("/consultations")
	consultations.POST("", h.Consultation.Create)
	consultations.GET("", h.Consultation.List)
	consultations.GET("/my", h.Consultation.ListMine)
	consultations.GET("/details/:id", h.Consultation.Get)
	consultations.GET("/user/:userId", h.Consultation.ListByUser)
	consultations.GET("/:id/pdf", h.Consultation.DownloadPDF)
	consultations.GET("/:id/pdf/view", h.Consultation.ViewPDF)
	consultations.PUT("/:id", h.Consultation.Update)
	consultations.DELETE("/:id", h.Consultation.Delete)

	history := approved.Group("/consultation-history")
	history.GET("/my", h.History.ListMine)
	history.GET("/consultation/:consultationId", h.History.ListForConsultation)
	history.POST("/consultation/:consultationId", h.History.Add)
	history.GET("/:historyId", h.History.Get)
	history.PUT("/:historyId", h.History.Update)
	history.DELETE("/:historyId", h.History.Delete)
}
