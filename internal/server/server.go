package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"tutorhours/internal/admin"
	"tutorhours/internal/auth"
	"tutorhours/internal/config"
	"tutorhours/internal/email"
	"tutorhours/internal/ledger"
	"tutorhours/internal/order"
	"tutorhours/internal/reservation"
	"tutorhours/internal/user"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
	http   *http.Server
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	userRepo := user.NewRepository(db)
	ledgerRepo := ledger.NewRepository(db)
	orderRepo := order.NewRepository(db)
	reservationRepo := reservation.NewRepository(db)

	userService := user.NewService(userRepo, cfg.JWTSecret)
	orderService := order.NewService(orderRepo, userRepo, emailService)
	reservationService := reservation.NewService(reservationRepo)
	dispatcher := admin.NewDispatcher(orderService, reservationService)

	userHandler := user.NewHandler(userService)
	ledgerHandler := ledger.NewHandler(ledgerRepo)
	orderHandler := order.NewHandler(orderService)
	reservationHandler := reservation.NewHandler(reservationService)
	adminHandler := admin.NewHandler(dispatcher)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.POST("/user/login/track", userHandler.TrackLogin)
		protected.GET("/user/study_hours", ledgerHandler.GetStudyHours)
		protected.GET("/user/profile", orderHandler.GetUserProfile)

		protected.POST("/orders", orderHandler.Create)
		protected.POST("/orders/hours", orderHandler.CreateHourOrder)
		protected.GET("/orders", orderHandler.ListMine)

		protected.POST("/reservations", reservationHandler.Create)
		protected.GET("/reservations", reservationHandler.List)
		protected.DELETE("/reservations/:reservationID", reservationHandler.Delete)
		protected.POST("/reservations/hide_rejected", reservationHandler.HideRejected)
	}

	staffMiddleware := auth.RequireRole(auth.RoleStaff)
	staff := router.Group("/admin")
	staff.Use(authMiddleware, staffMiddleware)
	{
		staff.GET("/orders", orderHandler.ListAll)
		staff.POST("/orders/:orderID/approve", orderHandler.Approve)
		staff.POST("/orders/:orderID/reject", orderHandler.Reject)

		staff.GET("/reservations", reservationHandler.ListAll)
		staff.PATCH("/reservations/:reservationID", reservationHandler.UpdateStatus)

		staff.POST("/actions", adminHandler.Apply)

		staff.GET("/ledger", ledgerHandler.ListAccounts)
		staff.PATCH("/ledger/:userID", ledgerHandler.SetBalance)
		staff.GET("/ledger/:userID/entries", ledgerHandler.GetEntries)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))

	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
