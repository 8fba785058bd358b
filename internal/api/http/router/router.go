package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mpetrov/user-service/internal/api/http/handler"
	"github.com/mpetrov/user-service/internal/api/http/middleware"
	"github.com/mpetrov/user-service/internal/logger"
	"github.com/mpetrov/user-service/internal/service"
	"github.com/mpetrov/user-service/internal/telemetry"
)

// Router assembles the HTTP engine for the user service: middleware chain,
// user routes and monitoring routes.
type Router struct {
	userService *service.User
	telemetry   *telemetry.Telemetry
	logger      *logger.Logger
	dbBacked    bool
}

// New creates new Router instance. dbBacked enables the /db-health endpoint
// for relational deployments.
func New(
	userService *service.User,
	telemetry *telemetry.Telemetry,
	logger *logger.Logger,
	dbBacked bool,
) *Router {
	return &Router{
		userService: userService,
		telemetry:   telemetry,
		logger:      logger,
		dbBacked:    dbBacked,
	}
}

// Register builds the gin engine with all middleware and routes.
func (r *Router) Register() *gin.Engine {
	e := gin.New()

	logging := middleware.NewLogging(r.logger)
	tracing := middleware.NewTelemetry(r.telemetry)

	e.Use(middleware.RequestID())
	e.Use(logging.Handle)
	e.Use(tracing.Handle)
	e.Use(cors.Default())
	e.Use(gin.CustomRecovery(r.recover))

	r.registerSystemRoutes(e)
	r.registerUserRoutes(e)

	return e
}

// recover converts an uncaught panic into the generic 500 envelope.
func (r *Router) recover(c *gin.Context, recovered any) {
	r.logger.Error("unhandled panic",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"panic", recovered)
	c.AbortWithStatusJSON(http.StatusInternalServerError,
		handler.NewErrorResponse("Internal Server Error", "An unexpected error occurred"))
}

func (r *Router) registerSystemRoutes(e *gin.Engine) {
	systemHandler := handler.NewSystem(r.userService, r.logger, r.dbBacked)

	e.GET("/", systemHandler.Root)
	e.GET("/health", systemHandler.Health)
	e.GET("/metrics", systemHandler.Metrics)
	e.GET("/error", systemHandler.Error)
	if r.dbBacked {
		e.GET("/db-health", systemHandler.DatabaseHealth)
	}
}

func (r *Router) registerUserRoutes(e *gin.Engine) {
	userHandler := handler.NewUser(r.userService, r.logger)

	users := e.Group("/users")
	{
		users.GET("", userHandler.List)
		users.POST("", userHandler.Create)
		users.GET("/:id", userHandler.Get)
		users.DELETE("/:id", userHandler.Delete)
	}
}
