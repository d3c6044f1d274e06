package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/convo-server/internal/api/http/handler"
	"github.com/dtroode/convo-server/internal/api/http/middleware"
	"github.com/dtroode/convo-server/internal/logger"
	"github.com/dtroode/convo-server/internal/model"
	"github.com/dtroode/convo-server/internal/service"
)

// Services groups the application services the routes dispatch to.
type Services struct {
	Identity     *service.Identity
	Auth         *service.Auth
	Conversation *service.Conversation
}

// Router builds the gin engine with every public and protected route.
type Router struct {
	registerService     handler.RegisterService
	loginService        handler.LoginService
	accountService      handler.AccountService
	conversationService handler.ConversationService
	tokenService        middleware.TokenService
	contextManager      model.ContextManager
	logger              *logger.Logger
}

func New(services Services, contextManager model.ContextManager, logger *logger.Logger) *Router {
	return &Router{
		registerService:     services.Identity,
		loginService:        services.Auth,
		accountService:      services.Identity,
		conversationService: services.Conversation,
		tokenService:        services.Auth.Tokens(),
		contextManager:      contextManager,
		logger:              logger,
	}
}

// Register returns the configured HTTP handler.
func (r *Router) Register() http.Handler {
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.NewLogging(r.logger).Handle(),
		gin.CustomRecovery(r.recover),
	)
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)

	public := engine.Group("/")
	protected := engine.Group("/")
	protected.Use(authenticate.Handle())

	r.registerAuthRoutes(public, protected)
	r.registerUserRoutes(protected)
	r.registerConversationRoutes(protected)

	return engine
}

func (r *Router) registerAuthRoutes(public, protected *gin.RouterGroup) {
	authHandler := handler.NewAuth(r.registerService, r.loginService, r.contextManager, r.logger)

	public.GET("/home", handler.Home)
	public.POST("/register", authHandler.Register)
	public.POST("/login", authHandler.Login)
	protected.GET("/protected", authHandler.Protected)
}

func (r *Router) registerUserRoutes(protected *gin.RouterGroup) {
	userHandler := handler.NewUser(r.accountService, r.contextManager, r.logger)

	protected.GET("/user", userHandler.Get)
	protected.DELETE("/delete_account", userHandler.Delete)
}

func (r *Router) registerConversationRoutes(protected *gin.RouterGroup) {
	conversationHandler := handler.NewConversation(r.conversationService, r.contextManager, r.logger)

	protected.POST("/get_response", conversationHandler.Respond)
	protected.GET("/history", conversationHandler.List)
	protected.GET("/history/:id", conversationHandler.Get)
	protected.DELETE("/delete_chat/:id", conversationHandler.Delete)
}

func (r *Router) recover(c *gin.Context, recovered any) {
	r.logger.Error("HTTP router: handler panicked",
		"path", c.FullPath(),
		"request_id", middleware.RequestIDFromContext(c),
		"panic", recovered)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
