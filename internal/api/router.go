package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/kreatask/kreatask-api/docs"
	"github.com/kreatask/kreatask-api/internal/api/handler"
	"github.com/kreatask/kreatask-api/internal/api/middleware"
	"github.com/kreatask/kreatask-api/internal/core/domain"
	"github.com/kreatask/kreatask-api/internal/core/ports"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	JWTSecret   string
	Users       middleware.UserLookup
	Auth        ports.AuthService
	Tasks       ports.TaskService
	UserAdmin   ports.UserService
	Leaderboard ports.LeaderboardService
	Permissions ports.PermissionService
	Assistant   ports.AssistantService
	Events      handler.EventDispatcher
	Readiness   map[string]handler.Pinger
	Log         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddleware("kreatask_http"))

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewHealthDependenciesHandler(d.Readiness).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	v1 := e.Group("/v1", middleware.Auth(d.JWTSecret, d.Users))
	can := func(a domain.Action) echo.MiddlewareFunc { return middleware.RequirePermission(d.Permissions, a) }

	// --- Account ---
	users := handler.NewUserHandler(d.UserAdmin)
	v1.GET("/me", users.Me)
	v1.PUT("/me/avatar", users.UploadAvatar)
	v1.GET("/users", users.List, can(domain.ActionManageUsers))
	v1.PUT("/users/:id/role", users.ChangeRole)
	v1.DELETE("/users/:id", users.Delete)

	// Everything below needs an assigned role.
	staff := v1.Group("", middleware.RequireAssignedRole())

	// Colleague profiles, e.g. task assignees; the full directory needs manage_users.
	staff.GET("/users/:id", users.Get)

	// --- Tasks ---
	tasks := handler.NewTaskHandler(d.Tasks)
	staff.GET("/tasks", tasks.List)
	staff.POST("/tasks", tasks.Create)
	staff.GET("/tasks/board", tasks.Board)
	staff.GET("/tasks/:id", tasks.Get)
	staff.PATCH("/tasks/:id", tasks.Update)
	staff.DELETE("/tasks/:id", tasks.Delete)
	staff.POST("/tasks/:id/status", tasks.ChangeStatus)
	staff.POST("/tasks/:id/revisions", tasks.RequestRevision)
	staff.POST("/tasks/:id/reevaluate", tasks.Reevaluate)
	staff.POST("/tasks/:id/comments", tasks.AddComment)
	staff.GET("/reports/tasks", tasks.Report)

	// --- Async status moves ---
	events := handler.NewEventHandler(d.Events)
	staff.POST("/tasks/events", events.Receive)
	staff.POST("/tasks/events/batch", events.ReceiveBatch)

	// --- Leaderboard ---
	lb := handler.NewLeaderboardHandler(d.Leaderboard)
	staff.GET("/leaderboard", lb.Get)
	staff.GET("/leaderboard/me", lb.MyStanding)
	staff.GET("/leaderboard/users/:id", lb.Standing)

	// --- Settings ---
	perms := handler.NewPermissionHandler(d.Permissions)
	staff.GET("/settings/permissions", perms.Table, can(domain.ActionManageSettings))
	staff.PUT("/settings/permissions", perms.Set, can(domain.ActionManageSettings))

	// --- Assistant ---
	assistant := handler.NewAssistantHandler(d.Assistant)
	staff.POST("/assistant/summarize", assistant.Summarize)
	staff.POST("/assistant/translate", assistant.Translate)
	staff.POST("/assistant/suggest-tasks", assistant.SuggestTasks)
	staff.POST("/assistant/chat", assistant.Chat)

	return e
}
