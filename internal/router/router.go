package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/planner/api/handler"
)

// APIPrefix is the versioned base path of the public API.
const APIPrefix = "/api/v1"

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()
	r.NotFound = handlers.Health.NotFound
	r.PanicHandler = handlers.Health.Panic
	r.HandleMethodNotAllowed = false

	r.GET("/", handlers.Health.Root)
	r.GET("/health", handlers.Health.Check)

	api := r.Group(APIPrefix)

	// Auth routes
	api.POST("/auth/register", handlers.Auth.Register)
	api.POST("/auth/login", handlers.Auth.Login)
	api.GET("/auth/me", authMiddleware(handlers.Auth.Me))
	api.POST("/auth/logout", authMiddleware(handlers.Auth.Logout))

	// Task routes
	api.GET("/tasks", authMiddleware(handlers.Task.GetTasks))
	api.POST("/tasks", authMiddleware(handlers.Task.CreateTask))
	api.GET("/tasks/{id}", authMiddleware(handlers.Task.GetTask))
	api.PUT("/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	api.DELETE("/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))

	return r
}
