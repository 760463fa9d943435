package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Registry collects modules and API-wide middleware and mounts them on /api.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api")}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// RegisterAll mounts the middleware, every module and GET /api/healthz. Call once.
func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	r.API.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	for _, m := range r.modules {
		m.Register(r.API)
	}
	r.Engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "route not found"})
	})
}

// Routes lists the registered method and path pairs.
func (r *Registry) Routes() []string {
	info := r.Engine.Routes()
	out := make([]string, 0, len(info))
	for _, ri := range info {
		out = append(out, ri.Method+" "+ri.Path)
	}
	return out
}
