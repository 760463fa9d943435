package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oksasatya/go-ddd-identity/internal/container"
	"github.com/oksasatya/go-ddd-identity/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-identity/internal/metrics"
)

type DebugModule struct {
	Gatherer prometheus.Gatherer
}

func NewDebugModule(g prometheus.Gatherer) *DebugModule { return &DebugModule{Gatherer: g} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	if m.Gatherer != nil {
		rg.GET("/metrics", rl, gin.WrapH(metrics.Handler(m.Gatherer)))
	}
}
