package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/config"
	"github.com/oksasatya/go-ddd-identity/internal/metrics"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
)

// process-wide singletons built in main and read by the router.
// Optional clients (gcs, es, rabbit) stay nil when not configured.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client
	esClient    *elasticsearch.Client
	rabbitPub   helpers.JSONPublisher

	jwtManager *helpers.JWTManager

	registry  *prometheus.Registry
	collector *metrics.Collector
)

func SetConfig(c *config.Config)    { cfg = c }
func GetConfig() *config.Config     { return cfg }
func SetLogger(l *logrus.Logger)    { logger = l }
func GetLogger() *logrus.Logger     { return logger }
func SetPGPool(p *pgxpool.Pool)     { pgPool = p }
func GetPGPool() *pgxpool.Pool      { return pgPool }
func SetRedis(r *redis.Client)      { redisClient = r }
func GetRedis() *redis.Client       { return redisClient }
func SetGCS(s *storage.Client)      { gcsClient = s }
func GetGCS() *storage.Client       { return gcsClient }
func SetES(c *elasticsearch.Client) { esClient = c }
func GetES() *elasticsearch.Client  { return esClient }
func SetJWT(m *helpers.JWTManager)  { jwtManager = m }
func GetJWT() *helpers.JWTManager   { return jwtManager }

func SetRabbitPub(p helpers.JSONPublisher) { rabbitPub = p }
func GetRabbitPub() helpers.JSONPublisher  { return rabbitPub }

// SetMetrics registers the collector on reg; both are served by the debug module.
func SetMetrics(reg *prometheus.Registry, c *metrics.Collector) {
	registry = reg
	collector = c
}

func GetRegistry() *prometheus.Registry { return registry }

// GetRecorder returns the collector, or a no-op recorder when metrics are not set up.
func GetRecorder() metrics.Recorder {
	if collector == nil {
		return metrics.Nop{}
	}
	return collector
}
