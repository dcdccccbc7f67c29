package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"fotomuro/api/internal/cache"
	"fotomuro/api/internal/config"
	"fotomuro/api/internal/middleware"
	"fotomuro/api/internal/ratelimit"
	"fotomuro/api/internal/repository"
	"fotomuro/api/internal/service"
	"fotomuro/api/internal/storage"
)

type HandlerSet struct {
	log        zerolog.Logger
	cfg        *config.AppConfig
	db         *pgxpool.Pool
	cache      *redis.Client
	access     *service.AccessChecker
	upload     *service.UploadService
	moderation *service.ModerationService
	events     *service.EventService
	gallery    *service.GalleryService
	limiter    ratelimit.Limiter
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, redisClient *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	eventRepo := repository.NewEventRepository(db)
	imageRepo := repository.NewImageRepository(db)
	logRepo := repository.NewLogRepository(db)
	moderatorRepo := repository.NewModeratorRepository(db)
	cacheStore := cache.NewStore(redisClient)

	return HandlerSet{
		log:        log,
		cfg:        cfg,
		db:         db,
		cache:      redisClient,
		access:     service.NewAccessChecker(cfg.Security.SessionSecret, moderatorRepo),
		upload:     service.NewUploadService(eventRepo, imageRepo, logRepo, store, cfg, log),
		moderation: service.NewModerationService(imageRepo, logRepo, store, log),
		events:     service.NewEventService(eventRepo, store, cacheStore, log),
		gallery:    service.NewGalleryService(store, logRepo, cfg),
		limiter:    ratelimit.NewRedisLimiter(redisClient, cfg.RateLimit.Window, cfg.RateLimit.MaxRequests),
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	router.POST("/upload", middleware.RateLimit(h.limiter, h.log), h.Upload)

	router.GET("/events", h.ListEvents)
	router.POST("/events", middleware.Moderator(h.access), h.CreateEvent)

	router.GET("/images", h.ListImages)
	router.POST("/signed-url", h.SignedURL)

	moderate := router.Group("/moderate")
	moderate.Use(middleware.Moderator(h.access))
	{
		moderate.POST("/approve", h.Approve)
		moderate.POST("/reject", h.Reject)
		moderate.POST("/move-to-approved", h.MoveToApproved)
		moderate.POST("/move-to-rejected", h.MoveToRejected)
		moderate.POST("/delete", h.DeleteImage)
	}

	router.GET("/logs", middleware.Moderator(h.access), h.ListLogs)
}
