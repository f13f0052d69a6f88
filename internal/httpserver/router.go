package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"jacket-survey/internal/domain"
	"jacket-survey/internal/metrics"
	"jacket-survey/internal/recommend"
	inventorysvc "jacket-survey/internal/service/inventory"
	membersvc "jacket-survey/internal/service/member"
	recommendsvc "jacket-survey/internal/service/recommendation"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type memberService interface {
	Lookup(ctx context.Context, code string) (*domain.MemberRecord, error)
	Search(ctx context.Context, in membersvc.SearchInput) (*membersvc.Page, error)
	RecordSize(ctx context.Context, code string, in membersvc.SizeInput, staff string) (*domain.MemberRecord, error)
	ConfirmPickup(ctx context.Context, code string, p domain.Pickup, staff string) (*domain.MemberRecord, error)
	Report(ctx context.Context) (*domain.Report, error)
	Mirrored(ctx context.Context, in membersvc.MirrorInput) (*membersvc.MirrorPage, error)
	MirroredMember(ctx context.Context, code string) (*domain.MemberRecord, error)
}

type recommendationService interface {
	Recommend(ctx context.Context, in recommendsvc.Input) (*recommendsvc.Output, error)
	History(ctx context.Context, memberCode string) ([]domain.Recommendation, error)
	Chart() recommend.Chart
}

type inventoryService interface {
	Stock(ctx context.Context) (*inventorysvc.Stock, error)
}

// Deps carries the services the router dispatches to.
type Deps struct {
	MemberSvc      memberService
	RecommendSvc   recommendationService
	InventorySvc   inventoryService
	Metrics        *metrics.Metrics
	AllowedOrigins []string
}

type handlers struct {
	logger    *log.Logger
	members   memberService
	recommend recommendationService
	inventory inventoryService
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.MemberSvc == nil || deps.RecommendSvc == nil || deps.InventorySvc == nil {
		return nil, errors.New("httpserver: member, recommendation and inventory services are required")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		requestIDMiddleware(),
		gin.LoggerWithWriter(logger.Writer()),
		gin.Recovery(),
		metricsMiddleware(deps.Metrics),
	)
	if len(deps.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", requestIDHeader, staffHeader},
			ExposeHeaders:    []string{requestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	h := &handlers{
		logger:    logger,
		members:   deps.MemberSvc,
		recommend: deps.RecommendSvc,
		inventory: deps.InventorySvc,
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	v1 := router.Group("/v1")
	v1.GET("/sizes", h.listSizes)
	v1.POST("/recommendations", h.createRecommendation)
	v1.POST("/normalize/member", h.normalizeMember)
	v1.POST("/normalize/members", h.normalizeMembers)

	v1.GET("/members", h.searchMembers)
	v1.GET("/members/:code", h.getMember)
	v1.PUT("/members/:code/size", h.recordSize)
	v1.POST("/members/:code/pickup", h.confirmPickup)
	v1.GET("/members/:code/recommendations", h.memberRecommendations)

	v1.GET("/inventory", h.getInventory)
	v1.GET("/reports/sizes", h.sizeReport)
	v1.GET("/reports/members", h.mirroredMembers)
	v1.GET("/reports/members/:code", h.mirroredMember)

	router.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "ResourceNotFound", "route not found")
	})

	return router, nil
}
