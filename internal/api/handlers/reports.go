package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/oilslickpad/storeops/internal/repository"
	"github.com/oilslickpad/storeops/internal/service"
	apperrors "github.com/oilslickpad/storeops/pkg/errors"
)

const (
	defaultTagMax   = 250
	defaultAuditMax = 50
	maxAuditLimit   = 500
)

// CollectionReporter runs the collection health monitor
type CollectionReporter interface {
	Run(ctx context.Context, opts service.RunOptions) (*service.HealthReport, error)
}

// TagReporter runs the tag audit
type TagReporter interface {
	Run(ctx context.Context, opts service.RunOptions) (*service.TagReport, error)
}

// HandleCollectionReport handles GET /v1/reports/collections. It never writes to the store.
func HandleCollectionReport(monitor CollectionReporter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := service.RunOptions{Collection: c.Query("collection")}
		report, err := monitor.Run(c.Request.Context(), opts)
		if err != nil {
			respondRunError(c, logger, "collection health", err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// HandleTagReport handles GET /v1/reports/tags?max=N. It never writes to the store.
func HandleTagReport(auditor TagReporter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, ok := positiveQuery(c, "max", defaultTagMax)
		if !ok {
			return
		}
		report, err := auditor.Run(c.Request.Context(), service.RunOptions{Max: n})
		if err != nil {
			respondRunError(c, logger, "tag audit", err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// HandleRecentAudit handles GET /v1/audit/recent?limit=N
func HandleRecentAudit(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, ok := positiveQuery(c, "limit", defaultAuditMax)
		if !ok {
			return
		}
		if limit > maxAuditLimit {
			limit = maxAuditLimit
		}

		events, err := repos.Audit.ListRecent(c.Request.Context(), limit)
		if err != nil {
			logger.Error("Failed to list audit events", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"events": events,
			"count":  len(events),
		})
	}
}

func positiveQuery(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be a positive integer"})
		return 0, false
	}
	return n, true
}

func respondRunError(c *gin.Context, logger *zap.Logger, run string, err error) {
	var verr *apperrors.ErrValidation
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "fields": verr.Fields})
	case errors.Is(err, apperrors.ErrFetchFailed):
		logger.Error("Report run aborted", zap.String("run", run), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch live store state"})
	default:
		logger.Error("Report run failed", zap.String("run", run), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
