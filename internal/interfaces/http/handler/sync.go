package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/cartbridge/backend/internal/domain/shared"
	syncdom "github.com/cartbridge/backend/internal/domain/sync"
	"github.com/cartbridge/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SyncService is the slice of the application service the handler needs.
type SyncService interface {
	Step(ctx context.Context, cursor syncdom.Cursor) (*syncdom.StepResult, error)
	ProductCount(ctx context.Context) (int, error)
}

// SyncHandler exposes the chunked catalog sync over HTTP. The server holds
// no run state; the client carries the cursor between calls.
type SyncHandler struct {
	BaseHandler
	svc    SyncService
	logger *zap.Logger
}

// NewSyncHandler creates a SyncHandler. svc may be nil when the source
// database is not configured; every call then reports CONFIG_MISSING.
func NewSyncHandler(svc SyncService, logger *zap.Logger) *SyncHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncHandler{svc: svc, logger: logger}
}

// RegisterRoutes registers the sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.POST("/step", h.Step)
		sync.GET("/status", h.Status)
	}
}

// Step executes one bounded unit of sync work and returns the next cursor.
func (h *SyncHandler) Step(c *gin.Context) {
	if h.svc == nil {
		h.HandleError(c, shared.ErrConfigurationMissing)
		return
	}

	// An empty body starts a fresh run at cursor zero.
	var req dto.StepRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "invalid step request body")
		return
	}

	cursor := syncdom.Cursor{
		ProductOffset:   req.Offset,
		VariationOffset: req.VariationOffset,
	}

	result, err := h.svc.Step(c.Request.Context(), cursor)
	if err != nil {
		h.logger.Error("sync step failed",
			zap.Int("offset", cursor.ProductOffset),
			zap.Int("variation_offset", cursor.VariationOffset),
			zap.Error(err))
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.StepResponse{
		Message:           result.Message,
		HasMoreVariations: result.HasMoreVariations,
		VariationOffset:   result.Next.VariationOffset,
		Offset:            result.Next.ProductOffset,
		HasMoreProducts:   result.HasMoreProducts,
	})
}

// Status reports how many source products are eligible for sync.
func (h *SyncHandler) Status(c *gin.Context) {
	if h.svc == nil {
		h.HandleError(c, shared.ErrConfigurationMissing)
		return
	}

	count, err := h.svc.ProductCount(c.Request.Context())
	if err != nil {
		h.logger.Error("sync status failed", zap.Error(err))
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.StatusResponse{ProductCount: count})
}
