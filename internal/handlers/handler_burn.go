package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fundtires/ledger_backend/internal/core/domain"
	portssvc "github.com/fundtires/ledger_backend/internal/core/ports/services"
	"github.com/fundtires/ledger_backend/internal/dto"
)

// burnHandler serves the burn dashboard payload.
type burnHandler struct {
	burnService portssvc.BurnStatsSvc
	historyDays int
}

func newBurnHandler(bs portssvc.BurnStatsSvc, historyDays int) *burnHandler {
	return &burnHandler{burnService: bs, historyDays: historyDays}
}

// registerBurnRoutes registers the burn statistics route.
func registerBurnRoutes(rg *gin.RouterGroup, burnService portssvc.BurnStatsSvc, historyDays int) {
	h := newBurnHandler(burnService, historyDays)
	rg.GET("/burns", h.getBurnStats)
}

// getBurnStats returns the running burn total, today's buckets, recent history
// and naive forward projections from the latest full day.
func (h *burnHandler) getBurnStats(c *gin.Context) {
	ctx := c.Request.Context()

	ledger, err := h.burnService.BurnLedger(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	history, err := h.burnService.BurnHistory(ctx, h.historyDays)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.BurnStatsResponse{
		TotalBurned:   int64(ledger.TotalBurned),
		LastUpdatedAt: ledger.LastUpdatedAt,
		History:       make([]dto.BurnBucketResponse, 0, len(history)),
	}
	today := domain.BucketDay(time.Now().UTC())
	for _, b := range history {
		bucket := dto.ToBurnBucketResponse(b)
		if b.Date.Equal(today) {
			resp.Today = &bucket
		}
		resp.History = append(resp.History, bucket)
	}
	if len(history) > 0 {
		daily := int64(history[0].TotalBurn)
		resp.Projections = dto.BurnProjectionsResponse{
			Weekly:  daily * 7,
			Monthly: daily * 30,
		}
	}
	c.JSON(http.StatusOK, resp)
}
