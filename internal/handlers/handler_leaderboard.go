package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fundtires/ledger_backend/internal/core/domain"
	portssvc "github.com/fundtires/ledger_backend/internal/core/ports/services"
	"github.com/fundtires/ledger_backend/internal/dto"
)

const defaultLeaderboardLimit = 100

// leaderboardHandler serves ranked contributor standings.
type leaderboardHandler struct {
	rankingService portssvc.RankingSvc
}

func newLeaderboardHandler(rs portssvc.RankingSvc) *leaderboardHandler {
	return &leaderboardHandler{rankingService: rs}
}

// registerLeaderboardRoutes registers the leaderboard route.
func registerLeaderboardRoutes(rg *gin.RouterGroup, rankingService portssvc.RankingSvc) {
	h := newLeaderboardHandler(rankingService)
	rg.GET("/leaderboard", h.getLeaderboard)
}

// getLeaderboard ranks contributors within the requested window.
func (h *leaderboardHandler) getLeaderboard(c *gin.Context) {
	window, err := domain.ParseRankingWindow(c.Query("window"))
	if err != nil {
		respondError(c, err)
		return
	}
	limit := intQuery(c, "limit", defaultLeaderboardLimit)

	entries, err := h.rankingService.Leaderboard(c.Request.Context(), window, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToLeaderboardResponse(window, entries))
}
