package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fundtires/ledger_backend/internal/core/domain"
	portssvc "github.com/fundtires/ledger_backend/internal/core/ports/services"
	"github.com/fundtires/ledger_backend/internal/dto"
	"github.com/fundtires/ledger_backend/internal/middleware"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("/credit", h.creditAccount)
		accounts.GET("/:address", h.getAccount)
		accounts.GET("/:address/achievements", h.getAchievements)
	}
}

// creditAccount records an external top-up, creating the account on first use.
func (h *accountHandler) creditAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreditAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for creditAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	acc, err := h.accountService.CreditAccount(c.Request.Context(), req.Address, domain.Amount(req.Amount))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(acc))
}

// getAccount retrieves one account by wallet address.
func (h *accountHandler) getAccount(c *gin.Context) {
	address := c.Param("address")
	acc, err := h.accountService.GetAccount(c.Request.Context(), address)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(acc))
}

// getAchievements evaluates the account's achievements on read.
func (h *accountHandler) getAchievements(c *gin.Context) {
	address := c.Param("address")
	achievements, err := h.accountService.GetAchievements(c.Request.Context(), address)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAchievementResponses(achievements))
}
