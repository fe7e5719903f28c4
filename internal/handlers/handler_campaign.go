package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fundtires/ledger_backend/internal/core/domain"
	portssvc "github.com/fundtires/ledger_backend/internal/core/ports/services"
	"github.com/fundtires/ledger_backend/internal/dto"
	"github.com/fundtires/ledger_backend/internal/middleware"
)

const defaultListLimit = 50

// campaignHandler handles HTTP requests driving the campaign state machine.
type campaignHandler struct {
	campaignService     portssvc.CampaignSvcFacade
	contributionService portssvc.ContributionSvc
}

func newCampaignHandler(cs portssvc.CampaignSvcFacade, contrib portssvc.ContributionSvc) *campaignHandler {
	return &campaignHandler{campaignService: cs, contributionService: contrib}
}

// RegisterCampaignRoutes registers campaign lifecycle and contribution routes.
func RegisterCampaignRoutes(rg *gin.RouterGroup, cs portssvc.CampaignSvcFacade, contrib portssvc.ContributionSvc) {
	h := newCampaignHandler(cs, contrib)

	campaigns := rg.Group("/campaigns")
	{
		campaigns.POST("", h.createCampaign)
		campaigns.GET("", h.listCampaigns)
		campaigns.GET("/:campaignID", h.getCampaign)
		campaigns.POST("/:campaignID/cancel", h.cancelCampaign)
		campaigns.POST("/:campaignID/contributions", h.contribute)
		campaigns.POST("/:campaignID/milestones/:index/deposit", h.lockDeposit)
		campaigns.POST("/:campaignID/milestones/:index/verification", h.requestVerification)
		campaigns.PUT("/:campaignID/milestones/:index/verification", h.resolveVerification)
	}
}

func (h *campaignHandler) createCampaign(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createCampaign", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	campaign, err := h.campaignService.CreateCampaign(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Info("Campaign created", slog.String("campaign_id", campaign.CampaignID))
	c.JSON(http.StatusCreated, dto.ToCampaignResponse(campaign))
}

func (h *campaignHandler) listCampaigns(c *gin.Context) {
	limit := intQuery(c, "limit", defaultListLimit)
	offset := intQuery(c, "offset", 0)

	campaigns, err := h.campaignService.ListCampaigns(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.CampaignResponse, 0, len(campaigns))
	for i := range campaigns {
		out = append(out, dto.ToCampaignResponse(&campaigns[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *campaignHandler) getCampaign(c *gin.Context) {
	campaign, err := h.campaignService.GetCampaign(c.Request.Context(), c.Param("campaignID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCampaignResponse(campaign))
}

func (h *campaignHandler) cancelCampaign(c *gin.Context) {
	var req dto.CancelCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	campaign, err := h.campaignService.CancelCampaign(c.Request.Context(), c.Param("campaignID"), req.Creator)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCampaignResponse(campaign))
}

func (h *campaignHandler) contribute(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for contribute", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	event, err := h.contributionService.Contribute(c.Request.Context(), c.Param("campaignID"), req.Contributor, domain.Amount(req.Amount))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToEventResponse(event))
}

func (h *campaignHandler) lockDeposit(c *gin.Context) {
	index, ok := milestoneIndex(c)
	if !ok {
		return
	}
	var req dto.LockDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	campaign, err := h.campaignService.LockDeposit(c.Request.Context(), c.Param("campaignID"), index, req.Creator, domain.Amount(req.Amount))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCampaignResponse(campaign))
}

func (h *campaignHandler) requestVerification(c *gin.Context) {
	index, ok := milestoneIndex(c)
	if !ok {
		return
	}
	var req dto.RequestVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	campaign, err := h.campaignService.RequestVerification(c.Request.Context(), c.Param("campaignID"), index, req.Creator, req.ProofRef)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCampaignResponse(campaign))
}

func (h *campaignHandler) resolveVerification(c *gin.Context) {
	index, ok := milestoneIndex(c)
	if !ok {
		return
	}
	var req dto.ResolveVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	campaign, err := h.campaignService.ResolveVerification(c.Request.Context(), c.Param("campaignID"), index, *req.Outcome)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCampaignResponse(campaign))
}

func milestoneIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid milestone index"})
		return 0, false
	}
	return index, true
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
