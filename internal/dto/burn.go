package dto

import (
	"time"

	"github.com/fundtires/ledger_backend/internal/core/domain"
)

// BurnBucketResponse is one day of burn history.
type BurnBucketResponse struct {
	Date              string `json:"date"` // YYYY-MM-DD (UTC)
	ContributionBurn  int64  `json:"contributionBurn"`
	CreationBurn      int64  `json:"creationBurn"`
	SuccessBurn       int64  `json:"successBurn"`
	ForfeitBurn       int64  `json:"forfeitBurn"`
	TotalBurn         int64  `json:"totalBurn"`
	CampaignsCreated  int64  `json:"campaignsCreated"`
	ContributionsMade int64  `json:"contributionsMade"`
}

// BurnProjectionsResponse extrapolates the latest daily total forward.
type BurnProjectionsResponse struct {
	Weekly  int64 `json:"weekly"`
	Monthly int64 `json:"monthly"`
}

// BurnStatsResponse is the burn dashboard payload: running total, today's
// buckets and recent history.
type BurnStatsResponse struct {
	TotalBurned   int64                   `json:"totalBurned"`
	LastUpdatedAt time.Time               `json:"lastUpdatedAt"`
	Today         *BurnBucketResponse     `json:"today,omitempty"`
	History       []BurnBucketResponse    `json:"history"`
	Projections   BurnProjectionsResponse `json:"projections"`
}

// ToBurnBucketResponse maps one daily bucket.
func ToBurnBucketResponse(b domain.BurnBucket) BurnBucketResponse {
	return BurnBucketResponse{
		Date:              b.Date.Format("2006-01-02"),
		ContributionBurn:  int64(b.ContributionBurn),
		CreationBurn:      int64(b.CreationBurn),
		SuccessBurn:       int64(b.SuccessBurn),
		ForfeitBurn:       int64(b.ForfeitBurn),
		TotalBurn:         int64(b.TotalBurn),
		CampaignsCreated:  b.CampaignsCreated,
		ContributionsMade: b.ContributionsMade,
	}
}
