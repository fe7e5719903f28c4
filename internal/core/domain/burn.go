package domain

import "time"

// BurnLedger is the singleton record of total value permanently removed from
// circulation. The counter is monotonic: nothing ever decrements it.
type BurnLedger struct {
	TotalBurned   Amount    `json:"totalBurned"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	Version       int64     `json:"version"`
}

// BurnBucket is one day's burn history, keyed by UTC date.
type BurnBucket struct {
	Date              time.Time `json:"date"` // UTC midnight
	ContributionBurn  Amount    `json:"contributionBurn"`
	CreationBurn      Amount    `json:"creationBurn"`
	SuccessBurn       Amount    `json:"successBurn"`
	ForfeitBurn       Amount    `json:"forfeitBurn"`
	TotalBurn         Amount    `json:"totalBurn"`
	CampaignsCreated  int64     `json:"campaignsCreated"`
	ContributionsMade int64     `json:"contributionsMade"`
}

// Apply folds a delta into the bucket.
func (b *BurnBucket) Apply(d BurnDelta) {
	b.ContributionBurn = b.ContributionBurn.Add(d.Contribution)
	b.CreationBurn = b.CreationBurn.Add(d.Creation)
	b.SuccessBurn = b.SuccessBurn.Add(d.Success)
	b.ForfeitBurn = b.ForfeitBurn.Add(d.Forfeit)
	b.TotalBurn = b.TotalBurn.Add(d.Total())
	b.CampaignsCreated += d.CampaignsCreated
	b.ContributionsMade += d.ContributionsMade
}

// BucketDay truncates a timestamp to its UTC date, the bucket key.
func BucketDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
