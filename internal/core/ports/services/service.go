package services

// ServiceContainer holds instances of all the application services. Handlers
// receive this as their single dependency.
type ServiceContainer struct {
	Account      AccountSvcFacade
	Campaign     CampaignSvcFacade
	Contribution ContributionSvc
	Ranking      RankingSvc
	Burn         BurnStatsSvc
}
