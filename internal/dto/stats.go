package dto

type ProviderTypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

type DomainExpiryStats struct {
	Expiring30Days int64 `json:"expiring30Days"`
	Expiring90Days int64 `json:"expiring90Days"`
	Total          int64 `json:"total"`
}

type WebsiteStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

type StatsResponse struct {
	Providers []ProviderTypeCount `json:"providers"`
	Domains   DomainExpiryStats   `json:"domains"`
	Websites  WebsiteStats        `json:"websites"`
}
