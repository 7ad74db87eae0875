package dto

import "time"

type ProviderRequest struct {
	Name            string     `json:"name" validate:"required"`
	Type            string     `json:"type" validate:"required"`
	AccountUsername string     `json:"accountUsername"`
	AccountPassword string     `json:"accountPassword"`
	AccountExpiry   *time.Time `json:"accountExpiry"`
	Website         string     `json:"website"`
	Notes           string     `json:"notes"`
}

type DomainRequest struct {
	Name             string     `json:"name" validate:"required"`
	ProviderID       *string    `json:"providerId" validate:"omitempty,uuid"`
	RegistrationDate *time.Time `json:"registrationDate"`
	ExpiryDate       *time.Time `json:"expiryDate" validate:"required"`
	AutoRenew        bool       `json:"autoRenew"`
	Nameservers      []string   `json:"nameservers"`
}

type WebsiteRequest struct {
	Name              string  `json:"name" validate:"required"`
	DomainID          *string `json:"domainId" validate:"omitempty,uuid"`
	HostingProviderID string  `json:"hostingProviderId" validate:"required,uuid"`
	HostingPackage    string  `json:"hostingPackage"`
	IPAddress         string  `json:"ipAddress"`
	IsActive          bool    `json:"isActive"`
}

type CreatedResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}
