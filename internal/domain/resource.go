package domain

import "time"

// Provider is a hosting/registrar account owned by a user. AccountExpiry, when
// set, makes it a candidate for the daily expiry scan.
type Provider struct {
	ID     ProviderID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID UserID     `gorm:"type:uuid;index;not null" json:"userId"`

	Name            string     `gorm:"type:text;not null" json:"name"`
	Type            string     `gorm:"type:text;not null" json:"type"`
	AccountUsername string     `gorm:"type:text" json:"accountUsername"`
	AccountPassword string     `gorm:"type:text" json:"-"`
	AccountExpiry   *time.Time `json:"accountExpiry"`
	Website         string     `gorm:"type:text" json:"website"`
	Notes           string     `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Provider) TableName() string { return "providers" }

type Domain struct {
	ID     DomainID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID UserID   `gorm:"type:uuid;index;not null" json:"userId"`

	Name             string      `gorm:"type:text;not null" json:"name"`
	ProviderID       *ProviderID `gorm:"type:uuid;index" json:"providerId"`
	RegistrationDate *time.Time  `json:"registrationDate"`
	ExpiryDate       *time.Time  `gorm:"index" json:"expiryDate"`
	AutoRenew        bool        `gorm:"not null;default:false" json:"autoRenew"`

	Nameservers []Nameserver `gorm:"constraint:OnDelete:CASCADE" json:"nameservers"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Domain) TableName() string { return "domains" }

// Nameserver rows keep their submitted order via Position (1-based).
type Nameserver struct {
	ID       uint     `gorm:"primaryKey;autoIncrement" json:"-"`
	DomainID DomainID `gorm:"type:uuid;index;not null" json:"-"`
	Value    string   `gorm:"type:text;not null" json:"value"`
	Position int      `gorm:"not null" json:"position"`
}

func (Nameserver) TableName() string { return "nameservers" }

type Website struct {
	ID     WebsiteID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID UserID    `gorm:"type:uuid;index;not null" json:"userId"`

	Name              string     `gorm:"type:text;not null" json:"name"`
	DomainID          *DomainID  `gorm:"type:uuid;index" json:"domainId"`
	HostingProviderID ProviderID `gorm:"type:uuid;index;not null" json:"hostingProviderId"`
	HostingPackage    string     `gorm:"type:text" json:"hostingPackage"`
	IPAddress         string     `gorm:"type:text" json:"ipAddress"`
	IsActive          bool       `gorm:"not null;default:true" json:"isActive"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Website) TableName() string { return "websites" }
