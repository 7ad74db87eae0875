package domain

import "github.com/google/uuid"

type UserID = uuid.UUID
type ProviderID = uuid.UUID
type DomainID = uuid.UUID
type WebsiteID = uuid.UUID

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// ResourceType tags the kind of expiring resource in notification records.
type ResourceType string

const (
	ResourceDomain   ResourceType = "domain"
	ResourceProvider ResourceType = "provider"
)
