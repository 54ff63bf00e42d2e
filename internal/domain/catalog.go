package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Branch is a salon location.
type Branch struct {
	ID        string
	Name      string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ServiceDefinition is a global catalog entry.
type ServiceDefinition struct {
	ServiceID       string          `json:"serviceId"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	DefaultPrice    decimal.Decimal `json:"defaultPrice"`
	WorkloadUnits   int             `json:"workloadUnits"`
	DurationMinutes int             `json:"durationMinutes"`
}

// BranchServiceOffering makes a service sellable at a branch, optionally at a branch price.
type BranchServiceOffering struct {
	BranchServiceID       string
	BranchID              string
	ServiceID             string
	BranchDiscountedPrice decimal.NullDecimal
}

// EffectivePrice returns the branch price when set, otherwise def's default price.
func (o BranchServiceOffering) EffectivePrice(def ServiceDefinition) decimal.Decimal {
	if o.BranchDiscountedPrice.Valid {
		return o.BranchDiscountedPrice.Decimal
	}
	return def.DefaultPrice
}

// StylistServiceCertification authorises a stylist to perform a branch offering.
type StylistServiceCertification struct {
	StylistID       string
	BranchServiceID string
}

// ResolvedService is a service a stylist may sell at a branch, priced for that branch.
type ResolvedService struct {
	ServiceID     string          `json:"serviceId"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	WorkloadUnits int             `json:"workloadUnits"`
}

// BranchCatalog is a branch's offerings joined with their global definitions.
type BranchCatalog struct {
	BranchID    string
	offerings   []BranchServiceOffering
	byOffering  map[string]BranchServiceOffering
	byService   map[string]BranchServiceOffering
	definitions map[string]ServiceDefinition
}

// NewBranchCatalog joins offerings with definitions. Offerings of another branch or
// without a known definition are dropped.
func NewBranchCatalog(branchID string, offerings []BranchServiceOffering, definitions map[string]ServiceDefinition) *BranchCatalog {
	c := &BranchCatalog{
		BranchID:    branchID,
		byOffering:  make(map[string]BranchServiceOffering, len(offerings)),
		byService:   make(map[string]BranchServiceOffering, len(offerings)),
		definitions: definitions,
	}
	for _, o := range offerings {
		if o.BranchID != branchID {
			continue
		}
		if _, ok := definitions[o.ServiceID]; !ok {
			continue
		}
		if _, dup := c.byService[o.ServiceID]; dup {
			continue
		}
		c.offerings = append(c.offerings, o)
		c.byOffering[o.BranchServiceID] = o
		c.byService[o.ServiceID] = o
	}
	return c
}

// Offers reports whether the branch sells serviceID.
func (c *BranchCatalog) Offers(serviceID string) bool {
	_, ok := c.byService[serviceID]
	return ok
}

// Len is the number of sellable services at the branch.
func (c *BranchCatalog) Len() int {
	return len(c.offerings)
}

// Resolve returns the branch-priced view of serviceID.
func (c *BranchCatalog) Resolve(serviceID string) (ResolvedService, bool) {
	o, ok := c.byService[serviceID]
	if !ok {
		return ResolvedService{}, false
	}
	return c.resolve(o), true
}

// EffectivePrice is the branch price of serviceID.
func (c *BranchCatalog) EffectivePrice(serviceID string) (decimal.Decimal, bool) {
	rs, ok := c.Resolve(serviceID)
	return rs.Price, ok
}

// ResolveForStylist intersects certs with the branch offerings. The result follows
// certification order and contains each service at most once.
func (c *BranchCatalog) ResolveForStylist(certs []StylistServiceCertification) []ResolvedService {
	services := make([]ResolvedService, 0, len(certs))
	seen := make(map[string]struct{}, len(certs))
	for _, cert := range certs {
		o, ok := c.byOffering[cert.BranchServiceID]
		if !ok {
			continue
		}
		if _, dup := seen[o.ServiceID]; dup {
			continue
		}
		seen[o.ServiceID] = struct{}{}
		services = append(services, c.resolve(o))
	}
	return services
}

func (c *BranchCatalog) resolve(o BranchServiceOffering) ResolvedService {
	def := c.definitions[o.ServiceID]
	return ResolvedService{
		ServiceID:     def.ServiceID,
		Name:          def.Name,
		Description:   def.Description,
		Price:         o.EffectivePrice(def),
		WorkloadUnits: def.WorkloadUnits,
	}
}
