package property

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Property types, shared by leads and launches.
const (
	TypeApartment = "APARTMENT"
	TypeVilla     = "VILLA"
	TypeTownhouse = "TOWNHOUSE"
	TypeTwinHouse = "TWIN_HOUSE"
	TypePenthouse = "PENTHOUSE"
	TypeDuplex    = "DUPLEX"
	TypeStudio    = "STUDIO"
	TypeChalet    = "CHALET"
	TypeOffice    = "OFFICE"
	TypeRetail    = "RETAIL"
	TypeClinic    = "CLINIC"
	TypeLand      = "LAND"
)

var Types = []string{
	TypeApartment, TypeVilla, TypeTownhouse, TypeTwinHouse, TypePenthouse, TypeDuplex,
	TypeStudio, TypeChalet, TypeOffice, TypeRetail, TypeClinic, TypeLand,
}

const (
	StatusForSale = "FOR_SALE"
	StatusForRent = "FOR_RENT"
	StatusSold    = "SOLD"
	StatusRented  = "RENTED"
)

var Statuses = []string{StatusForSale, StatusForRent, StatusSold, StatusRented}

const (
	DeveloperStatusOffPlan           = "OFF_PLAN"
	DeveloperStatusUnderConstruction = "UNDER_CONSTRUCTION"
	DeveloperStatusReady             = "READY"
)

var DeveloperStatuses = []string{DeveloperStatusOffPlan, DeveloperStatusUnderConstruction, DeveloperStatusReady}

const (
	CurrencyEGP = "EGP"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyAED = "AED"
	CurrencySAR = "SAR"
)

var Currencies = []string{CurrencyEGP, CurrencyUSD, CurrencyEUR, CurrencyAED, CurrencySAR}

const (
	ApprovalApproved = "approved"
	ApprovalPending  = "pending"
)

const DefaultCountry = "Egypt"

// Image is one entry of a property's gallery.
type Image struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
	IsHero  bool   `json:"isHero"`
	Order   int    `json:"order"`
}

type Property struct {
	ID              string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title           string  `gorm:"size:255;not null;index" json:"title"`
	Description     string  `gorm:"type:text" json:"description"`
	Type            string  `gorm:"size:32;not null" json:"type"`
	Status          string  `gorm:"size:32;not null;default:FOR_SALE" json:"status"`
	DeveloperStatus string  `gorm:"size:32;not null;default:READY" json:"developerStatus"`
	Price           float64 `gorm:"type:decimal(15,2);not null" json:"price"`
	Currency        string  `gorm:"size:8;not null;default:EGP" json:"currency"`

	DeveloperID   *string `gorm:"type:varchar(36);index" json:"developerId"`
	GovernorateID *string `gorm:"type:varchar(36);index" json:"governorateId"`
	CityID        *string `gorm:"type:varchar(36);index" json:"cityId"`
	AreaID        *string `gorm:"type:varchar(36);index" json:"areaId"`

	// Flat location, kept alongside the hierarchical refs.
	LocationAddress string `gorm:"size:512;index" json:"locationAddress"`
	LocationCity    string `gorm:"size:255" json:"locationCity"`
	LocationState   string `gorm:"size:255" json:"locationState"`
	LocationCountry string `gorm:"size:255" json:"locationCountry"`

	Bedrooms  *int     `json:"bedrooms"`
	Bathrooms *int     `json:"bathrooms"`
	AreaSize  *float64 `gorm:"type:decimal(10,2)" json:"areaSize"`

	Features  datatypes.JSONSlice[string] `json:"features"`
	Amenities datatypes.JSONSlice[string] `json:"amenities"`
	Images    datatypes.JSONSlice[Image]  `json:"images"`

	ApprovalStatus string    `gorm:"size:16;not null;default:pending;index" json:"approvalStatus"`
	CreatedByID    *string   `gorm:"type:varchar(36);index" json:"createdById"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

func (Property) TableName() string {
	return "properties"
}
