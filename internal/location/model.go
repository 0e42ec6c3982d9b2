package location

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Governorate is the top of the location tree.
type Governorate struct {
	ID                     string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name                   string    `gorm:"size:255;not null;index" json:"name"`
	Slug                   string    `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	AnnualAppreciationRate float64   `gorm:"type:decimal(5,2);default:0" json:"annualAppreciationRate"`
	Description            string    `gorm:"type:text" json:"description"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`

	Cities []City `gorm:"foreignKey:GovernorateID" json:"cities,omitempty"`
}

func (g *Governorate) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	return AssignSlug(tx, "governorates", &g.Slug, g.Name, g.ID, "governorate")
}

func (Governorate) TableName() string {
	return "governorates"
}

// City belongs to a governorate when one is known.
type City struct {
	ID                     string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name                   string    `gorm:"size:255;not null;index" json:"name"`
	Slug                   string    `gorm:"size:255;not null;uniqueIndex:idx_city_slug_governorate" json:"slug"`
	GovernorateID          *string   `gorm:"type:varchar(36);index;uniqueIndex:idx_city_slug_governorate" json:"governorateId"`
	AnnualAppreciationRate float64   `gorm:"type:decimal(5,2);default:0" json:"annualAppreciationRate"`
	Description            string    `gorm:"type:text" json:"description"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`

	Governorate *Governorate `gorm:"foreignKey:GovernorateID" json:"governorate,omitempty"`
	Areas       []Area       `gorm:"foreignKey:CityID" json:"areas,omitempty"`
}

func (c *City) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return assignSlug(tx, "cities", &c.Slug, c.Name, c.ID, "city", &slugScope{column: "governorate_id", value: c.GovernorateID})
}

func (City) TableName() string {
	return "cities"
}

// Area always hangs off a city.
type Area struct {
	ID                     string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name                   string    `gorm:"size:255;not null;index" json:"name"`
	Slug                   string    `gorm:"size:255;not null;uniqueIndex:idx_area_slug_city" json:"slug"`
	CityID                 string    `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_area_slug_city" json:"cityId"`
	AnnualAppreciationRate float64   `gorm:"type:decimal(5,2);default:0" json:"annualAppreciationRate"`
	Description            string    `gorm:"type:text" json:"description"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`

	City *City `gorm:"foreignKey:CityID" json:"city,omitempty"`
}

func (a *Area) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return assignSlug(tx, "areas", &a.Slug, a.Name, a.ID, "area", &slugScope{column: "city_id", value: &a.CityID})
}

func (Area) TableName() string {
	return "areas"
}
