package launch

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusUpcoming = "UPCOMING"
	StatusLaunched = "LAUNCHED"
	StatusSoldOut  = "SOLD_OUT"
)

var Statuses = []string{StatusUpcoming, StatusLaunched, StatusSoldOut}

// Launch is a new project announcement. Developer is free text; DeveloperID is
// filled in only when the text matches a stored developer.
type Launch struct {
	ID            string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title         string     `gorm:"size:255;not null;index" json:"title"`
	Developer     string     `gorm:"size:255;not null;index" json:"developer"`
	DeveloperID   *string    `gorm:"type:varchar(36);index" json:"developerId"`
	Description   string     `gorm:"type:text" json:"description"`
	Location      string     `gorm:"size:512" json:"location"`
	PropertyType  *string    `gorm:"size:32" json:"propertyType"`
	Status        string     `gorm:"size:32;not null;default:UPCOMING" json:"status"`
	Currency      string     `gorm:"size:8;not null;default:EGP" json:"currency"`
	StartingPrice *float64   `gorm:"type:decimal(15,2)" json:"startingPrice"`
	Area          *float64   `gorm:"type:decimal(10,2)" json:"area"`
	Bedrooms      *int       `json:"bedrooms"`
	Bathrooms     *int       `json:"bathrooms"`
	LaunchDate    *time.Time `json:"launchDate"`

	Image      *string                     `gorm:"size:1024" json:"image"`
	CoverImage *string                     `gorm:"size:1024" json:"coverImage"`
	Gallery    datatypes.JSONSlice[string] `json:"gallery"`
	VideoURL   *string                     `gorm:"size:1024" json:"videoUrl"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (l *Launch) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

func (Launch) TableName() string {
	return "launches"
}
