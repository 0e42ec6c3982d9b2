package developer

import (
	"time"

	"github.com/google/uuid"
	"github.com/sharath018/realestate-backend/internal/location"
	"gorm.io/gorm"
)

type Developer struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null;index" json:"name"`
	Slug        string    `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Logo        *string   `gorm:"size:1024" json:"logo"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (d *Developer) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return location.AssignSlug(tx, "developers", &d.Slug, d.Name, d.ID, "developer")
}

func (Developer) TableName() string {
	return "developers"
}
