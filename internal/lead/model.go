package lead

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ServiceBuy          = "BUY"
	ServiceSell         = "SELL"
	ServiceRent         = "RENT"
	ServiceInvest       = "INVEST"
	ServiceConsultation = "CONSULTATION"
)

var Services = []string{ServiceBuy, ServiceSell, ServiceRent, ServiceInvest, ServiceConsultation}

const (
	PurposeResidential = "RESIDENTIAL"
	PurposeCommercial  = "COMMERCIAL"
	PurposeInvestment  = "INVESTMENT"
)

var Purposes = []string{PurposeResidential, PurposeCommercial, PurposeInvestment}

const StatusNew = "NEW"

type Lead struct {
	ID              string   `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name            string   `gorm:"size:255;not null" json:"name"`
	Email           string   `gorm:"size:255;not null;index" json:"email"`
	Phone           string   `gorm:"size:32;not null;index" json:"phone"`
	RequiredService *string  `gorm:"size:32" json:"requiredService"`
	PropertyType    *string  `gorm:"size:32" json:"propertyType"`
	Purpose         *string  `gorm:"size:32" json:"purpose"`
	BudgetMin       *float64 `gorm:"type:decimal(15,2)" json:"budgetMin"`
	BudgetMax       *float64 `gorm:"type:decimal(15,2)" json:"budgetMax"`
	BudgetCurrency  string   `gorm:"size:8;default:EGP" json:"budgetCurrency"`
	AssignedToID    *string  `gorm:"type:varchar(36);index" json:"assignedToId"`
	Notes           string   `gorm:"type:text" json:"notes"`
	Source          string   `gorm:"size:64;default:bulk_upload" json:"source"`
	Status          string   `gorm:"size:32;not null;default:NEW" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

func (Lead) TableName() string {
	return "leads"
}
