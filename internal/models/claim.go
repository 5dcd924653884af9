package models

import (
	"time"

	"gorm.io/datatypes"
)

// Claim is a diminished value claim. The Info sections are free-form JSON
// collected by the multi-step intake flow and merged shallowly on save;
// the backend only interprets the liability keys used for disqualification.
type Claim struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	Status         string         `gorm:"size:32;not null;index;default:INPROGRESS" json:"status"`
	CurrentStep    int            `gorm:"default:0" json:"current_step"`
	VehicleInfo    datatypes.JSON `json:"vehicle_info"`
	AccidentInfo   datatypes.JSON `json:"accident_info"`
	InsuranceInfo  datatypes.JSON `json:"insurance_info"`
	PricingPlan    datatypes.JSON `json:"pricing_plan"`
	LiabilityInfo  datatypes.JSON `json:"liability_info"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	LastAccessedAt time.Time      `json:"last_accessed_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Claim) TableName() string {
	return "claims"
}
