package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentAudit 预算变动审计记录
type PaymentAudit struct {
	Id        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"createdAt"`

	ProjectId   string  `json:"projectId" gorm:"not null;index"`
	Amount      float64 `json:"amount" gorm:"not null"`
	Description string  `json:"description"`
}

// TableName 自定义表名
func (PaymentAudit) TableName() string {
	return "payment_audit"
}

func (p *PaymentAudit) BeforeCreate(tx *gorm.DB) error {
	if p.Id == "" {
		p.Id = uuid.NewString()
	}
	return nil
}
