package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project 协作项目模型
type Project struct {
	Id        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// 基本信息
	OwnerId         string  `json:"ownerId" gorm:"not null;index"`
	Title           string  `json:"title" gorm:"not null"`
	Description     string  `json:"description" gorm:"type:text"`
	IsPublic        bool    `json:"isPublic" gorm:"default:false"`
	ProjectImageUrl *string `json:"projectImageUrl"`

	// 状态
	Status    ProjectStatus `json:"status" gorm:"default:'PENDING'"`
	IsDeleted bool          `json:"isDeleted" gorm:"default:false"` // 软删除标记

	// 托管预算信息
	TotalBudget          float64    `json:"totalBudget" gorm:"not null"`
	StartDate            time.Time  `json:"startDate" gorm:"not null"`
	DeliveryDate         time.Time  `json:"deliveryDate" gorm:"not null"`
	ContractClauses      string     `json:"contractClauses" gorm:"type:text"`
	FundsRule            bool       `json:"fundsRule" gorm:"default:false"`
	IsEscrowed           bool       `json:"isEscrowed" gorm:"default:false"` // 一旦置位不可回退
	AmountReleased       float64    `json:"amountReleased" gorm:"default:0"`
	AmountPending        float64    `json:"amountPending" gorm:"default:0"`
	CompletionPercentage float64    `json:"completionPercentage" gorm:"default:0"`
	EscrowedAt           *time.Time `json:"escrowedAt"`

	ReceiveEmailNotifications bool `json:"receiveEmailNotifications" gorm:"default:true"`

	// 关联
	Owner        *User          `json:"owner,omitempty" gorm:"foreignKey:OwnerId"`
	Contributors []Contributor  `json:"contributors,omitempty" gorm:"foreignKey:ProjectId"`
	Milestones   []Milestone    `json:"milestones,omitempty" gorm:"foreignKey:ProjectId"`
	Payments     []PaymentAudit `json:"payments,omitempty" gorm:"foreignKey:ProjectId"`
}

// ProjectStatus 项目状态
type ProjectStatus string

const (
	ProjectStatusPending   ProjectStatus = "PENDING"   // 待启动
	ProjectStatusActive    ProjectStatus = "ACTIVE"    // 进行中
	ProjectStatusInactive  ProjectStatus = "INACTIVE"  // 已停用
	ProjectStatusCompleted ProjectStatus = "COMPLETED" // 已完成
)

// TableName 自定义表名
func (Project) TableName() string {
	return "project"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.Id == "" {
		p.Id = uuid.NewString()
	}
	return nil
}
