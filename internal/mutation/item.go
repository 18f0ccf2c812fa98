package mutation

import (
	"math"
	"time"

	"github.com/dootling/dcs/internal/apperr"
)

// Action 变更动作
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// GalleryItemInput 待挂载的附件
type GalleryItemInput struct {
	Url      string
	FileType string
}

// MilestoneItem 里程碑变更项，未赋值的字段不参与更新
type MilestoneItem struct {
	Action            Action
	Id                string
	Title             *string
	ReleasePercentage *float64
	DueDate           *time.Time
	ReleaseDate       *time.Time
	Description       *string
	GalleryItems      []GalleryItemInput
}

// TaskItem 任务变更项
type TaskItem struct {
	Action              Action
	Id                  string
	ContributorId       *string
	Title               *string
	Priority            *string
	DueDate             *time.Time
	Description         *string
	PercentageOfProject *float64
	PercentageToRelease *float64
	ReleaseDate         *time.Time
	GalleryItems        []GalleryItemInput
}

// ContributorItem 项目成员变更项
type ContributorItem struct {
	Action            Action
	Id                string
	UserId            *string
	Role              *string
	BudgetPercentage  *float64
	ReleasePercentage *float64
}

// requireFinite 数值字段必须为有限数，NaN 与 Inf 一律拒绝
func requireFinite(value *float64, name string) error {
	if value != nil && (math.IsNaN(*value) || math.IsInf(*value, 0)) {
		return apperr.Validation("%s must be a finite number", name)
	}
	return nil
}
