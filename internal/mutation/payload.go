package mutation

import "github.com/dootling/dcs/internal/model"

// UpdateOp 针对单条子记录的更新指令。
// Fields 只包含请求中出现的列，未出现的列保持不变。
type UpdateOp struct {
	Id           string
	Fields       map[string]interface{}
	GalleryItems []model.GalleryItem
}

// MilestonePayload 项目→里程碑的嵌套写指令集
type MilestonePayload struct {
	Creates []model.Milestone
	Updates []UpdateOp
	Deletes []string
}

// Empty 指令集是否为空
func (p *MilestonePayload) Empty() bool {
	return len(p.Creates) == 0 && len(p.Updates) == 0 && len(p.Deletes) == 0
}

// TaskPayload 里程碑→任务的嵌套写指令集
type TaskPayload struct {
	Creates []model.Task
	Updates []UpdateOp
	Deletes []string
}

// Empty 指令集是否为空
func (p *TaskPayload) Empty() bool {
	return len(p.Creates) == 0 && len(p.Updates) == 0 && len(p.Deletes) == 0
}

// ContributorPayload 项目→成员的嵌套写指令集
type ContributorPayload struct {
	Creates []model.Contributor
	Updates []UpdateOp
	Deletes []string
}

// Empty 指令集是否为空
func (p *ContributorPayload) Empty() bool {
	return len(p.Creates) == 0 && len(p.Updates) == 0 && len(p.Deletes) == 0
}
