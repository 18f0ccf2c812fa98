package mutation

import (
	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/model"
)

// BuildContributorPayload 把单个成员变更项转换为嵌套写指令集
func BuildContributorPayload(items []ContributorItem, projectId string) (*ContributorPayload, error) {
	if len(items) != 1 {
		return nil, apperr.Validation("exactly one contributor item is required for processing")
	}

	item := items[0]
	if err := requireFinite(item.BudgetPercentage, "budgetPercentage"); err != nil {
		return nil, err
	}
	if err := requireFinite(item.ReleasePercentage, "releasePercentage"); err != nil {
		return nil, err
	}

	payload := &ContributorPayload{}

	switch item.Action {
	case ActionCreate:
		if item.UserId == nil || *item.UserId == "" {
			return nil, apperr.Validation("create action requires userId")
		}

		contributor := model.Contributor{
			ProjectId:         projectId,
			UserId:            *item.UserId,
			Role:              item.Role,
			ReleasePercentage: item.ReleasePercentage,
		}
		if item.BudgetPercentage != nil {
			contributor.BudgetPercentage = *item.BudgetPercentage
		}

		payload.Creates = append(payload.Creates, contributor)

	case ActionUpdate:
		if item.Id == "" {
			return nil, apperr.Validation("update action requires contributor id")
		}

		fields := map[string]interface{}{}
		if item.Role != nil {
			fields["role"] = *item.Role
		}
		if item.BudgetPercentage != nil {
			fields["budget_percentage"] = *item.BudgetPercentage
		}
		if item.ReleasePercentage != nil {
			fields["release_percentage"] = *item.ReleasePercentage
		}

		payload.Updates = append(payload.Updates, UpdateOp{Id: item.Id, Fields: fields})

	case ActionDelete:
		if item.Id == "" {
			return nil, apperr.Validation("delete action requires contributor id")
		}
		payload.Deletes = append(payload.Deletes, item.Id)

	default:
		return nil, apperr.Validation("invalid action: %s", item.Action)
	}

	return payload, nil
}
