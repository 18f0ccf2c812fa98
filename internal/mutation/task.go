package mutation

import (
	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/model"
)

// BuildTaskPayload 把单个任务变更项转换为嵌套写指令集
func BuildTaskPayload(items []TaskItem, projectId, uploadedByUserId string) (*TaskPayload, error) {
	if len(items) != 1 {
		return nil, apperr.Validation("exactly one task item is required for processing")
	}

	item := items[0]
	if err := requireFinite(item.PercentageOfProject, "percentageOfProject"); err != nil {
		return nil, err
	}
	if err := requireFinite(item.PercentageToRelease, "percentageToRelease"); err != nil {
		return nil, err
	}

	payload := &TaskPayload{}

	switch item.Action {
	case ActionCreate:
		if item.ContributorId == nil || *item.ContributorId == "" ||
			item.Title == nil || *item.Title == "" ||
			item.PercentageOfProject == nil || item.PercentageToRelease == nil ||
			item.DueDate == nil {
			return nil, apperr.Validation("create action requires contributorId, title, percentageOfProject, percentageToRelease, and dueDate")
		}

		task := model.Task{
			ContributorId:       *item.ContributorId,
			Title:               *item.Title,
			Priority:            item.Priority,
			DueDate:             *item.DueDate,
			PercentageOfProject: *item.PercentageOfProject,
			PercentageToRelease: *item.PercentageToRelease,
			ReleaseDate:         item.ReleaseDate,
		}
		if item.Description != nil {
			task.Description = *item.Description
		}

		galleryItems, err := buildGalleryItems(item.GalleryItems, projectId, uploadedByUserId)
		if err != nil {
			return nil, err
		}
		task.GalleryItems = galleryItems

		payload.Creates = append(payload.Creates, task)

	case ActionUpdate:
		if item.Id == "" {
			return nil, apperr.Validation("update action requires task id")
		}

		fields := map[string]interface{}{}
		if item.ContributorId != nil {
			fields["contributor_id"] = *item.ContributorId
		}
		if item.Title != nil {
			fields["title"] = *item.Title
		}
		if item.Priority != nil {
			fields["priority"] = *item.Priority
		}
		if item.DueDate != nil {
			fields["due_date"] = *item.DueDate
		}
		if item.Description != nil {
			fields["description"] = *item.Description
		}
		if item.PercentageOfProject != nil {
			fields["percentage_of_project"] = *item.PercentageOfProject
		}
		if item.PercentageToRelease != nil {
			fields["percentage_to_release"] = *item.PercentageToRelease
		}
		if item.ReleaseDate != nil {
			fields["release_date"] = *item.ReleaseDate
		}

		galleryItems, err := buildGalleryItems(item.GalleryItems, projectId, uploadedByUserId)
		if err != nil {
			return nil, err
		}

		payload.Updates = append(payload.Updates, UpdateOp{
			Id:           item.Id,
			Fields:       fields,
			GalleryItems: galleryItems,
		})

	case ActionDelete:
		if item.Id == "" {
			return nil, apperr.Validation("delete action requires task id")
		}
		payload.Deletes = append(payload.Deletes, item.Id)

	default:
		return nil, apperr.Validation("invalid action: %s", item.Action)
	}

	return payload, nil
}
