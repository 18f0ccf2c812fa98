package mutation

import (
	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/model"
)

// BuildMilestonePayload 把单个里程碑变更项转换为嵌套写指令集。
// 纯转换，不做任何持久化调用。
func BuildMilestonePayload(items []MilestoneItem, projectId, uploadedByUserId string) (*MilestonePayload, error) {
	if len(items) != 1 {
		return nil, apperr.Validation("exactly one milestone item is required for processing")
	}

	item := items[0]
	if err := requireFinite(item.ReleasePercentage, "releasePercentage"); err != nil {
		return nil, err
	}

	payload := &MilestonePayload{}

	switch item.Action {
	case ActionCreate:
		if item.Title == nil || *item.Title == "" || item.ReleasePercentage == nil || item.DueDate == nil {
			return nil, apperr.Validation("create action requires title, releasePercentage, and dueDate")
		}

		milestone := model.Milestone{
			ProjectId:         projectId,
			Title:             *item.Title,
			ReleasePercentage: *item.ReleasePercentage,
			DueDate:           *item.DueDate,
			ReleaseDate:       item.ReleaseDate,
		}
		if item.Description != nil {
			milestone.Description = *item.Description
		}

		galleryItems, err := buildGalleryItems(item.GalleryItems, projectId, uploadedByUserId)
		if err != nil {
			return nil, err
		}
		milestone.GalleryItems = galleryItems

		payload.Creates = append(payload.Creates, milestone)

	case ActionUpdate:
		if item.Id == "" {
			return nil, apperr.Validation("update action requires milestone id")
		}

		fields := map[string]interface{}{}
		if item.Title != nil {
			fields["title"] = *item.Title
		}
		if item.ReleasePercentage != nil {
			fields["release_percentage"] = *item.ReleasePercentage
		}
		if item.DueDate != nil {
			fields["due_date"] = *item.DueDate
		}
		if item.ReleaseDate != nil {
			fields["release_date"] = *item.ReleaseDate
		}
		if item.Description != nil {
			fields["description"] = *item.Description
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
			return nil, apperr.Validation("delete action requires milestone id")
		}
		payload.Deletes = append(payload.Deletes, item.Id)

	default:
		return nil, apperr.Validation("invalid action: %s", item.Action)
	}

	return payload, nil
}

// buildGalleryItems 校验并构造附件记录
func buildGalleryItems(inputs []GalleryItemInput, projectId, uploadedByUserId string) ([]model.GalleryItem, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	items := make([]model.GalleryItem, 0, len(inputs))
	for _, gi := range inputs {
		if gi.Url == "" || gi.FileType == "" {
			return nil, apperr.Validation("gallery item creation requires url and fileType")
		}
		items = append(items, model.GalleryItem{
			Url:              gi.Url,
			FileType:         gi.FileType,
			ProjectId:        projectId,
			UploadedByUserId: uploadedByUserId,
		})
	}
	return items, nil
}
