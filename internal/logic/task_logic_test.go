package logic

import (
	"testing"
	"time"

	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/model"
	"github.com/dootling/dcs/internal/mutation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskManageCreate(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	project := createProject(t, db, owner.Id, "App rebuild")
	milestone := createMilestone(t, db, project.Id, "Phase 1", time.Now().AddDate(0, 1, 0))
	contributor := createContributor(t, db, project.Id, owner.Id)
	tasks := NewTaskLogic(db)

	item := mutation.TaskItem{
		Action:              mutation.ActionCreate,
		ContributorId:       strPtr(contributor.Id),
		Title:               strPtr("Build API"),
		DueDate:             timePtr(time.Now().AddDate(0, 0, 7)),
		PercentageOfProject: floatPtr(5),
		PercentageToRelease: floatPtr(50),
	}

	result, err := tasks.Manage(project.Id, milestone.Id, owner.Id, []mutation.TaskItem{item})
	require.NoError(t, err)
	require.Len(t, result.Tasks, 1)
	assert.Equal(t, "Build API", result.Tasks[0].Title)
	assert.Equal(t, milestone.Id, result.Tasks[0].MilestoneId)
}

func TestTaskManageMilestoneOwnershipCheck(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	projectA := createProject(t, db, owner.Id, "Project A")
	projectB := createProject(t, db, owner.Id, "Project B")
	milestone := createMilestone(t, db, projectA.Id, "Phase 1", time.Now().AddDate(0, 1, 0))
	contributor := createContributor(t, db, projectA.Id, owner.Id)
	tasks := NewTaskLogic(db)

	item := mutation.TaskItem{
		Action:              mutation.ActionCreate,
		ContributorId:       strPtr(contributor.Id),
		Title:               strPtr("Build API"),
		DueDate:             timePtr(time.Now().AddDate(0, 0, 7)),
		PercentageOfProject: floatPtr(5),
		PercentageToRelease: floatPtr(50),
	}

	// 里程碑隶属于 A，却通过 B 提交
	_, err := tasks.Manage(projectB.Id, milestone.Id, owner.Id, []mutation.TaskItem{item})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "milestone not found or does not belong to the project", apperr.MessageOf(err))
}

func TestTaskManageUpdateIdOnlyIsNoOp(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	project := createProject(t, db, owner.Id, "App rebuild")
	milestone := createMilestone(t, db, project.Id, "Phase 1", time.Now().AddDate(0, 1, 0))
	contributor := createContributor(t, db, project.Id, owner.Id)

	task := model.Task{
		MilestoneId:         milestone.Id,
		ContributorId:       contributor.Id,
		Title:               "Build API",
		DueDate:             time.Now().AddDate(0, 0, 7),
		PercentageOfProject: 5,
		PercentageToRelease: 50,
	}
	require.NoError(t, db.Create(&task).Error)

	tasks := NewTaskLogic(db)
	item := mutation.TaskItem{Action: mutation.ActionUpdate, Id: task.Id}
	result, err := tasks.Manage(project.Id, milestone.Id, owner.Id, []mutation.TaskItem{item})
	require.NoError(t, err)
	require.Len(t, result.Tasks, 1)
	assert.Equal(t, "Build API", result.Tasks[0].Title)
}

func TestTaskManageUpdateMissingTarget(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	project := createProject(t, db, owner.Id, "App rebuild")
	milestone := createMilestone(t, db, project.Id, "Phase 1", time.Now().AddDate(0, 1, 0))
	tasks := NewTaskLogic(db)

	item := mutation.TaskItem{Action: mutation.ActionUpdate, Id: "missing-task", Title: strPtr("x")}
	_, err := tasks.Manage(project.Id, milestone.Id, owner.Id, []mutation.TaskItem{item})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConcurrency, apperr.KindOf(err))
}

func TestTaskDeleteRemovesTaskAndGallery(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	project := createProject(t, db, owner.Id, "App rebuild")
	milestone := createMilestone(t, db, project.Id, "Phase 1", time.Now().AddDate(0, 1, 0))
	contributor := createContributor(t, db, project.Id, owner.Id)

	task := model.Task{
		MilestoneId:         milestone.Id,
		ContributorId:       contributor.Id,
		Title:               "Build API",
		DueDate:             time.Now().AddDate(0, 0, 7),
		PercentageOfProject: 5,
		PercentageToRelease: 50,
	}
	require.NoError(t, db.Create(&task).Error)
	taskId := task.Id
	gallery := model.GalleryItem{
		Url: "https://cdn.example.com/t.png", FileType: "image/png",
		ProjectId: project.Id, UploadedByUserId: owner.Id, TaskId: &taskId,
	}
	require.NoError(t, db.Create(&gallery).Error)

	tasks := NewTaskLogic(db)
	result, err := tasks.Delete(project.Id, milestone.Id, task.Id, owner.Id)
	require.NoError(t, err)
	assert.Empty(t, result.Tasks)

	var galleryCount int64
	require.NoError(t, db.Model(&model.GalleryItem{}).Count(&galleryCount).Error)
	assert.Zero(t, galleryCount)
}

func TestTaskFetchOrdersByDueDate(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	project := createProject(t, db, owner.Id, "App rebuild")
	milestone := createMilestone(t, db, project.Id, "Phase 1", time.Now().AddDate(0, 1, 0))
	contributor := createContributor(t, db, project.Id, owner.Id)

	for _, tc := range []struct {
		title string
		due   time.Time
	}{
		{"Later", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"Sooner", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
	} {
		task := model.Task{
			MilestoneId:         milestone.Id,
			ContributorId:       contributor.Id,
			Title:               tc.title,
			DueDate:             tc.due,
			PercentageOfProject: 1,
			PercentageToRelease: 10,
		}
		require.NoError(t, db.Create(&task).Error)
	}

	tasks := NewTaskLogic(db)
	result, err := tasks.Fetch(milestone.Id)
	require.NoError(t, err)
	require.Len(t, result.Tasks, 2)
	assert.Equal(t, "Sooner", result.Tasks[0].Title)
	assert.Equal(t, "Later", result.Tasks[1].Title)
}
