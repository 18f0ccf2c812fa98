package logic

import (
	"testing"

	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/model"
	"github.com/dootling/dcs/internal/mutation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectCreateFiltersOwnerFromContributors(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	member := createUser(t, db, "member")
	projects := NewProjectLogic(db)

	input := CreateProjectInput{
		OwnerId:        owner.Id,
		Title:          "App rebuild",
		TotalBudget:    1000,
		ContributorIds: []string{owner.Id, member.Id},
	}

	project, err := projects.Create(input)
	require.NoError(t, err)
	require.Len(t, project.Contributors, 1)
	assert.Equal(t, member.Id, project.Contributors[0].UserId)
	assert.Equal(t, model.ProjectStatusPending, project.Status)
}

func TestProjectCreateValidation(t *testing.T) {
	db := newTestDB(t)
	projects := NewProjectLogic(db)

	_, err := projects.Create(CreateProjectInput{TotalBudget: 100})
	require.Error(t, err)
	assert.Equal(t, "project title is required", apperr.MessageOf(err))

	_, err = projects.Create(CreateProjectInput{Title: "x"})
	require.Error(t, err)
	assert.Equal(t, "totalBudget must be greater than zero", apperr.MessageOf(err))
}

func TestActivateEscrowIsOneWay(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	project := createProject(t, db, owner.Id, "App rebuild")
	projects := NewProjectLogic(db)

	activated, err := projects.ActivateEscrow(project.Id)
	require.NoError(t, err)
	assert.True(t, activated.IsEscrowed)
	require.NotNil(t, activated.EscrowedAt)

	// 第二次激活必须失败
	_, err = projects.ActivateEscrow(project.Id)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "project is already marked as escrowed and cannot be updated again", apperr.MessageOf(err))
}

func TestActivateEscrowProjectNotFound(t *testing.T) {
	db := newTestDB(t)
	projects := NewProjectLogic(db)

	_, err := projects.ActivateEscrow("missing-project")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestManageEscrowRequiresSomething(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	project := createProject(t, db, owner.Id, "App rebuild")
	projects := NewProjectLogic(db)

	_, err := projects.ManageEscrow(project.Id, ProjectUpdate{}, nil)
	require.Error(t, err)
	assert.Equal(t, "no fields provided for update", apperr.MessageOf(err))
}

func TestManageEscrowAppliesFieldsAndContributorItem(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	member := createUser(t, db, "member")
	project := createProject(t, db, owner.Id, "App rebuild")
	projects := NewProjectLogic(db)

	update := ProjectUpdate{
		Title:       strPtr("App rebuild v2"),
		TotalBudget: floatPtr(2000),
	}
	items := []mutation.ContributorItem{{
		Action:           mutation.ActionCreate,
		UserId:           strPtr(member.Id),
		Role:             strPtr("developer"),
		BudgetPercentage: floatPtr(40),
	}}

	result, err := projects.ManageEscrow(project.Id, update, items)
	require.NoError(t, err)
	assert.Equal(t, "App rebuild v2", result.Title)
	assert.Equal(t, 2000.0, result.TotalBudget)
	require.Len(t, result.Contributors, 1)
	assert.Equal(t, member.Id, result.Contributors[0].UserId)
}

func TestManageEscrowRejectsMultipleContributorItems(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	member := createUser(t, db, "member")
	project := createProject(t, db, owner.Id, "App rebuild")
	projects := NewProjectLogic(db)

	items := []mutation.ContributorItem{
		{Action: mutation.ActionCreate, UserId: strPtr(member.Id)},
		{Action: mutation.ActionCreate, UserId: strPtr(owner.Id)},
	}

	_, err := projects.ManageEscrow(project.Id, ProjectUpdate{}, items)
	require.Error(t, err)
	assert.Equal(t, "exactly one contributor item is required for processing", apperr.MessageOf(err))
}

func TestManageEscrowContributorDeleteMissingTarget(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	project := createProject(t, db, owner.Id, "App rebuild")
	projects := NewProjectLogic(db)

	items := []mutation.ContributorItem{{Action: mutation.ActionDelete, Id: "missing"}}
	_, err := projects.ManageEscrow(project.Id, ProjectUpdate{}, items)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConcurrency, apperr.KindOf(err))
}

func TestManageEscrowContributorUpdateIdOnlyVerifiesTarget(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	member := createUser(t, db, "member")
	project := createProject(t, db, owner.Id, "App rebuild")
	contributor := createContributor(t, db, project.Id, member.Id)
	projects := NewProjectLogic(db)

	// 存在的目标：空字段集是合法的空操作
	result, err := projects.ManageEscrow(project.Id, ProjectUpdate{},
		[]mutation.ContributorItem{{Action: mutation.ActionUpdate, Id: contributor.Id}})
	require.NoError(t, err)
	require.Len(t, result.Contributors, 1)

	// 目标不存在时必须报并发冲突
	_, err = projects.ManageEscrow(project.Id, ProjectUpdate{},
		[]mutation.ContributorItem{{Action: mutation.ActionUpdate, Id: "missing"}})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConcurrency, apperr.KindOf(err))
	assert.Equal(t, "related record not found or concurrent modification", apperr.MessageOf(err))
}

func TestFetchOwnedProjectsSkipsDeleted(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	member := createUser(t, db, "member")
	kept := createProject(t, db, owner.Id, "Kept")
	deleted := createProject(t, db, owner.Id, "Deleted")
	require.NoError(t, db.Model(deleted).Update("is_deleted", true).Error)
	createContributor(t, db, kept.Id, member.Id)

	projects := NewProjectLogic(db)
	owned, err := projects.FetchOwnedProjects(owner.Id)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "Kept", owned[0].Title)
	assert.Equal(t, int64(1), owned[0].ContributorCount)
}

func TestFetchContributingProjects(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	member := createUser(t, db, "member")
	project := createProject(t, db, owner.Id, "App rebuild")
	createContributor(t, db, project.Id, member.Id)

	projects := NewProjectLogic(db)
	contributing, err := projects.FetchContributingProjects(member.Id)
	require.NoError(t, err)
	require.Len(t, contributing, 1)
	assert.Equal(t, project.Id, contributing[0].Id)

	// 所有者本人没有成员记录
	contributing, err = projects.FetchContributingProjects(owner.Id)
	require.NoError(t, err)
	assert.Empty(t, contributing)
}
