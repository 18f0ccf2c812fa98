package mutation

import (
	"testing"

	"github.com/dootling/dcs/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildContributorPayloadRequiresExactlyOneItem(t *testing.T) {
	items := []ContributorItem{
		{Action: ActionCreate, UserId: strPtr("u1")},
		{Action: ActionCreate, UserId: strPtr("u2")},
	}
	_, err := BuildContributorPayload(items, "p1")
	require.Error(t, err)
	assert.Equal(t, "exactly one contributor item is required for processing", apperr.MessageOf(err))
}

func TestBuildContributorPayloadCreate(t *testing.T) {
	item := ContributorItem{
		Action:           ActionCreate,
		UserId:           strPtr("u2"),
		Role:             strPtr("designer"),
		BudgetPercentage: floatPtr(30),
	}

	payload, err := BuildContributorPayload([]ContributorItem{item}, "p1")
	require.NoError(t, err)
	require.Len(t, payload.Creates, 1)

	created := payload.Creates[0]
	assert.Equal(t, "p1", created.ProjectId)
	assert.Equal(t, "u2", created.UserId)
	require.NotNil(t, created.Role)
	assert.Equal(t, "designer", *created.Role)
	assert.Equal(t, 30.0, created.BudgetPercentage)
}

func TestBuildContributorPayloadCreateRequiresUserId(t *testing.T) {
	_, err := BuildContributorPayload([]ContributorItem{{Action: ActionCreate}}, "p1")
	require.Error(t, err)
	assert.Equal(t, "create action requires userId", apperr.MessageOf(err))
}

func TestBuildContributorPayloadUpdateFieldMap(t *testing.T) {
	item := ContributorItem{
		Action:            ActionUpdate,
		Id:                "c1",
		Role:              strPtr("lead"),
		ReleasePercentage: floatPtr(15),
	}

	payload, err := BuildContributorPayload([]ContributorItem{item}, "p1")
	require.NoError(t, err)
	require.Len(t, payload.Updates, 1)
	assert.Equal(t, map[string]interface{}{
		"role":               "lead",
		"release_percentage": 15.0,
	}, payload.Updates[0].Fields)
}

func TestBuildContributorPayloadDelete(t *testing.T) {
	payload, err := BuildContributorPayload([]ContributorItem{{Action: ActionDelete, Id: "c1"}}, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, payload.Deletes)
}
