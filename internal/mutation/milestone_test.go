package mutation

import (
	"math"
	"testing"
	"time"

	"github.com/dootling/dcs/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string        { return &s }
func floatPtr(f float64) *float64    { return &f }
func timePtr(t time.Time) *time.Time { return &t }

func TestBuildMilestonePayloadRequiresExactlyOneItem(t *testing.T) {
	_, err := BuildMilestonePayload(nil, "p1", "u1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "exactly one milestone item is required for processing", apperr.MessageOf(err))

	due := time.Now()
	items := []MilestoneItem{
		{Action: ActionCreate, Title: strPtr("a"), ReleasePercentage: floatPtr(10), DueDate: timePtr(due)},
		{Action: ActionCreate, Title: strPtr("b"), ReleasePercentage: floatPtr(20), DueDate: timePtr(due)},
	}
	_, err = BuildMilestonePayload(items, "p1", "u1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestBuildMilestonePayloadCreate(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	item := MilestoneItem{
		Action:            ActionCreate,
		Title:             strPtr("Design phase"),
		ReleasePercentage: floatPtr(25),
		DueDate:           timePtr(due),
		Description:       strPtr("wireframes and mockups"),
		GalleryItems: []GalleryItemInput{
			{Url: "https://cdn.example.com/a.png", FileType: "image/png"},
		},
	}

	payload, err := BuildMilestonePayload([]MilestoneItem{item}, "p1", "u1")
	require.NoError(t, err)
	require.Len(t, payload.Creates, 1)
	assert.Empty(t, payload.Updates)
	assert.Empty(t, payload.Deletes)

	created := payload.Creates[0]
	assert.Equal(t, "p1", created.ProjectId)
	assert.Equal(t, "Design phase", created.Title)
	assert.Equal(t, 25.0, created.ReleasePercentage)
	assert.Equal(t, due, created.DueDate)
	assert.Equal(t, "wireframes and mockups", created.Description)
	require.Len(t, created.GalleryItems, 1)
	assert.Equal(t, "u1", created.GalleryItems[0].UploadedByUserId)
	assert.Equal(t, "p1", created.GalleryItems[0].ProjectId)
}

func TestBuildMilestonePayloadCreateMissingFields(t *testing.T) {
	cases := []MilestoneItem{
		{Action: ActionCreate},
		{Action: ActionCreate, Title: strPtr("x")},
		{Action: ActionCreate, Title: strPtr("x"), ReleasePercentage: floatPtr(10)},
		{Action: ActionCreate, Title: strPtr(""), ReleasePercentage: floatPtr(10), DueDate: timePtr(time.Now())},
	}
	for _, item := range cases {
		_, err := BuildMilestonePayload([]MilestoneItem{item}, "p1", "u1")
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	}
}

func TestBuildMilestonePayloadRejectsNonFiniteNumbers(t *testing.T) {
	due := time.Now()
	for _, value := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		item := MilestoneItem{
			Action:            ActionCreate,
			Title:             strPtr("x"),
			ReleasePercentage: floatPtr(value),
			DueDate:           timePtr(due),
		}
		_, err := BuildMilestonePayload([]MilestoneItem{item}, "p1", "u1")
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		assert.Equal(t, "releasePercentage must be a finite number", apperr.MessageOf(err))
	}

	_, err := BuildMilestonePayload([]MilestoneItem{
		{Action: ActionUpdate, Id: "m1", ReleasePercentage: floatPtr(math.NaN())},
	}, "p1", "u1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestBuildMilestonePayloadUpdateCollectsOnlyPresentFields(t *testing.T) {
	item := MilestoneItem{
		Action:            ActionUpdate,
		Id:                "m1",
		Title:             strPtr("Renamed"),
		ReleasePercentage: floatPtr(40),
	}

	payload, err := BuildMilestonePayload([]MilestoneItem{item}, "p1", "u1")
	require.NoError(t, err)
	require.Len(t, payload.Updates, 1)

	op := payload.Updates[0]
	assert.Equal(t, "m1", op.Id)
	assert.Equal(t, map[string]interface{}{
		"title":              "Renamed",
		"release_percentage": 40.0,
	}, op.Fields)
}

func TestBuildMilestonePayloadUpdateWithoutId(t *testing.T) {
	_, err := BuildMilestonePayload([]MilestoneItem{{Action: ActionUpdate}}, "p1", "u1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestBuildMilestonePayloadUpdateIdOnlyIsNoOp(t *testing.T) {
	payload, err := BuildMilestonePayload([]MilestoneItem{{Action: ActionUpdate, Id: "m1"}}, "p1", "u1")
	require.NoError(t, err)
	require.Len(t, payload.Updates, 1)
	assert.Empty(t, payload.Updates[0].Fields)
	assert.False(t, payload.Empty())
}

func TestBuildMilestonePayloadDelete(t *testing.T) {
	payload, err := BuildMilestonePayload([]MilestoneItem{{Action: ActionDelete, Id: "m1"}}, "p1", "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, payload.Deletes)

	_, err = BuildMilestonePayload([]MilestoneItem{{Action: ActionDelete}}, "p1", "u1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestBuildMilestonePayloadInvalidAction(t *testing.T) {
	_, err := BuildMilestonePayload([]MilestoneItem{{Action: "upsert"}}, "p1", "u1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "invalid action: upsert", apperr.MessageOf(err))
}

func TestBuildMilestonePayloadRejectsIncompleteGalleryItem(t *testing.T) {
	item := MilestoneItem{
		Action:            ActionCreate,
		Title:             strPtr("x"),
		ReleasePercentage: floatPtr(10),
		DueDate:           timePtr(time.Now()),
		GalleryItems:      []GalleryItemInput{{Url: "https://cdn.example.com/a.png"}},
	}
	_, err := BuildMilestonePayload([]MilestoneItem{item}, "p1", "u1")
	require.Error(t, err)
	assert.Equal(t, "gallery item creation requires url and fileType", apperr.MessageOf(err))
}
