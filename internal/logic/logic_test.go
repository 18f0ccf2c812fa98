package logic

import (
	"testing"
	"time"

	"github.com/dootling/dcs/internal/database"
	"github.com/dootling/dcs/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// newTestDB 打开一个内存库并迁移全部数据表
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		NamingStrategy: &schema.NamingStrategy{
			SingularTable: true,
		},
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	user := model.User{
		FullName:   "Test " + username,
		Username:   username,
		Email:      username + "@example.com",
		Password:   "hashed-password",
		IsVerified: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createProject(t *testing.T, db *gorm.DB, ownerId, title string) *model.Project {
	t.Helper()

	project := model.Project{
		OwnerId:      ownerId,
		Title:        title,
		TotalBudget:  1000,
		StartDate:    time.Now(),
		DeliveryDate: time.Now().AddDate(0, 1, 0),
	}
	require.NoError(t, db.Create(&project).Error)
	return &project
}

func createMilestone(t *testing.T, db *gorm.DB, projectId, title string, due time.Time) *model.Milestone {
	t.Helper()

	milestone := model.Milestone{
		ProjectId:         projectId,
		Title:             title,
		ReleasePercentage: 10,
		DueDate:           due,
	}
	require.NoError(t, db.Create(&milestone).Error)
	return &milestone
}

func createContributor(t *testing.T, db *gorm.DB, projectId, userId string) *model.Contributor {
	t.Helper()

	contributor := model.Contributor{
		ProjectId: projectId,
		UserId:    userId,
	}
	require.NoError(t, db.Create(&contributor).Error)
	return &contributor
}

func strPtr(s string) *string        { return &s }
func floatPtr(f float64) *float64    { return &f }
func timePtr(t time.Time) *time.Time { return &t }
func boolPtr(b bool) *bool           { return &b }
