package logic

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/model"
	"github.com/dootling/dcs/internal/oauth"
	"gorm.io/gorm"
)

// ConnectionLogic 第三方服务连接业务逻辑
type ConnectionLogic struct {
	db     *gorm.DB
	github *oauth.GitHubClient
}

// NewConnectionLogic 创建服务连接业务逻辑
func NewConnectionLogic(db *gorm.DB, github *oauth.GitHubClient) *ConnectionLogic {
	return &ConnectionLogic{db: db, github: github}
}

// ConnectGitHub 用授权码完成 GitHub 连接。
// 同一用户重复连接同一账号时更新令牌而不是新建记录。
func (c *ConnectionLogic) ConnectGitHub(userId, code string) (*model.ServiceConnection, error) {
	if code == "" {
		return nil, apperr.Validation("authorization code is required")
	}

	token, err := c.github.ExchangeCode(code)
	if err != nil {
		return nil, apperr.Validation("failed to exchange authorization code")
	}

	profile, err := c.github.FetchProfile(token.AccessToken)
	if err != nil {
		return nil, apperr.Unknown("failed to fetch github profile", err)
	}

	metadata, err := json.Marshal(map[string]interface{}{
		"login":     profile.Login,
		"name":      profile.Name,
		"avatarUrl": profile.AvatarUrl,
		"htmlUrl":   profile.HtmlUrl,
	})
	if err != nil {
		return nil, apperr.Unknown("failed to connect github account", err)
	}

	now := time.Now()

	var conn model.ServiceConnection
	err = c.db.Where("user_id = ? AND service_type = ? AND service_account_id = ?",
		userId, model.ServiceTypeGitHub, profile.AccountId()).First(&conn).Error
	if err == nil {
		updates := map[string]interface{}{
			"access_token":        token.AccessToken,
			"connection_status":   model.ConnectionStatusActive,
			"connection_metadata": string(metadata),
			"last_sync_at":        now,
		}
		if err := c.db.Model(&conn).Updates(updates).Error; err != nil {
			return nil, apperr.Unknown("failed to connect github account", err)
		}
		conn.AccessToken = token.AccessToken
		conn.ConnectionStatus = model.ConnectionStatusActive
		conn.ConnectionMetadata = string(metadata)
		conn.LastSyncAt = &now
		return &conn, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Unknown("failed to connect github account", err)
	}

	conn = model.ServiceConnection{
		UserId:             userId,
		ServiceType:        model.ServiceTypeGitHub,
		ServiceAccountId:   profile.AccountId(),
		AccessToken:        token.AccessToken,
		ConnectionStatus:   model.ConnectionStatusActive,
		ConnectionMetadata: string(metadata),
		LastSyncAt:         &now,
	}
	if err := c.db.Create(&conn).Error; err != nil {
		return nil, apperr.Unknown("failed to connect github account", err)
	}
	return &conn, nil
}

// List 列出用户的有效连接
func (c *ConnectionLogic) List(userId string) ([]model.ServiceConnection, error) {
	var conns []model.ServiceConnection
	err := c.db.
		Where("user_id = ? AND connection_status = ?", userId, model.ConnectionStatusActive).
		Order("created_at DESC").
		Find(&conns).Error
	if err != nil {
		return nil, apperr.Unknown("failed to list service connections", err)
	}
	return conns, nil
}

// Delete 删除属于该用户的连接
func (c *ConnectionLogic) Delete(userId, connectionId string) error {
	res := c.db.Where("id = ? AND user_id = ?", connectionId, userId).
		Delete(&model.ServiceConnection{})
	if res.Error != nil {
		return apperr.Unknown("failed to delete service connection", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("service connection not found")
	}
	return nil
}
