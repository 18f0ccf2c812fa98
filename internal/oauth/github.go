package oauth

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// GitHubClient GitHub OAuth 客户端
type GitHubClient struct {
	clientId     string
	clientSecret string
	redirectUri  string

	// 测试时可替换
	TokenURL   string
	APIBaseURL string

	httpClient *http.Client
}

// NewGitHubClient 创建 GitHub OAuth 客户端
func NewGitHubClient(clientId, clientSecret, redirectUri string) *GitHubClient {
	return &GitHubClient{
		clientId:     clientId,
		clientSecret: clientSecret,
		redirectUri:  redirectUri,
		TokenURL:     "https://github.com/login/oauth/access_token",
		APIBaseURL:   "https://api.github.com",
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthorizeURL 生成引导用户授权的跳转地址
func (c *GitHubClient) AuthorizeURL() string {
	query := url.Values{}
	query.Set("client_id", c.clientId)
	query.Set("redirect_uri", c.redirectUri)
	query.Set("scope", "read:user")
	return "https://github.com/login/oauth/authorize?" + query.Encode()
}

// TokenResponse 授权码兑换结果
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
	Error       string `json:"error"`
	ErrorDesc   string `json:"error_description"`
}

// Profile GitHub 账号信息
type Profile struct {
	Id        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarUrl string `json:"avatar_url"`
	HtmlUrl   string `json:"html_url"`
}

// AccountId 服务侧账号标识
func (p Profile) AccountId() string {
	return strconv.FormatInt(p.Id, 10)
}

// ExchangeCode 用授权码换取访问令牌
func (c *GitHubClient) ExchangeCode(code string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("client_id", c.clientId)
	form.Set("client_secret", c.clientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", c.redirectUri)

	req, err := http.NewRequest(http.MethodPost, c.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("github token exchange failed: %w", err)
	}

	var token TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("github token exchange returned invalid response: %w", err)
	}
	if token.Error != "" {
		return nil, fmt.Errorf("github token exchange rejected: %s", token.Error)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("github token exchange returned no access token")
	}
	return &token, nil
}

// FetchProfile 获取授权用户的账号信息
func (c *GitHubClient) FetchProfile(accessToken string) (*Profile, error) {
	req, err := http.NewRequest(http.MethodGet, c.APIBaseURL+"/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github profile fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github profile fetch returned status %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("github profile fetch returned invalid response: %w", err)
	}
	return &profile, nil
}
