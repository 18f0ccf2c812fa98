package uploader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"github.com/dootling/dcs/internal/apperr"
	"github.com/panjf2000/ants/v2"
)

// Uploader 文件上传接口，控制器只依赖该接口
type Uploader interface {
	Upload(file *multipart.FileHeader) (string, error)
	UploadAll(files []*multipart.FileHeader) ([]string, error)
}

// CloudinaryUploader 基于 Cloudinary 无签名上传的实现
type CloudinaryUploader struct {
	cloudName    string
	uploadPreset string

	// 测试时可替换
	BaseURL string

	httpClient *http.Client
}

// NewCloudinaryUploader 创建 Cloudinary 上传器
func NewCloudinaryUploader(cloudName, uploadPreset string) *CloudinaryUploader {
	return &CloudinaryUploader{
		cloudName:    cloudName,
		uploadPreset: uploadPreset,
		BaseURL:      "https://api.cloudinary.com",
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}
}

// uploadResponse Cloudinary 返回结果
type uploadResponse struct {
	SecureUrl string `json:"secure_url"`
	Url       string `json:"url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload 上传单个文件，返回可访问地址
func (u *CloudinaryUploader) Upload(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", apperr.Upload("failed to read uploaded file", err)
	}
	defer src.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", file.Filename)
	if err != nil {
		return "", apperr.Upload("failed to build upload request", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return "", apperr.Upload("failed to build upload request", err)
	}
	if err := writer.WriteField("upload_preset", u.uploadPreset); err != nil {
		return "", apperr.Upload("failed to build upload request", err)
	}
	if err := writer.Close(); err != nil {
		return "", apperr.Upload("failed to build upload request", err)
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/auto/upload", u.BaseURL, u.cloudName)
	req, err := http.NewRequest(http.MethodPost, endpoint, &body)
	if err != nil {
		return "", apperr.Upload("failed to build upload request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", apperr.Upload("file upload failed", err)
	}
	defer resp.Body.Close()

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", apperr.Upload("file upload returned invalid response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperr.Upload(fmt.Sprintf("file upload failed: %s", result.Error.Message), nil)
	}
	if result.SecureUrl == "" {
		return "", apperr.Upload("file upload returned no url", nil)
	}
	return result.SecureUrl, nil
}

// UploadAll 并发上传一批文件，保持与入参相同的顺序。
// 任意一个文件失败则整批失败。
func (u *CloudinaryUploader) UploadAll(files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	pool, err := ants.NewPool(len(files))
	if err != nil {
		return nil, apperr.Upload("failed to start upload workers", err)
	}
	defer pool.Release()

	urls := make([]string, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		i, file := i, file
		submitErr := pool.Submit(func() {
			defer wg.Done()
			urls[i], errs[i] = u.Upload(file)
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, apperr.Upload("one or more files failed to upload", err)
		}
	}
	return urls, nil
}
