package handler

import (
	"math"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/mutation"
	"github.com/dootling/dcs/internal/uploader"
	"github.com/gin-gonic/gin"
)

// 每次请求可携带的附件上限
const (
	maxImageFiles = 10
	maxDocFiles   = 20
)

// isMultipart 判断请求是否为 multipart 表单
func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}

// formFiles 收集表单中的附件，校验数量上限。
// image 与 file 两个字段分别承载图片与普通文件。
func formFiles(c *gin.Context) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperr.Validation("invalid multipart form")
	}

	images := form.File["image"]
	docs := form.File["file"]
	if len(images) > maxImageFiles {
		return nil, apperr.Validation("a maximum of %d image files can be uploaded at once", maxImageFiles)
	}
	if len(docs) > maxDocFiles {
		return nil, apperr.Validation("a maximum of %d files can be uploaded at once", maxDocFiles)
	}

	files := make([]*multipart.FileHeader, 0, len(images)+len(docs))
	files = append(files, images...)
	files = append(files, docs...)
	return files, nil
}

// uploadGalleryItems 批量上传附件并生成待挂载记录
func uploadGalleryItems(up uploader.Uploader, files []*multipart.FileHeader) ([]mutation.GalleryItemInput, error) {
	if len(files) == 0 {
		return nil, nil
	}

	urls, err := up.UploadAll(files)
	if err != nil {
		return nil, err
	}

	items := make([]mutation.GalleryItemInput, len(files))
	for i, file := range files {
		fileType := file.Header.Get("Content-Type")
		if fileType == "" {
			fileType = "application/octet-stream"
		}
		items[i] = mutation.GalleryItemInput{Url: urls[i], FileType: fileType}
	}
	return items, nil
}

// formString 读取表单字段，缺失时返回 nil
func formString(c *gin.Context, key string) *string {
	if value, ok := c.GetPostForm(key); ok {
		return &value
	}
	return nil
}

// formFloat 读取表单中的浮点数字段，NaN 与 Inf 视为非法输入
func formFloat(c *gin.Context, key string) (*float64, error) {
	raw, ok := c.GetPostForm(key)
	if !ok {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, apperr.Validation("%s must be a finite number", key)
	}
	return &value, nil
}

// formBool 读取表单中的布尔字段
func formBool(c *gin.Context, key string) (*bool, error) {
	raw, ok := c.GetPostForm(key)
	if !ok {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperr.Validation("%s must be a boolean", key)
	}
	return &value, nil
}

// formDate 读取表单中的日期字段，接受 RFC3339 或 YYYY-MM-DD
func formDate(c *gin.Context, key string) (*time.Time, error) {
	raw, ok := c.GetPostForm(key)
	if !ok || raw == "" {
		return nil, nil
	}
	return parseDate(raw, key)
}

// parseDate 解析日期字符串
func parseDate(raw, key string) (*time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if value, err := time.Parse(layout, raw); err == nil {
			return &value, nil
		}
	}
	return nil, apperr.Validation("%s must be a valid date", key)
}
