package dto

// MediaUploadDTO 上传成功响应
type MediaUploadDTO struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}
