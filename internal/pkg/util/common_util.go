package util

import (
	"strings"

	"Milestone/internal/pkg/consts"
)

// PtrUint64 用于将 uint64 转换为 *uint64
func PtrUint64(i uint64) *uint64 {
	return &i
}

// PtrString 用于将 string 转换为 *string
func PtrString(s string) *string {
	return &s
}

// GetSafeContentType 归一化上传文件的 Content-Type，未识别类型返回空串
func GetSafeContentType(contentType string) string {
	mime := strings.ToLower(strings.TrimSpace(contentType))
	prefix, _, found := strings.Cut(mime, "/")
	if !found {
		return ""
	}
	switch prefix {
	case consts.MimePrefixImage, consts.MimePrefixAudio, consts.MimePrefixVideo, consts.MimePrefixApp:
		return mime
	default:
		return ""
	}
}

// TruncateRunes 按字符数截断字符串，用于会话预览
func TruncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
