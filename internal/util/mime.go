package util

import (
	"net/http"
	"strings"
)

// DetectMIME sniffs the content type from the leading bytes of a file.
func DetectMIME(head []byte) string {
	if len(head) > 512 {
		head = head[:512]
	}
	return NormalizeMIME(http.DetectContentType(head))
}

// NormalizeMIME lower-cases, strips parameters and folds the image/jpg alias.
func NormalizeMIME(mimeType string) string {
	cleaned := strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.IndexByte(cleaned, ';'); idx >= 0 {
		cleaned = strings.TrimSpace(cleaned[:idx])
	}
	if cleaned == "image/jpg" || cleaned == "image/pjpeg" {
		return "image/jpeg"
	}
	return cleaned
}

func IsAllowedMIME(mimeType string, allowed []string) bool {
	target := NormalizeMIME(mimeType)
	for _, candidate := range allowed {
		if NormalizeMIME(candidate) == target {
			return true
		}
	}
	return false
}

func IsImageMIME(mimeType string) bool {
	return strings.HasPrefix(NormalizeMIME(mimeType), "image/")
}

func IsImageExtension(extension string) bool {
	switch strings.ToLower(strings.TrimSpace(extension)) {
	case ".png", ".jpg", ".jpeg", ".jpe", ".jfif", ".gif", ".webp":
		return true
	default:
		return false
	}
}
