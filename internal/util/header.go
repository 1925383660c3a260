package util

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
	chromeVersion       = regexp.MustCompile(`Chrome/(\d+)`)
)

// SanitizeFilename 将文件名中所有可能有害的字符替换为下划线
func SanitizeFilename(filename string) string {
	return unsafeFilenameChars.ReplaceAllString(filename, "_")
}

// SendDefaultHeaders 设置所有页面共用的安全响应头
func SendDefaultHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("X-Frame-Options", "DENY")
	h.Set("Referrer-Policy", "no-referrer")
	h.Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:; object-src 'none'")
	h.Set("X-Content-Type-Options", "nosniff") // https://stackoverflow.com/questions/18337630/what-is-x-content-type-options-nosniff
	h.Set("X-XSS-Protection", "1; mode=block")
	h.Set("X-Robots-Tag", "noindex, nofollow")
	h.Set("X-Permitted-Cross-Domain-Policies", "none")
}

func SendNoCacheHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Expires", time.Now().UTC().Format(http.TimeFormat))
	h.Set("Cache-Control", "no-store, no-cache, must-revalidate, pre-check=0, post-check=0, max-age=0")
	h.Set("Pragma", "no-cache")
	h.Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
}

// SendDownloadHeader 设置下载相关的响应头，length 小于等于 0 时不设置 Content-Length
func SendDownloadHeader(w http.ResponseWriter, r *http.Request, filename string, mimeType string, length int) {
	SendNoCacheHeaders(w)

	h := w.Header()
	if filename = SanitizeFilename(filename); filename != "" {
		h.Set("Content-Description", "File Transfer")
		h.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	h.Set("Content-Type", mimeType)
	// 已压缩的内容告知服务端不要再次压缩，Chrome 43 及以上版本会对 gzip 内容自动解压，因此不设置
	if strings.Contains(mimeType, "gzip") && !isChromeSince(r.UserAgent(), 43) {
		h.Set("Content-Encoding", "gzip")
	}
	h.Set("Content-Transfer-Encoding", "binary")
	if length > 0 {
		h.Set("Content-Length", strconv.Itoa(length))
	}
}

func isChromeSince(userAgent string, version int) bool {
	m := chromeVersion.FindStringSubmatch(userAgent)
	if m == nil {
		return false
	}
	v, _ := strconv.Atoi(m[1])
	return v >= version
}
