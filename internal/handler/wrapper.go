package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"blobview/internal"
	"blobview/internal/model"
	"blobview/internal/module"
	"blobview/internal/util"
	"golang.org/x/net/html"
)

const DefaultContentType = "application/octet-stream"

var (
	ErrUnsupportedResize = util.NewServiceError(http.StatusBadRequest, "1", "unsupported resize format, it must be jpeg or png")
	ErrInvalidSize       = util.NewServiceError(http.StatusBadRequest, "1", module.ErrInvalidSize.Error())
)

type DatabaseSelector interface {
	SelectDb(name string) (*module.Database, error)
}

type ImageDecoder interface {
	Parse(input []byte) (*module.Image, error)
}

type Runner interface {
	Run(ctx context.Context, fn func() ([]byte, error)) ([]byte, error)
}

// TransformationWrapper 输出某一行中某一列的值，可选地将图片缩放后以 jpeg 或 png 格式输出
type TransformationWrapper struct {
	Databases       DatabaseSelector
	Relation        *module.Relation
	Transformations *module.Transformations
	Images          ImageDecoder
	Pool            Runner
	Timeout         time.Duration // 单次图片缩放的超时时间，为 0 时不限制
}

func (t *TransformationWrapper) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := t.serve(w, r); err != nil {
		internal.LogWithError(err, r)
		toError(w, err)
	}
}

func (t *TransformationWrapper) serve(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil { // 与查询参数一起接收表单参数
		return err
	}
	params := model.ParseRequestParams(r.Form)
	ctx := r.Context()

	database, err := t.Databases.SelectDb(params.Db())
	if err != nil {
		return err
	}
	if err := database.CheckTable(ctx, params.Table()); err != nil {
		return err
	}

	var whereClause *string
	if c, ok := params.WhereClause(); ok {
		whereClause = &c
	}
	row, err := database.FetchRow(ctx, params.Table(), whereClause)
	if err != nil {
		return err
	}
	if row == nil { // 没有数据时返回空的成功响应
		return nil
	}

	key, _ := params.TransformKey()
	value, ok := row[key]
	if !ok {
		return fmt.Errorf("column %q not found in table %s", key, params.Table())
	}

	transformation, options, err := t.lookupTransformation(ctx, params.Db(), params.Table(), key)
	if err != nil {
		return err
	}
	ct, hasCt := params.Ct()
	mimeType := ResolveMimeType(ct, hasCt, transformation, options.Charset)

	var body []byte
	if format, ok := params.Resize(); !ok {
		body = EscapeBody(ToBytes(value), mimeType)
	} else if body, err = t.resize(ctx, params, format, ToBytes(value)); err != nil {
		return err
	}

	// 响应头在响应体准备完成后再发送，失败时不会输出部分内容
	cn, _ := params.Cn()
	util.SendDefaultHeaders(w)
	util.SendDownloadHeader(w, r, cn, mimeType, len(body))
	_, err = w.Write(body)
	return err
}

// lookupTransformation 返回列的转换配置和解析后的选项，未启用 commwork 和 mimework 或者列未配置转换时返回 nil
func (t *TransformationWrapper) lookupTransformation(ctx context.Context, db, table, column string) (*model.Transformation, model.MimeOptions, error) {
	var options model.MimeOptions

	params, err := t.Relation.GetRelationsParam(ctx)
	if err != nil {
		return nil, options, err
	}
	if !params.CommWork || !params.MimeWork {
		return nil, options, nil
	}

	mimes, err := t.Transformations.GetMime(ctx, db, table)
	if err != nil {
		return nil, options, err
	}
	v, ok := mimes[column]
	if !ok {
		return nil, options, nil
	}
	return &v, t.Transformations.ParseMimeOptions(v.TransformationOptions), nil
}

func (t *TransformationWrapper) resize(ctx context.Context, params model.RequestParams, format string, data []byte) ([]byte, error) {
	if format != "jpeg" && format != "png" {
		return nil, ErrUnsupportedResize
	}
	newWidth, _ := params.NewWidth()
	newHeight, _ := params.NewHeight()
	if newWidth <= 0 || newHeight <= 0 { // 未设置时为 0
		return nil, ErrInvalidSize
	}

	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}
	return t.Pool.Run(ctx, func() ([]byte, error) {
		return ResizeImage(t.Images, data, format, newWidth, newHeight)
	})
}

// ResizeImage 解码图片，等比缩放到 newWidth x newHeight 范围内并重新编码，所有图片在返回前都会被释放
func ResizeImage(images ImageDecoder, data []byte, format string, newWidth, newHeight int) ([]byte, error) {
	src, err := images.Parse(data)
	if err != nil {
		return nil, util.NewServiceError(http.StatusBadRequest, "1", "invalid image: "+err.Error())
	}
	defer src.Release()

	g, err := module.ScaleToFit(src.Width(), src.Height(), newWidth, newHeight)
	if err != nil {
		return nil, util.NewServiceError(http.StatusBadRequest, "1", err.Error())
	}

	dest, err := src.Resample(g.Width, g.Height)
	if err != nil {
		return nil, err
	}
	defer dest.Release()

	switch format {
	case "jpeg":
		return dest.ToJPG(75)
	case "png":
		return dest.ToPNG()
	}
	return nil, ErrUnsupportedResize
}

// ResolveMimeType 优先使用请求中的 ct，其次使用列配置的 mimetype（下划线表示斜杠），否则使用默认类型，后两者附加字符集
func ResolveMimeType(ct string, hasCt bool, transformation *model.Transformation, charset string) string {
	if hasCt && ct != "" {
		return ct
	}
	mimeType := DefaultContentType
	if transformation != nil && transformation.MimeType != "" {
		mimeType = strings.ReplaceAll(transformation.MimeType, "_", "/")
	}
	return mimeType + charset
}

// EscapeBody 当 MIME 类型包含 html（不区分大小写）时转义内容，防止被浏览器当作标签解析
func EscapeBody(data []byte, mimeType string) []byte {
	if !containsFold(mimeType, "html") {
		return data
	}
	return []byte(html.EscapeString(string(data)))
}

// containsFold 按 ASCII 不区分大小写判断 s 是否包含 substr
func containsFold(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		match := true
		for j := 0; j < len(substr); j++ {
			if lower(s[i+j]) != lower(substr[j]) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

func ToBytes(value interface{}) []byte {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return v
	case string:
		return []byte(v)
	case time.Time:
		return []byte(v.Format("2006-01-02 15:04:05"))
	default:
		return []byte(fmt.Sprint(v))
	}
}
