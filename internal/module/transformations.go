package module

import (
	"context"
	"strings"

	"blobview/internal/model"
	"blobview/internal/util"
)

type Transformations struct {
	db       Db
	relation *Relation
	cache    util.Cache
	timeout  int // 缓存过期毫秒数
}

func NewTransformations(db Db, relation *Relation, cache util.Cache, timeout int) *Transformations {
	return &Transformations{db, relation, cache, timeout}
}

type mimeCacheKey struct {
	db, table string
}

// GetMime 返回表中配置了转换的列，未启用 mimework 时返回 nil
func (t *Transformations) GetMime(ctx context.Context, db, table string) (map[string]model.Transformation, error) {
	params, err := t.relation.GetRelationsParam(ctx)
	if err != nil {
		return nil, err
	}
	if !params.MimeWork {
		return nil, nil
	}

	key := mimeCacheKey{db, table}
	if v, ok := t.cache.Get(key).(map[string]model.Transformation); ok {
		return v, nil
	}

	rows, err := t.db.QueryContext(ctx, `
		select column_name, comment, mimetype, transformation, transformation_options, input_transformation, input_transformation_options
		from column_info
		where db_name = ? and table_name = ? and (mimetype != '' or transformation != '' or transformation_options != '' or input_transformation != '' or input_transformation_options != '')
	`, db, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]model.Transformation)
	for rows.Next() {
		v := model.Transformation{Db: db, Table: table}
		if err := rows.Scan(&v.Column, &v.Comment, &v.MimeType, &v.Transformation, &v.TransformationOptions, &v.InputTransformation, &v.InputTransformationOptions); err != nil {
			return nil, err
		}
		v.MimeType = strings.ReplaceAll(v.MimeType, "- ", "_") // 兼容旧格式，如 "text- plain"
		v.Transformation = FixUpTransformation(v.Transformation)
		v.InputTransformation = FixUpTransformation(v.InputTransformation)
		result[v.Column] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	t.cache.Set(key, result, t.timeout)
	return result, nil
}

// SetMime 新增、修改或删除列的转换配置：全部转换字段为空且没有注释（或 forceDelete）时删除
func (t *Transformations) SetMime(ctx context.Context, v model.Transformation, forceDelete bool) error {
	hasValue := v.MimeType != "" || v.Transformation != "" || v.TransformationOptions != "" || v.InputTransformation != "" || v.InputTransformationOptions != ""

	var comment string
	var exists bool
	if rows, err := t.db.QueryContext(ctx, "select comment from column_info where db_name = ? and table_name = ? and column_name = ?", v.Db, v.Table, v.Column); err != nil {
		return err
	} else {
		exists = rows.Next()
		if exists {
			if err := rows.Scan(&comment); err != nil {
				rows.Close()
				return err
			}
		}
		rows.Close()
	}

	var err error
	switch {
	case exists && !forceDelete && (hasValue || comment != ""):
		_, err = t.db.ExecContext(ctx, `
			update column_info set mimetype = ?, transformation = ?, transformation_options = ?, input_transformation = ?, input_transformation_options = ?
			where db_name = ? and table_name = ? and column_name = ?
		`, v.MimeType, v.Transformation, v.TransformationOptions, v.InputTransformation, v.InputTransformationOptions, v.Db, v.Table, v.Column)
	case exists:
		_, err = t.db.ExecContext(ctx, "delete from column_info where db_name = ? and table_name = ? and column_name = ?", v.Db, v.Table, v.Column)
	case hasValue && !forceDelete:
		_, err = t.db.ExecContext(ctx, `
			insert into column_info (db_name, table_name, column_name, comment, mimetype, transformation, transformation_options, input_transformation, input_transformation_options)
			values (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, v.Db, v.Table, v.Column, v.Comment, v.MimeType, v.Transformation, v.TransformationOptions, v.InputTransformation, v.InputTransformationOptions)
	default: // 没有需要保存的内容
		return nil
	}
	if err != nil {
		return err
	}

	t.cache.Delete(mimeCacheKey{v.Db, v.Table})
	return nil
}

// GetOptions 解析逗号分隔的转换选项，单引号包裹的选项中可以包含逗号，选项中的反斜杠转义会被去除
func (t *Transformations) GetOptions(input string) []string {
	if input == "" {
		return []string{}
	}

	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for i := 0; i < len(parts); i++ {
		current := parts[i]
		trimmed := strings.TrimSpace(current)
		if len(trimmed) > 1 && trimmed[0] == '\'' && trimmed[len(trimmed)-1] == '\'' { // '...'
			current = trimmed[1 : len(trimmed)-1]
		} else if len(trimmed) > 0 && trimmed[0] == '\'' { // '..., 向后合并直到以单引号结尾
			merged := strings.TrimLeft(current, " \t\n\r\x00\x0B")
			rtrimmed := ""
			for i+1 < len(parts) {
				i++
				merged += "," + parts[i]
				rtrimmed = strings.TrimRight(merged, " \t\n\r\x00\x0B")
				if strings.HasSuffix(rtrimmed, "'") {
					break
				}
			}
			if len(rtrimmed) > 1 {
				current = rtrimmed[1 : len(rtrimmed)-1]
			} else {
				current = ""
			}
		}
		result = append(result, stripSlashes(current))
	}
	return result
}

// ParseMimeOptions 解析转换选项并提取字符集
func (t *Transformations) ParseMimeOptions(input string) model.MimeOptions {
	options := model.MimeOptions{Values: t.GetOptions(input)}
	for _, option := range options.Values {
		if strings.HasPrefix(option, "; charset=") {
			options.Charset = option
		}
	}
	return options
}

func stripSlashes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) {
			i++
			if s[i] == '0' {
				b.WriteByte(0)
			} else {
				b.WriteByte(s[i])
			}
		}
	}
	return b.String()
}

// FixUpTransformation 将旧格式的转换名转换为新格式，如 output/image_jpeg__inline.inc.php 转换为 Output/Image_JPEG__Inline
func FixUpTransformation(value string) string {
	subdir := ""
	if dir := strings.Split(value, "/"); len(dir) == 2 {
		subdir = upperFirst(dir[0]) + "/"
		value = dir[1]
	}

	value = strings.NewReplacer("jpeg", "JPEG", "png", "PNG").Replace(value)
	value = strings.ReplaceAll(value, ".inc.php", "")
	value = strings.ReplaceAll(value, "_", " ")

	words := []byte(value)
	for i := range words {
		if i == 0 || strings.IndexByte(" \t\r\n\f\v", words[i-1]) >= 0 {
			words[i] = upperByte(words[i])
		}
	}

	return subdir + strings.ReplaceAll(string(words), " ", "_")
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return string(upperByte(s[0])) + s[1:]
}

func upperByte(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
