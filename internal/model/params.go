package model

import (
	"net/url"
	"strconv"
)

// MaxSize 缩放尺寸参数的上限，超过时静默截断为该值
const MaxSize = 2000

// RequestParams 在请求入口处一次性构造，之后只读
type RequestParams struct {
	db           string
	table        string
	cn           optional
	ct           optional
	sqlQuery     optional
	transformKey optional
	whereClause  optional
	resize       optional
	newWidth     optionalInt
	newHeight    optionalInt
}

type optional struct {
	value string
	set   bool
}

type optionalInt struct {
	value int
	set   bool
}

// 可识别的参数名，驼峰写法作为别名
var (
	stringParams = map[string][]string{
		"cn":            {"cn"},
		"ct":            {"ct"},
		"sql_query":     {"sql_query", "sqlQuery"},
		"transform_key": {"transform_key", "transformKey"},
		"where_clause":  {"where_clause", "whereClause"},
		"resize":        {"resize"},
	}
	sizeParams = []string{"newWidth", "newHeight"}
)

func lookup(values url.Values, names []string) optional {
	for _, name := range names {
		if vs, ok := values[name]; ok && len(vs) > 0 {
			return optional{vs[0], true}
		}
	}
	return optional{}
}

// ParseRequestParams 扫描白名单中的参数，未识别的参数被忽略，缺失的参数保持未设置状态
func ParseRequestParams(values url.Values) RequestParams {
	p := RequestParams{
		db:    values.Get("db"),
		table: values.Get("table"),
	}
	strs := make(map[string]optional, len(stringParams))
	for key, names := range stringParams {
		strs[key] = lookup(values, names)
	}
	p.cn, p.ct, p.sqlQuery = strs["cn"], strs["ct"], strs["sql_query"]
	p.transformKey, p.whereClause, p.resize = strs["transform_key"], strs["where_clause"], strs["resize"]

	sizes := make(map[string]optionalInt, len(sizeParams))
	for _, name := range sizeParams {
		if v := lookup(values, []string{name}); v.set {
			n := Intval(v.value)
			if n > MaxSize {
				n = MaxSize
			}
			sizes[name] = optionalInt{n, true}
		}
	}
	p.newWidth, p.newHeight = sizes["newWidth"], sizes["newHeight"]

	return p
}

// Intval 按前导的符号和数字解析整数，无法解析时返回 0，溢出时取边界值
func Intval(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r' || s[i] == '\v' || s[i] == '\f') {
		i++
	}
	j := i
	if j < len(s) && (s[j] == '+' || s[j] == '-') {
		j++
	}
	k := j
	for k < len(s) && s[k] >= '0' && s[k] <= '9' {
		k++
	}
	if k == j {
		return 0
	}
	n, err := strconv.ParseInt(s[i:k], 10, 64)
	if err != nil { // 仅可能是溢出，ParseInt 此时返回的是边界值
		if s[i] == '-' {
			return -1 << 31
		}
		return 1<<31 - 1
	}
	if n > 1<<31-1 {
		return 1<<31 - 1
	}
	if n < -1<<31 {
		return -1 << 31
	}
	return int(n)
}

func (p RequestParams) Db() string    { return p.db }
func (p RequestParams) Table() string { return p.table }

func (p RequestParams) Cn() (string, bool)           { return p.cn.value, p.cn.set }
func (p RequestParams) Ct() (string, bool)           { return p.ct.value, p.ct.set }
func (p RequestParams) SqlQuery() (string, bool)     { return p.sqlQuery.value, p.sqlQuery.set }
func (p RequestParams) TransformKey() (string, bool) { return p.transformKey.value, p.transformKey.set }
func (p RequestParams) WhereClause() (string, bool)  { return p.whereClause.value, p.whereClause.set }
func (p RequestParams) Resize() (string, bool)       { return p.resize.value, p.resize.set }
func (p RequestParams) NewWidth() (int, bool)        { return p.newWidth.value, p.newWidth.set }
func (p RequestParams) NewHeight() (int, bool)       { return p.newHeight.value, p.newHeight.set }
