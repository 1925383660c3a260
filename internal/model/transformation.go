package model

type Transformation struct {
	Db                         string `json:"db"`
	Table                      string `json:"table"`
	Column                     string `json:"column"`
	Comment                    string `json:"comment"`
	MimeType                   string `json:"mimetype"` // 下划线编码的 MIME 类型，如 image_jpeg、text_plain
	Transformation             string `json:"transformation"`
	TransformationOptions      string `json:"transformationOptions"` // 逗号分隔，可用单引号包裹含逗号的值，如 'a,b','; charset=utf-8'
	InputTransformation        string `json:"inputTransformation"`
	InputTransformationOptions string `json:"inputTransformationOptions"`
}

// MimeOptions 由 transformation_options 解析得到
type MimeOptions struct {
	Values  []string
	Charset string // 以 "; charset=" 开头的选项原文，如 "; charset=utf-8"
}
