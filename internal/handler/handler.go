package handler

import (
	"blobview/internal"
	"blobview/internal/config"
	"blobview/internal/module"
	"blobview/internal/util"
	"encoding/json"
	"fmt"
	"net/http"
)

func InitHandle() {
	relation := module.NewRelation(internal.Db, internal.Cache)
	transformations := module.NewTransformations(internal.Db, relation, internal.Cache, config.CacheTimeout)

	wrapper := &TransformationWrapper{
		Databases:       internal.Databases,
		Relation:        relation,
		Transformations: transformations,
		Images:          &module.ImageClient{},
		Pool:            internal.WorkerPool,
		Timeout:         config.ResizeTimeout,
	}
	admin := &TransformationAdmin{
		Relation:        relation,
		Transformations: transformations,
	}

	http.HandleFunc("/transformation/wrapper", authenticate(wrapper.ServeHTTP))
	http.HandleFunc("/transformation", authenticate(admin.ServeHTTP))
}

func toSuccess(w http.ResponseWriter, data interface{}) {
	switch v := data.(type) {
	case string:
		fmt.Fprintf(w, "%s", v)
	case []uint8:
		w.Write(v)
	default: // map[string]interface[]
		w.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false) // 见 https://pkg.go.dev/encoding/json#Marshal，字符串默认使用 HTMLEscape 编码，将 `<`、`>`、`&` 转义为 `\u003c`、`\u003e`、`\u0026`，可以通过调用 SetEscapeHTML(false) 禁用此替换
		enc.Encode(map[string]interface{}{
			"code":    "0",
			"message": "success",
			"data":    v,
		})
	}
}

func toError(w http.ResponseWriter, err error) {
	status, code := util.StatusOf(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status) // 在同一次请求响应过程中，只能调用一次 WriteHeader，否则会抛出异常 http: superfluous response.WriteHeader call from ...
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    code,
		"message": err.Error(),
	})
}

func authenticate(next func(w http.ResponseWriter, r *http.Request)) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		// 如果未配置用户名密码，直接执行
		if config.Authorization == "" {
			next(w, r)
			return
		}

		// 校验用户名密码
		a := &util.DigestAuth{}
		if a.VerifyWithMd5(r.Header.Get("Authorization"), r.Method, config.Authorization) {
			next(w, r)
			return
		}

		// 用户名密码校验不通过
		w.Header().Set("WWW-Authenticate", a.Challenge("blobview"))
		w.WriteHeader(http.StatusUnauthorized)
	}
}
