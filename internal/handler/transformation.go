package handler

import (
	"errors"
	"net/http"
	"sort"

	"blobview/internal/model"
	"blobview/internal/module"
	"blobview/internal/util"
)

// TransformationAdmin 维护控制库中各列的 MIME 转换配置
type TransformationAdmin struct {
	Relation        *module.Relation
	Transformations *module.Transformations
}

func (t *TransformationAdmin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var (
		data interface{}
		err  error
	)

	params, err := t.Relation.GetRelationsParam(r.Context())
	if err != nil {
		toError(w, err)
		return
	}
	if !params.MimeWork {
		toError(w, errors.New("mime transformations are not enabled, column_info table is missing"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		data, err = t.handleGet(r)
	case http.MethodPost:
		err = t.handlePost(r)
	case http.MethodDelete:
		err = t.handleDelete(r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err != nil {
		toError(w, err)
		return
	}
	toSuccess(w, data)
}

func (t *TransformationAdmin) handleGet(r *http.Request) ([]model.Transformation, error) {
	q := util.QueryParams{Values: r.URL.Query()}
	db, table := q.GetOrDefault("db", ""), q.GetOrDefault("table", "")
	if db == "" || table == "" {
		return nil, errors.New("db and table are required")
	}

	mimes, err := t.Transformations.GetMime(r.Context(), db, table)
	if err != nil {
		return nil, err
	}

	list := make([]model.Transformation, 0, len(mimes))
	for _, v := range mimes {
		list = append(list, v)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Column < list[j].Column
	})
	return list, nil
}

func (t *TransformationAdmin) handlePost(r *http.Request) error {
	var v model.Transformation
	if err := util.UnmarshalWithIoReader(r.Body, &v); err != nil {
		return err
	}
	if v.Db == "" || v.Table == "" || v.Column == "" {
		return errors.New("db, table and column are required")
	}
	return t.Transformations.SetMime(r.Context(), v, false)
}

func (t *TransformationAdmin) handleDelete(r *http.Request) error {
	q := util.QueryParams{Values: r.URL.Query()}
	v := model.Transformation{
		Db:     q.Get("db"),
		Table:  q.Get("table"),
		Column: q.Get("column"),
	}
	if v.Db == "" || v.Table == "" || v.Column == "" {
		return errors.New("db, table and column are required")
	}
	return t.Transformations.SetMime(r.Context(), v, true)
}
