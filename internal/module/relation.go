package module

import (
	"context"

	"blobview/internal/util"
)

// ColumnInfoDDL 控制库中保存列注释和 MIME 转换配置的表
const ColumnInfoDDL = `
	create table if not exists column_info (
		id integer primary key autoincrement,
		db_name varchar(64) not null default '',
		table_name varchar(64) not null default '',
		column_name varchar(64) not null default '',
		comment varchar(255) not null default '',
		mimetype varchar(255) not null default '',
		transformation varchar(255) not null default '',
		transformation_options varchar(255) not null default '',
		input_transformation varchar(255) not null default '',
		input_transformation_options varchar(255) not null default '',
		unique(db_name, table_name, column_name)
	);
`

const relationCacheKey = "relation"

type RelationParams struct {
	CommWork bool // 存在 column_info 表
	MimeWork bool // column_info 表包含 MIME 转换相关的列
}

type Relation struct {
	db    Db
	cache util.Cache
}

func NewRelation(db Db, cache util.Cache) *Relation {
	return &Relation{db, cache}
}

func (r *Relation) GetRelationsParam(ctx context.Context) (RelationParams, error) {
	if v, ok := r.cache.Get(relationCacheKey).(RelationParams); ok {
		return v, nil
	}

	var params RelationParams

	rows, err := r.db.QueryContext(ctx, "select name from pragma_table_info('column_info')")
	if err != nil {
		return params, err
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return params, err
		}
		columns[name] = true
	}
	if err := rows.Err(); err != nil {
		return params, err
	}

	params.CommWork = columns["db_name"] && columns["table_name"] && columns["column_name"] && columns["comment"]
	params.MimeWork = params.CommWork && columns["mimetype"] && columns["transformation"] && columns["transformation_options"]

	r.cache.Set(relationCacheKey, params, 0) // 由定时任务统一刷新
	return params, nil
}
