package module

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"blobview/internal/util"
	_ "github.com/mattn/go-sqlite3"
)

var databaseName = regexp.MustCompile(`^\w{1,64}$`)

// FetchAssoc 读取结果集的第一行并关闭结果集，没有数据时返回 nil
func FetchAssoc(rows *sql.Rows) (map[string]interface{}, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	buf := make([]interface{}, len(columns))
	for index := range columns {
		var a interface{}
		buf[index] = &a
	}

	if !rows.Next() {
		return nil, rows.Err()
	}
	if err := rows.Scan(buf...); err != nil {
		return nil, err
	}

	record := make(map[string]interface{}, len(columns))
	for index, data := range buf {
		record[columns[index]] = *data.(*interface{})
	}
	return record, nil
}

// Backquote 使用反引号包裹标识符，标识符内的反引号被转义为两个反引号
func Backquote(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// DatabaseClient 管理数据目录下的用户数据库，每个数据库对应一个 <name>.db 文件，以只读模式打开
type DatabaseClient struct {
	dir string
	mu  sync.Mutex
	dbs map[string]*sql.DB
}

func NewDatabaseClient(dir string) *DatabaseClient {
	return &DatabaseClient{dir: dir, dbs: make(map[string]*sql.DB)}
}

func (d *DatabaseClient) SelectDb(name string) (*Database, error) {
	if !databaseName.MatchString(name) {
		return nil, util.NewServiceError(http.StatusBadRequest, "1", "db is required, it must be a string that matches /[A-Za-z0-9_]{1,64}/")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if db, ok := d.dbs[name]; ok {
		return &Database{name, db}, nil
	}

	fp := filepath.Join(d.dir, name+".db")
	if _, err := os.Stat(fp); err != nil { // sqlite 打开不存在的文件时会自动创建，因此需要提前检查
		return nil, util.NewServiceError(http.StatusNotFound, "404", "database "+name+" not found")
	}
	db, err := sql.Open("sqlite3", "file:"+filepath.ToSlash(fp)+"?mode=ro")
	if err != nil {
		return nil, err
	}
	d.dbs[name] = db
	return &Database{name, db}, nil
}

func (d *DatabaseClient) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for name, db := range d.dbs {
		db.Close()
		delete(d.dbs, name)
	}
	return nil
}

type Database struct {
	name string
	db   *sql.DB
}

func (d *Database) Name() string {
	return d.name
}

// CheckTable 校验表或视图是否存在
func (d *Database) CheckTable(ctx context.Context, table string) error {
	var count int
	if err := d.db.QueryRowContext(ctx, "select count(1) from sqlite_master where type in ('table', 'view') and name = ?", table).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return util.NewServiceError(http.StatusNotFound, "404", fmt.Sprintf("table %s.%s not found", d.name, table))
	}
	return nil
}

// FetchRow 查询并返回第一行，whereClause 为空指针时查询表中的第一行。
// 注意：whereClause 原样拼接进 SQL，调用方必须是可信的，面向不可信调用方时应改为参数化查询
func (d *Database) FetchRow(ctx context.Context, table string, whereClause *string) (map[string]interface{}, error) {
	var stmt string
	if whereClause != nil {
		stmt = "SELECT * FROM " + Backquote(table) + " WHERE " + *whereClause + ";"
	} else {
		stmt = "SELECT * FROM " + Backquote(table) + " LIMIT 1;"
	}

	rows, err := d.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	return FetchAssoc(rows)
}
