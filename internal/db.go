package internal

import (
	"blobview/internal/config"
	"blobview/internal/module"
	"database/sql"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

var (
	Db        *sql.DB                // 控制库，保存列的 MIME 转换配置
	Databases *module.DatabaseClient // 用户数据库
)

func InitDb() {
	var err error

	Db, err = sql.Open("sqlite3", config.ControlDb)
	if err != nil {
		panic(err)
	}

	_, err = Db.Exec(module.ColumnInfoDDL)
	if err != nil {
		panic(err)
	}

	if err = os.MkdirAll(config.DataDir, os.ModePerm); err != nil {
		panic(err)
	}
	Databases = module.NewDatabaseClient(config.DataDir)
}
