package config

import (
	"flag"
	"time"
)

var (
	Count            int
	Port             string
	Secure           bool
	Http3            bool
	ServerKey        string
	ServerCert       string
	ClientCertVerify bool
	Authorization    string
	DataDir          string
	ControlDb        string
	LogFile          string
	ResizeTimeout    time.Duration
	CacheRefresh     string
	CacheTimeout     int
)

func init() {
	flag.IntVar(&Count, "n", 4, "Count of concurrent image resize slots.") // 定义命令行参数 n，表示同时允许执行的图片缩放任务个数，默认值为 4，其值在 Parse 后会被修改为命令参数指定的值
	flag.StringVar(&Port, "p", "8090", "Port to listen.")
	flag.BoolVar(&Secure, "s", false, "Enable https.")
	flag.BoolVar(&Http3, "3", false, "Enable http3.")
	flag.StringVar(&ServerKey, "k", "server.key", "SSL key file.")
	flag.StringVar(&ServerCert, "c", "server.crt", "SSL cert file.")
	flag.BoolVar(&ClientCertVerify, "v", false, "Enable client cert verification.")
	flag.StringVar(&Authorization, "a", "", "<username:password> for digest authorization verification.")
	flag.StringVar(&DataDir, "d", "./data", "Directory of user databases, one <name>.db file per database.")
	flag.StringVar(&ControlDb, "m", "./blobview.db", "Control database file holding column_info.")
	flag.StringVar(&LogFile, "l", "./blobview.log", "Log file.")
	flag.DurationVar(&ResizeTimeout, "t", 30*time.Second, "Timeout of a single image resize.")
	flag.StringVar(&CacheRefresh, "r", "@every 5m", "Cron spec to refresh cached relation params.")
	flag.IntVar(&CacheTimeout, "e", 60000, "Expiration in milliseconds of cached mime maps.")
}

// Parse 在定义命令行参数之后，由 main 调用以解析所有命令行参数（不在 init 中调用，否则 go test 的参数会导致解析失败）
func Parse() {
	flag.Parse()
}
