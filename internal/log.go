package internal

import (
	"blobview/internal/config"
	"log"
	"net/http"
	"os"
	"time"
)

func InitLog() {
	fd, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		panic(err)
	}
	log.SetOutput(fd)
	log.SetFlags(log.Lmsgprefix) // 去除日志每行开头自带的时间戳前缀
}

func LogWithError(err error, r *http.Request) {
	log.Println("\033[0;31m"+time.Now().Format("2006-01-02 15:04:05.000"), r.Method, r.URL.String(), "Error", err, "\033[m")
}

func LogWithInfo(message string, args ...interface{}) {
	log.Println(append([]interface{}{time.Now().Format("2006-01-02 15:04:05.000"), "Info", message}, args...)...)
}
