package internal

import (
	"github.com/robfig/cron/v3"
)

var Crontab *cron.Cron // 定时任务

// RunCrontabs 按 spec 定时清空缓存，使控制库的变更（如 column_info 表结构调整）生效
func RunCrontabs(spec string) {
	if Crontab == nil { // 首次执行时，先初始化 Crontab
		Crontab = cron.New()
		Crontab.Start()
	}

	if _, err := Crontab.AddFunc(spec, func() {
		Cache.Clear()
		LogWithInfo("cache refreshed")
	}); err != nil {
		panic(err)
	}
}
