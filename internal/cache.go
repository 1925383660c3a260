package internal

import "blobview/internal/util"

var Cache = &util.MemoryCache{} // 缓存关系参数和各表的 MIME 配置
