package util

import (
	"sync"
	"time"
)

type Cache interface {
	Get(key interface{}) interface{}
	Set(key interface{}, value interface{}, timeout int)
	Delete(key interface{})
	Clear()
}

type MemoryCache struct {
	sync.Map
}

// Set 写入缓存，timeout 为过期毫秒数，小于等于 0 时永不过期
func (c *MemoryCache) Set(key interface{}, value interface{}, timeout int) {
	c.Store(key, value)
	if timeout <= 0 {
		return
	}
	time.AfterFunc(time.Duration(timeout)*time.Millisecond, func() {
		c.Delete(key)
	})
}

func (c *MemoryCache) Get(key interface{}) interface{} {
	if value, ok := c.Load(key); ok {
		return value
	}
	return nil
}

func (c *MemoryCache) Has(key interface{}) bool {
	_, ok := c.Load(key)
	return ok
}

func (c *MemoryCache) Clear() {
	c.Range(func(key, value interface{}) bool {
		c.Delete(key)
		return true
	})
}
