package internal

import (
	"context"
	"errors"
	"net/http"

	"blobview/internal/util"
)

var (
	ErrPoolBusy = util.NewServiceError(http.StatusServiceUnavailable, "503", "service unavailable")
	ErrTimeout  = util.NewServiceError(http.StatusServiceUnavailable, "503", "image resize timeout")
)

// Pool 限制同时执行的图片缩放任务个数
type Pool struct {
	Channels chan int
	Count    int
}

var WorkerPool *Pool

func CreateWorkerPool(count int) {
	WorkerPool = NewPool(count)
}

func NewPool(count int) *Pool {
	p := &Pool{
		Channels: make(chan int, count),
		Count:    count,
	}
	for i := 0; i < count; i++ {
		p.Channels <- i
	}
	return p
}

// Busy 返回正在执行的任务个数
func (p *Pool) Busy() int {
	return p.Count - len(p.Channels)
}

// Run 获取空闲槽位并在新的协程中执行 fn，ctx 结束时立即返回，fn 会继续执行完毕后归还槽位
func (p *Pool) Run(ctx context.Context, fn func() ([]byte, error)) ([]byte, error) {
	var slot int
	select {
	case slot = <-p.Channels:
	default:
		return nil, ErrPoolBusy
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1) // 带缓冲，超时返回后 fn 仍可写入而不阻塞

	go func() {
		defer func() {
			p.Channels <- slot
		}()
		data, err := fn()
		done <- result{data, err}
	}()

	select {
	case r := <-done:
		return r.data, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ctx.Err()
	}
}
