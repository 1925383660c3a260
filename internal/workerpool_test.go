package internal

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPoolRun(t *testing.T) {
	p := NewPool(2)

	data, err := p.Run(context.Background(), func() ([]byte, error) {
		return []byte("ok"), nil
	})
	if err != nil || string(data) != "ok" {
		t.Fatalf("unexpected %q %v", data, err)
	}

	expected := errors.New("failed")
	if _, err := p.Run(context.Background(), func() ([]byte, error) {
		return nil, expected
	}); err != expected {
		t.Fatalf("expected error to be returned, got %v", err)
	}
	if p.Busy() != 0 {
		t.Fatalf("expected no busy slot, got %d", p.Busy())
	}
}

func TestPoolTimeoutAndBusy(t *testing.T) {
	p := NewPool(1)
	block := make(chan struct{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := p.Run(ctx, func() ([]byte, error) {
		<-block
		return nil, nil
	}); err != ErrTimeout {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}

	// 超时返回后任务仍在执行，槽位未归还
	if p.Busy() != 1 {
		t.Fatalf("expected 1 busy slot, got %d", p.Busy())
	}
	if _, err := p.Run(context.Background(), func() ([]byte, error) {
		return nil, nil
	}); err != ErrPoolBusy {
		t.Fatalf("expected ErrPoolBusy, got %v", err)
	}

	close(block)
	for i := 0; i < 100 && p.Busy() != 0; i++ {
		time.Sleep(10 * time.Millisecond)
	}
	if p.Busy() != 0 {
		t.Fatal("slot should be returned after the task finished")
	}
}

func TestPoolCancelled(t *testing.T) {
	p := NewPool(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	block := make(chan struct{})
	defer close(block)
	if _, err := p.Run(ctx, func() ([]byte, error) {
		<-block
		return nil, nil
	}); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
