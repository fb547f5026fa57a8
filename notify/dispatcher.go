package notify

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Dispatcher 提交后钩子：有界的内存发件箱 + 单个投递协程
// Publish 只做非阻塞入队，发件箱满时丢弃事件并记录日志
type Dispatcher struct {
	outbox  chan Event
	sinks   []Sink
	dropped atomic.Int64
}

// NewDispatcher 创建分发器，buffer 为发件箱容量
func NewDispatcher(buffer int, sinks ...Sink) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Dispatcher{
		outbox: make(chan Event, buffer),
		sinks:  sinks,
	}
}

// Publish 实现 Publisher
func (d *Dispatcher) Publish(ctx context.Context, ev Event) {
	select {
	case d.outbox <- ev:
	default:
		d.dropped.Add(1)
		slog.WarnContext(ctx, "事件发件箱已满，丢弃事件", "event", ev.Event, "user_id", ev.UserID)
	}
}

// Dropped 发件箱满时丢弃的事件数
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Run 持续投递事件直到 ctx 取消，取消后把已入队的事件投递完再返回
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case ev := <-d.outbox:
			d.deliver(ctx, ev)
		case <-ctx.Done():
			d.drain()
			return nil
		}
	}
}

func (d *Dispatcher) drain() {
	// 请求已经提交，关停阶段仍尽量送达
	ctx := context.Background()
	for {
		select {
		case ev := <-d.outbox:
			d.deliver(ctx, ev)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ev Event) {
	for _, s := range d.sinks {
		if err := s.Deliver(ctx, ev); err != nil {
			slog.Warn("事件投递失败", "event", ev.Event, "user_id", ev.UserID, "error", err)
		}
	}
}
