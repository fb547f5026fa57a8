package notify

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Hub 进程内广播：每个已连接的监听者都会收到全部事件，
// 不按 user_id 过滤，由客户端自行筛选
type Hub struct {
	mu        sync.RWMutex
	listeners map[*Listener]struct{}
	buffer    int
}

// Listener 单个实时连接的事件队列
type Listener struct {
	C       chan Event
	dropped atomic.Int64
}

// Dropped 因队列已满被丢弃的事件数
func (l *Listener) Dropped() int64 {
	return l.dropped.Load()
}

// NewHub 创建广播中心，buffer 为每个监听者的队列长度
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		listeners: make(map[*Listener]struct{}),
		buffer:    buffer,
	}
}

// Subscribe 注册监听者，调用方负责在连接断开后 Unsubscribe
func (h *Hub) Subscribe() *Listener {
	l := &Listener{C: make(chan Event, h.buffer)}
	h.mu.Lock()
	h.listeners[l] = struct{}{}
	h.mu.Unlock()
	return l
}

// Unsubscribe 注销监听者并关闭其队列，可重复调用
func (h *Hub) Unsubscribe(l *Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.listeners[l]; !ok {
		return
	}
	delete(h.listeners, l)
	close(l.C)
}

// Len 当前监听者数量
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

// Deliver 实现 Sink。慢速监听者的队列满时直接丢弃该事件
func (h *Hub) Deliver(ctx context.Context, ev Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for l := range h.listeners {
		select {
		case l.C <- ev:
		default:
			l.dropped.Add(1)
			slog.WarnContext(ctx, "监听者队列已满，丢弃事件", "event", ev.Event, "user_id", ev.UserID)
		}
	}
	return nil
}
