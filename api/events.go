package api

import (
	"io"
	"time"

	"finlogix/notify"

	"github.com/gin-gonic/gin"
)

// EventsHandler transaction_update 实时推送（SSE）
type EventsHandler struct {
	hub       *notify.Hub
	keepalive time.Duration
}

// NewEventsHandler 创建推送处理器，keepalive 为心跳间隔
func NewEventsHandler(hub *notify.Hub, keepalive time.Duration) *EventsHandler {
	if keepalive <= 0 {
		keepalive = 25 * time.Second
	}
	return &EventsHandler{hub: hub, keepalive: keepalive}
}

// Stream 推送所有用户的交易事件，客户端按 user_id 自行过滤
// @Summary 交易实时推送
// @Description Server-Sent Events，事件名 transaction_update；浏览器可通过 ?token= 传递访问令牌
// @Tags 推送
// @Produce text/event-stream
// @Security BearerAuth
// @Param token query string false "访问令牌（EventSource 无法设置请求头时使用）"
// @Success 200 {object} notify.Event "事件流"
// @Router /events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	listener := h.hub.Subscribe()
	defer h.hub.Unsubscribe(listener)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.keepalive)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-listener.C:
			if !ok {
				return false
			}
			c.SSEvent(notify.Topic, ev)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})
}
