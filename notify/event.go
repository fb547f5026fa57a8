// Package notify 交易变更的实时推送
// 账本在提交成功后发布事件，推送是尽力而为的：不确认、不重试，
// 客户端错过事件时通过列表接口重新同步
package notify

import (
	"context"
	"encoding/json"

	"finlogix/models"
)

// Topic 推送主题
const Topic = "transaction_update"

// EventKind 事件类型
type EventKind string

const (
	EventAdded   EventKind = "added"
	EventEdited  EventKind = "edited"
	EventDeleted EventKind = "deleted"
)

// Event transaction_update 事件负载
// Transaction 为 models.TransactionRecord（新增/编辑）或 DeletedRef（删除）
type Event struct {
	Event       EventKind `json:"event"`
	UserID      uint      `json:"user_id"`
	Transaction any       `json:"transaction"`
}

// DeletedRef 删除事件只携带交易 ID
type DeletedRef struct {
	ID uint `json:"id"`
}

// Added 新增事件
func Added(userID uint, rec models.TransactionRecord) Event {
	return Event{Event: EventAdded, UserID: userID, Transaction: rec}
}

// Edited 编辑事件
func Edited(userID uint, rec models.TransactionRecord) Event {
	return Event{Event: EventEdited, UserID: userID, Transaction: rec}
}

// Deleted 删除事件
func Deleted(userID, transactionID uint) Event {
	return Event{Event: EventDeleted, UserID: userID, Transaction: DeletedRef{ID: transactionID}}
}

// ToJSON 序列化事件
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher 提交后的事件出口
// Publish 不得阻塞调用方，也不向写路径返回错误
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Sink 事件的最终投递目标（SSE 连接、消息队列等）
type Sink interface {
	Deliver(ctx context.Context, ev Event) error
}

// Discard 丢弃所有事件，用于未配置推送的场景
type Discard struct{}

func (Discard) Publish(context.Context, Event) {}
