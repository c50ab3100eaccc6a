package model

import (
	"encoding/json"
	"time"
)

const DefaultSessionTitle = "New conversation"

type Session struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserEmail string    `gorm:"not null;index" json:"user_email"`
	SessionID string    `gorm:"not null" json:"session_id"`
	Title     string    `json:"title"`
}

func (Session) TableName() string {
	return "chat_session"
}

// Message 建立联合索引 (session_id, created_at)
// 消息追加后不可变，仅 tool_call_records 在本轮结束时回填一次
type Message struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time       `gorm:"index:idx_session_created" json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	SessionID       string          `gorm:"not null;index:idx_session_created" json:"session_id"`
	UserEmail       string          `gorm:"not null;index" json:"user_email"`
	Role            string          `gorm:"not null" json:"role"`
	Content         string          `gorm:"type:text" json:"content"`
	ToolCallRecords json.RawMessage `gorm:"type:json" json:"tool_call_records"`
}

func (Message) TableName() string {
	return "chat_message"
}

// ToolCallRecord 单次工具调用记录，凭调用ID与原始请求配对
type ToolCallRecord struct {
	CallID    string `json:"call_id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
	Result    string `json:"result"`
}
