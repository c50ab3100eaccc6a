package chat

import (
	"context"
	"encoding/json"
	"logic-agent-backend/dao"
	"logic-agent-backend/model"

	"github.com/tmc/langchaingo/llms"
	"gorm.io/gorm"
)

const historyLimit = 200

// ChatHistory 会话消息的追加式存储，按创建顺序读取
type ChatHistory struct {
	DB      *gorm.DB
	Session string
	Email   string
	Limit   int

	// 每轮对话的Agent消息ID
	AgentMessageID uint

	// 每轮对话的用户消息ID
	UserMessageID uint
}

func NewChatHistory(email, session string) *ChatHistory {
	return &ChatHistory{
		DB:      dao.DB,
		Session: session,
		Email:   email,
		Limit:   historyLimit,
	}
}

// Messages 加载历史消息并转换为模型上下文
func (h *ChatHistory) Messages(ctx context.Context) ([]llms.MessageContent, error) {
	var messages []struct {
		Content string
		Role    string
	}

	result := h.DB.WithContext(ctx).
		Model(&model.Message{}).
		Select("content, role").
		Where("user_email = ? AND session_id = ?", h.Email, h.Session).
		Order("created_at ASC").
		Limit(h.Limit).
		Find(&messages)

	if result.Error != nil {
		return nil, result.Error
	}

	var msgs []llms.MessageContent
	for _, msg := range messages {
		switch msg.Role {
		case string(llms.ChatMessageTypeAI):
			msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeAI, msg.Content))
		case string(llms.ChatMessageTypeHuman):
			msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeHuman, msg.Content))
		case string(llms.ChatMessageTypeSystem):
			msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeSystem, msg.Content))
		}
	}

	return msgs, nil
}

func (h *ChatHistory) AddUserMessage(ctx context.Context, text string) error {
	return h.addMessage(ctx, text, llms.ChatMessageTypeHuman)
}

func (h *ChatHistory) AddAIMessage(ctx context.Context, text string) error {
	return h.addMessage(ctx, text, llms.ChatMessageTypeAI)
}

func (h *ChatHistory) addMessage(ctx context.Context, text string, role llms.ChatMessageType) error {
	msg := model.Message{
		SessionID: h.Session,
		UserEmail: h.Email,
		Role:      string(role),
		Content:   text,
	}

	result := h.DB.WithContext(ctx).Create(&msg)
	if result.Error != nil {
		return result.Error
	}

	switch role {
	case llms.ChatMessageTypeAI:
		h.AgentMessageID = msg.ID
	case llms.ChatMessageTypeHuman:
		h.UserMessageID = msg.ID
	}

	return nil
}

// SetToolCallRecords 在Agent消息上回填本轮的工具调用记录
func (h *ChatHistory) SetToolCallRecords(ctx context.Context, records []model.ToolCallRecord) error {
	if len(records) == 0 || h.AgentMessageID == 0 {
		return nil
	}

	recordsJSON, err := json.Marshal(records)
	if err != nil {
		return err
	}

	result := h.DB.WithContext(ctx).
		Model(&model.Message{}).
		Where("id = ?", h.AgentMessageID).
		Update("tool_call_records", recordsJSON)

	return result.Error
}
