package dao

import (
	"logic-agent-backend/model"
)

func GetSessionsByEmail(email string) ([]model.Session, error) {
	var sessions []model.Session
	if err := DB.Where("user_email = ?", email).
		Order("created_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func DeleteSession(email, sessionID string) error {
	// 删除会话
	err := DB.Where("user_email = ? AND session_id = ?", email, sessionID).
		Delete(&model.Session{}).Error
	if err != nil {
		return err
	}

	// 删除会话内的对话记录
	err = DB.Where("user_email = ? AND session_id = ?", email, sessionID).
		Delete(&[]model.Message{}).Error
	if err != nil {
		return err
	}

	return nil
}

func GetMessagesBySessionID(email, sessionID string) ([]model.Message, error) {
	var messages []model.Message
	if err := DB.Where("user_email = ? AND session_id = ?", email, sessionID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func CountMessagesBySessionID(email, sessionID string) (int64, error) {
	var count int64
	if err := DB.Model(&model.Message{}).
		Where("user_email = ? AND session_id = ?", email, sessionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func UpdateSessionTitle(email, sessionID, title string) error {
	return DB.Model(&model.Session{}).
		Where("user_email = ? AND session_id = ?", email, sessionID).
		Update("title", title).Error
}
