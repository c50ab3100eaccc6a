package dao

import (
	"logic-agent-backend/model"
)

func SaveInsight(insight *model.Insight) error {
	return DB.Create(insight).Error
}

// GetInsightsByEmail category 为空时返回全部分类
func GetInsightsByEmail(email string, category model.InsightCategory) ([]model.Insight, error) {
	query := DB.Where("user_email = ?", email)
	if category != "" {
		query = query.Where("type = ?", category)
	}

	var insights []model.Insight
	if err := query.Order("created_at ASC").
		Find(&insights).Error; err != nil {
		return nil, err
	}
	return insights, nil
}
