package model

import "time"

type InsightCategory string

const (
	InsightDescriptive  InsightCategory = "descriptive"
	InsightDiagnostic   InsightCategory = "diagnostic"
	InsightPredictive   InsightCategory = "predictive"
	InsightPrescriptive InsightCategory = "prescriptive"
	InsightStrategic    InsightCategory = "strategic"
	InsightOperational  InsightCategory = "operational"
	InsightCustomer     InsightCategory = "customer"
	InsightBehavioral   InsightCategory = "behavioral"
	InsightCompetitive  InsightCategory = "competitive"
	InsightCultural     InsightCategory = "cultural"
	InsightInnovation   InsightCategory = "innovation"
)

// InsightCategories 洞察分类的封闭枚举
var InsightCategories = []InsightCategory{
	InsightDescriptive,
	InsightDiagnostic,
	InsightPredictive,
	InsightPrescriptive,
	InsightStrategic,
	InsightOperational,
	InsightCustomer,
	InsightBehavioral,
	InsightCompetitive,
	InsightCultural,
	InsightInnovation,
}

func ValidInsightCategory(c InsightCategory) bool {
	for _, v := range InsightCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Insight 对话过程中由 saveInsight 工具存储的洞察，写入后不可变
type Insight struct {
	ID        string          `gorm:"primarykey;size:36" json:"id"`
	CreatedAt time.Time       `gorm:"not null;index:idx_insight_email_created" json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	UserEmail string          `gorm:"not null;index:idx_insight_email_created" json:"user_email"`
	Title     string          `gorm:"not null" json:"title"`
	Desc      string          `gorm:"column:description;type:text" json:"description"`
	Content   string          `gorm:"type:text" json:"content"`
	Emoji     string          `json:"emoji"`
	Category  InsightCategory `gorm:"not null;column:type" json:"type"`
}

func (Insight) TableName() string {
	return "insight"
}
