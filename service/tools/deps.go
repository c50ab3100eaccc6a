package tools

import (
	"context"
	"logic-agent-backend/dao"
	"logic-agent-backend/model"
	"logic-agent-backend/service/knowledge"
)

// InsightStore 洞察的持久化边界
type InsightStore interface {
	Save(insight *model.Insight) error
	List(email string, category model.InsightCategory) ([]model.Insight, error)
}

// Embedder 文本向量化边界
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorStore 向量存储边界
type VectorStore interface {
	Insert(ctx context.Context, email, title string, chunks []knowledge.Chunk) error
	Search(ctx context.Context, email string, vector []float32, threshold float32, limit int) ([]knowledge.SearchHit, error)
}

// Researcher 外部搜索问答边界
type Researcher interface {
	SearchWeb(ctx context.Context, query string) (string, error)
	SuggestThinkingModels(ctx context.Context, problem string) (string, error)
}

// DAOInsightStore dao 层的 InsightStore 适配
type DAOInsightStore struct{}

func (DAOInsightStore) Save(insight *model.Insight) error {
	return dao.SaveInsight(insight)
}

func (DAOInsightStore) List(email string, category model.InsightCategory) ([]model.Insight, error) {
	return dao.GetInsightsByEmail(email, category)
}
