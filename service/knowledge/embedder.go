package knowledge

import (
	"context"
	"errors"
	"fmt"
	"logic-agent-backend/config"
	"logic-agent-backend/utils"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

const defaultEmbeddingBatchSize = 10

// ErrEmbeddingService 外部向量服务不可用或拒绝请求
// 不在内部重试，由调用方决定如何向用户呈现
var ErrEmbeddingService = errors.New("embedding service error")

// Embedder 封装外部向量模型，保证入库与查询使用同一固定维度
type Embedder struct {
	inner embeddings.Embedder
	dim   int
}

func NewEmbedder() (*Embedder, error) {
	client, err := openai.New(
		openai.WithEmbeddingModel(config.Cfg.Model.EmbeddingModel),
		openai.WithToken(config.Cfg.Model.APIKey),
		openai.WithBaseURL(config.Cfg.Model.BaseURL),
		openai.WithHTTPClient(utils.NewHTTPClient(
			utils.WithTimeout(60 * time.Second),
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder client: %v", err)
	}

	embedder, err := embeddings.NewEmbedder(client,
		embeddings.WithBatchSize(defaultEmbeddingBatchSize),
		embeddings.WithStripNewLines(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %v", err)
	}

	return &Embedder{
		inner: embedder,
		dim:   config.Cfg.Model.EmbeddingDim,
	}, nil
}

func (e *Embedder) Dim() int {
	return e.dim
}

// EmbedTexts 为每条输入生成一个向量，顺序与输入一致
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := e.inner.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingService, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrEmbeddingService, len(vectors), len(texts))
	}

	for _, v := range vectors {
		if err := e.checkDim(v); err != nil {
			return nil, err
		}
	}
	return vectors, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vector, err := e.inner.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingService, err)
	}
	if err := e.checkDim(vector); err != nil {
		return nil, err
	}
	return vector, nil
}

// 维度不一致属于配置错误，直接报错而不是静默恢复
func (e *Embedder) checkDim(vector []float32) error {
	if len(vector) != e.dim {
		return fmt.Errorf("embedding dimension mismatch: got %d, configured %d", len(vector), e.dim)
	}
	return nil
}
