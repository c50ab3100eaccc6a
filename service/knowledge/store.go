package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"logic-agent-backend/config"
	"sort"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/milvusclient"
)

const insertAttempts = 3

// Chunk 待入库的 (文本, 向量) 对
type Chunk struct {
	Text   string
	Vector []float32
}

// KnowledgeChunk 已入库的知识分块
type KnowledgeChunk struct {
	ID    int64
	Title string
	Body  string
}

// SearchHit 命中分块及其余弦相似度
type SearchHit struct {
	Chunk KnowledgeChunk
	Score float32
}

// Store 知识分块的向量存储网关，所有读写都带 owner 过滤
type Store struct {
	client     *milvusclient.Client
	collection string
	dim        int
}

func NewStore(ctx context.Context) (*Store, error) {
	client, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address: config.Cfg.Milvus.Endpoint,
		APIKey:  config.Cfg.Milvus.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create milvus client: %v", err)
	}

	return &Store{
		client:     client,
		collection: config.Cfg.Milvus.Collection,
		dim:        config.Cfg.Model.EmbeddingDim,
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

// Insert 同一文档的所有分块共用一个标题，整批写入
// 批量写入中途失败按整体失败上报，调用方可整篇重试
func (s *Store) Insert(ctx context.Context, email, title string, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, 0, len(chunks))
	vectors := make([][]float32, 0, len(chunks))
	titles := make([]string, 0, len(chunks))
	emails := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		texts = append(texts, chunk.Text)
		vectors = append(vectors, chunk.Vector)
		titles = append(titles, title)
		emails = append(emails, email)
	}

	columns := []column.Column{
		column.NewColumnVarChar("text", texts),
		column.NewColumnVarChar("title", titles),
		column.NewColumnVarChar("user_email", emails),
		column.NewColumnFloatVector("vector", s.dim, vectors),
	}

	insertOption := milvusclient.NewColumnBasedInsertOption(s.collection).WithColumns(columns...)
	err := retry.Do(
		func() error {
			_, err := s.client.Insert(ctx, insertOption)
			return err
		},
		retry.Attempts(insertAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("Retrying knowledge chunk insert",
				"attempt", n+1,
				"title", title,
				"err", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("error inserting knowledge chunks: %v", err)
	}

	return nil
}

// Search 在 owner 的分块中做近似最近邻检索
// 仅返回相似度不低于 threshold 的结果，按相似度降序，至多 limit 条
func (s *Store) Search(ctx context.Context, email string, vector []float32, threshold float32, limit int) ([]SearchHit, error) {
	if limit <= 0 {
		return nil, nil
	}

	searchOption := milvusclient.NewSearchOption(s.collection, limit, []entity.Vector{
		entity.FloatVector(vector),
	}).
		WithANNSField("vector").
		WithFilter(ownerFilter(email)).
		WithOutputFields("id", "title", "text")

	resultSets, err := s.client.Search(ctx, searchOption)
	if err != nil {
		return nil, fmt.Errorf("error searching knowledge chunks: %v", err)
	}

	var hits []SearchHit
	for _, rs := range resultSets {
		for i := 0; i < rs.ResultCount; i++ {
			id, err := rs.IDs.GetAsInt64(i)
			if err != nil {
				return nil, fmt.Errorf("error reading chunk id: %v", err)
			}
			title, err := rs.GetColumn("title").GetAsString(i)
			if err != nil {
				return nil, fmt.Errorf("error reading chunk title: %v", err)
			}
			body, err := rs.GetColumn("text").GetAsString(i)
			if err != nil {
				return nil, fmt.Errorf("error reading chunk text: %v", err)
			}

			hits = append(hits, SearchHit{
				Chunk: KnowledgeChunk{ID: id, Title: title, Body: body},
				Score: rs.Scores[i],
			})
		}
	}

	return rankHits(hits, threshold, limit), nil
}

// Delete 删除 owner 的单个分块，分块不存在时视为成功
func (s *Store) Delete(ctx context.Context, email string, chunkID int64) error {
	expr := fmt.Sprintf("id == %d && %s", chunkID, ownerFilter(email))
	deleteOption := milvusclient.NewDeleteOption(s.collection).WithExpr(expr)
	if _, err := s.client.Delete(ctx, deleteOption); err != nil {
		return fmt.Errorf("error deleting knowledge chunk: %v", err)
	}
	return nil
}

// List 返回 owner 的全部分块，按 id 排序保证稳定
func (s *Store) List(ctx context.Context, email string) ([]KnowledgeChunk, error) {
	queryOption := milvusclient.NewQueryOption(s.collection).
		WithFilter(ownerFilter(email)).
		WithOutputFields("id", "title", "text")

	rs, err := s.client.Query(ctx, queryOption)
	if err != nil {
		return nil, fmt.Errorf("error listing knowledge chunks: %v", err)
	}

	idColumn := rs.GetColumn("id")
	if idColumn == nil {
		return nil, nil
	}

	chunks := make([]KnowledgeChunk, 0, idColumn.Len())
	for i := 0; i < idColumn.Len(); i++ {
		id, err := idColumn.GetAsInt64(i)
		if err != nil {
			return nil, fmt.Errorf("error reading chunk id: %v", err)
		}
		title, err := rs.GetColumn("title").GetAsString(i)
		if err != nil {
			return nil, fmt.Errorf("error reading chunk title: %v", err)
		}
		body, err := rs.GetColumn("text").GetAsString(i)
		if err != nil {
			return nil, fmt.Errorf("error reading chunk text: %v", err)
		}
		chunks = append(chunks, KnowledgeChunk{ID: id, Title: title, Body: body})
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ID < chunks[j].ID
	})

	return chunks, nil
}

// rankHits 过滤低于阈值的命中，按相似度降序排列
// 同分时按分块 id 升序，保证相同输入的结果可复现
func rankHits(hits []SearchHit, threshold float32, limit int) []SearchHit {
	filtered := make([]SearchHit, 0, len(hits))
	for _, hit := range hits {
		if hit.Score >= threshold {
			filtered = append(filtered, hit)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].Score != filtered[j].Score {
			return filtered[i].Score > filtered[j].Score
		}
		return filtered[i].Chunk.ID < filtered[j].Chunk.ID
	})

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

func ownerFilter(email string) string {
	escaped := strings.ReplaceAll(email, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return fmt.Sprintf(`user_email == "%s"`, escaped)
}
