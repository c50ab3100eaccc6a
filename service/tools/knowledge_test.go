package tools

import (
	"context"
	"errors"
	"logic-agent-backend/service/knowledge"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddResourceTool(t *testing.T) {
	ctx := context.Background()

	t.Run("chunks, embeds and inserts", func(t *testing.T) {
		vectors := &fakeVectorStore{}
		r := NewRegistry(Deps{
			Insights:   &fakeInsightStore{},
			Embedder:   &fakeEmbedder{},
			Vectors:    vectors,
			Researcher: &fakeResearcher{},
		}, Options{ChunkSize: 10})

		body := strings.Repeat("x", 25)
		result := r.Dispatch(ctx, "a@b.com", "addResource",
			`{"title":"Playbook","body":"`+body+`"}`)

		assert.Equal(t, "Resource added successfully: Playbook - "+body, result)
		assert.Equal(t, "Playbook", vectors.title)
		require.Len(t, vectors.inserted, 3)

		var joined strings.Builder
		for _, chunk := range vectors.inserted {
			require.NotEmpty(t, chunk.Vector)
			joined.WriteString(chunk.Text)
		}
		assert.Equal(t, body, joined.String())
	})

	t.Run("missing body is rejected", func(t *testing.T) {
		vectors := &fakeVectorStore{}
		r := newTestRegistry(Deps{Vectors: vectors})

		result := r.Dispatch(ctx, "a@b.com", "addResource", `{"title":"Playbook"}`)

		assert.Contains(t, result, "body is required")
		assert.Empty(t, vectors.inserted)
	})

	t.Run("embedding failure becomes a text result", func(t *testing.T) {
		vectors := &fakeVectorStore{}
		r := newTestRegistry(Deps{
			Embedder: &fakeEmbedder{err: errors.New("embedding service error")},
			Vectors:  vectors,
		})

		result := r.Dispatch(ctx, "a@b.com", "addResource", `{"title":"T","body":"B"}`)

		assert.Equal(t, "embedding service error", result)
		assert.Empty(t, vectors.inserted)
	})
}

func TestGetInformationTool(t *testing.T) {
	ctx := context.Background()

	t.Run("no hits", func(t *testing.T) {
		r := newTestRegistry(Deps{Vectors: &fakeVectorStore{}})

		result := r.Dispatch(ctx, "a@b.com", "getInformation", `{"question":"pricing"}`)

		assert.Equal(t, "I could not find any information on that topic.", result)
	})

	t.Run("joins hits one per line", func(t *testing.T) {
		vectors := &fakeVectorStore{hits: []knowledge.SearchHit{
			{Chunk: knowledge.KnowledgeChunk{ID: 1, Title: "Pricing", Body: "tiered pricing"}, Score: 0.9},
			{Chunk: knowledge.KnowledgeChunk{ID: 2, Title: "Churn", Body: "exit interviews"}, Score: 0.7},
		}}
		r := newTestRegistry(Deps{Vectors: vectors})

		result := r.Dispatch(ctx, "a@b.com", "getInformation", `{"question":"pricing"}`)

		assert.Equal(t, "Pricing - tiered pricing\nChurn - exit interviews", result)
	})

	t.Run("missing question is rejected", func(t *testing.T) {
		r := newTestRegistry(Deps{})

		result := r.Dispatch(ctx, "a@b.com", "getInformation", `{}`)

		assert.Contains(t, result, "question is required")
	})

	t.Run("search failure becomes a text result", func(t *testing.T) {
		r := newTestRegistry(Deps{
			Vectors: &fakeVectorStore{err: errors.New("vector store unavailable")},
		})

		result := r.Dispatch(ctx, "a@b.com", "getInformation", `{"question":"pricing"}`)

		assert.Equal(t, "vector store unavailable", result)
	})
}
