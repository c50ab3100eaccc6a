package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hit(id int64, score float32) SearchHit {
	return SearchHit{
		Chunk: KnowledgeChunk{ID: id, Title: "t", Body: "b"},
		Score: score,
	}
}

func TestRankHits(t *testing.T) {
	t.Run("filters hits below threshold", func(t *testing.T) {
		hits := []SearchHit{hit(1, 0.9), hit(2, 0.3), hit(3, 0.5)}

		ranked := rankHits(hits, 0.5, 10)

		require.Len(t, ranked, 2)
		assert.Equal(t, int64(1), ranked[0].Chunk.ID)
		assert.Equal(t, int64(3), ranked[1].Chunk.ID)
	})

	t.Run("orders by score descending", func(t *testing.T) {
		hits := []SearchHit{hit(1, 0.6), hit(2, 0.9), hit(3, 0.7)}

		ranked := rankHits(hits, 0.5, 10)

		require.Len(t, ranked, 3)
		assert.Equal(t, int64(2), ranked[0].Chunk.ID)
		assert.Equal(t, int64(3), ranked[1].Chunk.ID)
		assert.Equal(t, int64(1), ranked[2].Chunk.ID)
	})

	t.Run("ties break by chunk id", func(t *testing.T) {
		hits := []SearchHit{hit(9, 0.8), hit(2, 0.8), hit(5, 0.8)}

		ranked := rankHits(hits, 0.5, 10)

		require.Len(t, ranked, 3)
		assert.Equal(t, int64(2), ranked[0].Chunk.ID)
		assert.Equal(t, int64(5), ranked[1].Chunk.ID)
		assert.Equal(t, int64(9), ranked[2].Chunk.ID)
	})

	t.Run("truncates to limit after ranking", func(t *testing.T) {
		hits := []SearchHit{hit(1, 0.6), hit(2, 0.9), hit(3, 0.7), hit(4, 0.8)}

		ranked := rankHits(hits, 0.5, 3)

		require.Len(t, ranked, 3)
		assert.Equal(t, int64(2), ranked[0].Chunk.ID)
		assert.Equal(t, int64(4), ranked[1].Chunk.ID)
		assert.Equal(t, int64(3), ranked[2].Chunk.ID)
	})

	t.Run("no hits above threshold", func(t *testing.T) {
		hits := []SearchHit{hit(1, 0.1), hit(2, 0.2)}

		assert.Empty(t, rankHits(hits, 0.5, 3))
	})

	t.Run("exact threshold is included", func(t *testing.T) {
		ranked := rankHits([]SearchHit{hit(1, 0.5)}, 0.5, 3)

		require.Len(t, ranked, 1)
	})
}

func TestOwnerFilter(t *testing.T) {
	assert.Equal(t, `user_email == "a@b.com"`, ownerFilter("a@b.com"))
	assert.Equal(t, `user_email == "a\"b@c.com"`, ownerFilter(`a"b@c.com`))
	assert.Equal(t, `user_email == "a\\b@c.com"`, ownerFilter(`a\b@c.com`))
}
