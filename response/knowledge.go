package response

type KnowledgeChunkResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

type GetKnowledgeChunksResponse struct {
	Chunks []KnowledgeChunkResponse `json:"chunks"`
}
