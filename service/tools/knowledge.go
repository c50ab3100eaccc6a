package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"logic-agent-backend/service/knowledge"
	"strings"
)

// 知识库无命中时返回的固定提示
const resultNoInformation = "I could not find any information on that topic."

type addResourceArgs struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func newAddResourceTool(embedder Embedder, vectors VectorStore, chunkSize int) *Tool {
	return &Tool{
		Name:        "addResource",
		Description: "Add new knowledge to your database. Automatically store any valuable or relevant insights provided by the user.",
		Parameters: paramSchema(map[string]any{
			"title": map[string]any{"type": "string", "description": "A brief title for the resource."},
			"body":  map[string]any{"type": "string", "description": "The content or details of the resource to be stored."},
		}, []string{"title", "body"}),
		parse: func(raw string) (any, error) {
			var args addResourceArgs
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return nil, fmt.Errorf("malformed arguments: %v", err)
			}
			if args.Title == "" {
				return nil, fmt.Errorf("title is required")
			}
			if args.Body == "" {
				return nil, fmt.Errorf("body is required")
			}
			return args, nil
		},
		run: func(ctx context.Context, email string, v any) (string, error) {
			args := v.(addResourceArgs)

			// 分块 -> 向量化 -> 整批入库，一篇文档的所有分块共用标题
			texts := knowledge.ChunkText(args.Body, chunkSize)
			vectorsData, err := embedder.EmbedTexts(ctx, texts)
			if err != nil {
				return "", err
			}

			chunks := make([]knowledge.Chunk, 0, len(texts))
			for i, text := range texts {
				chunks = append(chunks, knowledge.Chunk{
					Text:   text,
					Vector: vectorsData[i],
				})
			}

			if err := vectors.Insert(ctx, email, args.Title, chunks); err != nil {
				return "", err
			}
			return fmt.Sprintf("Resource added successfully: %s - %s", args.Title, args.Body), nil
		},
	}
}

type getInformationArgs struct {
	Question string `json:"question"`
}

func newGetInformationTool(embedder Embedder, vectors VectorStore, threshold float32, limit int) *Tool {
	return &Tool{
		Name:        "getInformation",
		Description: "Retrieve relevant information from your knowledge base in response to user queries. This helps provide continuity and informed insights based on stored knowledge. Always call this before answering!",
		Parameters: paramSchema(map[string]any{
			"question": map[string]any{"type": "string", "description": "The question the user wants answered based on stored information."},
		}, []string{"question"}),
		parse: func(raw string) (any, error) {
			var args getInformationArgs
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return nil, fmt.Errorf("malformed arguments: %v", err)
			}
			if args.Question == "" {
				return nil, fmt.Errorf("question is required")
			}
			return args, nil
		},
		run: func(ctx context.Context, email string, v any) (string, error) {
			args := v.(getInformationArgs)

			queryVector, err := embedder.EmbedQuery(ctx, args.Question)
			if err != nil {
				return "", err
			}

			hits, err := vectors.Search(ctx, email, queryVector, threshold, limit)
			if err != nil {
				return "", err
			}
			if len(hits) == 0 {
				return resultNoInformation, nil
			}

			lines := make([]string, 0, len(hits))
			for _, hit := range hits {
				lines = append(lines, hit.Chunk.Title+" - "+hit.Chunk.Body)
			}
			return strings.Join(lines, "\n"), nil
		},
	}
}
