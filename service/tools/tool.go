package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
)

// 工具结果始终是文本，鉴权失败与原版保持同一句话
const resultUserNotFound = "User not found"

// Tool 模型可请求的具名能力
// parse 在派发前校验参数，校验失败时工具不会被执行
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any

	parse func(raw string) (any, error)
	run   func(ctx context.Context, email string, args any) (string, error)
}

// Registry 进程内工具注册表，进程启动时构建，对话期间不可变
type Registry struct {
	tools map[string]*Tool
	order []string
}

// Deps 工具依赖的外部协作方
type Deps struct {
	Insights   InsightStore
	Embedder   Embedder
	Vectors    VectorStore
	Researcher Researcher
}

// Options 检索与分块的调优参数
type Options struct {
	ChunkSize      int
	MatchThreshold float32
	MatchCount     int
}

func NewRegistry(deps Deps, opts Options) *Registry {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 1000
	}
	if opts.MatchThreshold == 0 {
		opts.MatchThreshold = 0.5
	}
	if opts.MatchCount <= 0 {
		opts.MatchCount = 3
	}

	r := &Registry{
		tools: make(map[string]*Tool),
	}
	r.register(newSaveInsightTool(deps.Insights))
	r.register(newGetInsightsTool(deps.Insights))
	r.register(newGetThinkingModelsTool(deps.Researcher))
	r.register(newGetThinkingTechniquesBriefTool())
	r.register(newGetThinkingTechniqueDetailsTool())
	r.register(newSearchWebTool(deps.Researcher))
	r.register(newAddResourceTool(deps.Embedder, deps.Vectors, opts.ChunkSize))
	r.register(newGetInformationTool(deps.Embedder, deps.Vectors, opts.MatchThreshold, opts.MatchCount))
	return r
}

func (r *Registry) register(t *Tool) {
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
}

// Definitions 返回发送给模型的工具定义
func (r *Registry) Definitions() []llms.Tool {
	defs := make([]llms.Tool, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return defs
}

// Dispatch 执行一次工具调用，永远返回可回灌给模型的文本
// 未鉴权、未注册工具、参数校验失败都不触碰任何持久化状态
func (r *Registry) Dispatch(ctx context.Context, email, name, rawArgs string) string {
	if email == "" {
		return resultUserNotFound
	}

	t, ok := r.tools[name]
	if !ok {
		return "Unknown tool: " + name
	}

	args, err := t.parse(rawArgs)
	if err != nil {
		slog.Info("Tool argument validation failed",
			"tool", name,
			"err", err,
		)
		return fmt.Sprintf("Invalid arguments for %s: %v", name, err)
	}

	result, err := t.run(ctx, email, args)
	if err != nil {
		slog.Error("Tool execution failed",
			"tool", name,
			"err", err,
		)
		return err.Error()
	}
	return result
}

func paramSchema(props map[string]any, required []string) map[string]any {
	if required == nil {
		required = []string{}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}
