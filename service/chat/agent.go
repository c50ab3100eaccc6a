package chat

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"logic-agent-backend/config"
	"logic-agent-backend/model"
	"logic-agent-backend/request"
	"logic-agent-backend/service/tools"
	"logic-agent-backend/utils"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var (
	// 配置 300s 超时时间处理 LLM 流式输出
	agentHTTPClient *http.Client = utils.NewHTTPClient(
		utils.WithTimeout(300 * time.Second),
	)

	//go:embed prompts/system.txt
	systemPrompt string

	// 全局工具注册表，进程启动时注入
	registryInstance *tools.Registry
)

// Init 注入启动期构建的工具注册表
func Init(registry *tools.Registry) {
	registryInstance = registry
}

// Emitter Agent 循环的事件出口
type Emitter interface {
	HandleChunk(chunk []byte)
	EndRound(finalRound bool)
	HandleToolCall(name, arguments string)
	HandleToolResult(name, result string)
	HandleError(msg string)
	Done()
}

// History 会话消息的持久化边界，写入尽力而为
type History interface {
	Messages(ctx context.Context) ([]llms.MessageContent, error)
	AddUserMessage(ctx context.Context, text string) error
	AddAIMessage(ctx context.Context, text string) error
	SetToolCallRecords(ctx context.Context, records []model.ToolCallRecord) error
}

// Agent 有界的 模型咨询<->工具执行 循环
// 模型调用失败对本轮对话是致命的，工具失败转为文本结果后循环继续
type Agent struct {
	LLM         llms.Model
	Registry    *tools.Registry
	History     History
	Emitter     Emitter
	Email       string
	MaxSteps    int
	ToolTimeout time.Duration

	// 步数预算耗尽后为 true，返回值是已有的部分答案
	BudgetExhausted bool

	ChatHistory *ChatHistory
	SSEHandler  *GinSSEHandler
}

func NewAgent(c *gin.Context, req request.ChatRequest) (*Agent, error) {
	llm, err := openai.New(
		openai.WithModel(config.Cfg.Model.ChatModel),
		openai.WithToken(config.Cfg.Model.APIKey),
		openai.WithBaseURL(config.Cfg.Model.BaseURL),
		openai.WithHTTPClient(agentHTTPClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %v", err)
	}

	if registryInstance == nil {
		return nil, fmt.Errorf("tool registry is not initialized")
	}

	email := c.GetString("email")
	sseHandler := NewGinSSEHandler(c, req.SessionID)
	chatHistory := NewChatHistory(email, req.SessionID)

	return &Agent{
		LLM:         llm,
		Registry:    registryInstance,
		History:     chatHistory,
		Emitter:     sseHandler,
		Email:       email,
		MaxSteps:    config.Cfg.Agent.MaxSteps,
		ToolTimeout: time.Duration(config.Cfg.Agent.ToolTimeout) * time.Second,
		ChatHistory: chatHistory,
		SSEHandler:  sseHandler,
	}, nil
}

// Call 执行一轮完整对话：加载历史，循环咨询模型并派发工具调用，
// 直到模型给出纯文本答案或步数预算耗尽
func (a *Agent) Call(ctx context.Context, query string) (string, error) {
	prior, err := a.History.Messages(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load chat history: %v", err)
	}

	messages := make([]llms.MessageContent, 0, len(prior)+2)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	messages = append(messages, prior...)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, query))

	// 持久化失败不阻塞对话
	if err := a.History.AddUserMessage(ctx, query); err != nil {
		slog.Error("Failed to persist user message", "err", err)
	}

	toolDefs := a.Registry.Definitions()

	var finalAnswer string
	var steps strings.Builder
	var allRecords []model.ToolCallRecord
	done := false

	for step := 0; step < a.MaxSteps; step++ {
		resp, err := a.LLM.GenerateContent(ctx, messages,
			llms.WithTools(toolDefs),
			llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
				a.Emitter.HandleChunk(chunk)
				return nil
			}),
		)
		if err != nil {
			// 模型侧错误终止本轮对话
			return "", fmt.Errorf("llm call error: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("llm returned no choices")
		}

		choice := resp.Choices[0]
		if len(choice.ToolCalls) == 0 {
			finalAnswer = choice.Content
			a.Emitter.EndRound(true)
			done = true
			break
		}

		a.Emitter.EndRound(false)
		steps.WriteString(choice.Content)

		calls := dedupToolCalls(choice.ToolCalls)
		messages = append(messages, assistantToolCallMessage(choice.Content, calls))

		records := a.executeToolCalls(ctx, calls)
		allRecords = append(allRecords, records...)

		// 整轮是一个同步屏障，全部结果就绪后才进行下一次模型咨询
		for _, record := range records {
			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{
					llms.ToolCallResponse{
						ToolCallID: record.CallID,
						Name:       record.Name,
						Content:    record.Result,
					},
				},
			})
		}
	}

	if !done {
		// 预算耗尽不是错误，返回已有的部分答案
		a.BudgetExhausted = true
		finalAnswer = steps.String()
		slog.Warn("Agent step budget exhausted",
			"max_steps", a.MaxSteps,
			"session", a.Session(),
		)
	}

	if err := a.History.AddAIMessage(ctx, finalAnswer); err != nil {
		slog.Error("Failed to persist agent message", "err", err)
	}
	if err := a.History.SetToolCallRecords(ctx, allRecords); err != nil {
		slog.Error("Failed to persist tool call records", "err", err)
	}

	return finalAnswer, nil
}

// executeToolCalls 并发派发同一轮内的工具调用
// 结果凭调用ID与原始请求配对，与完成顺序无关
func (a *Agent) executeToolCalls(ctx context.Context, calls []llms.ToolCall) []model.ToolCallRecord {
	records := make([]model.ToolCallRecord, len(calls))

	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call llms.ToolCall) {
			defer wg.Done()

			name := call.FunctionCall.Name
			args := call.FunctionCall.Arguments
			a.Emitter.HandleToolCall(name, args)

			toolCtx, cancel := context.WithTimeout(ctx, a.ToolTimeout)
			defer cancel()

			result := a.Registry.Dispatch(toolCtx, a.Email, name, args)
			if toolCtx.Err() != nil {
				result = fmt.Sprintf("Tool %s timed out after %s", name, a.ToolTimeout)
			}

			a.Emitter.HandleToolResult(name, result)
			records[i] = model.ToolCallRecord{
				CallID:    call.ID,
				Name:      name,
				Arguments: args,
				Result:    result,
			}
		}(i, call)
	}
	wg.Wait()

	return records
}

func (a *Agent) Session() string {
	if a.ChatHistory != nil {
		return a.ChatHistory.Session
	}
	return ""
}

// 个别模型会在一次响应里重复同一个调用ID
func dedupToolCalls(calls []llms.ToolCall) []llms.ToolCall {
	seen := make(map[string]bool, len(calls))
	deduped := make([]llms.ToolCall, 0, len(calls))
	for _, call := range calls {
		if call.FunctionCall == nil {
			continue
		}
		if call.ID != "" && seen[call.ID] {
			continue
		}
		seen[call.ID] = true
		deduped = append(deduped, call)
	}
	return deduped
}

func assistantToolCallMessage(content string, calls []llms.ToolCall) llms.MessageContent {
	parts := make([]llms.ContentPart, 0, len(calls)+1)
	if content != "" {
		parts = append(parts, llms.TextPart(content))
	}
	for _, call := range calls {
		parts = append(parts, call)
	}
	return llms.MessageContent{
		Role:  llms.ChatMessageTypeAI,
		Parts: parts,
	}
}
