package chat

import (
	"context"
	"errors"
	"fmt"
	"logic-agent-backend/model"
	"logic-agent-backend/service/knowledge"
	"logic-agent-backend/service/tools"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeLLM 按脚本逐轮返回响应，记录每轮收到的消息
type fakeLLM struct {
	responses []*llms.ContentResponse
	err       error
	calls     [][]llms.MessageContent
}

func (f *fakeLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, messages)
	if len(f.responses) == 0 {
		return nil, errors.New("fakeLLM: script exhausted")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func (f *fakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

type fakeHistory struct {
	prior       []llms.MessageContent
	userMessage string
	aiMessage   string
	records     []model.ToolCallRecord
}

func (h *fakeHistory) Messages(ctx context.Context) ([]llms.MessageContent, error) {
	return h.prior, nil
}

func (h *fakeHistory) AddUserMessage(ctx context.Context, text string) error {
	h.userMessage = text
	return nil
}

func (h *fakeHistory) AddAIMessage(ctx context.Context, text string) error {
	h.aiMessage = text
	return nil
}

func (h *fakeHistory) SetToolCallRecords(ctx context.Context, records []model.ToolCallRecord) error {
	h.records = records
	return nil
}

type emitterEvent struct {
	kind string
	data string
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []emitterEvent
}

func (e *fakeEmitter) record(kind, data string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, emitterEvent{kind: kind, data: data})
}

func (e *fakeEmitter) HandleChunk(chunk []byte)          { e.record("chunk", string(chunk)) }
func (e *fakeEmitter) EndRound(finalRound bool)          { e.record("end_round", fmt.Sprint(finalRound)) }
func (e *fakeEmitter) HandleToolCall(name, args string)  { e.record("tool_call", name) }
func (e *fakeEmitter) HandleToolResult(name, res string) { e.record("tool_result", name + "=" + res) }
func (e *fakeEmitter) HandleError(msg string)            { e.record("error", msg) }
func (e *fakeEmitter) Done()                             { e.record("done", "") }

func (e *fakeEmitter) kinds() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	kinds := make([]string, 0, len(e.events))
	for _, ev := range e.events {
		kinds = append(kinds, ev.kind)
	}
	return kinds
}

type scriptedResearcher struct{}

func (scriptedResearcher) SearchWeb(ctx context.Context, query string) (string, error) {
	return "web result", nil
}

func (scriptedResearcher) SuggestThinkingModels(ctx context.Context, problem string) (string, error) {
	return "models", nil
}

type noopInsightStore struct{}

func (noopInsightStore) Save(insight *model.Insight) error { return nil }
func (noopInsightStore) List(email string, category model.InsightCategory) ([]model.Insight, error) {
	return nil, nil
}

type noopEmbedder struct{}

func (noopEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1}
	}
	return vectors, nil
}

func (noopEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return []float32{1}, nil
}

type noopVectorStore struct{}

func (noopVectorStore) Insert(ctx context.Context, email, title string, chunks []knowledge.Chunk) error {
	return nil
}

func (noopVectorStore) Search(ctx context.Context, email string, vector []float32, threshold float32, limit int) ([]knowledge.SearchHit, error) {
	return nil, nil
}

func testRegistry() *tools.Registry {
	return tools.NewRegistry(tools.Deps{
		Insights:   noopInsightStore{},
		Embedder:   noopEmbedder{},
		Vectors:    noopVectorStore{},
		Researcher: scriptedResearcher{},
	}, tools.Options{})
}

func newTestAgent(llm llms.Model, maxSteps int) (*Agent, *fakeHistory, *fakeEmitter) {
	history := &fakeHistory{}
	emitter := &fakeEmitter{}
	return &Agent{
		LLM:         llm,
		Registry:    testRegistry(),
		History:     history,
		Emitter:     emitter,
		Email:       "a@b.com",
		MaxSteps:    maxSteps,
		ToolTimeout: 5 * time.Second,
	}, history, emitter
}

func textResponse(content string) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: content}},
	}
}

func toolCallResponse(content string, calls ...llms.ToolCall) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: content, ToolCalls: calls}},
	}
}

func searchCall(id, query string) llms.ToolCall {
	return llms.ToolCall{
		ID:   id,
		Type: "function",
		FunctionCall: &llms.FunctionCall{
			Name:      "searchWeb",
			Arguments: fmt.Sprintf(`{"query":%q}`, query),
		},
	}
}

func TestAgentCall(t *testing.T) {
	ctx := context.Background()

	t.Run("direct answer without tools", func(t *testing.T) {
		llm := &fakeLLM{responses: []*llms.ContentResponse{
			textResponse("Here's my take."),
		}}
		agent, history, emitter := newTestAgent(llm, 10)

		answer, err := agent.Call(ctx, "What should I do?")

		require.NoError(t, err)
		assert.Equal(t, "Here's my take.", answer)
		assert.False(t, agent.BudgetExhausted)
		assert.Equal(t, "What should I do?", history.userMessage)
		assert.Equal(t, "Here's my take.", history.aiMessage)
		assert.Empty(t, history.records)
		assert.Equal(t, []string{"end_round"}, emitter.kinds())

		// system + user
		require.Len(t, llm.calls, 1)
		require.Len(t, llm.calls[0], 2)
		assert.Equal(t, llms.ChatMessageTypeSystem, llm.calls[0][0].Role)
		assert.Equal(t, llms.ChatMessageTypeHuman, llm.calls[0][1].Role)
	})

	t.Run("tool round then final answer", func(t *testing.T) {
		llm := &fakeLLM{responses: []*llms.ContentResponse{
			toolCallResponse("Let me check.", searchCall("call-1", "ev trends")),
			textResponse("Based on the data, expand."),
		}}
		agent, history, emitter := newTestAgent(llm, 10)

		answer, err := agent.Call(ctx, "Should we expand?")

		require.NoError(t, err)
		assert.Equal(t, "Based on the data, expand.", answer)
		require.Len(t, history.records, 1)
		assert.Equal(t, "call-1", history.records[0].CallID)
		assert.Equal(t, "searchWeb", history.records[0].Name)
		assert.Equal(t, "ev trends web result", history.records[0].Result)

		assert.Equal(t, []string{"end_round", "tool_call", "tool_result", "end_round"}, emitter.kinds())

		// 第二次模型咨询携带 assistant 工具调用消息和 tool 结果消息
		require.Len(t, llm.calls, 2)
		second := llm.calls[1]
		require.Len(t, second, 4)
		assert.Equal(t, llms.ChatMessageTypeAI, second[2].Role)
		assert.Equal(t, llms.ChatMessageTypeTool, second[3].Role)

		toolPart, ok := second[3].Parts[0].(llms.ToolCallResponse)
		require.True(t, ok)
		assert.Equal(t, "call-1", toolPart.ToolCallID)
		assert.Equal(t, "ev trends web result", toolPart.Content)
	})

	t.Run("parallel calls pair results by call id", func(t *testing.T) {
		llm := &fakeLLM{responses: []*llms.ContentResponse{
			toolCallResponse("",
				searchCall("call-a", "alpha"),
				searchCall("call-b", "beta"),
				searchCall("call-c", "gamma"),
			),
			textResponse("done"),
		}}
		agent, history, _ := newTestAgent(llm, 10)

		_, err := agent.Call(ctx, "q")

		require.NoError(t, err)
		require.Len(t, history.records, 3)
		assert.Equal(t, "call-a", history.records[0].CallID)
		assert.Equal(t, "alpha web result", history.records[0].Result)
		assert.Equal(t, "call-b", history.records[1].CallID)
		assert.Equal(t, "beta web result", history.records[1].Result)
		assert.Equal(t, "call-c", history.records[2].CallID)
		assert.Equal(t, "gamma web result", history.records[2].Result)
	})

	t.Run("invalid tool arguments feed back into the loop", func(t *testing.T) {
		badCall := llms.ToolCall{
			ID:   "call-bad",
			Type: "function",
			FunctionCall: &llms.FunctionCall{
				Name:      "searchWeb",
				Arguments: `{}`,
			},
		}
		llm := &fakeLLM{responses: []*llms.ContentResponse{
			toolCallResponse("", badCall),
			textResponse("recovered"),
		}}
		agent, history, _ := newTestAgent(llm, 10)

		answer, err := agent.Call(ctx, "q")

		require.NoError(t, err)
		assert.Equal(t, "recovered", answer)
		require.Len(t, history.records, 1)
		assert.Contains(t, history.records[0].Result, "Invalid arguments for searchWeb")
	})

	t.Run("unknown tool feeds back into the loop", func(t *testing.T) {
		unknownCall := llms.ToolCall{
			ID:   "call-x",
			Type: "function",
			FunctionCall: &llms.FunctionCall{
				Name:      "timeTravel",
				Arguments: `{}`,
			},
		}
		llm := &fakeLLM{responses: []*llms.ContentResponse{
			toolCallResponse("", unknownCall),
			textResponse("ok"),
		}}
		agent, history, _ := newTestAgent(llm, 10)

		_, err := agent.Call(ctx, "q")

		require.NoError(t, err)
		require.Len(t, history.records, 1)
		assert.Equal(t, "Unknown tool: timeTravel", history.records[0].Result)
	})

	t.Run("budget exhaustion returns partial answer", func(t *testing.T) {
		responses := make([]*llms.ContentResponse, 0, 10)
		for i := 0; i < 10; i++ {
			responses = append(responses, toolCallResponse(
				fmt.Sprintf("step %d. ", i),
				searchCall(fmt.Sprintf("call-%d", i), "loop"),
			))
		}
		llm := &fakeLLM{responses: responses}
		agent, history, _ := newTestAgent(llm, 10)

		answer, err := agent.Call(ctx, "q")

		require.NoError(t, err)
		assert.True(t, agent.BudgetExhausted)
		assert.Len(t, llm.calls, 10)
		assert.Len(t, history.records, 10)
		for i := 0; i < 10; i++ {
			assert.Contains(t, answer, fmt.Sprintf("step %d. ", i))
		}
		assert.Equal(t, answer, history.aiMessage)
	})

	t.Run("model error is fatal", func(t *testing.T) {
		llm := &fakeLLM{err: errors.New("rate limited")}
		agent, _, _ := newTestAgent(llm, 10)

		_, err := agent.Call(ctx, "q")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "llm call error")
	})

	t.Run("prior history is replayed between system and user", func(t *testing.T) {
		llm := &fakeLLM{responses: []*llms.ContentResponse{
			textResponse("answer"),
		}}
		agent, history, _ := newTestAgent(llm, 10)
		history.prior = []llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeHuman, "earlier question"),
			llms.TextParts(llms.ChatMessageTypeAI, "earlier answer"),
		}

		_, err := agent.Call(ctx, "follow-up")

		require.NoError(t, err)
		require.Len(t, llm.calls, 1)
		msgs := llm.calls[0]
		require.Len(t, msgs, 4)
		assert.Equal(t, llms.ChatMessageTypeSystem, msgs[0].Role)
		assert.Equal(t, llms.ChatMessageTypeHuman, msgs[1].Role)
		assert.Equal(t, llms.ChatMessageTypeAI, msgs[2].Role)
		assert.Equal(t, llms.ChatMessageTypeHuman, msgs[3].Role)
	})
}

func TestDedupToolCalls(t *testing.T) {
	t.Run("repeated ids collapse to one call", func(t *testing.T) {
		calls := dedupToolCalls([]llms.ToolCall{
			searchCall("call-1", "a"),
			searchCall("call-1", "a"),
			searchCall("call-2", "b"),
		})

		require.Len(t, calls, 2)
		assert.Equal(t, "call-1", calls[0].ID)
		assert.Equal(t, "call-2", calls[1].ID)
	})

	t.Run("nil function calls are dropped", func(t *testing.T) {
		calls := dedupToolCalls([]llms.ToolCall{
			{ID: "call-1"},
			searchCall("call-2", "b"),
		})

		require.Len(t, calls, 1)
		assert.Equal(t, "call-2", calls[0].ID)
	})
}

func TestAssistantToolCallMessage(t *testing.T) {
	call := searchCall("call-1", "q")

	t.Run("with interleaved text", func(t *testing.T) {
		msg := assistantToolCallMessage("thinking...", []llms.ToolCall{call})

		assert.Equal(t, llms.ChatMessageTypeAI, msg.Role)
		require.Len(t, msg.Parts, 2)
		_, isText := msg.Parts[0].(llms.TextContent)
		assert.True(t, isText)
	})

	t.Run("without text", func(t *testing.T) {
		msg := assistantToolCallMessage("", []llms.ToolCall{call})

		require.Len(t, msg.Parts, 1)
		_, isCall := msg.Parts[0].(llms.ToolCall)
		assert.True(t, isCall)
	})
}
