package chat

import (
	"logic-agent-backend/utils"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// GinSSEHandler 基于 Gin 的事件发送器，把 Agent 循环的输出推送给前端
// 工具调用并发完成，写 SSE 时需要加锁
type GinSSEHandler struct {
	Ctx     *gin.Context
	Session string

	// 存储 Agent 的思考步骤
	ImmediateSteps *strings.Builder

	// 存储 Agent 的最终答案
	FinalAnswer *strings.Builder

	// 当前轮次尚未定性的输出
	roundBuf *strings.Builder

	mu sync.Mutex
}

func NewGinSSEHandler(ctx *gin.Context, session string) *GinSSEHandler {
	return &GinSSEHandler{
		Ctx:            ctx,
		Session:        session,
		ImmediateSteps: &strings.Builder{},
		FinalAnswer:    &strings.Builder{},
		roundBuf:       &strings.Builder{},
	}
}

// HandleChunk 实时下发模型输出的文本片段
func (h *GinSSEHandler) HandleChunk(chunk []byte) {
	text := string(chunk)
	if text == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.roundBuf.WriteString(text)
	utils.SendSSEMessage(h.Ctx, utils.EventImmediateSteps, text)
}

// EndRound 结束一轮模型咨询
// 最终轮的内容是答案，整段重发一次，其余轮次归入思考步骤
func (h *GinSSEHandler) EndRound(finalRound bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	text := h.roundBuf.String()
	h.roundBuf.Reset()

	if finalRound {
		h.FinalAnswer.WriteString(text)
		utils.SendSSEMessage(h.Ctx, utils.EventFinalAnswer, text)
		return
	}
	h.ImmediateSteps.WriteString(text)
}

func (h *GinSSEHandler) HandleToolCall(name, arguments string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	utils.SendSSEMessage(h.Ctx, utils.EventToolCall, gin.H{
		"name":      name,
		"arguments": arguments,
	})
}

func (h *GinSSEHandler) HandleToolResult(name, result string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	utils.SendSSEMessage(h.Ctx, utils.EventToolCallResult, gin.H{
		"name":   name,
		"result": result,
	})
}

func (h *GinSSEHandler) HandleError(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	utils.SendSSEMessage(h.Ctx, utils.EventError, msg)
}

func (h *GinSSEHandler) Done() {
	h.mu.Lock()
	defer h.mu.Unlock()
	utils.SendSSEMessage(h.Ctx, utils.EventDone, "")
}
