package controller

import (
	"context"
	"log/slog"
	"logic-agent-backend/config"
	"logic-agent-backend/dao"
	"logic-agent-backend/request"
	"logic-agent-backend/service/chat"
	"logic-agent-backend/service/titling"
	"logic-agent-backend/utils"
	"time"

	"github.com/gin-gonic/gin"
)

func AgentChat(c *gin.Context) {
	utils.SetSSEHeaders(c)

	var req request.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		utils.SendSSEMessage(c, utils.EventError, ErrParseRequest)
		utils.SendSSEMessage(c, utils.EventDone, "")
		return
	}

	agent, err := chat.NewAgent(c, req)
	if err != nil {
		slog.Error(ErrCreateAgent.Error(), "err", err)
		utils.SendSSEMessage(c, utils.EventError, ErrCreateAgent)
		utils.SendSSEMessage(c, utils.EventDone, "")
		return
	}

	turnTimeout := time.Duration(config.Cfg.Agent.TurnTimeout) * time.Second
	ctx, cancel := context.WithTimeout(c.Request.Context(), turnTimeout)
	defer cancel()

	// 监听客户端的取消信号
	go func() {
		<-c.Done()
		cancel()
	}()

	answer, err := agent.Call(ctx, req.Query)
	if err != nil {
		slog.Error(ErrCallAgent.Error(), "err", err)
		utils.SendSSEMessage(c, utils.EventError, ErrCallAgent)
		utils.SendSSEMessage(c, utils.EventDone, "")
		return
	}

	utils.SendSSEMessage(c, utils.EventDone, "")

	registerTitleTask(agent.Email, req, answer)
}

// registerTitleTask 会话首轮对话完成后触发标题生成
func registerTitleTask(email string, req request.ChatRequest, answer string) {
	count, err := dao.CountMessagesBySessionID(email, req.SessionID)
	if err != nil {
		slog.Error("Failed to count session messages", "err", err)
		return
	}
	if count > 2 {
		return
	}

	titling.TitlerInstance.RegisterTitleTask(titling.TitleTask{
		Email:     email,
		SessionID: req.SessionID,
		Query:     req.Query,
		Answer:    answer,
	})
}
