package main

import (
	"context"
	"log/slog"
	"logic-agent-backend/config"
	"logic-agent-backend/dao"
	"logic-agent-backend/router"
	"logic-agent-backend/service/chat"
	"logic-agent-backend/service/knowledge"
	"logic-agent-backend/service/research"
	"logic-agent-backend/service/titling"
	"logic-agent-backend/service/tools"
	"os"
)

func main() {
	if err := config.Init(); err != nil {
		slog.Error("Failed to load config", "err", err)
		os.Exit(1)
	}

	if err := dao.Init(); err != nil {
		slog.Error("Failed to init database", "err", err)
		os.Exit(1)
	}

	if err := knowledge.Init(context.Background()); err != nil {
		slog.Error("Failed to init knowledge store", "err", err)
		os.Exit(1)
	}

	registry := tools.NewRegistry(tools.Deps{
		Insights:   tools.DAOInsightStore{},
		Embedder:   knowledge.EmbedderInstance,
		Vectors:    knowledge.StoreInstance,
		Researcher: research.NewClient(),
	}, tools.Options{
		ChunkSize:      config.Cfg.Agent.ChunkSize,
		MatchThreshold: config.Cfg.Agent.MatchThreshold,
		MatchCount:     config.Cfg.Agent.MatchCount,
	})
	chat.Init(registry)

	if err := titling.Init(); err != nil {
		slog.Error("Failed to init titler", "err", err)
		os.Exit(1)
	}
	titling.TitlerInstance.Run()

	r := router.Register()
	addr := config.Cfg.Server.Host + ":" + config.Cfg.Server.Port
	if err := r.Run(addr); err != nil {
		slog.Error("Server exit", "err", err)
		os.Exit(1)
	}
}
