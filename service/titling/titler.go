package titling

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"logic-agent-backend/config"
	"logic-agent-backend/dao"
	"logic-agent-backend/utils"
	"strings"
	"text/template"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	taskChanSize = 100
	workerNum    = 4

	// 标题长度上限（rune 数），超出部分截断
	maxTitleLength = 60
)

//go:embed prompts/titling.txt
var titlePrompt string

// TitleTask 会话首轮对话结束后触发的标题生成任务
type TitleTask struct {
	Email     string
	SessionID string
	Query     string
	Answer    string
}

// Titler 负责为新会话生成标题
type Titler struct {
	llm       llms.Model
	taskChan  chan TitleTask
	workerNum int
}

// TitlerInstance Titler单例实例
var TitlerInstance *Titler

func Init() error {
	llm, err := openai.New(
		openai.WithModel(config.Cfg.Model.TitleModel),
		openai.WithToken(config.Cfg.Model.APIKey),
		openai.WithBaseURL(config.Cfg.Model.BaseURL),
		openai.WithHTTPClient(utils.DefaultHTTPClient()),
	)
	if err != nil {
		return fmt.Errorf("failed to create titler llm client: %v", err)
	}

	TitlerInstance = &Titler{
		llm:       llm,
		taskChan:  make(chan TitleTask, taskChanSize),
		workerNum: workerNum,
	}
	return nil
}

func (t *Titler) Run() {
	ctx := context.Background()
	for i := 1; i <= t.workerNum; i++ {
		go t.executeTitling(ctx, i)
	}
}

func (t *Titler) RegisterTitleTask(task TitleTask) {
	select {
	case t.taskChan <- task:
	default:
		// 队列满时放弃本次任务，会话保留默认标题
		slog.Warn("Title task queue full, dropping task", "session", task.SessionID)
	}
}

func (t *Titler) executeTitling(ctx context.Context, id int) {
	slog.Info("Starting title worker", "worker_id", id)
	defer slog.Info("Title worker exit", "worker_id", id)

	for task := range t.taskChan {
		title, err := t.generateTitle(ctx, task)
		if err != nil {
			slog.Error("Failed to generate session title",
				"session", task.SessionID,
				"err", err,
			)
			continue
		}

		if err := dao.UpdateSessionTitle(task.Email, task.SessionID, title); err != nil {
			slog.Error("Failed to update session title",
				"session", task.SessionID,
				"err", err,
			)
		}
	}
}

func (t *Titler) generateTitle(ctx context.Context, task TitleTask) (string, error) {
	tmpl, err := template.New("prompt").Parse(titlePrompt)
	if err != nil {
		return "", fmt.Errorf("failed to parse prompt template: %v", err)
	}

	var buf bytes.Buffer
	data := struct {
		Query  string
		Answer string
	}{
		Query:  task.Query,
		Answer: task.Answer,
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %v", err)
	}

	resp, err := llms.GenerateFromSinglePrompt(ctx, t.llm, buf.String())
	if err != nil {
		return "", fmt.Errorf("llm call error: %w", err)
	}

	return normalizeTitle(resp), nil
}

func normalizeTitle(raw string) string {
	title := strings.TrimSpace(raw)
	title = strings.Trim(title, `"'`)
	title = strings.TrimSuffix(title, ".")

	runes := []rune(title)
	if len(runes) > maxTitleLength {
		title = string(runes[:maxTitleLength])
	}
	return title
}
