package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config.yaml"

// Cfg 全局配置实例，main 启动时调用 Init 初始化
var Cfg *Config

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Model    ModelConfig    `yaml:"model"`
	Milvus   MilvusConfig   `yaml:"milvus"`
	Research ResearchConfig `yaml:"research"`
	Agent    AgentConfig    `yaml:"agent"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type JWTConfig struct {
	SecretKey string `yaml:"secret_key"`
}

type ModelConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`

	// 对话模型
	ChatModel string `yaml:"chat_model"`

	// 会话标题生成模型
	TitleModel string `yaml:"title_model"`

	// 向量模型及其固定维度
	EmbeddingModel string `yaml:"embedding_model"`
	EmbeddingDim   int    `yaml:"embedding_dim"`
}

type MilvusConfig struct {
	Endpoint   string `yaml:"endpoint"`
	APIKey     string `yaml:"api_key"`
	Collection string `yaml:"collection"`
}

// ResearchConfig 外部搜索问答服务（Perplexity 兼容接口）
type ResearchConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// AgentConfig Agent 循环的调优参数
type AgentConfig struct {
	// 每轮对话允许的最大 模型咨询<->工具执行 轮次
	MaxSteps int `yaml:"max_steps"`

	// 单轮对话的墙钟时间上限（秒）
	TurnTimeout int `yaml:"turn_timeout"`

	// 单次工具调用的超时时间（秒）
	ToolTimeout int `yaml:"tool_timeout"`

	// 知识入库的固定分块大小（字符数）
	ChunkSize int `yaml:"chunk_size"`

	// 相似度检索阈值与返回条数
	MatchThreshold float32 `yaml:"match_threshold"`
	MatchCount     int     `yaml:"match_count"`
}

func Init() error {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %v", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %v", path, err)
	}

	cfg.applyDefaults()
	Cfg = cfg
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Model.ChatModel == "" {
		c.Model.ChatModel = "gpt-4o"
	}
	if c.Model.TitleModel == "" {
		c.Model.TitleModel = c.Model.ChatModel
	}
	if c.Model.EmbeddingModel == "" {
		c.Model.EmbeddingModel = "text-embedding-3-small"
	}
	if c.Model.EmbeddingDim == 0 {
		c.Model.EmbeddingDim = 1536
	}
	if c.Milvus.Collection == "" {
		c.Milvus.Collection = "knowledge_chunk"
	}
	if c.Agent.MaxSteps == 0 {
		c.Agent.MaxSteps = 10
	}
	if c.Agent.TurnTimeout == 0 {
		c.Agent.TurnTimeout = 30
	}
	if c.Agent.ToolTimeout == 0 {
		c.Agent.ToolTimeout = 15
	}
	if c.Agent.ChunkSize == 0 {
		c.Agent.ChunkSize = 1000
	}
	if c.Agent.MatchThreshold == 0 {
		c.Agent.MatchThreshold = 0.5
	}
	if c.Agent.MatchCount == 0 {
		c.Agent.MatchCount = 3
	}
}
