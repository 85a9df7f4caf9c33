package model

// Config is the explorer workspace configuration, loaded from config.yaml.
type Config struct {
	Project  ProjectConfig  `yaml:"project"`
	LLM      LLMConfig      `yaml:"llm"`
	Explorer ExplorerConfig `yaml:"explorer"`
	Verify   VerifyConfig   `yaml:"verify"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ProjectConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	TimeoutSec  int     `yaml:"timeout_sec"`
	MaxRetries  int     `yaml:"max_retries"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
}

type ExplorerConfig struct {
	MaxRounds           int `yaml:"max_rounds"`
	RoundsPerCheckpoint int `yaml:"rounds_per_checkpoint"`
	MaxParallelActions  int `yaml:"max_parallel_actions"`
}

type VerifyConfig struct {
	MaxRounds  int `yaml:"max_rounds"`
	ChunkLines int `yaml:"chunk_lines"`
}

type StorageConfig struct {
	SnapshotDir string `yaml:"snapshot_dir"`
	AutoSave    bool   `yaml:"auto_save"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ApplyDefaults fills zero values with the documented defaults.
func (c *Config) ApplyDefaults() {
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4"
	}
	if c.LLM.TimeoutSec <= 0 {
		c.LLM.TimeoutSec = 600
	}
	if c.LLM.MaxRetries <= 0 {
		c.LLM.MaxRetries = 3
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 32768
	}
	if c.LLM.Temperature <= 0 {
		c.LLM.Temperature = 0.7
	}
	if c.Explorer.MaxRounds <= 0 {
		c.Explorer.MaxRounds = 100
	}
	if c.Explorer.RoundsPerCheckpoint < 0 {
		c.Explorer.RoundsPerCheckpoint = 0
	}
	if c.Explorer.MaxParallelActions <= 0 {
		c.Explorer.MaxParallelActions = 10
	}
	if c.Verify.MaxRounds <= 0 {
		c.Verify.MaxRounds = 3
	}
	if c.Verify.ChunkLines <= 0 {
		c.Verify.ChunkLines = 6
	}
	if c.Storage.SnapshotDir == "" {
		c.Storage.SnapshotDir = "snapshots"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
