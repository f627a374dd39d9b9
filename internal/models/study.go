package models

import "time"

// RuntimeType selects how the agent under test is launched.
type RuntimeType string

const (
	RuntimeCommand RuntimeType = "command"
	RuntimeCompose RuntimeType = "compose"
	RuntimeDocker  RuntimeType = "docker"
)

// StudyConfig represents the parsed study.yaml configuration.
type StudyConfig struct {
	Name                  *string         `yaml:"name,omitempty" json:"name,omitempty"`
	ResultsDir            string          `yaml:"results_dir" json:"results_dir"`
	TaskSets              []TaskSetSource `yaml:"task_sets" json:"task_sets"`
	SitesPath             string          `yaml:"sites,omitempty" json:"sites,omitempty"`
	ExcludedCategories    []string        `yaml:"excluded_categories" json:"excluded_categories"`
	CheckoutCategories    []string        `yaml:"checkout_categories" json:"checkout_categories"`
	MaxSteps              int             `yaml:"max_steps" json:"max_steps"`
	TaskLimit             int             `yaml:"task_limit,omitempty" json:"task_limit,omitempty"`
	TaskSeed              int             `yaml:"task_seed,omitempty" json:"task_seed,omitempty"`
	RewriteProtocolOnLoad bool            `yaml:"rewrite_protocol_on_load,omitempty" json:"rewrite_protocol_on_load,omitempty"`
	LogLevel              string          `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	IndexPath             string          `yaml:"index,omitempty" json:"index,omitempty"`
	Agent                 AgentConfig     `yaml:"agent" json:"agent"`
}

// TaskSetSource points at a task_sets.json file on disk or over HTTP.
type TaskSetSource struct {
	Path *string `yaml:"path,omitempty" json:"path,omitempty"`
	URL  *string `yaml:"url,omitempty" json:"url,omitempty"`
}

// String returns the location of the source.
func (s TaskSetSource) String() string {
	if s.Path != nil {
		return *s.Path
	}
	if s.URL != nil {
		return *s.URL
	}
	return ""
}

// AgentConfig describes the agent under test.
type AgentConfig struct {
	Name        string            `yaml:"name" json:"name"`
	Runtime     RuntimeType       `yaml:"runtime" json:"runtime"`
	Command     string            `yaml:"command" json:"command"`
	Service     string            `yaml:"service,omitempty" json:"service,omitempty"`
	ComposeFile string            `yaml:"compose_file,omitempty" json:"compose_file,omitempty"`
	Container   string            `yaml:"container,omitempty" json:"container,omitempty"`
	WorkDir     string            `yaml:"workdir,omitempty" json:"workdir,omitempty"`
	Env         map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
}

// Sites holds the resolved WebMall site URLs and shop display names.
type Sites struct {
	Shop1URL    string   `toml:"shop1_url" json:"shop1_url"`
	Shop2URL    string   `toml:"shop2_url" json:"shop2_url"`
	Shop3URL    string   `toml:"shop3_url" json:"shop3_url"`
	Shop4URL    string   `toml:"shop4_url" json:"shop4_url"`
	FrontendURL string   `toml:"frontend_url" json:"frontend_url"`
	ShopNames   []string `toml:"shop_names" json:"shop_names"`
}

// Summary aggregates metrics over a group of task results. The same shape is
// used for the overall study and for each category.
type Summary struct {
	NumRuns               int     `json:"num_runs"`
	AvgTaskCompletionRate float64 `json:"avg_task_completion_rate"`
	AvgPrecision          float64 `json:"avg_precision"`
	AvgRecall             float64 `json:"avg_recall"`
	AvgF1                 float64 `json:"avg_f1_score"`
	AvgSteps              float64 `json:"avg_steps"`
	AvgTimeElapsed        float64 `json:"avg_time_elapsed"`
	TerminatedRate        float64 `json:"terminated_rate"`
	TruncatedRate         float64 `json:"truncated_rate"`
	ErrorRate             float64 `json:"error_rate"`
	TotalTokens           int64   `json:"total_tokens"`
	TotalInputTokens      int64   `json:"total_input_tokens"`
	TotalOutputTokens     int64   `json:"total_output_tokens"`
	TotalCost             float64 `json:"total_cost"`
	TasksWithUsage        int     `json:"tasks_with_usage"`
	TasksWithCost         int     `json:"tasks_with_cost"`
	AvgTokensPerTask      float64 `json:"avg_tokens_per_task"`
	AvgCostPerTask        float64 `json:"avg_cost_per_task"`
}

// TaskBrief is the per-task line of a category summary.
type TaskBrief struct {
	TaskID   string `json:"task_id"`
	TaskSeed int    `json:"task_seed"`

	Metrics

	NSteps     int        `json:"n_steps"`
	Truncated  bool       `json:"truncated"`
	Terminated bool       `json:"terminated"`
	Error      *TaskError `json:"error"`
}

// CategorySummary is the summary of one category plus its task lines.
type CategorySummary struct {
	Summary Summary     `json:"summary"`
	Tasks   []TaskBrief `json:"tasks"`
}

// StudySummary is the study_summary.json record.
type StudySummary struct {
	StudyID    string                     `json:"study_id"`
	Name       string                     `json:"name"`
	Dir        string                     `json:"study_dir"`
	Agent      string                     `json:"agent"`
	Cancelled  bool                       `json:"cancelled"`
	Skipped    int                        `json:"skipped_tasks"`
	NotRun     int                        `json:"not_run_tasks"`
	StartedAt  time.Time                  `json:"started_at"`
	EndedAt    time.Time                  `json:"ended_at"`
	Overall    Summary                    `json:"overall"`
	ByCategory map[string]CategorySummary `json:"by_task_type"`
}
