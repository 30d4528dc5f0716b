package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"trivia-tracker/internal/opentdb"
	"trivia-tracker/internal/quiz"
)

const envPrefix = "TRIVIA"

const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	OpenTDB OpenTDBConfig
	Quiz    QuizConfig
	History HistoryConfig
	Server  ServerConfig
	Logger  LoggerConfig
	Stats   StatsConfig
}

type OpenTDBConfig struct {
	BaseURL string
	Timeout time.Duration
	Retries int
}

// QuizConfig holds the play defaults. Category and Difficulty use the
// human-readable vocabulary ("Science & Nature", "Hard").
type QuizConfig struct {
	Amount     int
	Category   string
	Difficulty string
}

type HistoryConfig struct {
	Backend    string
	CSVPath    string
	SQLitePath string
	Redis      RedisConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

type StatsConfig struct {
	RecentLimit int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("opentdb.base_url", opentdb.DefaultBaseURL)
	v.SetDefault("opentdb.timeout", quiz.DefaultFetchTimeout)
	v.SetDefault("opentdb.retries", 2)

	v.SetDefault("quiz.amount", 10)
	v.SetDefault("quiz.category", opentdb.AnyCategory)
	v.SetDefault("quiz.difficulty", quiz.AnyDifficultyLabel)

	v.SetDefault("history.backend", BackendCSV)
	v.SetDefault("history.csv_path", "data/quiz_history.csv")
	v.SetDefault("history.sqlite_path", "data/quiz_history.db")
	v.SetDefault("history.redis.addr", "localhost:6379")
	v.SetDefault("history.redis.password", "")
	v.SetDefault("history.redis.db", 0)
	v.SetDefault("history.redis.key", "trivia:history")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetDefault("stats.recent_limit", 5)
}

// Load reads dotenv files (".env" when none are given), then the YAML config
// file, then TRIVIA_* environment variables, later sources winning. A missing
// .env or an absent default config file is not an error; an explicit
// configPath that cannot be read is.
func Load(configPath string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{
		OpenTDB: OpenTDBConfig{
			BaseURL: v.GetString("opentdb.base_url"),
			Timeout: v.GetDuration("opentdb.timeout"),
			Retries: v.GetInt("opentdb.retries"),
		},
		Quiz: QuizConfig{
			Amount:     v.GetInt("quiz.amount"),
			Category:   v.GetString("quiz.category"),
			Difficulty: v.GetString("quiz.difficulty"),
		},
		History: HistoryConfig{
			Backend:    strings.ToLower(strings.TrimSpace(v.GetString("history.backend"))),
			CSVPath:    v.GetString("history.csv_path"),
			SQLitePath: v.GetString("history.sqlite_path"),
			Redis: RedisConfig{
				Addr:     v.GetString("history.redis.addr"),
				Password: v.GetString("history.redis.password"),
				DB:       v.GetInt("history.redis.db"),
				Key:      v.GetString("history.redis.key"),
			},
		},
		Server: ServerConfig{
			Addr:            v.GetString("server.addr"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		Stats: StatsConfig{
			RecentLimit: v.GetInt("stats.recent_limit"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.History.Backend {
	case BackendCSV, BackendSQLite, BackendRedis:
	default:
		errs = append(errs, fmt.Errorf("history.backend: unknown backend %q", c.History.Backend))
	}
	if c.Quiz.Amount < quiz.MinAmount || c.Quiz.Amount > quiz.MaxAmount {
		errs = append(errs, fmt.Errorf("quiz.amount: %w", quiz.ErrInvalidAmount))
	}
	if _, ok := opentdb.LookupCategory(c.Quiz.Category); !ok {
		errs = append(errs, fmt.Errorf("quiz.category: unknown category %q", c.Quiz.Category))
	}
	if _, err := quiz.ParseDifficulty(c.Quiz.Difficulty); err != nil {
		errs = append(errs, fmt.Errorf("quiz.difficulty: %w", err))
	}
	if c.OpenTDB.Timeout <= 0 {
		errs = append(errs, errors.New("opentdb.timeout: must be positive"))
	}
	if c.OpenTDB.Retries < 0 {
		errs = append(errs, errors.New("opentdb.retries: must not be negative"))
	}
	if c.Stats.RecentLimit < 1 {
		errs = append(errs, errors.New("stats.recent_limit: must be at least 1"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
