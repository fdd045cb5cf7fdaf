// Package config gathers server settings from flags, the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const DEFAULT_PORT = 3000

type Config struct {
	Port          int
	AllowOrigins  string
	Difficulty    model.Difficulty
	SearchWorkers int
	PollInterval  time.Duration
	LogLevel      string
	LogPretty     bool
}

func Default() Config {
	return Config{
		Port:          DEFAULT_PORT,
		AllowOrigins:  "http://localhost:5173",
		Difficulty:    model.DifficultyEasy,
		SearchWorkers: 4,
		PollInterval:  100 * time.Millisecond,
		LogLevel:      "info",
	}
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if _, err := model.ParseDifficulty(string(c.Difficulty)); err != nil {
		return err
	}
	if c.SearchWorkers < 1 {
		return fmt.Errorf("search workers must be at least 1, got %d", c.SearchWorkers)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	return nil
}

// LoadEnv loads .env style files into the process environment. Missing
// files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Flags are the server flags. Each can also be set through its CHECKERS_*
// environment variable.
func Flags() []cli.Flag {
	def := Default()
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "port number",
			EnvVars: []string{"CHECKERS_PORT"},
			Value:   def.Port,
		},
		&cli.StringFlag{
			Name:    "allow-origins",
			Usage:   "comma separated CORS origins",
			EnvVars: []string{"CHECKERS_ALLOW_ORIGINS"},
			Value:   def.AllowOrigins,
		},
		&cli.StringFlag{
			Name:    "difficulty",
			Aliases: []string{"d"},
			Usage:   "default difficulty for new games: easy, medium, hard",
			EnvVars: []string{"CHECKERS_DIFFICULTY"},
			Value:   string(def.Difficulty),
		},
		&cli.IntFlag{
			Name:    "search-workers",
			Usage:   "number of computer searches that may run at once",
			EnvVars: []string{"CHECKERS_SEARCH_WORKERS"},
			Value:   def.SearchWorkers,
		},
		&cli.DurationFlag{
			Name:    "poll-interval",
			Usage:   "how often the search queue is checked",
			EnvVars: []string{"CHECKERS_POLL_INTERVAL"},
			Value:   def.PollInterval,
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "trace, debug, info, warn, error",
			EnvVars: []string{"CHECKERS_LOG_LEVEL"},
			Value:   def.LogLevel,
		},
		&cli.BoolFlag{
			Name:    "log-pretty",
			Usage:   "human readable console logs",
			EnvVars: []string{"CHECKERS_LOG_PRETTY"},
		},
	}
}

// FromContext builds a validated Config from parsed flags.
func FromContext(cCtx *cli.Context) (Config, error) {
	cfg := Config{
		Port:          cCtx.Int("port"),
		AllowOrigins:  cCtx.String("allow-origins"),
		Difficulty:    model.Difficulty(cCtx.String("difficulty")),
		SearchWorkers: cCtx.Int("search-workers"),
		PollInterval:  cCtx.Duration("poll-interval"),
		LogLevel:      cCtx.String("log-level"),
		LogPretty:     cCtx.Bool("log-pretty"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
