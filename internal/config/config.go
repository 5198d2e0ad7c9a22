package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"deckgen/internal/deck"
)

type Config struct {
	Generator Generator `yaml:"generator"`
	Output    Output    `yaml:"output"`
	Databases Databases `yaml:"databases"`
	Logging   Logging   `yaml:"logging"`
}

// Generator holds the unresolved deck settings. A nil Header means the
// header is derived from the query distribution.
type Generator struct {
	Rows   int64  `yaml:"rows"`
	Header *int64 `yaml:"header"`
	Query  string `yaml:"query"`
	Ratio  string `yaml:"ratio"`
}

type Output struct {
	Path    string `yaml:"path"`
	Store   string `yaml:"store"`
	Summary bool   `yaml:"summary"`
}

type Databases struct {
	Postgres      string `yaml:"postgres"`
	MySQL         string `yaml:"mysql"`
	Mongo         string `yaml:"mongo"`
	MongoDatabase string `yaml:"mongo_database"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const DefaultMongoDatabase = "deckgen"

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Generator: Generator{
			Rows:  deck.DefaultRows,
			Query: deck.DefaultQuerySpec,
			Ratio: deck.DefaultRatioSpec,
		},
		Databases: Databases{MongoDatabase: DefaultMongoDatabase},
		Logging:   Logging{Level: "info", Format: "console"},
	}
}

// LoadConfig reads a YAML profile on top of the defaults. An empty path
// returns the defaults.
func LoadConfig(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(file, config)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return config, nil
}

// LoadEnvFile loads variables from a dotenv file without overriding ones
// already set. A missing .env is not an error when path is empty.
func LoadEnvFile(path string) error {
	optional := path == ""
	if optional {
		path = ".env"
	}
	err := godotenv.Load(path)
	if optional && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Environment variables read by ApplyEnv.
const (
	EnvRows          = "DATAGEN_ROWS"
	EnvHeader        = "DATAGEN_HEADER"
	EnvQuery         = "DATAGEN_QUERY"
	EnvRatio         = "DATAGEN_RATIO"
	EnvOutput        = "DATAGEN_OUTPUT"
	EnvStore         = "DATAGEN_STORE"
	EnvPostgresDSN   = "DATAGEN_POSTGRES_DSN"
	EnvMySQLDSN      = "DATAGEN_MYSQL_DSN"
	EnvMongoDSN      = "DATAGEN_MONGO_DSN"
	EnvMongoDatabase = "DATAGEN_MONGO_DATABASE"
	EnvLogLevel      = "DATAGEN_LOG_LEVEL"
	EnvLogFormat     = "DATAGEN_LOG_FORMAT"
)

// ApplyEnv overrides settings from the process environment.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvRows); ok {
		rows, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvRows, v, err)
		}
		c.Generator.Rows = rows
	}
	if v, ok := os.LookupEnv(EnvHeader); ok {
		header, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvHeader, v, err)
		}
		c.Generator.Header = &header
	}

	setString(&c.Generator.Query, EnvQuery)
	setString(&c.Generator.Ratio, EnvRatio)
	setString(&c.Output.Path, EnvOutput)
	setString(&c.Output.Store, EnvStore)
	setString(&c.Databases.Postgres, EnvPostgresDSN)
	setString(&c.Databases.MySQL, EnvMySQLDSN)
	setString(&c.Databases.Mongo, EnvMongoDSN)
	setString(&c.Databases.MongoDatabase, EnvMongoDatabase)
	setString(&c.Logging.Level, EnvLogLevel)
	setString(&c.Logging.Format, EnvLogFormat)
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// DSN returns the connection string configured for a store kind.
func (d Databases) DSN(kind string) (string, bool) {
	switch kind {
	case "postgres":
		return d.Postgres, d.Postgres != ""
	case "mysql":
		return d.MySQL, d.MySQL != ""
	case "mongo":
		return d.Mongo, d.Mongo != ""
	}
	return "", false
}

// Deck resolves the generator settings into a deck configuration.
func (c *Config) Deck() (deck.Config, error) {
	return deck.NewConfig(c.Generator.Rows, c.Generator.Header, c.Generator.Query, c.Generator.Ratio)
}
