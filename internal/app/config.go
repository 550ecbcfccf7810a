package app

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"gopkg.in/yaml.v3"
)

// Backend selects the persistence adapter behind the store.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendS3     Backend = "s3"
	BackendHTTP   Backend = "http"
	BackendMemory Backend = "memory"
)

// S3Config locates the bucket the s3 backend writes to.
type S3Config struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

// Config holds runtime wiring options for building the store.
type Config struct {
	Backend    Backend  `yaml:"backend"`     // defaults to file
	Home       string   `yaml:"home"`        // file backend root, default ~/.sessionvault
	SQLitePath string   `yaml:"sqlite_path"` // sqlite backend database file
	S3         S3Config `yaml:"s3"`
	RemoteURL  string   `yaml:"remote_url"` // http backend base URL

	// Passphrase, when set, seals signer records at rest in the file
	// backend. Never read from the config file.
	Passphrase string `yaml:"-"`

	// Optional injected clients; defaults apply when nil. The s3 backend
	// requires S3Client so credential and region wiring stay with the
	// application.
	HTTP     *http.Client `yaml:"-"`
	S3Client *s3.Client   `yaml:"-"`
}

// LoadConfig reads a YAML config file and applies defaults.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg.withDefaults()
}

func (c Config) withDefaults() (Config, error) {
	if c.Backend == "" {
		c.Backend = BackendFile
	}
	if c.Home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return Config{}, err
		}
		c.Home = filepath.Join(dir, ".sessionvault")
	}
	return c, nil
}
