package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/argon2"
	"gopkg.in/yaml.v3"

	"casedesk/internal/domain"
)

// DefaultPath is the config file used when --config is not given.
const DefaultPath = "casedesk.yaml"

// DefaultGreeting is the first assistant entry of every conversation.
const DefaultGreeting = "Hi, ask about a Salesforce case.\n\n" +
	"Examples:\n" +
	"- What is the status of case 00001163?\n" +
	"- Summarize case 00001161\n" +
	"- Show comments for case 00001163\n" +
	"- Show history for case 00001161\n" +
	"- Show feed for case 00001163\n" +
	"- Are there any in progress cases?\n" +
	"- Search: Return Order Issue RO-0017"

// Config is the root configuration.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Logger  LoggerConfig  `yaml:"logger"`
	Tracer  TracerConfig  `yaml:"tracer"`
	UI      UIConfig      `yaml:"ui"`
}

// BackendConfig selects and configures the case backend transport.
type BackendConfig struct {
	Transport      string               `yaml:"transport"` // "http" or "mcp"
	URL            string               `yaml:"url"`
	QueryPath      string               `yaml:"query_path"`
	HealthPath     string               `yaml:"health_path"`
	AuthToken      string               `yaml:"auth_token,omitempty"`
	ConnTimeout    time.Duration        `yaml:"conn_timeout"`
	RespTimeout    time.Duration        `yaml:"resp_timeout"` // 0 waits indefinitely
	Pool           PoolConfig           `yaml:"pool"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
	MCP            MCPConfig            `yaml:"mcp"`
}

// PoolConfig holds HTTP connection pool settings.
type PoolConfig struct {
	MaxIdleConns        int           `yaml:"max_idle_conns"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout"`
}

// CircuitBreakerConfig holds circuit breaker settings for the backend.
type CircuitBreakerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxFailures uint32        `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
	Interval    time.Duration `yaml:"interval"`
}

// MCPConfig configures the MCP server that exposes the backend tools.
type MCPConfig struct {
	Transport  string            `yaml:"transport"` // "stdio" or "http"
	Command    string            `yaml:"command,omitempty"`
	Args       []string          `yaml:"args,omitempty"`
	Env        map[string]string `yaml:"env,omitempty"`
	URL        string            `yaml:"url,omitempty"`
	Tool       string            `yaml:"tool"`
	HealthTool string            `yaml:"health_tool"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"` // stdout, stderr, discard, or a file path
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
	Output   string `yaml:"output"` // file path; empty writes to stdout
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	AltScreen   bool   `yaml:"alt_screen"`
	Mouse       bool   `yaml:"mouse"`
	MaxMessages int    `yaml:"max_messages"` // rendered entries kept on screen; 0 keeps all
	Greeting    string `yaml:"greeting"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Backend: BackendConfig{
			Transport:   "http",
			URL:         "http://localhost:8000",
			QueryPath:   "/query",
			HealthPath:  "/health/salesforce",
			ConnTimeout: 10 * time.Second,
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:     true,
				MaxFailures: 5,
				Timeout:     30 * time.Second,
				Interval:    60 * time.Second,
			},
			MCP: MCPConfig{
				Transport:  "stdio",
				Tool:       "ask",
				HealthTool: "salesforce_health",
			},
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "discard",
		},
		Tracer: TracerConfig{
			Exporter: "stdout",
		},
		UI: UIConfig{
			AltScreen: true,
			Mouse:     true,
			Greeting:  DefaultGreeting,
		},
	}
}

// Load reads a YAML config file, applies env var overrides, decrypts secrets
// and validates the result. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, domain.NewDomainError("config.Load", fmt.Errorf("%w: %w", domain.ErrConfigLoad, err), path)
	default:
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
		if err := validatePermissions(absPath); err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.NewDomainError("config.Load", fmt.Errorf("%w: parse: %w", domain.ErrConfigLoad, err), path)
		}
	}

	ApplyEnvOverrides(cfg)

	if passphrase := os.Getenv("CASEDESK_CONFIG_KEY"); passphrase != "" {
		if err := decryptSecrets(cfg, passphrase); err != nil {
			return nil, fmt.Errorf("decrypt secrets: %w", err)
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides maps CASEDESK_* env vars to config fields.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CASEDESK_BACKEND_URL"); v != "" {
		cfg.Backend.URL = v
	}
	if v := os.Getenv("CASEDESK_BACKEND_TRANSPORT"); v != "" {
		cfg.Backend.Transport = v
	}
	if v := os.Getenv("CASEDESK_BACKEND_AUTH_TOKEN"); v != "" {
		cfg.Backend.AuthToken = v
	}
	if fields := strings.Fields(os.Getenv("CASEDESK_MCP_COMMAND")); len(fields) > 0 {
		cfg.Backend.MCP.Transport = "stdio"
		cfg.Backend.MCP.Command = fields[0]
		cfg.Backend.MCP.Args = fields[1:]
	}
	if v := os.Getenv("CASEDESK_MCP_URL"); v != "" {
		cfg.Backend.MCP.Transport = "http"
		cfg.Backend.MCP.URL = v
	}
	if v := os.Getenv("CASEDESK_LOG_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("CASEDESK_LOG_FORMAT"); v != "" {
		cfg.Logger.Format = v
	}
	if v := os.Getenv("CASEDESK_LOG_OUTPUT"); v != "" {
		cfg.Logger.Output = v
	}
	if v := os.Getenv("CASEDESK_TRACER_ENABLED"); v != "" {
		cfg.Tracer.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("CASEDESK_TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
	if v := os.Getenv("CASEDESK_TRACER_OUTPUT"); v != "" {
		cfg.Tracer.Output = v
	}
}

// decryptSecrets replaces "enc:..." values in secret fields with plaintext.
func decryptSecrets(cfg *Config, passphrase string) error {
	if err := decryptField(&cfg.Backend.AuthToken, passphrase); err != nil {
		return fmt.Errorf("backend.auth_token: %w", err)
	}
	for k, v := range cfg.Backend.MCP.Env {
		if err := decryptField(&v, passphrase); err != nil {
			return fmt.Errorf("backend.mcp.env.%s: %w", k, err)
		}
		cfg.Backend.MCP.Env[k] = v
	}
	return nil
}

func decryptField(field *string, passphrase string) error {
	if !strings.HasPrefix(*field, "enc:") {
		return nil
	}
	plain, err := DecryptValue(strings.TrimPrefix(*field, "enc:"), passphrase)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDecryption, err)
	}
	*field = plain
	return nil
}

// EncryptValue encrypts a plaintext value with AES-256-GCM using a passphrase.
func EncryptValue(plaintext, passphrase string) (string, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	// Format: hex(salt) + ":" + hex(nonce+ciphertext)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(ciphertext), nil
}

// DecryptValue decrypts a value produced by EncryptValue.
func DecryptValue(encrypted, passphrase string) (string, error) {
	saltHex, dataHex, ok := strings.Cut(encrypted, ":")
	if !ok {
		return "", fmt.Errorf("invalid encrypted format")
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return "", fmt.Errorf("decode salt: %w", err)
	}
	data, err := hex.DecodeString(dataHex)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return "", err
	}
	if len(data) < gcm.NonceSize() {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}
	return string(plaintext), nil
}

func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	// Argon2id: 1 pass, 64 MiB, 4 lanes, 32-byte key.
	key := argon2.IDKey([]byte(passphrase), salt, 1, 64*1024, 4, 32)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}

// validatePermissions rejects config files writable by group or others.
func validatePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat config: %w", err)
	}
	if mode := info.Mode().Perm(); mode&0o022 != 0 {
		return fmt.Errorf("config file %s has insecure permissions %o (want 0600 or 0644)", path, mode)
	}
	return nil
}
