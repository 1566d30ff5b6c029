package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/adrg/xdg"
)

var clientCfgFile = "connect-four/config.json"

const (
	TransportLocal = "local"
	TransportHTTP  = "http"
	TransportWS    = "ws"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

// ClientConfig drives the terminal client.
type ClientConfig struct {
	ServerURL     string `json:"server_url"`
	Transport     string `json:"transport"`
	Difficulty    string `json:"difficulty"`
	MoveDelayMS   int    `json:"move_delay_ms"`
	ServiceSecret string `json:"service_secret"`
	Record        bool   `json:"record"`
	Test          bool   `json:"test"` // deterministic computer moves
	LogFile       string `json:"log_file"`
	LogLevel      string `json:"log_level"`
}

var DefaultClientConfig = ClientConfig{
	ServerURL:   "http://localhost:8080",
	Transport:   TransportLocal,
	Difficulty:  "mcts",
	MoveDelayMS: 1000,
	LogFile:     "connect4.log",
	LogLevel:    "info",
}

func (c ClientConfig) MoveDelay() time.Duration {
	return time.Duration(c.MoveDelayMS) * time.Millisecond
}

// LoadClientConfig layers defaults, the XDG config file and CONNECT4_*
// environment overrides, then validates the result.
func LoadClientConfig(validDifficulty func(string) bool) (*ClientConfig, error) {
	cfg := DefaultClientConfig
	if absPath, err := xdg.SearchConfigFile(clientCfgFile); err == nil {
		if err := readCfgFile(absPath, &cfg); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(validDifficulty); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *ClientConfig) applyEnv() {
	c.ServerURL = GetEnv("CONNECT4_SERVER_URL", c.ServerURL)
	c.Transport = GetEnv("CONNECT4_TRANSPORT", c.Transport)
	c.Difficulty = GetEnv("CONNECT4_DIFFICULTY", c.Difficulty)
	c.MoveDelayMS = GetEnvAsInt("CONNECT4_MOVE_DELAY_MS", c.MoveDelayMS)
	c.ServiceSecret = GetEnv("CONNECT4_SERVICE_SECRET", c.ServiceSecret)
	c.Record = GetEnvAsBool("CONNECT4_RECORD", c.Record)
	c.Test = GetEnvAsBool("CONNECT4_TEST", c.Test)
	c.LogFile = GetEnv("CONNECT4_LOG_FILE", c.LogFile)
	c.LogLevel = GetEnv("CONNECT4_LOG_LEVEL", c.LogLevel)
}

func (c *ClientConfig) Validate(validDifficulty func(string) bool) error {
	switch c.Transport {
	case TransportLocal, TransportHTTP, TransportWS:
	default:
		return &InvalidConfig{fmt.Sprintf("unknown transport %q", c.Transport)}
	}
	if validDifficulty != nil && !validDifficulty(c.Difficulty) {
		return &InvalidConfig{fmt.Sprintf("unknown difficulty %q", c.Difficulty)}
	}
	if c.MoveDelayMS < 0 {
		return &InvalidConfig{"move delay must not be negative"}
	}
	if c.Transport != TransportLocal && c.ServerURL == "" {
		return &InvalidConfig{"server url is required for remote transports"}
	}
	if c.Record && c.ServiceSecret == "" {
		return &InvalidConfig{"recording matches requires a service secret"}
	}
	return nil
}

// Save writes the config to the user's XDG config directory.
func (c *ClientConfig) Save() error {
	absPath, err := xdg.ConfigFile(clientCfgFile)
	if err != nil {
		return err
	}
	jsonData, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(absPath, jsonData, 0664)
}

func readCfgFile(filePath string, cfg *ClientConfig) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %v", filePath, err)}
	}
	return nil
}
