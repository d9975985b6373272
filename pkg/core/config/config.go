// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     config
// Description: Application configuration from TOML or YAML files
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration
type Config struct {
	Assistant AssistantConfig `toml:"assistant" yaml:"assistant"`
	Audio     AudioConfig     `toml:"audio" yaml:"audio"`
	STT       STTConfig       `toml:"stt" yaml:"stt"`
	LLM       LLMConfig       `toml:"llm" yaml:"llm"`
	TTS       TTSConfig       `toml:"tts" yaml:"tts"`
	Session   SessionConfig   `toml:"session" yaml:"session"`
	Log       LogConfig       `toml:"log" yaml:"log"`

	// Credentials are never read from the config file
	Credentials Credentials `toml:"-" yaml:"-"`
}

// AssistantConfig holds wake word and dispatch settings
type AssistantConfig struct {
	WakeWords       []string `toml:"wake_words" yaml:"wake_words"`
	Acknowledgement string   `toml:"acknowledgement" yaml:"acknowledgement"`
	HomeURL         string   `toml:"home_url" yaml:"home_url"`
	ContentLimit    int      `toml:"content_limit" yaml:"content_limit"`
}

// AudioConfig holds capture and segmentation settings
type AudioConfig struct {
	SampleRate      int      `toml:"sample_rate" yaml:"sample_rate"`
	InputDevice     string   `toml:"input_device" yaml:"input_device"`
	OutputDevice    string   `toml:"output_device" yaml:"output_device"`
	VADMode         int      `toml:"vad_mode" yaml:"vad_mode"`
	Silence         Duration `toml:"silence" yaml:"silence"`
	MinSpeech       Duration `toml:"min_speech" yaml:"min_speech"`
	MaxUtterance    Duration `toml:"max_utterance" yaml:"max_utterance"`
	NoSpeechTimeout Duration `toml:"no_speech_timeout" yaml:"no_speech_timeout"`
}

// STTConfig holds speech-to-text backend settings
type STTConfig struct {
	Provider string   `toml:"provider" yaml:"provider"`
	Model    string   `toml:"model" yaml:"model"`
	BaseURL  string   `toml:"base_url" yaml:"base_url"`
	Language string   `toml:"language" yaml:"language"`
	Timeout  Duration `toml:"timeout" yaml:"timeout"`
}

// LLMConfig holds language model backend settings
type LLMConfig struct {
	Provider string   `toml:"provider" yaml:"provider"`
	Model    string   `toml:"model" yaml:"model"`
	BaseURL  string   `toml:"base_url" yaml:"base_url"`
	Timeout  Duration `toml:"timeout" yaml:"timeout"`
}

// TTSConfig holds text-to-speech backend and voice settings
type TTSConfig struct {
	Provider        string   `toml:"provider" yaml:"provider"`
	VoiceID         string   `toml:"voice_id" yaml:"voice_id"`
	ModelID         string   `toml:"model_id" yaml:"model_id"`
	OutputFormat    string   `toml:"output_format" yaml:"output_format"`
	Stability       float64  `toml:"stability" yaml:"stability"`
	SimilarityBoost float64  `toml:"similarity_boost" yaml:"similarity_boost"`
	Style           float64  `toml:"style" yaml:"style"`
	Speed           float64  `toml:"speed" yaml:"speed"`
	BaseURL         string   `toml:"base_url" yaml:"base_url"`
	Timeout         Duration `toml:"timeout" yaml:"timeout"`
	// CachePhrases bounds the phrase cache; negative disables it
	CachePhrases int `toml:"cache_phrases" yaml:"cache_phrases"`
}

// SessionConfig selects the content session implementation
type SessionConfig struct {
	Mode      string   `toml:"mode" yaml:"mode"`
	RemoteURL string   `toml:"remote_url" yaml:"remote_url"`
	UserAgent string   `toml:"user_agent" yaml:"user_agent"`
	Timeout   Duration `toml:"timeout" yaml:"timeout"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension.
// Credentials are not part of the file; see LoadCredentials.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	return &cfg, nil
}

// LoadFromEnv loads configuration from LAUSCHER_CONFIG or a default location.
// Without any file the built-in defaults are returned.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv("LAUSCHER_CONFIG")
	if path == "" {
		home, _ := os.UserHomeDir()
		for _, p := range []string{
			"./lauscher.toml",
			"./lauscher.yaml",
			filepath.Join(home, ".config", "lauscher", "config.toml"),
		} {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// Assistant
	if len(c.Assistant.WakeWords) == 0 {
		c.Assistant.WakeWords = []string{"hey apple"}
	}
	if c.Assistant.Acknowledgement == "" {
		c.Assistant.Acknowledgement = "Hello, how can I help you?"
	}
	if c.Assistant.HomeURL == "" {
		c.Assistant.HomeURL = "https://www.google.com"
	}
	if c.Assistant.ContentLimit == 0 {
		c.Assistant.ContentLimit = 4000
	}

	// Audio
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 16000
	}
	if c.Audio.VADMode == 0 {
		c.Audio.VADMode = 2
	}
	if c.Audio.Silence.Duration == 0 {
		c.Audio.Silence.Duration = 800 * time.Millisecond
	}
	if c.Audio.MinSpeech.Duration == 0 {
		c.Audio.MinSpeech.Duration = 300 * time.Millisecond
	}
	if c.Audio.MaxUtterance.Duration == 0 {
		c.Audio.MaxUtterance.Duration = 15 * time.Second
	}
	if c.Audio.NoSpeechTimeout.Duration == 0 {
		c.Audio.NoSpeechTimeout.Duration = 6 * time.Second
	}

	// STT
	if c.STT.Provider == "" {
		c.STT.Provider = "openai"
	}
	if c.STT.Model == "" {
		c.STT.Model = "whisper-1"
	}
	if c.STT.Language == "" {
		c.STT.Language = "en"
	}
	if c.STT.Timeout.Duration == 0 {
		c.STT.Timeout.Duration = 30 * time.Second
	}

	// LLM
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.Model == "" {
		if c.LLM.Provider == "ollama" {
			c.LLM.Model = "mistral:7b"
		} else {
			c.LLM.Model = "gpt-3.5-turbo"
		}
	}
	if c.LLM.BaseURL == "" && c.LLM.Provider == "ollama" {
		c.LLM.BaseURL = "http://localhost:11434"
	}
	if c.LLM.Timeout.Duration == 0 {
		c.LLM.Timeout.Duration = 60 * time.Second
	}

	// TTS
	if c.TTS.Provider == "" {
		c.TTS.Provider = "elevenlabs"
	}
	if c.TTS.VoiceID == "" {
		if c.TTS.Provider == "openai" {
			c.TTS.VoiceID = "alloy"
		} else {
			c.TTS.VoiceID = "EXAVITQu4vr4xnSDxMaL"
		}
	}
	if c.TTS.ModelID == "" {
		if c.TTS.Provider == "openai" {
			c.TTS.ModelID = "tts-1"
		} else {
			c.TTS.ModelID = "eleven_multilingual_v2"
		}
	}
	if c.TTS.OutputFormat == "" {
		c.TTS.OutputFormat = "mp3_44100_128"
	}
	if c.TTS.Stability == 0 {
		c.TTS.Stability = 0.1
	}
	if c.TTS.SimilarityBoost == 0 {
		c.TTS.SimilarityBoost = 0.3
	}
	if c.TTS.Style == 0 {
		c.TTS.Style = 0.2
	}
	if c.TTS.Speed == 0 {
		c.TTS.Speed = 1.0
	}
	if c.TTS.Timeout.Duration == 0 {
		c.TTS.Timeout.Duration = 60 * time.Second
	}
	if c.TTS.CachePhrases == 0 {
		c.TTS.CachePhrases = 64
	}

	// Session
	if c.Session.Mode == "" {
		c.Session.Mode = "headless"
	}
	if c.Session.RemoteURL == "" {
		c.Session.RemoteURL = "ws://localhost:9222/lauscher"
	}
	if c.Session.UserAgent == "" {
		c.Session.UserAgent = "Mozilla/5.0 (compatible; Lauscher/1.0)"
	}
	if c.Session.Timeout.Duration == 0 {
		c.Session.Timeout.Duration = 20 * time.Second
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// expandEnvVars expands environment variables in configuration values
func (c *Config) expandEnvVars() {
	c.STT.BaseURL = os.ExpandEnv(c.STT.BaseURL)
	c.LLM.BaseURL = os.ExpandEnv(c.LLM.BaseURL)
	c.TTS.BaseURL = os.ExpandEnv(c.TTS.BaseURL)
	c.Session.RemoteURL = os.ExpandEnv(c.Session.RemoteURL)
	c.Assistant.HomeURL = os.ExpandEnv(c.Assistant.HomeURL)
}

// Validate checks value ranges and provider names
func (c *Config) Validate() error {
	switch c.STT.Provider {
	case "openai":
	default:
		return fmt.Errorf("unknown stt provider: %q", c.STT.Provider)
	}
	switch c.LLM.Provider {
	case "openai", "ollama":
	default:
		return fmt.Errorf("unknown llm provider: %q", c.LLM.Provider)
	}
	switch c.TTS.Provider {
	case "elevenlabs", "openai":
	default:
		return fmt.Errorf("unknown tts provider: %q", c.TTS.Provider)
	}
	switch c.Session.Mode {
	case "headless", "remote":
	default:
		return fmt.Errorf("unknown session mode: %q", c.Session.Mode)
	}
	if c.Audio.VADMode < 0 || c.Audio.VADMode > 3 {
		return fmt.Errorf("vad_mode must be between 0 and 3, got %d", c.Audio.VADMode)
	}
	if c.Assistant.ContentLimit < 0 {
		return fmt.Errorf("content_limit must not be negative")
	}
	for _, w := range c.Assistant.WakeWords {
		if strings.TrimSpace(w) == "" {
			return fmt.Errorf("wake_words must not contain empty phrases")
		}
	}
	return nil
}
