package liveapi

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default models and audio constants for the Gemini Live API. The input
// side is always 16 kHz mono PCM16; the model answers with 24 kHz PCM16.
const (
	DefaultTextModel  = "gemini-2.0-flash-live-001"
	DefaultAudioModel = "gemini-2.5-flash-native-audio-preview-09-2025"

	DefaultInputSampleRate  = 16000
	DefaultOutputSampleRate = 24000
)

// Config holds client and CLI settings. Everything except the API key can
// also come from an optional YAML file; environment variables win over the
// file, flags win over both.
type Config struct {
	TextModel         string  `yaml:"text_model"`
	AudioModel        string  `yaml:"audio_model"`
	SystemInstruction string  `yaml:"system_instruction"`
	InputSampleRate   int     `yaml:"input_sample_rate"`
	OutputSampleRate  int     `yaml:"output_sample_rate"`
	ResponseTimeout   float64 `yaml:"response_timeout"`  // seconds until the first server message
	MicTestDuration   float64 `yaml:"mic_test_duration"` // seconds
	OutputFile        string  `yaml:"output_file"`
	Theme             string  `yaml:"theme"`
	Verbose           bool    `yaml:"verbose"`

	APIKey string `yaml:"-"`
}

// NewConfig builds the default configuration and overlays environment
// variables (a .env file is honored if present).
func NewConfig() *Config {
	c := &Config{
		TextModel:         DefaultTextModel,
		AudioModel:        DefaultAudioModel,
		SystemInstruction: "You are a helpful assistant and answer in a friendly tone.",
		InputSampleRate:   DefaultInputSampleRate,
		OutputSampleRate:  DefaultOutputSampleRate,
		ResponseTimeout:   10.0,
		MicTestDuration:   3.0,
		OutputFile:        "response_audio.wav",
		Theme:             "default",
	}
	c.loadFromEnv()
	return c
}

// LoadConfigFile reads a YAML config file and overlays the environment on
// top of it.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	c := NewConfig()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	c.loadFromEnv()
	return c, nil
}

func (c *Config) loadFromEnv() {
	// Load .env if exists
	_ = godotenv.Load()

	if key := os.Getenv("GEMINI_KEY"); key != "" {
		c.APIKey = key
	}

	if model := os.Getenv("LIVEAPI_TEXT_MODEL"); model != "" {
		c.TextModel = model
	}
	if model := os.Getenv("LIVEAPI_AUDIO_MODEL"); model != "" {
		c.AudioModel = model
	}
	if prompt := os.Getenv("LIVEAPI_SYSTEM_INSTRUCTION"); prompt != "" {
		c.SystemInstruction = prompt
	}
	if timeout := os.Getenv("LIVEAPI_RESPONSE_TIMEOUT"); timeout != "" {
		if val, err := strconv.ParseFloat(timeout, 64); err == nil {
			c.ResponseTimeout = val
		}
	}
	if duration := os.Getenv("LIVEAPI_MIC_TEST_DURATION"); duration != "" {
		if val, err := strconv.ParseFloat(duration, 64); err == nil {
			c.MicTestDuration = val
		}
	}
	if file := os.Getenv("LIVEAPI_OUTPUT_FILE"); file != "" {
		c.OutputFile = file
	}
	if theme := os.Getenv("LIVEAPI_THEME"); theme != "" {
		c.Theme = theme
	}
	if os.Getenv("LIVEAPI_VERBOSE") == "true" {
		c.Verbose = true
	}
}

// Validate returns a list of issues
func (c *Config) Validate() []string {
	issues := []string{}

	if c.APIKey == "" {
		issues = append(issues, "GEMINI_KEY environment variable not set (create a .env file with your key)")
	}
	if c.TextModel == "" {
		issues = append(issues, "text model must not be empty")
	}
	if c.AudioModel == "" {
		issues = append(issues, "audio model must not be empty")
	}
	if c.InputSampleRate <= 0 {
		issues = append(issues, fmt.Sprintf("invalid input sample rate: %d", c.InputSampleRate))
	}
	if c.OutputSampleRate <= 0 {
		issues = append(issues, fmt.Sprintf("invalid output sample rate: %d", c.OutputSampleRate))
	}
	if c.ResponseTimeout <= 0 {
		issues = append(issues, fmt.Sprintf("response timeout must be positive, got %.1f", c.ResponseTimeout))
	}
	if c.Theme != "" {
		if _, err := ThemeByName(c.Theme); err != nil {
			issues = append(issues, fmt.Sprintf("unknown theme: %s", c.Theme))
		}
	}

	return issues
}

// Print writes the effective configuration to stdout with the key masked.
func (c *Config) Print() {
	fmt.Println("Gemini Live API Configuration")
	fmt.Println("==================================================")
	fmt.Printf("API Key: %s\n", MaskKey(c.APIKey))
	fmt.Printf("Text Model: %s\n", c.TextModel)
	fmt.Printf("Audio Model: %s\n", c.AudioModel)
	fmt.Printf("System Instruction: %s\n", c.SystemInstruction)
	fmt.Printf("Input Sample Rate: %d Hz\n", c.InputSampleRate)
	fmt.Printf("Output Sample Rate: %d Hz\n", c.OutputSampleRate)
	fmt.Printf("Response Timeout: %.1fs\n", c.ResponseTimeout)
	fmt.Printf("Mic Test Duration: %.1fs\n", c.MicTestDuration)
	fmt.Printf("Output File: %s\n", c.OutputFile)
	fmt.Printf("Theme: %s\n", c.Theme)
	fmt.Printf("Verbose: %t\n", c.Verbose)
}

// MaskKey hides the middle of a secret, keeping just enough to recognize it.
func MaskKey(s string) string {
	if s == "" {
		return "<not set>"
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}

// IsQuitCommand reports whether an interactive input line asks to leave the
// current loop.
func IsQuitCommand(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "quit", "exit":
		return true
	}
	return false
}
