// Package config loads maskpaint settings from YAML and the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/user/maskpaint/pkg/canvas"
	"github.com/user/maskpaint/pkg/editor"
	"github.com/user/maskpaint/pkg/geometry"
	"github.com/user/maskpaint/pkg/submission"
)

// EnvPrefix prefixes environment overrides, e.g. MASKPAINT_STRIPE_SECRET_KEY.
const EnvPrefix = "MASKPAINT"

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Upload     UploadConfig     `mapstructure:"upload"`
	Editor     EditorConfig     `mapstructure:"editor"`
	Stripe     StripeConfig     `mapstructure:"stripe"`
	Replicate  ReplicateConfig  `mapstructure:"replicate"`
	Cloudflare CloudflareConfig `mapstructure:"cloudflare"`
	Redis      RedisConfig      `mapstructure:"redis"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	AllowOrigins []string      `mapstructure:"allow_origins"`
}

type UploadConfig struct {
	MaxSize      int64    `mapstructure:"max_size"`
	AllowedTypes []string `mapstructure:"allowed_types"`
}

type EditorConfig struct {
	BrushSize       float64  `mapstructure:"brush_size"`
	Polarity        string   `mapstructure:"polarity"`
	OverlayOpacity  float64  `mapstructure:"overlay_opacity"`
	MaxSide         float64  `mapstructure:"max_side"`
	PromptOptions   []string `mapstructure:"prompt_options"`
	PaymentRequired bool     `mapstructure:"payment_required"`
	Amount          int64    `mapstructure:"amount"`
	Currency        string   `mapstructure:"currency"`
	Steps           int      `mapstructure:"steps"`
	ModelVersion    string   `mapstructure:"model_version"`
}

type StripeConfig struct {
	SecretKey    string        `mapstructure:"secret_key"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type ReplicateConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	APIToken string        `mapstructure:"api_token"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type CloudflareConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	AccountID string `mapstructure:"account_id"`
	APIToken  string `mapstructure:"api_token"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Load reads configPath, applies defaults for missing keys and then
// MASKPAINT_* environment overrides. An empty path skips the file.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// New loads maskpaint.yaml from the working directory, falling back to
// defaults plus environment when it cannot be read.
func New() *Config {
	cfg, err := Load("maskpaint.yaml")
	if err != nil {
		cfg, err = Load("")
		if err != nil {
			d := Defaults()
			return &d
		}
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	d := Defaults()

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.allow_origins", d.Server.AllowOrigins)

	v.SetDefault("upload.max_size", d.Upload.MaxSize)
	v.SetDefault("upload.allowed_types", d.Upload.AllowedTypes)

	v.SetDefault("editor.brush_size", d.Editor.BrushSize)
	v.SetDefault("editor.polarity", d.Editor.Polarity)
	v.SetDefault("editor.overlay_opacity", d.Editor.OverlayOpacity)
	v.SetDefault("editor.max_side", d.Editor.MaxSide)
	v.SetDefault("editor.prompt_options", d.Editor.PromptOptions)
	v.SetDefault("editor.payment_required", d.Editor.PaymentRequired)
	v.SetDefault("editor.amount", d.Editor.Amount)
	v.SetDefault("editor.currency", d.Editor.Currency)
	v.SetDefault("editor.steps", d.Editor.Steps)
	v.SetDefault("editor.model_version", d.Editor.ModelVersion)

	v.SetDefault("stripe.secret_key", "")
	v.SetDefault("stripe.poll_interval", d.Stripe.PollInterval)

	v.SetDefault("replicate.base_url", d.Replicate.BaseURL)
	v.SetDefault("replicate.api_token", "")
	v.SetDefault("replicate.timeout", d.Replicate.Timeout)

	v.SetDefault("cloudflare.base_url", d.Cloudflare.BaseURL)
	v.SetDefault("cloudflare.account_id", "")
	v.SetDefault("cloudflare.api_token", "")

	v.SetDefault("redis.enabled", d.Redis.Enabled)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", d.Redis.TTL)
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	sub := submission.DefaultConfig()
	style := canvas.DefaultMaskStyle()
	return Config{
		Server: ServerConfig{
			Port:         ":8080",
			Mode:         "debug",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 120 * time.Second,
			AllowOrigins: []string{"*"},
		},
		Upload: UploadConfig{
			MaxSize:      editor.MaxUploadBytes,
			AllowedTypes: []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
		},
		Editor: EditorConfig{
			BrushSize:       style.BrushSize,
			Polarity:        string(style.Polarity),
			OverlayOpacity:  style.OverlayOpacity,
			MaxSide:         geometry.DefaultBounds.MaxWidth,
			PaymentRequired: true,
			Amount:          sub.Amount,
			Currency:        "usd",
			Steps:           sub.Steps,
			ModelVersion:    sub.ModelVersion,
		},
		Stripe: StripeConfig{
			PollInterval: 2 * time.Second,
		},
		Replicate: ReplicateConfig{
			BaseURL: "https://api.replicate.com",
			Timeout: 120 * time.Second,
		},
		Cloudflare: CloudflareConfig{
			BaseURL: "https://api.cloudflare.com/client/v4",
		},
		Redis: RedisConfig{
			Enabled: true,
			Addr:    "localhost:6379",
			TTL:     24 * time.Hour,
		},
	}
}

// EditorOptions converts the editor section to editor.Options.
func (c Config) EditorOptions() editor.Options {
	return editor.Options{
		Style: canvas.MaskStyle{
			Polarity:       canvas.ParsePolarity(c.Editor.Polarity),
			BrushSize:      c.Editor.BrushSize,
			OverlayOpacity: c.Editor.OverlayOpacity,
		},
		Bounds:          geometry.Bounds{MaxWidth: c.Editor.MaxSide, MaxHeight: c.Editor.MaxSide},
		MaxUploadBytes:  c.Upload.MaxSize,
		PaymentRequired: c.Editor.PaymentRequired,
	}
}

// SubmissionConfig converts the editor section to submission.Config.
func (c Config) SubmissionConfig() submission.Config {
	return submission.Config{
		Amount:        c.Editor.Amount,
		Steps:         c.Editor.Steps,
		ModelVersion:  c.Editor.ModelVersion,
		PromptOptions: c.Editor.PromptOptions,
	}
}
