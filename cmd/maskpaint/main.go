// Package main provides the CLI entry point for maskpaint.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"
	"github.com/ideamans/go-l10n"

	"github.com/user/maskpaint/pkg/adapters/cloudflare"
	"github.com/user/maskpaint/pkg/adapters/consoleconfirm"
	"github.com/user/maskpaint/pkg/adapters/filesink"
	"github.com/user/maskpaint/pkg/adapters/ggrenderer"
	"github.com/user/maskpaint/pkg/adapters/logger"
	"github.com/user/maskpaint/pkg/adapters/nullsink"
	"github.com/user/maskpaint/pkg/adapters/osfilesystem"
	"github.com/user/maskpaint/pkg/adapters/proxyclient"
	"github.com/user/maskpaint/pkg/adapters/rediscache"
	"github.com/user/maskpaint/pkg/adapters/replicate"
	"github.com/user/maskpaint/pkg/adapters/stripepay"
	"github.com/user/maskpaint/pkg/canvas"
	"github.com/user/maskpaint/pkg/config"
	"github.com/user/maskpaint/pkg/editor"
	"github.com/user/maskpaint/pkg/pointer"
	"github.com/user/maskpaint/pkg/ports"
	"github.com/user/maskpaint/pkg/server"
	"github.com/user/maskpaint/pkg/session"
	"github.com/user/maskpaint/pkg/strokes"
	"github.com/user/maskpaint/pkg/submission"
	"github.com/user/maskpaint/pkg/summarizer"
)

var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// errEmptyMask is returned when a stroke script commits no stroke.
var errEmptyMask = errors.New("no stroke was committed, the mask is empty")

// Globals are flags shared by every subcommand.
type Globals struct {
	Config   string `short:"c" type:"path" help:"Config file (default: ./maskpaint.yaml when present)."`
	LogLevel string `short:"l" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)."`
	Quiet    bool   `short:"Q" help:"Suppress all log output."`
}

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Globals

	Serve   ServeCmd   `cmd:"" help:"Run the payment, inference and upload proxy."`
	Mask    MaskCmd    `cmd:"" help:"Paint a mask from a stroke script."`
	Inpaint InpaintCmd `cmd:"" help:"Paint a mask and run inpainting on it."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// ServeCmd runs the HTTP proxy.
type ServeCmd struct {
	Addr    string `help:"Listen address (overrides server.port)."`
	NoCache bool   `help:"Disable the Redis prediction cache."`
}

// MaskCmd replays strokes onto an image and writes the mask.
type MaskCmd struct {
	Image   string `arg:"" type:"existingfile" help:"Image to mask (JPEG, PNG, GIF or WebP)."`
	Strokes string `short:"s" required:"" type:"existingfile" help:"Stroke script (YAML)."`
	Output  string `short:"o" required:"" help:"Output mask PNG path."`
	Preview string `help:"Also write the image with the mask overlaid to this path (PNG, or JPEG for .jpg/.jpeg)."`

	Debug    bool   `short:"d" help:"Enable debug output."`
	DebugDir string `default:"./debug" help:"Directory for debug output."`
}

// InpaintCmd runs the whole editor flow from the command line.
type InpaintCmd struct {
	Image   string `arg:"" type:"existingfile" help:"Image to edit (JPEG, PNG, GIF or WebP)."`
	Strokes string `short:"s" required:"" type:"existingfile" help:"Stroke script (YAML)."`
	Prompt  string `short:"p" help:"Prompt (default: the prompt in the stroke script)."`
	Server  string `help:"Base URL of a maskpaint proxy. When empty the services are called directly."`
	Mask    string `short:"m" help:"Also save the submitted mask PNG to this path."`
	Summary string `help:"Write a Markdown run summary to this path."`

	NoPayment bool `help:"Skip the payment step (overrides editor.payment_required)."`

	Debug    bool   `short:"d" help:"Enable debug output."`
	DebugDir string `default:"./debug" help:"Directory for debug output."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("maskpaint"),
		kong.Description(l10n.T("Paint inpainting masks and run generative inpainting.")),
		kong.UsageOnError(),
	)

	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

func (g *Globals) loadConfig() (*config.Config, error) {
	if g.Config == "" {
		return config.New(), nil
	}
	return config.Load(g.Config)
}

func (g *Globals) newLogger() ports.Logger {
	if g.Quiet {
		return logger.NewNoop()
	}
	return logger.NewConsole(ports.ParseLogLevel(g.LogLevel))
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext(log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

func newSink(enabled bool, dir string, fs ports.FileSystem, renderer ports.Renderer) (ports.DebugSink, error) {
	if !enabled {
		return nullsink.New(), nil
	}
	if err := fs.MkdirAll(dir); err != nil {
		return nil, fmt.Errorf("create debug directory: %w", err)
	}
	return filesink.New(dir, fs, renderer), nil
}

// Run executes the serve command.
func (cmd *ServeCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	gin.SetMode(cfg.Server.Mode)
	zl, err := logger.NewZap(cfg.Server.Mode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer zl.Sync()
	log := zl.WithComponent("maskpaint")

	ctx, cancel := signalContext(log)
	defer cancel()

	gateway, err := stripepay.New(nil, stripepay.Config{
		SecretKey:    cfg.Stripe.SecretKey,
		Currency:     cfg.Editor.Currency,
		PollInterval: cfg.Stripe.PollInterval,
	}, zl.WithComponent("stripe"))
	if err != nil {
		return err
	}
	predictor := replicate.New(replicate.Config{
		BaseURL:  cfg.Replicate.BaseURL,
		APIToken: cfg.Replicate.APIToken,
	}, &http.Client{Timeout: cfg.Replicate.Timeout}, zl.WithComponent("replicate"))
	uploader := cloudflare.New(cloudflare.Config{
		BaseURL:   cfg.Cloudflare.BaseURL,
		AccountID: cfg.Cloudflare.AccountID,
		APIToken:  cfg.Cloudflare.APIToken,
	}, nil, zl.WithComponent("cloudflare"))

	var cache ports.PredictionCache
	if cfg.Redis.Enabled && !cmd.NoCache {
		rc := rediscache.New(rediscache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		defer rc.Close()
		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			log.Warn("Redis unavailable at %s, prediction cache disabled: %s", cfg.Redis.Addr, err)
		} else {
			log.Info("Prediction cache enabled at %s", cfg.Redis.Addr)
			cache = rc
		}
		pingCancel()
	}

	srv := server.New(gateway, predictor, uploader, cache, zl.Zap(), server.Options{
		MaxUploadSize: cfg.Upload.MaxSize,
		AllowedTypes:  cfg.Upload.AllowedTypes,
		AllowOrigins:  cfg.Server.AllowOrigins,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		Version:       server.VersionInfo{Version: version, BuildTime: buildTime, GitCommit: gitCommit},
	})

	addr := cmd.Addr
	if addr == "" {
		addr = cfg.Server.Port
	}
	return srv.Run(ctx, addr)
}

// editSession bundles an editor with the script driving it.
type editSession struct {
	ed     *editor.Editor
	script *strokes.Script
	fs     ports.FileSystem
	log    ports.Logger
}

// paint loads the image and replays the stroke script.
func (s *editSession) paint(imagePath, strokesPath string) error {
	data, err := s.fs.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	if err := s.ed.LoadImage(data); err != nil {
		return err
	}

	script, err := strokes.Load(s.fs, strokesPath)
	if err != nil {
		return err
	}
	s.script = script

	w, h := s.ed.Dimensions().Pixels()
	if err := script.Replay(s.ed, pointer.Box{Width: float64(w), Height: float64(h)}); err != nil {
		return err
	}
	s.log.Info("Replayed %d events, %d strokes committed", len(script.Events), s.ed.Strokes())
	return nil
}

// Run executes the mask command.
func (cmd *MaskCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	log := g.newLogger()

	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	sink, err := newSink(cmd.Debug, cmd.DebugDir, fs, renderer)
	if err != nil {
		return err
	}

	sub := submission.New(nil, nil, nil, sink, log.WithComponent("submission"), cfg.SubmissionConfig())
	s := &editSession{
		ed:  editor.New(renderer, sub, nil, sink, log.WithComponent("editor"), cfg.EditorOptions()),
		fs:  fs,
		log: log,
	}
	if err := s.paint(cmd.Image, cmd.Strokes); err != nil {
		return err
	}

	mask := s.ed.MaskPNG()
	if mask == nil {
		return errEmptyMask
	}
	if err := fs.WriteFile(cmd.Output, mask); err != nil {
		return fmt.Errorf("write mask: %w", err)
	}
	log.Info("Mask saved to %s", cmd.Output)

	if cmd.Preview != "" {
		img, err := s.ed.Composite()
		if err != nil {
			return err
		}
		data, err := renderer.EncodeImage(img, previewFormat(cmd.Preview), previewQuality)
		if err != nil {
			return fmt.Errorf("encode preview: %w", err)
		}
		if err := fs.WriteFile(cmd.Preview, data); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
		log.Info("Preview saved to %s", cmd.Preview)
	}
	return nil
}

const previewQuality = 90

// previewFormat picks JPEG for .jpg and .jpeg paths and PNG otherwise.
func previewFormat(path string) ports.ImageFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return ports.FormatJPEG
	}
	return ports.FormatPNG
}

// collaborators are the services behind a submission.
type collaborators struct {
	uploader  ports.AssetUploader
	gateway   ports.PaymentGateway
	confirmer ports.PaymentConfirmer
	inpainter ports.Inpainter
}

func (cmd *InpaintCmd) collaborators(cfg *config.Config, paymentRequired bool, log ports.Logger) (collaborators, error) {
	client := &http.Client{Timeout: cfg.Replicate.Timeout}

	if cmd.Server != "" {
		pc := proxyclient.New(cmd.Server, client, log.WithComponent("proxy"))
		return collaborators{
			uploader:  pc,
			gateway:   pc,
			confirmer: consoleconfirm.New(os.Stdin, os.Stderr),
			inpainter: pc,
		}, nil
	}

	c := collaborators{
		uploader: cloudflare.New(cloudflare.Config{
			BaseURL:   cfg.Cloudflare.BaseURL,
			AccountID: cfg.Cloudflare.AccountID,
			APIToken:  cfg.Cloudflare.APIToken,
		}, nil, log.WithComponent("cloudflare")),
		inpainter: replicate.New(replicate.Config{
			BaseURL:  cfg.Replicate.BaseURL,
			APIToken: cfg.Replicate.APIToken,
		}, client, log.WithComponent("replicate")),
	}
	if paymentRequired {
		gw, err := stripepay.New(nil, stripepay.Config{
			SecretKey:    cfg.Stripe.SecretKey,
			Currency:     cfg.Editor.Currency,
			PollInterval: cfg.Stripe.PollInterval,
		}, log.WithComponent("stripe"))
		if err != nil {
			return c, err
		}
		c.gateway = gw
		c.confirmer = gw
	}
	return c, nil
}

// Run executes the inpaint command.
func (cmd *InpaintCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	log := g.newLogger()

	ctx, cancel := signalContext(log)
	defer cancel()

	opts := cfg.EditorOptions()
	if cmd.NoPayment {
		opts.PaymentRequired = false
	}

	c, err := cmd.collaborators(cfg, opts.PaymentRequired, log)
	if err != nil {
		return err
	}

	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	sink, err := newSink(cmd.Debug, cmd.DebugDir, fs, renderer)
	if err != nil {
		return err
	}

	subConfig := cfg.SubmissionConfig()
	sub := submission.New(c.uploader, c.gateway, c.inpainter, sink, log.WithComponent("submission"), subConfig)
	s := &editSession{
		ed:  editor.New(renderer, sub, c.confirmer, sink, log.WithComponent("editor"), opts),
		fs:  fs,
		log: log,
	}

	start := time.Now()
	var intent ports.PaymentIntent
	runErr := s.paint(cmd.Image, cmd.Strokes)
	if runErr == nil {
		prompt := cmd.Prompt
		if prompt == "" {
			prompt = s.script.Prompt
		}
		s.ed.SetPrompt(prompt)

		runErr = s.ed.Submit(ctx)
		if runErr == nil && s.ed.State() == session.AwaitingPayment {
			intent, _ = s.ed.PaymentIntent()
			runErr = s.ed.ConfirmPayment(ctx)
		}
	}

	if cmd.Mask != "" && s.ed.MaskPNG() != nil {
		if err := fs.WriteFile(cmd.Mask, s.ed.MaskPNG()); err != nil {
			return fmt.Errorf("write mask: %w", err)
		}
	}

	if cmd.Summary != "" {
		summary := cmd.summarize(s, cfg, subConfig, intent, runErr, time.Since(start))
		if err := summarizer.NewWriter(summarizer.NewMarkdownFormatter(), fs).Write(cmd.Summary, summary); err != nil {
			return err
		}
		log.Info("Summary saved to %s", cmd.Summary)
	}

	if runErr != nil {
		return runErr
	}
	log.Info("Inpainting finished: %s", s.ed.Result())
	fmt.Println(s.ed.Result())
	return nil
}

func (cmd *InpaintCmd) summarize(s *editSession, cfg *config.Config, subConfig submission.Config, intent ports.PaymentIntent, runErr error, elapsed time.Duration) *summarizer.Summary {
	b := summarizer.NewBuilder()

	if src := s.ed.Source(); src != nil {
		w, h := s.ed.Dimensions().Pixels()
		b.WithSource(summarizer.SourceInfo{
			Path:         cmd.Image,
			Format:       src.Format,
			Width:        src.Width,
			Height:       src.Height,
			Size:         src.Size,
			CanvasWidth:  w,
			CanvasHeight: h,
		})
	} else {
		b.WithSource(summarizer.SourceInfo{Path: cmd.Image})
	}

	b.WithMask(s.ed.Strokes(), cfg.Editor.BrushSize, string(canvas.ParsePolarity(cfg.Editor.Polarity)))

	transport := "direct"
	if cmd.Server != "" {
		transport = cmd.Server
	}
	assets := s.ed.Assets()
	b.WithSubmission(summarizer.SubmissionInfo{
		Transport:     transport,
		ImageURL:      assets.ImageURL,
		MaskURL:       assets.MaskURL,
		PaymentIntent: intent.ID,
		Amount:        subConfig.Amount,
		Currency:      cfg.Editor.Currency,
		Steps:         subConfig.Steps,
		ModelVersion:  subConfig.ModelVersion,
	})

	outcome := summarizer.OutcomeInfo{
		State:     s.ed.State().String(),
		OutputURL: s.ed.Result(),
		Duration:  elapsed,
	}
	if runErr != nil {
		outcome.Error = runErr.Error()
	}
	b.WithOutcome(outcome)

	if s.script != nil {
		prompt := cmd.Prompt
		if prompt == "" {
			prompt = s.script.Prompt
		}
		b.WithPrompt(prompt)
	}
	return b.Build()
}

// Run executes the version command.
func (cmd *VersionCmd) Run(g *Globals) error {
	fmt.Println(l10n.F("maskpaint version %s (built %s, commit %s)", version, buildTime, gitCommit))
	return nil
}
