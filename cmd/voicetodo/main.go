// VoiceToDo is a voice-driven to-do list assistant.
//
// Usage:
//
//	voicetodo [--input cloud|whisper|text] [--output azure|espeak|text] [-v] [-q]
package main

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/hammamikhairi/voicetodo/internal/assistant"
	"github.com/hammamikhairi/voicetodo/internal/audio"
	"github.com/hammamikhairi/voicetodo/internal/config"
	"github.com/hammamikhairi/voicetodo/internal/conversation"
	"github.com/hammamikhairi/voicetodo/internal/display"
	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/engine"
	"github.com/hammamikhairi/voicetodo/internal/logger"
	"github.com/hammamikhairi/voicetodo/internal/reminder"
	"github.com/hammamikhairi/voicetodo/internal/speech"
	"github.com/hammamikhairi/voicetodo/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(pflag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	// Direct logs to a file by default so the console stays clean.
	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" && cfg.LogFile != "stderr" {
		dir := filepath.Dir(cfg.LogFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.LogFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// The whisper transcriber logs through the standard library.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logger.ParseLevel(cfg.LogLevel), logOut)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Output ──────────────────────────────────────────────────────

	textNotifier := conversation.NewCLINotifier(log, nil)

	var azure *speech.AzureClient
	if cfg.NeedsAzure() {
		opts := []speech.AzureOption{
			speech.WithVoice(cfg.Azure.Voice),
			speech.WithLanguage(cfg.Azure.Language),
		}
		if cfg.Proxy != "" {
			hc, err := speech.NewSOCKS5Client(cfg.Proxy, speech.DefaultHTTPTimeout)
			if err != nil {
				return fmt.Errorf("proxy: %w", err)
			}
			opts = append(opts, speech.WithHTTPClient(hc))
			log.Info("speech requests go through SOCKS5 proxy %s", cfg.Proxy)
		}
		azure = speech.NewAzureClient(cfg.Azure.Key, cfg.Azure.Region, log, opts...)
	}

	var speaker domain.Speaker = speech.NewNoOp(log)
	switch cfg.Output {
	case config.OutputAzure:
		player, err := audio.NewPlayer(speech.SampleRate, speech.ChannelCount, log)
		if err != nil {
			log.Error("audio player init failed, speech disabled: %v", err)
			break
		}
		speaker = speech.NewMouth(azure, player, log,
			speech.WithCacheDir(cfg.CacheDir),
			speech.WithDiskWrite(cfg.DiskCache),
		)
		log.Info("TTS enabled (voice=%s, region=%s)", cfg.Azure.Voice, cfg.Azure.Region)
	case config.OutputEspeak:
		es, err := speech.NewEspeak(cfg.Espeak.Bin, cfg.Espeak.Voice, cfg.Espeak.Rate, log)
		if err != nil {
			log.Error("espeak unavailable, speech disabled: %v", err)
			break
		}
		speaker = es
	}
	notifier := speech.NewSpeakingNotifier(textNotifier, speaker, log)

	// ── Reminders ───────────────────────────────────────────────────

	var reminderOpts []reminder.Option
	if cfg.ChimeFile != "" {
		chime, err := audio.NewChime(cfg.ChimeFile, log)
		if err != nil {
			log.Warn("reminder chime disabled: %v", err)
		} else {
			reminderOpts = append(reminderOpts, reminder.WithChime(chime))
		}
	}
	scheduler := reminder.New(notifier, log, reminderOpts...)
	defer scheduler.Stop()

	// ── List ────────────────────────────────────────────────────────

	store, err := storage.NewJSONFileStore(cfg.DataFile, log)
	if err != nil {
		return err
	}
	eng, err := engine.New(ctx, store, log)
	if err != nil {
		return fmt.Errorf("loading list: %w", err)
	}
	eng.Start(ctx)
	defer eng.Stop()

	// ── Input ───────────────────────────────────────────────────────

	var ear domain.Transcriber
	switch cfg.Input {
	case config.InputCloud:
		rec, err := audio.NewRecorder(log,
			audio.WithSilenceThreshold(cfg.Recorder.SilenceThreshold),
			audio.WithPauseDuration(cfg.Recorder.Pause),
			audio.WithMaxDuration(cfg.Recorder.MaxDuration),
			audio.WithInitialTimeout(cfg.Recorder.InitialTimeout),
		)
		if err != nil {
			return fmt.Errorf("microphone: %w", err)
		}
		defer rec.Close()
		ear = speech.NewCloudEar(rec, azure, log)
	case config.InputWhisper:
		we, err := audio.NewWhisperEar(cfg.Whisper.Bin, cfg.Whisper.Model, log,
			audio.WithRecordDuration(cfg.Whisper.RecordDuration),
		)
		if err != nil {
			return fmt.Errorf("whisper: %w", err)
		}
		ear = we
	default:
		ear = speech.NewTextEar(os.Stdin, os.Stdout, log)
	}
	listener := speech.NewVoiceInput(ear, notifier, log)

	// ── Run ─────────────────────────────────────────────────────────

	fmt.Println(display.RenderBanner())
	for _, line := range display.ModeLines(cfg.Input, cfg.Output) {
		fmt.Println(display.BannerStyle.Render(line))
	}
	fmt.Println()

	bot := assistant.New(conversation.NewKeywordParser(log), eng, scheduler, notifier, log,
		assistant.WithExitPause(cfg.ExitPause),
	)
	loop := assistant.NewLoop(listener, bot, notifier, log)

	if err := loop.Run(ctx); err != nil {
		return err
	}
	log.Info("assistant stopped (exit requested=%v)", loop.Stopped())
	return nil
}
