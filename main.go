package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/decker502/junglerun/pkg/app"
	"github.com/decker502/junglerun/pkg/embedded"
)

func main() {
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	backend := flag.String("backend", app.BackendEbiten, "Render backend: ebiten, term or headless")
	scheduler := flag.String("scheduler", "", "Frame scheduler override: auto, vsync, fixed-tps or timer")
	frames := flag.Int("frames", 0, "Exit after rendering this many frames (0 = run until closed)")
	configPath := flag.String("config", "", "Path to game.yaml on disk (default: embedded data/game.yaml)")
	diagAddr := flag.String("diag-addr", "", "Serve assets and the diagnostics socket on this address, e.g. :3000")
	logFile := flag.String("log-file", "", "Write logs to this file (terminal backend only)")
	flag.Parse()

	logOut, closeLog := setupLogOutput(*backend, *logFile)
	defer closeLog()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: logOut, TimeFormat: time.Kitchen})
	// 非 verbose 模式只保留警告和错误
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	// 初始化嵌入资源（必须在任何资源加载之前）
	embedded.Init(assetsFS, dataFS)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gameApp, err := app.NewApp(app.Config{
		Backend:    *backend,
		Scheduler:  *scheduler,
		Frames:     *frames,
		ConfigPath: *configPath,
		DiagAddr:   *diagAddr,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("游戏初始化失败")
	}

	if err := gameApp.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("游戏运行失败")
	}
}

// setupLogOutput 终端后端独占 stdout，日志写入文件或丢弃
func setupLogOutput(backend, logFile string) (io.Writer, func()) {
	if backend != app.BackendTerm {
		return os.Stderr, func() {}
	}
	if logFile == "" {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { f.Close() }
}
