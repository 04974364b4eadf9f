// assetserver 在本地目录上提供静态文件服务，用于浏览和调试资源
//
// 用法：
//
//	go run ./cmd/assetserver --dir assets --addr :3000
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/decker502/junglerun/pkg/diag"
)

func main() {
	addr := flag.String("addr", diag.DefaultAddr, "Listen address")
	dir := flag.String("dir", "assets", "Directory to serve")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	if info, err := os.Stat(*dir); err != nil || !info.IsDir() {
		log.Fatal().Str("dir", *dir).Msg("目录不存在")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := diag.NewServer(*addr, os.DirFS(*dir), nil, nil)
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
