package main

import (
	"context"
	"fmt"
	"os"
	"todoTracker/internal/app"
	"todoTracker/internal/config"
	"todoTracker/internal/logger"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", "config.yml", "путь к файлу конфигурации")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "загрузка конфигурации: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	a := app.New(cfg)
	if err := a.Init(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "инициализация приложения: %v\n", err)
		_ = a.Shutdown(ctx)
		os.Exit(1)
	}

	go func() {
		if err := a.Run(); err != nil {
			logger.Error("Сервер остановлен с ошибкой", err)
			os.Exit(1)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		ctx,
		cfg.Server.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"app": func(ctx context.Context) error {
				logger.Info("Получен сигнал завершения, останавливаемся...")
				return a.Shutdown(ctx)
			},
		},
	)

	os.Exit(<-wait)
}
