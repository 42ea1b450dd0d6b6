package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type ClientConfig struct {
	APIURL  string        `mapstructure:"api_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ClientFlags регистрирует флаги консольного клиента.
func ClientFlags(fs *pflag.FlagSet) {
	fs.String("api-url", "http://127.0.0.1:8000", "адрес API сервера")
	fs.Duration("timeout", 10*time.Second, "таймаут одного HTTP запроса")
}

// LoadClient: флаги командной строки, затем TODO_API_URL / TODO_TIMEOUT, затем значения по умолчанию.
func LoadClient(fs *pflag.FlagSet) (*ClientConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.BindPFlag("api_url", fs.Lookup("api-url")); err != nil {
		return nil, fmt.Errorf("привязка флага api-url: %w", err)
	}
	if err := v.BindPFlag("timeout", fs.Lookup("timeout")); err != nil {
		return nil, fmt.Errorf("привязка флага timeout: %w", err)
	}

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации клиента: %w", err)
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("не задан адрес API")
	}
	return &cfg, nil
}
