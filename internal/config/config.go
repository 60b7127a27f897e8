package config

import (
	"time"

	"github.com/spf13/viper"
)

type AppConf struct {
	Env            string `mapstructure:"env"`
	Port           int    `mapstructure:"port"`
	ShutdownSecond int    `mapstructure:"shutdown_seconds"`
	MaxUploadMB    int    `mapstructure:"max_upload_mb"`
}

type S3Conf struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	PathStyle bool   `mapstructure:"path_style"`
	IndexKey  string `mapstructure:"index_key"`
}

type RedisConf struct {
	Enabled       bool   `mapstructure:"enabled"`
	Addr          string `mapstructure:"addr"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	UploadLimit   int    `mapstructure:"upload_limit"`
	WindowSeconds int    `mapstructure:"window_seconds"`
}

type MetricsConf struct {
	Port int `mapstructure:"port"`
}

type Config struct {
	App     AppConf     `mapstructure:"app"`
	S3      S3Conf      `mapstructure:"s3"`
	Redis   RedisConf   `mapstructure:"redis"`
	Metrics MetricsConf `mapstructure:"metrics"`

	// derived
	ShutdownTimeout time.Duration
	RateWindow      time.Duration
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.App.Port == 0 {
		cfg.App.Port = 8000
	}
	if cfg.App.ShutdownSecond == 0 {
		cfg.App.ShutdownSecond = 15
	}
	if cfg.App.MaxUploadMB == 0 {
		cfg.App.MaxUploadMB = 512
	}
	if cfg.S3.IndexKey == "" {
		cfg.S3.IndexKey = "media_index.json"
	}
	if cfg.Redis.UploadLimit == 0 {
		cfg.Redis.UploadLimit = 30
	}
	if cfg.Redis.WindowSeconds == 0 {
		cfg.Redis.WindowSeconds = 60
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9100
	}
	cfg.ShutdownTimeout = time.Duration(cfg.App.ShutdownSecond) * time.Second
	cfg.RateWindow = time.Duration(cfg.Redis.WindowSeconds) * time.Second
	return &cfg, nil
}
