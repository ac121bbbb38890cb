package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New は実行環境に応じた zap.Logger を生成します。
// APP_ENV=production で JSON 出力、それ以外は開発向けの色付き出力になります。
// LOG_LEVEL が設定されていればレベルを上書きします。
func New() (*zap.Logger, error) {
	var cfg zap.Config

	if os.Getenv("APP_ENV") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(raw)); err == nil {
			cfg.Level.SetLevel(level)
		}
	}

	return cfg.Build()
}
