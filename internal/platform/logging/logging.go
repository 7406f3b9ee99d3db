// Package logging は設定から構造化ロガーを構築します。
package logging

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ogurasousui/ems-grpc-clean-arch/internal/platform/config"
)

// New は LogConfig に従って slog.Logger を生成します。
func New(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("logging: level %q: %w", cfg.Level, err)
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	switch cfg.Format {
	case "", "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("logging: format %q is not supported", cfg.Format)
	}
}
