// Package logs builds the process-wide structured logger.
package logs

import (
	"log/slog"
	"os"
	"strings"

	"classrank/config"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Params defines the parameters required for the logger
type Params struct {
	fx.In

	Config *config.Config
}

var levelNames = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// New builds the root slog.Logger. Production emits JSON to stdout; the
// pretty flag switches to the text handler for local development. Every
// record carries the environment name so aggregated logs stay separable.
func New(params Params) (*slog.Logger, error) {
	levelName := params.Config.Env.Log.Level
	level, ok := levelNames[strings.ToLower(levelName)]
	if !ok {
		return nil, errors.Errorf("unknown log level: %s", levelName)
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if params.Config.Env.Log.Pretty {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler).With(slog.String("env", params.Config.Env.Env)), nil
}
