package api

import (
	glua "github.com/yuin/gopher-lua"

	"github.com/bengler/prosemirror/internal/logging"
)

// LogModule forwards script messages to the editor log.
type LogModule struct {
	log *logging.Logger
}

// NewLogModule creates a log module writing to l.
func NewLogModule(l *logging.Logger) *LogModule {
	return &LogModule{log: l.WithComponent("script")}
}

// Name returns "log".
func (m *LogModule) Name() string {
	return "log"
}

// Funcs returns the module functions.
func (m *LogModule) Funcs() map[string]glua.LGFunction {
	return map[string]glua.LGFunction{
		"debug": m.logger(m.log.Debug),
		"info":  m.logger(m.log.Info),
		"warn":  m.logger(m.log.Warn),
		"error": m.logger(m.log.Error),
	}
}

func (m *LogModule) logger(fn func(string, ...any)) glua.LGFunction {
	return func(L *glua.LState) int {
		fn("%s", L.CheckString(1))
		return 0
	}
}
