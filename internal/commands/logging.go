package commands

import (
	"strings"

	"github.com/goliatone/go-cms-editor/internal/logging"
	"github.com/goliatone/go-cms-editor/pkg/interfaces"
)

const commandModuleRoot = "editor.commands"

// CommandLogger returns a logger scoped to the command module, for example
// "editor.commands.page".
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
