package command

import (
	"strings"
)

const (
	TypeMigrateSettings = "cielo.command.settings.migrate"
	TypeStartPlugin     = "cielo.command.plugin.start"
)

// MigrateSettingsMessage requests one migration attempt. Administrative
// marks the attempt as coming from an admin request; without it the
// migrator skips the run.
type MigrateSettingsMessage struct {
	RequestedBy    string
	Administrative bool
}

func (MigrateSettingsMessage) Type() string { return TypeMigrateSettings }

func (m MigrateSettingsMessage) Validate() error {
	if strings.TrimSpace(m.RequestedBy) == "" {
		return commandValidationError("requested_by", "requested by is required")
	}
	return nil
}

type StartPluginMessage struct {
	Administrative bool
}

func (StartPluginMessage) Type() string { return TypeStartPlugin }

func (StartPluginMessage) Validate() error { return nil }
