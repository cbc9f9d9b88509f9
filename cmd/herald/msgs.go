package herald

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "A typed event-dispatch registry"
	MsgDemoShort       = "Dispatch a scenario against a live registry"
	MsgGenConfigShort  = "Output the effective configuration as TOML"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	// Status messages
	MsgConfigWritten = "Configuration written to %s\n"

	// Error messages
	MsgErrLoadConfig   = "failed to load configuration: %w"
	MsgErrLoadScenario = "failed to load scenario: %w"
	MsgErrSetupTracing = "failed to set up tracing: %w"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagScenario = "Scenario file to dispatch (default: built-in lifecycle scenario)"
	MsgFlagTrace    = "Trace dispatch passes with the configured exporter"
	MsgFlagFormat   = "Output format (auto, term, text)"
	MsgFlagWrite    = "Write to the user config path instead of stdout"
	MsgFlagTemplate = "Emit a fully commented template instead"
	MsgFlagManDir   = "Directory to write man pages into"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/demo-long.txt
	msgDemoLongRaw string
	MsgDemoLong    = strings.TrimSpace(msgDemoLongRaw)

	//go:embed msgs/demo-example.txt
	msgDemoExampleRaw string
	MsgDemoExample    = strings.TrimSpace(msgDemoExampleRaw)

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/genconfig-example.txt
	msgGenConfigExampleRaw string
	MsgGenConfigExample    = strings.TrimSpace(msgGenConfigExampleRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
