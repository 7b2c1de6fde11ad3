package cli

import (
	"github.com/screenerbot/publisher/internal/notify"
	"github.com/screenerbot/publisher/internal/publish"
	"github.com/screenerbot/publisher/internal/scan"
	"github.com/screenerbot/publisher/internal/server"
	"github.com/screenerbot/publisher/internal/utils"
)

const (
	commonLogLevelConfigKeyConstant  = "common.log_level"
	commonLogFormatConfigKeyConstant = "common.log_format"
)

// environmentVariableBindings maps configuration keys to the exact environment
// variable names injected by deployment platforms.
var environmentVariableBindings = map[string]string{
	"publish.token":      "GH_TOKEN",
	"publish.username":   "GH_USERNAME",
	"publish.email":      "GH_EMAIL",
	"publish.repository": "GH_REPO",
	"publish.branch":     "GH_BRANCH",
	"notify.bot_token":   "TELEGRAM_BOT_TOKEN",
	"notify.chat_id":     "TELEGRAM_CHAT_ID",
}

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common  ApplicationCommonConfiguration `mapstructure:"common"`
	Scan    ScanConfiguration              `mapstructure:"scan"`
	Publish PublishConfiguration           `mapstructure:"publish"`
	Notify  NotifyConfiguration            `mapstructure:"notify"`
	Server  server.Configuration           `mapstructure:"server"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ScanConfiguration stores the configurable parts of the scan step. The
// screening parameters themselves are fixed and never user-supplied.
type ScanConfiguration struct {
	Executable       string `mapstructure:"executable"`
	WorkingDirectory string `mapstructure:"working_directory"`
}

// PublishConfiguration stores the publish sequence settings.
type PublishConfiguration struct {
	Token            string `mapstructure:"token"`
	Username         string `mapstructure:"username"`
	Email            string `mapstructure:"email"`
	Repository       string `mapstructure:"repository"`
	Branch           string `mapstructure:"branch"`
	RemoteName       string `mapstructure:"remote_name"`
	ArtifactPath     string `mapstructure:"artifact_path"`
	WorkingDirectory string `mapstructure:"working_directory"`
}

// NotifyConfiguration stores the Telegram notification credentials.
type NotifyConfiguration struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// DefaultConfigurationValues returns the viper defaults installed before loading.
func DefaultConfigurationValues() map[string]any {
	return map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
	}
}

func (configuration ScanConfiguration) toOptions() scan.Options {
	options := scan.DefaultOptions()
	options.WorkingDirectory = configuration.WorkingDirectory
	if len(configuration.Executable) > 0 {
		options.Executable = configuration.Executable
	}
	return options
}

func (configuration PublishConfiguration) toOptions() publish.Options {
	return publish.Options{
		Token:            configuration.Token,
		Username:         configuration.Username,
		Email:            configuration.Email,
		Repository:       configuration.Repository,
		Branch:           configuration.Branch,
		RemoteName:       configuration.RemoteName,
		ArtifactPath:     configuration.ArtifactPath,
		WorkingDirectory: configuration.WorkingDirectory,
	}.Sanitize()
}

func (configuration NotifyConfiguration) toNotifyConfiguration() notify.Configuration {
	return notify.Configuration{BotToken: configuration.BotToken, ChatID: configuration.ChatID}
}
