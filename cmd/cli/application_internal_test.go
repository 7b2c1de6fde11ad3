package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testTokenValueConstant      = "ghp_exampletoken"
	testRepositoryValueConstant = "render-bot/scan-archive"
	testBranchValueConstant     = "archive"
	testBotTokenValueConstant   = "123456:bot-token"
	testChatIDValueConstant     = "-1000000000"
)

func TestNewApplicationRegistersCommands(testInstance *testing.T) {
	application := NewApplication()

	registeredCommandNames := map[string]bool{}
	for _, registeredCommand := range application.rootCommand.Commands() {
		registeredCommandNames[registeredCommand.Name()] = true
	}

	require.True(testInstance, registeredCommandNames[runCommandUseConstant])
	require.True(testInstance, registeredCommandNames[publishCommandUseConstant])
	require.True(testInstance, registeredCommandNames[serveCommandUseConstant])
}

func TestInitializeConfigurationAppliesDefaults(testInstance *testing.T) {
	application := NewApplication()

	require.NoError(testInstance, application.initializeConfiguration(application.rootCommand))

	require.Equal(testInstance, "info", application.configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", application.configuration.Common.LogFormat)
}

func TestInitializeConfigurationBindsEnvironmentVariables(testInstance *testing.T) {
	testInstance.Setenv("GH_TOKEN", testTokenValueConstant)
	testInstance.Setenv("GH_REPO", testRepositoryValueConstant)
	testInstance.Setenv("GH_BRANCH", testBranchValueConstant)
	testInstance.Setenv("TELEGRAM_BOT_TOKEN", testBotTokenValueConstant)
	testInstance.Setenv("TELEGRAM_CHAT_ID", testChatIDValueConstant)

	application := NewApplication()

	require.NoError(testInstance, application.initializeConfiguration(application.rootCommand))

	require.Equal(testInstance, testTokenValueConstant, application.configuration.Publish.Token)
	require.Equal(testInstance, testRepositoryValueConstant, application.configuration.Publish.Repository)
	require.Equal(testInstance, testBranchValueConstant, application.configuration.Publish.Branch)
	require.Equal(testInstance, testBotTokenValueConstant, application.configuration.Notify.BotToken)
	require.Equal(testInstance, testChatIDValueConstant, application.configuration.Notify.ChatID)
}

func TestInitializeConfigurationHonorsLogFlagOverrides(testInstance *testing.T) {
	application := NewApplication()

	require.NoError(testInstance, application.rootCommand.PersistentFlags().Set(logLevelFlagNameConstant, "debug"))
	require.NoError(testInstance, application.rootCommand.PersistentFlags().Set(logFormatFlagNameConstant, "console"))

	require.NoError(testInstance, application.initializeConfiguration(application.rootCommand))

	require.Equal(testInstance, "debug", application.configuration.Common.LogLevel)
	require.Equal(testInstance, "console", application.configuration.Common.LogFormat)
	require.True(testInstance, application.humanReadableLoggingEnabled())
}
