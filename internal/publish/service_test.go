package publish_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/screenerbot/publisher/internal/execshell"
	"github.com/screenerbot/publisher/internal/publish"
)

const (
	testTokenConstant              = "ghp_testtoken"
	testRepositoryConstant         = "render-bot/scan-archive"
	testExpectedRemoteURLConstant  = "https://ghp_testtoken@github.com/render-bot/scan-archive.git"
	testBranchConstant             = "main"
	testCustomUsernameConstant     = "alice"
	testArtifactPathConstant       = "scan_results.csv"
	testCommitTimestampExpectation = "Update scan results 2026-08-23T07:30:00Z"
)

type fixedClock struct {
	instant time.Time
}

func (clock fixedClock) Now() time.Time {
	return clock.instant
}

type scriptedGitExecutor struct {
	commands           []execshell.CommandDetails
	failingSubcommands map[string]error
}

func (executor *scriptedGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.commands = append(executor.commands, details)
	if len(details.Arguments) > 0 {
		if scriptedError, exists := executor.failingSubcommands[details.Arguments[0]]; exists {
			return execshell.ExecutionResult{}, scriptedError
		}
	}
	return execshell.ExecutionResult{}, nil
}

func (executor *scriptedGitExecutor) commandsWithSubcommand(subcommand string) []execshell.CommandDetails {
	matching := []execshell.CommandDetails{}
	for _, details := range executor.commands {
		if len(details.Arguments) > 0 && details.Arguments[0] == subcommand {
			matching = append(matching, details)
		}
	}
	return matching
}

func newPublishService(testInstance *testing.T, executor publish.GitExecutor, clock publish.Clock) *publish.Service {
	testInstance.Helper()
	service, creationError := publish.NewService(publish.ServiceDependencies{GitExecutor: executor, Clock: clock})
	require.NoError(testInstance, creationError)
	return service
}

func defaultTestOptions() publish.Options {
	return publish.Options{Token: testTokenConstant, Repository: testRepositoryConstant, Branch: testBranchConstant}
}

func TestNewServiceValidatesGitExecutor(testInstance *testing.T) {
	_, creationError := publish.NewService(publish.ServiceDependencies{})
	require.ErrorIs(testInstance, creationError, publish.ErrGitExecutorNotConfigured)
}

func TestPublishSkipsWithoutToken(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}
	service := newPublishService(testInstance, executor, nil)

	result := service.Publish(context.Background(), publish.Options{Repository: testRepositoryConstant})

	require.True(testInstance, result.Skipped)
	require.NotEmpty(testInstance, result.SkipReason)
	require.Empty(testInstance, executor.commands)
}

func TestPublishSetsAuthenticatedRemoteExactlyOnce(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}
	service := newPublishService(testInstance, executor, nil)

	result := service.Publish(context.Background(), defaultTestOptions())

	require.False(testInstance, result.Skipped)
	require.True(testInstance, result.Succeeded())

	remoteCommands := executor.commandsWithSubcommand("remote")
	require.Len(testInstance, remoteCommands, 1)
	require.Equal(
		testInstance,
		[]string{"remote", "set-url", publish.DefaultRemoteName, testExpectedRemoteURLConstant},
		remoteCommands[0].Arguments,
	)
}

func TestPublishRunsFullSequenceInOrder(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}
	clock := fixedClock{instant: time.Date(2026, time.August, 23, 7, 30, 0, 0, time.UTC)}
	service := newPublishService(testInstance, executor, clock)

	result := service.Publish(context.Background(), defaultTestOptions())
	require.True(testInstance, result.Succeeded())

	// config user.name, config user.email, remote set-url, add, commit, push
	require.Len(testInstance, executor.commands, 6)
	require.Equal(testInstance, []string{"config", "user.name", publish.DefaultCommitUsername}, executor.commands[0].Arguments)
	require.Equal(testInstance, []string{"config", "user.email", publish.DefaultCommitEmail}, executor.commands[1].Arguments)
	require.Equal(testInstance, []string{"add", testArtifactPathConstant}, executor.commands[3].Arguments)
	require.Equal(testInstance, []string{"commit", "-m", testCommitTimestampExpectation}, executor.commands[4].Arguments)
	require.Equal(testInstance, []string{"push", publish.DefaultRemoteName, "HEAD:" + testBranchConstant}, executor.commands[5].Arguments)
}

func TestPublishUsesConfiguredIdentity(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}
	service := newPublishService(testInstance, executor, nil)

	options := defaultTestOptions()
	options.Username = testCustomUsernameConstant
	service.Publish(context.Background(), options)

	configCommands := executor.commandsWithSubcommand("config")
	require.Len(testInstance, configCommands, 2)
	require.Equal(testInstance, []string{"config", "user.name", testCustomUsernameConstant}, configCommands[0].Arguments)
}

func TestPublishSoftFailuresDoNotAbortSequence(testInstance *testing.T) {
	testCases := []struct {
		name              string
		failingSubcommand string
		expectedStep      publish.StepName
	}{
		{name: "missing_artifact", failingSubcommand: "add", expectedStep: publish.StepStageArtifact},
		{name: "nothing_to_commit", failingSubcommand: "commit", expectedStep: publish.StepCommit},
		{name: "push_rejected", failingSubcommand: "push", expectedStep: publish.StepPush},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &scriptedGitExecutor{
				failingSubcommands: map[string]error{testCase.failingSubcommand: errors.New("scripted failure")},
			}
			service := newPublishService(testInstance, executor, nil)

			result := service.Publish(context.Background(), defaultTestOptions())

			require.False(testInstance, result.Skipped)
			require.False(testInstance, result.Succeeded())
			require.Len(testInstance, result.Steps, 5)

			softFailures := result.SoftFailures()
			require.Len(testInstance, softFailures, 1)
			require.Equal(testInstance, testCase.expectedStep, softFailures[0].Step)
			require.Contains(testInstance, softFailures[0].Reason, "scripted failure")

			// The push step still executes after earlier soft failures.
			require.NotEmpty(testInstance, executor.commandsWithSubcommand("push"))
		})
	}
}

func TestPublishRecordsInvalidRepositoryAsSoftFailure(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}
	service := newPublishService(testInstance, executor, nil)

	options := defaultTestOptions()
	options.Repository = "not-a-repository"
	result := service.Publish(context.Background(), options)

	require.False(testInstance, result.Succeeded())
	softFailures := result.SoftFailures()
	require.Len(testInstance, softFailures, 1)
	require.Equal(testInstance, publish.StepSetRemote, softFailures[0].Step)

	require.Empty(testInstance, executor.commandsWithSubcommand("remote"))
	require.NotEmpty(testInstance, executor.commandsWithSubcommand("push"))
}

func TestPublishReportsCanonicalRemoteWithoutToken(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}
	output := &bytes.Buffer{}
	service, creationError := publish.NewService(publish.ServiceDependencies{GitExecutor: executor, Output: output})
	require.NoError(testInstance, creationError)

	result := service.Publish(context.Background(), defaultTestOptions())
	require.True(testInstance, result.Succeeded())

	require.Contains(testInstance, output.String(), "https://github.com/render-bot/scan-archive.git")
	require.NotContains(testInstance, output.String(), testTokenConstant)
}

func TestSanitizeAppliesDocumentedDefaults(testInstance *testing.T) {
	sanitized := publish.Options{Token: testTokenConstant, Repository: testRepositoryConstant}.Sanitize()

	require.Equal(testInstance, publish.DefaultCommitUsername, sanitized.Username)
	require.Equal(testInstance, publish.DefaultCommitEmail, sanitized.Email)
	require.Equal(testInstance, publish.DefaultBranch, sanitized.Branch)
	require.Equal(testInstance, publish.DefaultRemoteName, sanitized.RemoteName)
	require.Equal(testInstance, publish.DefaultArtifactPath, sanitized.ArtifactPath)
	require.True(testInstance, strings.HasPrefix(publish.DefaultCommitMessagePrefix, "Update"))
}
