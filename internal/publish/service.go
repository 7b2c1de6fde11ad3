package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/screenerbot/publisher/internal/execshell"
	"github.com/screenerbot/publisher/internal/gitrepo"
)

const (
	gitConfigSubcommandConstant        = "config"
	gitUserNameConfigKeyConstant       = "user.name"
	gitUserEmailConfigKeyConstant      = "user.email"
	gitRemoteSubcommandConstant        = "remote"
	gitRemoteSetURLSubcommandConstant  = "set-url"
	gitAddSubcommandConstant           = "add"
	gitCommitSubcommandConstant        = "commit"
	gitCommitMessageFlagConstant       = "-m"
	gitPushSubcommandConstant          = "push"
	pushReferenceTemplateConstant      = "HEAD:%s"
	commitMessageTemplateConstant      = "%s %s"
	commitTimestampLayoutConstant      = "2006-01-02T15:04:05Z"
	executorNotConfiguredMessage       = "git executor not configured"
	publishSkippedLogMessageConstant   = "publish skipped"
	publishFinishedLogMessageConstant  = "publish sequence finished"
	stepSoftFailureLogMessageConstant  = "publish step soft failure"
	logFieldStepConstant               = "step"
	logFieldReasonConstant             = "reason"
	logFieldBranchConstant             = "branch"
	logFieldRepositoryConstant         = "repository"
	logFieldSoftFailureCountConstant   = "soft_failure_count"
	skipReasonTokenAbsentConstant      = "publish token absent; publishing opted out"
	skippedOutputTemplateConstant      = "PUBLISH-SKIP: %s\n"
	stepFailedOutputTemplateConstant   = "PUBLISH-SOFT-FAIL: %s (%s)\n"
	publishedOutputTemplateConstant    = "PUBLISH-DONE: %s -> %s\n"
)

// ErrGitExecutorNotConfigured reports missing git execution wiring.
var ErrGitExecutorNotConfigured = errors.New(executorNotConfiguredMessage)

// GitExecutor exposes the subset of shell execution used by the publish sequence.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Clock abstracts time acquisition for deterministic commit messages.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time source.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// StepName identifies a sub-step of the publish sequence.
type StepName string

// Publish sequence sub-steps, in execution order.
const (
	StepConfigureIdentity StepName = "configure_identity"
	StepSetRemote         StepName = "set_remote"
	StepStageArtifact     StepName = "stage_artifact"
	StepCommit            StepName = "commit"
	StepPush              StepName = "push"
)

// StepStatus describes the outcome of a publish sub-step.
type StepStatus string

// Possible sub-step outcomes.
const (
	StepStatusOk          StepStatus = "ok"
	StepStatusSoftFailure StepStatus = "soft_failure"
)

// StepOutcome records the result of one publish sub-step.
type StepOutcome struct {
	Step   StepName
	Status StepStatus
	Reason string
}

// Result summarizes a publish attempt.
type Result struct {
	Skipped    bool
	SkipReason string
	Steps      []StepOutcome
}

// Succeeded reports whether the sequence ran with every sub-step succeeding.
func (result Result) Succeeded() bool {
	if result.Skipped {
		return false
	}
	for _, outcome := range result.Steps {
		if outcome.Status != StepStatusOk {
			return false
		}
	}
	return true
}

// SoftFailures returns the outcomes of sub-steps that failed.
func (result Result) SoftFailures() []StepOutcome {
	failures := []StepOutcome{}
	for _, outcome := range result.Steps {
		if outcome.Status == StepStatusSoftFailure {
			failures = append(failures, outcome)
		}
	}
	return failures
}

// ServiceDependencies captures collaborators required by the publish service.
type ServiceDependencies struct {
	GitExecutor GitExecutor
	Clock       Clock
	Logger      *zap.Logger
	Output      io.Writer
}

// Service executes the publish sequence against a git working directory.
type Service struct {
	gitExecutor GitExecutor
	clock       Clock
	logger      *zap.Logger
	output      io.Writer
}

// NewService validates dependencies and constructs a publish Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}

	clock := dependencies.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		gitExecutor: dependencies.GitExecutor,
		clock:       clock,
		logger:      logger,
		output:      dependencies.Output,
	}, nil
}

// Publish runs the publish sequence. It never returns an error: when
// publishing is not configured the result is marked skipped, and individual
// sub-step failures are recorded as soft failures by design.
func (service *Service) Publish(executionContext context.Context, options Options) Result {
	sanitizedOptions := options.Sanitize()

	if !sanitizedOptions.PublishingEnabled() {
		service.logger.Info(publishSkippedLogMessageConstant, zap.String(logFieldReasonConstant, skipReasonTokenAbsentConstant))
		service.printfOutput(skippedOutputTemplateConstant, skipReasonTokenAbsentConstant)
		return Result{Skipped: true, SkipReason: skipReasonTokenAbsentConstant}
	}

	result := Result{}
	result.Steps = append(result.Steps, service.configureIdentity(executionContext, sanitizedOptions))
	result.Steps = append(result.Steps, service.setRemote(executionContext, sanitizedOptions))
	result.Steps = append(result.Steps, service.stageArtifact(executionContext, sanitizedOptions))
	result.Steps = append(result.Steps, service.commit(executionContext, sanitizedOptions))
	result.Steps = append(result.Steps, service.push(executionContext, sanitizedOptions))

	service.logger.Info(
		publishFinishedLogMessageConstant,
		zap.String(logFieldRepositoryConstant, sanitizedOptions.Repository),
		zap.String(logFieldBranchConstant, sanitizedOptions.Branch),
		zap.Int(logFieldSoftFailureCountConstant, len(result.SoftFailures())),
	)
	if result.Succeeded() {
		// Parse cannot fail here: the set_remote step already validated the identifier.
		ownerRepository, _ := gitrepo.ParseOwnerRepository(sanitizedOptions.Repository)
		service.printfOutput(publishedOutputTemplateConstant, sanitizedOptions.ArtifactPath, ownerRepository.RemoteURL())
	}

	return result
}

func (service *Service) configureIdentity(executionContext context.Context, options Options) StepOutcome {
	identityAssignments := [][]string{
		{gitConfigSubcommandConstant, gitUserNameConfigKeyConstant, options.Username},
		{gitConfigSubcommandConstant, gitUserEmailConfigKeyConstant, options.Email},
	}

	for _, arguments := range identityAssignments {
		if outcome, failed := service.runGitStep(executionContext, StepConfigureIdentity, options.WorkingDirectory, arguments); failed {
			return outcome
		}
	}

	return StepOutcome{Step: StepConfigureIdentity, Status: StepStatusOk}
}

func (service *Service) setRemote(executionContext context.Context, options Options) StepOutcome {
	ownerRepository, parseError := gitrepo.ParseOwnerRepository(options.Repository)
	if parseError != nil {
		return service.recordSoftFailure(StepSetRemote, parseError.Error())
	}

	arguments := []string{
		gitRemoteSubcommandConstant,
		gitRemoteSetURLSubcommandConstant,
		options.RemoteName,
		ownerRepository.AuthenticatedRemoteURL(options.Token),
	}
	if outcome, failed := service.runGitStep(executionContext, StepSetRemote, options.WorkingDirectory, arguments); failed {
		return outcome
	}

	return StepOutcome{Step: StepSetRemote, Status: StepStatusOk}
}

func (service *Service) stageArtifact(executionContext context.Context, options Options) StepOutcome {
	arguments := []string{gitAddSubcommandConstant, options.ArtifactPath}
	if outcome, failed := service.runGitStep(executionContext, StepStageArtifact, options.WorkingDirectory, arguments); failed {
		return outcome
	}

	return StepOutcome{Step: StepStageArtifact, Status: StepStatusOk}
}

func (service *Service) commit(executionContext context.Context, options Options) StepOutcome {
	commitTimestamp := service.clock.Now().UTC().Format(commitTimestampLayoutConstant)
	commitMessage := fmt.Sprintf(commitMessageTemplateConstant, options.CommitMessagePrefix, commitTimestamp)

	arguments := []string{gitCommitSubcommandConstant, gitCommitMessageFlagConstant, commitMessage}
	if outcome, failed := service.runGitStep(executionContext, StepCommit, options.WorkingDirectory, arguments); failed {
		return outcome
	}

	return StepOutcome{Step: StepCommit, Status: StepStatusOk}
}

func (service *Service) push(executionContext context.Context, options Options) StepOutcome {
	arguments := []string{
		gitPushSubcommandConstant,
		options.RemoteName,
		fmt.Sprintf(pushReferenceTemplateConstant, options.Branch),
	}
	if outcome, failed := service.runGitStep(executionContext, StepPush, options.WorkingDirectory, arguments); failed {
		return outcome
	}

	return StepOutcome{Step: StepPush, Status: StepStatusOk}
}

func (service *Service) runGitStep(executionContext context.Context, step StepName, workingDirectory string, arguments []string) (StepOutcome, bool) {
	details := execshell.CommandDetails{Arguments: arguments, WorkingDirectory: workingDirectory}
	if _, executionError := service.gitExecutor.ExecuteGit(executionContext, details); executionError != nil {
		return service.recordSoftFailure(step, executionError.Error()), true
	}
	return StepOutcome{}, false
}

func (service *Service) recordSoftFailure(step StepName, reason string) StepOutcome {
	service.logger.Warn(
		stepSoftFailureLogMessageConstant,
		zap.String(logFieldStepConstant, string(step)),
		zap.String(logFieldReasonConstant, reason),
	)
	service.printfOutput(stepFailedOutputTemplateConstant, string(step), reason)
	return StepOutcome{Step: step, Status: StepStatusSoftFailure, Reason: reason}
}

func (service *Service) printfOutput(format string, arguments ...any) {
	if service.output == nil {
		return
	}
	fmt.Fprintf(service.output, format, arguments...)
}
