package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/screenerbot/publisher/internal/publish"
	"github.com/screenerbot/publisher/internal/scan"
)

const (
	scannerNotConfiguredMessage        = "scan service not configured"
	publisherNotConfiguredMessage      = "publish service not configured"
	runFailedErrorTemplateConstant     = "run aborted: %w"
	captionTemplateConstant            = "Weekly screener results (UTC %s)"
	emptyResultMessageTemplateConstant = "No symbols matched the screener today (UTC %s)"
	captionTimestampLayoutConstant     = "2006-01-02 15:04"
	notifySkippedLogMessageConstant    = "notification skipped"
	notifyFailedLogMessageConstant     = "notification delivery failed"
	runCompletedLogMessageConstant     = "run completed"
	logFieldPublishSkippedConstant     = "publish_skipped"
	logFieldSoftFailuresConstant       = "publish_soft_failures"
	notifierAbsentReasonConstant       = "notifier not configured"
)

// Errors reported when runner wiring is incomplete.
var (
	ErrScannerNotConfigured   = errors.New(scannerNotConfiguredMessage)
	ErrPublisherNotConfigured = errors.New(publisherNotConfiguredMessage)
)

// Scanner runs the external scan step.
type Scanner interface {
	Scan(executionContext context.Context, options scan.Options) error
}

// Publisher runs the best-effort git publish sequence.
type Publisher interface {
	Publish(executionContext context.Context, options publish.Options) publish.Result
}

// Notifier delivers best-effort notifications about a completed run.
type Notifier interface {
	SendDocument(executionContext context.Context, documentPath string, caption string) error
	SendMessage(executionContext context.Context, text string) error
}

// FileSystem exposes the filesystem operation needed to detect the artifact.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
}

// OSFileSystem implements FileSystem using the operating system.
type OSFileSystem struct{}

// Stat delegates to os.Stat.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Clock abstracts time acquisition for deterministic notification text.
type Clock interface {
	Now() time.Time
}

// Options aggregates the per-stage configuration of a run.
type Options struct {
	Scan    scan.Options
	Publish publish.Options
}

// Dependencies captures the collaborators composed by the runner.
type Dependencies struct {
	Scanner    Scanner
	Publisher  Publisher
	Notifier   Notifier
	FileSystem FileSystem
	Clock      Clock
	Logger     *zap.Logger
}

// Runner executes the scheduled export-and-publish workflow.
type Runner struct {
	scanner    Scanner
	publisher  Publisher
	notifier   Notifier
	fileSystem FileSystem
	clock      Clock
	logger     *zap.Logger
}

// NewRunner validates dependencies and constructs a Runner.
func NewRunner(dependencies Dependencies) (*Runner, error) {
	if dependencies.Scanner == nil {
		return nil, ErrScannerNotConfigured
	}
	if dependencies.Publisher == nil {
		return nil, ErrPublisherNotConfigured
	}

	fileSystem := dependencies.FileSystem
	if fileSystem == nil {
		fileSystem = OSFileSystem{}
	}

	clock := dependencies.Clock
	if clock == nil {
		clock = publish.SystemClock{}
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{
		scanner:    dependencies.Scanner,
		publisher:  dependencies.Publisher,
		notifier:   dependencies.Notifier,
		fileSystem: fileSystem,
		clock:      clock,
		logger:     logger,
	}, nil
}

// Run executes the workflow. Only a scan failure produces an error; the
// publish and notification stages are best-effort by design.
func (runner *Runner) Run(executionContext context.Context, options Options) error {
	if scanError := runner.scanner.Scan(executionContext, options.Scan); scanError != nil {
		return fmt.Errorf(runFailedErrorTemplateConstant, scanError)
	}

	publishResult := runner.publisher.Publish(executionContext, options.Publish)

	runner.notify(executionContext, options)

	runner.logger.Info(
		runCompletedLogMessageConstant,
		zap.Bool(logFieldPublishSkippedConstant, publishResult.Skipped),
		zap.Int(logFieldSoftFailuresConstant, len(publishResult.SoftFailures())),
	)

	return nil
}

func (runner *Runner) notify(executionContext context.Context, options Options) {
	if runner.notifier == nil {
		runner.logger.Debug(notifySkippedLogMessageConstant, zap.String("reason", notifierAbsentReasonConstant))
		return
	}

	timestamp := runner.clock.Now().UTC().Format(captionTimestampLayoutConstant)
	artifactPath := runner.artifactPath(options)

	if _, statError := runner.fileSystem.Stat(artifactPath); statError != nil {
		message := fmt.Sprintf(emptyResultMessageTemplateConstant, timestamp)
		if sendError := runner.notifier.SendMessage(executionContext, message); sendError != nil {
			runner.logger.Warn(notifyFailedLogMessageConstant, zap.Error(sendError))
		}
		return
	}

	caption := fmt.Sprintf(captionTemplateConstant, timestamp)
	if sendError := runner.notifier.SendDocument(executionContext, artifactPath, caption); sendError != nil {
		runner.logger.Warn(notifyFailedLogMessageConstant, zap.Error(sendError))
	}
}

func (runner *Runner) artifactPath(options Options) string {
	artifactPath := strings.TrimSpace(options.Publish.ArtifactPath)
	if len(artifactPath) == 0 {
		artifactPath = publish.DefaultArtifactPath
	}

	workingDirectory := strings.TrimSpace(options.Publish.WorkingDirectory)
	if len(workingDirectory) == 0 || filepath.IsAbs(artifactPath) {
		return artifactPath
	}
	return filepath.Join(workingDirectory, artifactPath)
}
