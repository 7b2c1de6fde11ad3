package scan

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/screenerbot/publisher/internal/execshell"
)

const (
	defaultScannerExecutableConstant   = "scanner"
	defaultMinimumTradedVolumeConstant = 500000.0
	defaultMinimumPriceConstant        = 0.01
	defaultResultLimitConstant         = 180
	defaultArtifactPathConstant        = "scan_results.csv"
	minimumVolumeFlagConstant          = "--min-vol"
	minimumPriceFlagConstant           = "--min-price"
	resultLimitFlagConstant            = "--limit"
	outputFlagConstant                 = "--out"
	executorNotConfiguredMessage       = "scanner executor not configured"
	scanFailedErrorTemplateConstant    = "scan step failed: %w"
	scanStartedLogMessageConstant      = "scan step started"
	scanCompletedLogMessageConstant    = "scan step completed"
	logFieldExecutableConstant         = "executable"
	logFieldArtifactPathConstant       = "artifact_path"
	floatFormatByteConstant            = 'f'
	floatPrecisionConstant             = -1
	floatBitSizeConstant               = 64
)

// ErrExecutorNotConfigured reports missing scanner execution wiring.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessage)

// Executor exposes the subset of shell execution used by the scan step.
type Executor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// Options configures a single scanner invocation.
type Options struct {
	Executable          string
	MinimumTradedVolume float64
	MinimumPrice        float64
	ResultLimit         int
	ArtifactPath        string
	WorkingDirectory    string
}

// DefaultOptions returns the fixed screening parameters used by scheduled runs.
func DefaultOptions() Options {
	return Options{
		Executable:          defaultScannerExecutableConstant,
		MinimumTradedVolume: defaultMinimumTradedVolumeConstant,
		MinimumPrice:        defaultMinimumPriceConstant,
		ResultLimit:         defaultResultLimitConstant,
		ArtifactPath:        defaultArtifactPathConstant,
	}
}

// Sanitize fills zero values with the scheduled-run defaults.
func (options Options) Sanitize() Options {
	defaults := DefaultOptions()
	if len(strings.TrimSpace(options.Executable)) == 0 {
		options.Executable = defaults.Executable
	}
	if options.MinimumTradedVolume == 0 {
		options.MinimumTradedVolume = defaults.MinimumTradedVolume
	}
	if options.MinimumPrice == 0 {
		options.MinimumPrice = defaults.MinimumPrice
	}
	if options.ResultLimit == 0 {
		options.ResultLimit = defaults.ResultLimit
	}
	if len(strings.TrimSpace(options.ArtifactPath)) == 0 {
		options.ArtifactPath = defaults.ArtifactPath
	}
	return options
}

// ServiceDependencies captures collaborators required by the scan service.
type ServiceDependencies struct {
	Executor Executor
	Logger   *zap.Logger
}

// Service runs the external scanner with fixed screening parameters.
type Service struct {
	executor Executor
	logger   *zap.Logger
}

// NewService validates dependencies and constructs a scan Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Executor == nil {
		return nil, ErrExecutorNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{executor: dependencies.Executor, logger: logger}, nil
}

// Scan invokes the scanner executable. Any failure is fatal to the run and returned verbatim.
func (service *Service) Scan(executionContext context.Context, options Options) error {
	sanitizedOptions := options.Sanitize()

	command := execshell.ShellCommand{
		Name: execshell.CommandName(sanitizedOptions.Executable),
		Details: execshell.CommandDetails{
			Arguments:        buildScannerArguments(sanitizedOptions),
			WorkingDirectory: sanitizedOptions.WorkingDirectory,
		},
	}

	service.logger.Info(
		scanStartedLogMessageConstant,
		zap.String(logFieldExecutableConstant, sanitizedOptions.Executable),
		zap.String(logFieldArtifactPathConstant, sanitizedOptions.ArtifactPath),
	)

	_, executionError := service.executor.Execute(executionContext, command)
	if executionError != nil {
		return fmt.Errorf(scanFailedErrorTemplateConstant, executionError)
	}

	service.logger.Info(
		scanCompletedLogMessageConstant,
		zap.String(logFieldArtifactPathConstant, sanitizedOptions.ArtifactPath),
	)

	return nil
}

func buildScannerArguments(options Options) []string {
	return []string{
		minimumVolumeFlagConstant, strconv.FormatFloat(options.MinimumTradedVolume, floatFormatByteConstant, floatPrecisionConstant, floatBitSizeConstant),
		minimumPriceFlagConstant, strconv.FormatFloat(options.MinimumPrice, floatFormatByteConstant, floatPrecisionConstant, floatBitSizeConstant),
		resultLimitFlagConstant, strconv.Itoa(options.ResultLimit),
		outputFlagConstant, options.ArtifactPath,
	}
}
