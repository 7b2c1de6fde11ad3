package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/screenerbot/publisher/internal/execshell"
	"github.com/screenerbot/publisher/internal/notify"
	"github.com/screenerbot/publisher/internal/pipeline"
	"github.com/screenerbot/publisher/internal/publish"
	"github.com/screenerbot/publisher/internal/scan"
	"github.com/screenerbot/publisher/internal/server"
	"github.com/screenerbot/publisher/internal/ui"
	"github.com/screenerbot/publisher/internal/utils"
)

const (
	runCommandUseConstant                  = "run"
	runCommandShortDescriptionConstant     = "Run the scan once, publish the artifact, and send notifications"
	publishCommandUseConstant              = "publish"
	publishCommandShortDescriptionConstant = "Publish an existing artifact without running the scan"
	serveCommandUseConstant                = "serve"
	serveCommandShortDescriptionConstant   = "Serve the HTTP trigger and run the workflow on demand"
	executorWiringErrorTemplateConstant    = "unable to wire command executor: %w"
	scanWiringErrorTemplateConstant        = "unable to wire scan service: %w"
	publishWiringErrorTemplateConstant     = "unable to wire publish service: %w"
	notifyWiringErrorTemplateConstant      = "unable to wire notifier: %w"
	runnerWiringErrorTemplateConstant      = "unable to wire pipeline runner: %w"
	serverWiringErrorTemplateConstant      = "unable to wire trigger server: %w"
)

func (application *Application) buildRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   runCommandUseConstant,
		Short: runCommandShortDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			runner, runnerOptions, wiringError := application.buildPipelineRunner(command)
			if wiringError != nil {
				return wiringError
			}
			return runner.Run(command.Context(), runnerOptions)
		},
	}
}

func (application *Application) buildPublishCommand() *cobra.Command {
	return &cobra.Command{
		Use:   publishCommandUseConstant,
		Short: publishCommandShortDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			shellExecutor, executorError := application.buildShellExecutor()
			if executorError != nil {
				return fmt.Errorf(executorWiringErrorTemplateConstant, executorError)
			}

			publishService, publishError := application.buildPublishService(command, shellExecutor)
			if publishError != nil {
				return fmt.Errorf(publishWiringErrorTemplateConstant, publishError)
			}

			publishService.Publish(command.Context(), application.configuration.Publish.toOptions())
			return nil
		},
	}
}

func (application *Application) buildServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   serveCommandUseConstant,
		Short: serveCommandShortDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			runner, runnerOptions, wiringError := application.buildPipelineRunner(command)
			if wiringError != nil {
				return wiringError
			}

			triggerServer, serverError := server.NewServer(
				application.configuration.Server,
				pipelineRunAdapter{runner: runner, options: runnerOptions},
				nil,
				application.logger,
			)
			if serverError != nil {
				return fmt.Errorf(serverWiringErrorTemplateConstant, serverError)
			}

			signalContext, stopSignals := signal.NotifyContext(command.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stopSignals()

			return triggerServer.ListenAndServe(signalContext)
		},
	}
}

// pipelineRunAdapter binds a configured option set to the trigger server's run contract.
type pipelineRunAdapter struct {
	runner  *pipeline.Runner
	options pipeline.Options
}

func (adapter pipelineRunAdapter) Run(executionContext context.Context) error {
	return adapter.runner.Run(executionContext, adapter.options)
}

func (application *Application) buildPipelineRunner(command *cobra.Command) (*pipeline.Runner, pipeline.Options, error) {
	shellExecutor, executorError := application.buildShellExecutor()
	if executorError != nil {
		return nil, pipeline.Options{}, fmt.Errorf(executorWiringErrorTemplateConstant, executorError)
	}

	scanService, scanError := scan.NewService(scan.ServiceDependencies{
		Executor: shellExecutor,
		Logger:   application.logger,
	})
	if scanError != nil {
		return nil, pipeline.Options{}, fmt.Errorf(scanWiringErrorTemplateConstant, scanError)
	}

	publishService, publishError := application.buildPublishService(command, shellExecutor)
	if publishError != nil {
		return nil, pipeline.Options{}, fmt.Errorf(publishWiringErrorTemplateConstant, publishError)
	}

	notifier, notifierError := application.buildNotifier(shellExecutor)
	if notifierError != nil {
		return nil, pipeline.Options{}, fmt.Errorf(notifyWiringErrorTemplateConstant, notifierError)
	}

	runner, runnerError := pipeline.NewRunner(pipeline.Dependencies{
		Scanner:   scanService,
		Publisher: publishService,
		Notifier:  notifier,
		Logger:    application.logger,
	})
	if runnerError != nil {
		return nil, pipeline.Options{}, fmt.Errorf(runnerWiringErrorTemplateConstant, runnerError)
	}

	runnerOptions := pipeline.Options{
		Scan:    application.configuration.Scan.toOptions(),
		Publish: application.configuration.Publish.toOptions(),
	}

	return runner, runnerOptions, nil
}

func (application *Application) buildShellExecutor() (*execshell.ShellExecutor, error) {
	shellExecutor, creationError := execshell.NewShellExecutor(application.logger, execshell.NewOSCommandRunner())
	if creationError != nil {
		return nil, creationError
	}

	if application.humanReadableLoggingEnabled() {
		shellExecutor.SetCommandEventObserver(ui.NewConsoleCommandEventLogger(application.logger))
	}

	return shellExecutor, nil
}

func (application *Application) buildPublishService(command *cobra.Command, shellExecutor *execshell.ShellExecutor) (*publish.Service, error) {
	return publish.NewService(publish.ServiceDependencies{
		GitExecutor: shellExecutor,
		Logger:      application.logger,
		Output:      utils.NewFlushingWriter(command.OutOrStdout()),
	})
}

// buildNotifier returns a nil pipeline.Notifier when Telegram credentials are absent;
// the runner treats the missing notifier as a configured skip.
func (application *Application) buildNotifier(shellExecutor *execshell.ShellExecutor) (pipeline.Notifier, error) {
	notifyConfiguration := application.configuration.Notify.toNotifyConfiguration()
	if !notifyConfiguration.Enabled() {
		return nil, nil
	}

	return notify.NewTelegramNotifier(notifyConfiguration, shellExecutor, application.logger)
}
