package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/screenerbot/publisher/internal/execshell"
)

const (
	telegramAPIBaseURLConstant           = "https://api.telegram.org"
	sendDocumentEndpointTemplateConstant = "%s/bot%s/sendDocument"
	sendMessageEndpointTemplateConstant  = "%s/bot%s/sendMessage"
	curlFailSilentlyFlagConstant         = "-fsS"
	curlRequestFlagConstant              = "-X"
	curlPostMethodConstant               = "POST"
	curlFormFlagConstant                 = "-F"
	curlGetFlagConstant                  = "-G"
	curlDataURLEncodeFlagConstant        = "--data-urlencode"
	chatIdentifierFormTemplateConstant   = "chat_id=%s"
	captionFormTemplateConstant          = "caption=%s"
	parseModeFormConstant                = "parse_mode=HTML"
	documentFormTemplateConstant         = "document=@%s"
	messageTextTemplateConstant          = "text=%s"
	executorNotConfiguredMessage         = "curl executor not configured"
	notifierNotConfiguredMessage         = "telegram notifier not configured"
	sendFailedErrorTemplateConstant      = "telegram delivery failed: %w"
	documentSentLogMessageConstant       = "telegram document sent"
	messageSentLogMessageConstant        = "telegram message sent"
	logFieldDocumentConstant             = "document"
)

// Sentinel errors for notifier wiring and configuration.
var (
	ErrCurlExecutorNotConfigured = errors.New(executorNotConfiguredMessage)
	ErrNotifierNotConfigured     = errors.New(notifierNotConfiguredMessage)
)

// CurlExecutor exposes the subset of shell execution used for Telegram delivery.
type CurlExecutor interface {
	ExecuteCurl(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Configuration carries the Telegram credentials gating notification delivery.
type Configuration struct {
	BotToken string
	ChatID   string
}

// Enabled reports whether both credentials required for delivery are present.
func (configuration Configuration) Enabled() bool {
	return len(strings.TrimSpace(configuration.BotToken)) > 0 && len(strings.TrimSpace(configuration.ChatID)) > 0
}

// TelegramNotifier sends documents and messages to a configured chat.
type TelegramNotifier struct {
	configuration Configuration
	curlExecutor  CurlExecutor
	logger        *zap.Logger
}

// NewTelegramNotifier validates dependencies and constructs a TelegramNotifier.
func NewTelegramNotifier(configuration Configuration, curlExecutor CurlExecutor, logger *zap.Logger) (*TelegramNotifier, error) {
	if curlExecutor == nil {
		return nil, ErrCurlExecutorNotConfigured
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &TelegramNotifier{configuration: configuration, curlExecutor: curlExecutor, logger: logger}, nil
}

// SendDocument uploads the file at documentPath to the configured chat with the provided caption.
func (notifier *TelegramNotifier) SendDocument(executionContext context.Context, documentPath string, caption string) error {
	if !notifier.configuration.Enabled() {
		return ErrNotifierNotConfigured
	}

	endpoint := fmt.Sprintf(sendDocumentEndpointTemplateConstant, telegramAPIBaseURLConstant, notifier.configuration.BotToken)
	arguments := []string{
		curlFailSilentlyFlagConstant,
		curlRequestFlagConstant, curlPostMethodConstant,
		curlFormFlagConstant, fmt.Sprintf(chatIdentifierFormTemplateConstant, notifier.configuration.ChatID),
		curlFormFlagConstant, fmt.Sprintf(captionFormTemplateConstant, caption),
		curlFormFlagConstant, parseModeFormConstant,
		curlFormFlagConstant, fmt.Sprintf(documentFormTemplateConstant, documentPath),
		endpoint,
	}

	if _, executionError := notifier.curlExecutor.ExecuteCurl(executionContext, execshell.CommandDetails{Arguments: arguments}); executionError != nil {
		return fmt.Errorf(sendFailedErrorTemplateConstant, executionError)
	}

	notifier.logger.Info(documentSentLogMessageConstant, zap.String(logFieldDocumentConstant, documentPath))
	return nil
}

// SendMessage delivers a plain text message to the configured chat.
func (notifier *TelegramNotifier) SendMessage(executionContext context.Context, text string) error {
	if !notifier.configuration.Enabled() {
		return ErrNotifierNotConfigured
	}

	endpoint := fmt.Sprintf(sendMessageEndpointTemplateConstant, telegramAPIBaseURLConstant, notifier.configuration.BotToken)
	arguments := []string{
		curlFailSilentlyFlagConstant,
		curlGetFlagConstant,
		curlDataURLEncodeFlagConstant, fmt.Sprintf(chatIdentifierFormTemplateConstant, notifier.configuration.ChatID),
		curlDataURLEncodeFlagConstant, fmt.Sprintf(messageTextTemplateConstant, text),
		endpoint,
	}

	if _, executionError := notifier.curlExecutor.ExecuteCurl(executionContext, execshell.CommandDetails{Arguments: arguments}); executionError != nil {
		return fmt.Errorf(sendFailedErrorTemplateConstant, executionError)
	}

	notifier.logger.Info(messageSentLogMessageConstant)
	return nil
}
