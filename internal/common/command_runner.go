package common

import (
	"context"
	"time"

	"resumeqa/internal/errors"
	"resumeqa/internal/types"
)

// OperationFunc produces the result a command prints.
type OperationFunc[Output any] func(ctx context.Context) (Output, error)

// RunCommand validates the output target, runs operation and writes its
// result in the configured format. Token usage of answers is logged.
func RunCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	name string,
	operation OperationFunc[Output],
) error {
	outputHandler := NewOutputHandler(logger)

	// Fail before the operation, which may call a paid API
	if err := outputHandler.fileProcessor.ValidateOutputFile(cmdConfig.OutputFile); err != nil {
		return err
	}

	logger.Debug("Starting command", "command", name, "output_format", cmdConfig.OutputFormat)
	start := time.Now()

	result, err := operation(ctx)
	if err != nil {
		return err
	}

	if answer, ok := any(result).(*types.Answer); ok && answer.TokenUsage != nil {
		logger.Info("AI token usage",
			"model", answer.Model,
			"input_tokens", answer.TokenUsage.PromptTokens,
			"output_tokens", answer.TokenUsage.CompletionTokens,
			"total_tokens", answer.TokenUsage.TotalTokens)
	}
	logger.Debug("Command completed", "command", name, "duration", time.Since(start))

	return outputHandler.HandleOutput(result, cmdConfig)
}
