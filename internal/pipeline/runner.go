package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/utilkit/internal/execshell"
)

const (
	loggerNotConfiguredMessageConstant          = "pipeline runner logger not configured"
	executorFactoryNotConfiguredMessageConstant = "pipeline runner executor factory not configured"
	stepFailedTemplateConstant                  = "step %s: %w"
	stepStartedMessageConstant                  = "pipeline step starting"
	stepToleratedMessageConstant                = "pipeline step failed; continuing"
	pipelineCompletedMessageConstant            = "pipeline completed"
	logFieldStepConstant                        = "step"
	logFieldStepIndexConstant                   = "step_index"
	logFieldStepCountConstant                   = "steps"
	logFieldFailedStepsConstant                 = "failed_steps"
)

// ErrLoggerNotConfigured indicates NewRunner received a nil logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrExecutorFactoryNotConfigured indicates NewRunner received a nil executor factory.
var ErrExecutorFactoryNotConfigured = errors.New(executorFactoryNotConfiguredMessageConstant)

// StepExecutor runs a single command.
type StepExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// ExecutorFactory creates an executor configured for the requested verbosity.
type ExecutorFactory func(verbose bool) (StepExecutor, error)

// StepOutcome records how a step finished.
type StepOutcome struct {
	Name   string
	Result execshell.ExecutionResult
	Failed bool
}

// Runner executes step plans sequentially.
type Runner struct {
	logger          *zap.Logger
	executorFactory ExecutorFactory
}

// NewRunner validates dependencies and constructs a Runner.
func NewRunner(logger *zap.Logger, executorFactory ExecutorFactory) (*Runner, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if executorFactory == nil {
		return nil, ErrExecutorFactoryNotConfigured
	}
	return &Runner{logger: logger, executorFactory: executorFactory}, nil
}

// Run executes the plans in order. A step that exits non-zero stops the run unless it does not
// require success, in which case it is recorded as failed and the run continues. Spawn failures
// always stop the run.
func (runner *Runner) Run(executionContext context.Context, plans []StepPlan) ([]StepOutcome, error) {
	outcomes := make([]StepOutcome, 0, len(plans))
	failedSteps := 0
	for stepIndex, plan := range plans {
		runner.logger.Debug(stepStartedMessageConstant,
			zap.String(logFieldStepConstant, plan.Name),
			zap.Int(logFieldStepIndexConstant, stepIndex+1),
		)

		executor, executorError := runner.executorFactory(plan.Verbose)
		if executorError != nil {
			return outcomes, fmt.Errorf(stepFailedTemplateConstant, plan.Name, executorError)
		}

		result, executionError := executor.Execute(executionContext, plan.Command)
		outcome := StepOutcome{Name: plan.Name, Result: result, Failed: executionError != nil}
		outcomes = append(outcomes, outcome)
		if executionError == nil {
			continue
		}

		var commandFailure execshell.CommandFailedError
		if errors.As(executionError, &commandFailure) && !plan.RequireSuccess {
			failedSteps++
			runner.logger.Warn(stepToleratedMessageConstant,
				zap.String(logFieldStepConstant, plan.Name),
				zap.Error(executionError),
			)
			continue
		}
		return outcomes, fmt.Errorf(stepFailedTemplateConstant, plan.Name, executionError)
	}

	runner.logger.Info(pipelineCompletedMessageConstant,
		zap.Int(logFieldStepCountConstant, len(plans)),
		zap.Int(logFieldFailedStepsConstant, failedSteps),
	)
	return outcomes, nil
}
