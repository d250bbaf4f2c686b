package main

import (
	"context"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/daniloc96/canvas-xnat-sync/cmd"
	"github.com/daniloc96/canvas-xnat-sync/internal/canvas"
	"github.com/daniloc96/canvas-xnat-sync/internal/config"
	"github.com/daniloc96/canvas-xnat-sync/internal/console"
	store "github.com/daniloc96/canvas-xnat-sync/internal/dynamodb"
	"github.com/daniloc96/canvas-xnat-sync/internal/interfaces"
	"github.com/daniloc96/canvas-xnat-sync/internal/log"
	"github.com/daniloc96/canvas-xnat-sync/internal/metrics"
	"github.com/daniloc96/canvas-xnat-sync/internal/models"
	"github.com/daniloc96/canvas-xnat-sync/internal/secrets"
	"github.com/daniloc96/canvas-xnat-sync/internal/sync"
	"github.com/daniloc96/canvas-xnat-sync/internal/xnat"
	"github.com/sirupsen/logrus"
)

func main() {
	cmd.SetLambdaHandler(HandleRequest)
	cmd.SetRunSync(runSync)
	cmd.SetHistoryOpener(openHistory)
	cmd.Execute()
}

// HandleRequest is the AWS Lambda handler.
func HandleRequest(ctx context.Context, event models.LambdaEvent) (*models.LambdaResponse, error) {
	if event.Source != "" || event.DetailType != "" {
		if !isScheduledEvent(event) {
			return models.NewErrorResponse(fmt.Errorf("unsupported event source")), nil
		}
	}
	cfg, err := config.Load("")
	if err != nil {
		return models.NewErrorResponse(err), nil
	}

	cfg.Sync.DryRun = event.IsDryRun(cfg.Sync.DryRun)
	if err := config.Validate(cfg); err != nil {
		return models.NewErrorResponse(err), nil
	}
	// Lambda ships stdout to CloudWatch Logs; log.file is not used here.
	logger := log.NewLogger(cfg.Log.Level, cfg.Log.Format)
	logrus.SetFormatter(logger.Formatter)
	logrus.SetLevel(logger.Level)
	logrus.SetOutput(logger.Out)

	result, err := runSync(ctx, cfg)
	if err != nil {
		return models.NewErrorResponse(err), nil
	}

	return models.NewSuccessResponse(result), nil
}

func isScheduledEvent(event models.LambdaEvent) bool {
	return event.Source == "aws.events" && event.DetailType == "Scheduled Event"
}

var runSync = func(ctx context.Context, cfg *config.Config) (*models.RunResult, error) {
	resolver := secrets.NewResolver()

	canvasToken, err := resolver.Resolve(cfg.Canvas.Token, cfg.Canvas.TokenSecret)
	if err != nil {
		return nil, fmt.Errorf("canvas token: %w", err)
	}
	xnatPassword, err := resolver.Resolve(cfg.XNAT.Password, cfg.XNAT.PasswordSecret)
	if err != nil {
		return nil, fmt.Errorf("xnat password: %w", err)
	}

	canvasClient, err := canvas.NewClient(ctx, cfg.Canvas.URL, canvasToken, canvas.Options{
		PerPage:        cfg.Canvas.PerPage,
		EnrollmentType: cfg.Canvas.EnrollmentType,
		Timeout:        cfg.HTTP.Timeout,
		Retry:          cfg.Retry,
	})
	if err != nil {
		return nil, err
	}
	xnatClient, err := xnat.NewClient(cfg.XNAT.URL, cfg.XNAT.Username, xnatPassword, xnat.Options{
		Timeout: cfg.HTTP.Timeout,
		Retry:   cfg.Retry,
	})
	if err != nil {
		return nil, err
	}

	engine := sync.NewEngine(canvasClient, xnatClient, cfg)

	if cfg.History.Enabled {
		historyStore, storeErr := store.NewStore(ctx, cfg.History)
		if storeErr != nil {
			logrus.WithError(storeErr).Warn("⚠ DynamoDB store init failed, run history disabled")
		} else {
			engine.SetRecorder(historyStore)
			logrus.WithFields(logrus.Fields{
				"table":    cfg.History.TableName,
				"region":   cfg.History.Region,
				"ttl_days": cfg.History.TTLDays,
			}).Info("✅ Run history enabled (DynamoDB)")
		}
	}

	if cfg.Sync.ShowProgress && !cfg.IsLambda {
		progress := console.NewProgress(os.Stdout)
		defer progress.Stop()
		engine.SetProgress(progress)
	}

	result, err := engine.Run(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.Metrics.Enabled {
		emitMetrics(ctx, cfg.Metrics, result)
	}

	return result, nil
}

// emitMetrics publishes run metrics. Failures are logged and never fail the run.
func emitMetrics(ctx context.Context, cfg config.MetricsConfig, result *models.RunResult) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		logrus.WithError(err).Warn("⚠ Could not load AWS config for metrics")
		return
	}
	if err := metrics.NewEmitter(awsCfg, cfg.Namespace).EmitRun(ctx, result); err != nil {
		logrus.WithError(err).Warn("⚠ Could not publish CloudWatch metrics")
		return
	}
	logrus.WithField("namespace", cfg.Namespace).Debug("metrics published")
}

func openHistory(ctx context.Context, cfg *config.Config) (interfaces.RunHistory, error) {
	return store.NewStore(ctx, cfg.History)
}
