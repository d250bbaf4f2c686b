package metrics

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/daniloc96/canvas-xnat-sync/internal/models"
)

// CloudWatchAPI defines the CloudWatch client interface used for metrics.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Emitter sends run metrics to CloudWatch.
type Emitter struct {
	client    CloudWatchAPI
	namespace string
}

// NewEmitter creates a CloudWatch metrics emitter.
func NewEmitter(cfg aws.Config, namespace string) *Emitter {
	return &Emitter{
		client:    cloudwatch.NewFromConfig(cfg),
		namespace: namespace,
	}
}

// EmitRun publishes the counters of a completed run to CloudWatch.
// Dry runs are tagged so dashboards can filter them out.
func (e *Emitter) EmitRun(ctx context.Context, result *models.RunResult) error {
	mode := "live"
	if result.DryRun {
		mode = "dry-run"
	}
	dims := []types.Dimension{{Name: aws.String("Mode"), Value: aws.String(mode)}}

	metrics := []types.MetricDatum{
		metricDatum("Processed", result.Counters.Processed, dims),
		metricDatum("Verified", result.Counters.Verified, dims),
		metricDatum("Enabled", result.Counters.Enabled, dims),
		metricDatum("AddedToProject", result.Counters.AddedToProject, dims),
		metricDatum("ProjectsCreated", result.Summary.ProjectsCreated, dims),
		metricDatum("ActionsFailed", result.Summary.ActionsFailed, dims),
		metricDatum("Errors", len(result.Errors), dims),
		{
			MetricName: aws.String("Duration"),
			Unit:       types.StandardUnitMilliseconds,
			Value:      aws.Float64(float64(result.DurationMs)),
			Dimensions: dims,
		},
	}

	_, err := e.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(e.namespace),
		MetricData: metrics,
	})
	return err
}

func metricDatum(name string, value int, dims []types.Dimension) types.MetricDatum {
	return types.MetricDatum{
		MetricName: aws.String(name),
		Unit:       types.StandardUnitCount,
		Value:      aws.Float64(float64(value)),
		Dimensions: dims,
	}
}
