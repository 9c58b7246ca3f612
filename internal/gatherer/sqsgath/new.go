package sqsgath

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// NewSqsResultQueueGatherer streams run events to an SQS queue for the CI
// matrix aggregator.
func NewSqsResultQueueGatherer(runUuid string, resultQueueUrl string) *sqsResQueueGatherer {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		panic(fmt.Sprintf("unable to load SDK config, %v", err))
	}

	return &sqsResQueueGatherer{
		sqsClient: sqs.NewFromConfig(cfg),
		queueUrl:  resultQueueUrl,
		runUuid:   runUuid,
	}
}
