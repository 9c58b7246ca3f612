package gatherer

import (
	"time"

	"github.com/agent-samples/harness/api"
)

// RunGatherer receives stage events while a sample is being validated.
// Implementations stream them to a terminal, an SQS queue or a NATS
// subject for the CI matrix to aggregate.
type RunGatherer interface {
	StartRun(sample api.SampleDescriptor)
	ResolveProfile(variant string, language string)

	StartInstall()
	StartBuild()
	FinishBuild(output string, wall time.Duration)

	StartServer(name string, startupTimeout time.Duration)
	ServerReady(elapsed time.Duration)

	StartRequest(testInput string)

	FinishRun(result api.TestResult)
}

// Multi fans events out to several gatherers in order.
func Multi(gs ...RunGatherer) RunGatherer {
	return multiGatherer(gs)
}

type multiGatherer []RunGatherer

func (m multiGatherer) StartRun(sample api.SampleDescriptor) {
	for _, g := range m {
		g.StartRun(sample)
	}
}

func (m multiGatherer) ResolveProfile(variant string, language string) {
	for _, g := range m {
		g.ResolveProfile(variant, language)
	}
}

func (m multiGatherer) StartInstall() {
	for _, g := range m {
		g.StartInstall()
	}
}

func (m multiGatherer) StartBuild() {
	for _, g := range m {
		g.StartBuild()
	}
}

func (m multiGatherer) FinishBuild(output string, wall time.Duration) {
	for _, g := range m {
		g.FinishBuild(output, wall)
	}
}

func (m multiGatherer) StartServer(name string, startupTimeout time.Duration) {
	for _, g := range m {
		g.StartServer(name, startupTimeout)
	}
}

func (m multiGatherer) ServerReady(elapsed time.Duration) {
	for _, g := range m {
		g.ServerReady(elapsed)
	}
}

func (m multiGatherer) StartRequest(testInput string) {
	for _, g := range m {
		g.StartRequest(testInput)
	}
}

func (m multiGatherer) FinishRun(result api.TestResult) {
	for _, g := range m {
		g.FinishRun(result)
	}
}
