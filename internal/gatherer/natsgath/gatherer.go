package natsgath

import (
	"time"

	"github.com/agent-samples/harness/api"
	"github.com/agent-samples/harness/internal/gatherer"
	"github.com/nats-io/nats.go"
)

type natsGatherer struct {
	nc      *nats.Conn
	subject string
	runUuid string
}

func (s *natsGatherer) StartRun(sample api.SampleDescriptor) {
	s.send(api.NewStartedRun(s.runUuid, sample))
}

func (s *natsGatherer) ResolveProfile(variant string, language string) {
	s.send(api.NewResolvedProfile(s.runUuid, variant, language))
}

func (s *natsGatherer) StartInstall() {
	s.send(api.NewStartedInstall(s.runUuid))
}

func (s *natsGatherer) StartBuild() {
	s.send(api.NewStartedBuild(s.runUuid))
}

func (s *natsGatherer) FinishBuild(output string, wall time.Duration) {
	trimmed := gatherer.TrimStrToRect(output, gatherer.MaxOutputHeight, gatherer.MaxOutputWidth)
	s.send(api.NewFinishedBuild(s.runUuid, trimmed, wall.Milliseconds()))
}

func (s *natsGatherer) StartServer(name string, startupTimeout time.Duration) {
	s.send(api.NewStartedServer(s.runUuid, name, startupTimeout.Milliseconds()))
}

func (s *natsGatherer) ServerReady(elapsed time.Duration) {
	s.send(api.NewServerReady(s.runUuid, elapsed.Milliseconds()))
}

func (s *natsGatherer) StartRequest(testInput string) {
	s.send(api.NewStartedRequest(s.runUuid, testInput))
}

func (s *natsGatherer) FinishRun(result api.TestResult) {
	s.send(api.NewFinishedRun(s.runUuid, result))
}
