package sqsgath

import (
	"time"

	"github.com/agent-samples/harness/api"
	"github.com/agent-samples/harness/internal/gatherer"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type sqsResQueueGatherer struct {
	sqsClient *sqs.Client
	queueUrl  string
	runUuid   string
}

const (
	MsgTypeStartedRun      = "started_run"
	MsgTypeResolvedProfile = "resolved_profile"
	MsgTypeStartedInstall  = "started_install"
	MsgTypeStartedBuild    = "started_build"
	MsgTypeFinishedBuild   = "finished_build"
	MsgTypeStartedServer   = "started_server"
	MsgTypeServerReady     = "server_ready"
	MsgTypeStartedRequest  = "started_request"
	MsgTypeFinishedRun     = "finished_run"
)

type Header struct {
	RunUuid string `json:"run_uuid"`
	MsgType string `json:"msg_type"`
}

func (s *sqsResQueueGatherer) header(msgType string) Header {
	return Header{RunUuid: s.runUuid, MsgType: msgType}
}

type StartedRun struct {
	Header
	Sample api.SampleDescriptor `json:"sample"`
}

func (s *sqsResQueueGatherer) StartRun(sample api.SampleDescriptor) {
	s.send(StartedRun{Header: s.header(MsgTypeStartedRun), Sample: sample})
}

type ResolvedProfile struct {
	Header
	Variant  string `json:"variant"`
	Language string `json:"language"`
}

func (s *sqsResQueueGatherer) ResolveProfile(variant string, language string) {
	s.send(ResolvedProfile{
		Header:   s.header(MsgTypeResolvedProfile),
		Variant:  variant,
		Language: language,
	})
}

type StartedInstall struct {
	Header
}

func (s *sqsResQueueGatherer) StartInstall() {
	s.send(StartedInstall{Header: s.header(MsgTypeStartedInstall)})
}

type StartedBuild struct {
	Header
}

func (s *sqsResQueueGatherer) StartBuild() {
	s.send(StartedBuild{Header: s.header(MsgTypeStartedBuild)})
}

type FinishedBuild struct {
	Header
	Output string `json:"output"`
	WallMs int64  `json:"wall_ms"`
}

func (s *sqsResQueueGatherer) FinishBuild(output string, wall time.Duration) {
	s.send(FinishedBuild{
		Header: s.header(MsgTypeFinishedBuild),
		Output: gatherer.TrimStrToRect(output, gatherer.MaxOutputHeight, gatherer.MaxOutputWidth),
		WallMs: wall.Milliseconds(),
	})
}

type StartedServer struct {
	Header
	Name             string `json:"name"`
	StartupTimeoutMs int64  `json:"startup_timeout_ms"`
}

func (s *sqsResQueueGatherer) StartServer(name string, startupTimeout time.Duration) {
	s.send(StartedServer{
		Header:           s.header(MsgTypeStartedServer),
		Name:             name,
		StartupTimeoutMs: startupTimeout.Milliseconds(),
	})
}

type ServerReady struct {
	Header
	ElapsedMs int64 `json:"elapsed_ms"`
}

func (s *sqsResQueueGatherer) ServerReady(elapsed time.Duration) {
	s.send(ServerReady{
		Header:    s.header(MsgTypeServerReady),
		ElapsedMs: elapsed.Milliseconds(),
	})
}

type StartedRequest struct {
	Header
	TestInput string `json:"test_input"`
}

func (s *sqsResQueueGatherer) StartRequest(testInput string) {
	s.send(StartedRequest{Header: s.header(MsgTypeStartedRequest), TestInput: testInput})
}

type FinishedRun struct {
	Header
	Result api.TestResult `json:"result"`
}

func (s *sqsResQueueGatherer) FinishRun(result api.TestResult) {
	s.send(FinishedRun{Header: s.header(MsgTypeFinishedRun), Result: result})
}
