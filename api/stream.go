package api

import "time"

// MsgType is a message type for streamed run events.
type MsgType string

const (
	StartedRunMsg      MsgType = "started_run"
	ResolvedProfileMsg MsgType = "resolved_profile"
	StartedInstallMsg  MsgType = "started_install"
	StartedBuildMsg    MsgType = "started_build"
	FinishedBuildMsg   MsgType = "finished_build"
	StartedServerMsg   MsgType = "started_server"
	ServerReadyMsg     MsgType = "server_ready"
	StartedRequestMsg  MsgType = "started_request"
	FinishedRunMsg     MsgType = "finished_run"
)

// Header is the common header for all streamed run event messages.
type Header struct {
	RunUuid string  `json:"run_uuid"`
	MsgType MsgType `json:"msg_type"`
}

func NewHeader(runUuid string, msgType MsgType) Header {
	return Header{RunUuid: runUuid, MsgType: msgType}
}

type StartedRun struct {
	Header
	Sample      SampleDescriptor `json:"sample"`
	StartedTime string           `json:"started_time"`
}

func NewStartedRun(runUuid string, sample SampleDescriptor) StartedRun {
	return StartedRun{
		Header:      NewHeader(runUuid, StartedRunMsg),
		Sample:      sample,
		StartedTime: time.Now().Format(time.RFC3339),
	}
}

type ResolvedProfile struct {
	Header
	Variant  string `json:"variant"`
	Language string `json:"language"`
}

func NewResolvedProfile(runUuid, variant, language string) ResolvedProfile {
	return ResolvedProfile{
		Header:   NewHeader(runUuid, ResolvedProfileMsg),
		Variant:  variant,
		Language: language,
	}
}

type StartedInstall struct {
	Header
}

func NewStartedInstall(runUuid string) StartedInstall {
	return StartedInstall{Header: NewHeader(runUuid, StartedInstallMsg)}
}

type StartedBuild struct {
	Header
}

func NewStartedBuild(runUuid string) StartedBuild {
	return StartedBuild{Header: NewHeader(runUuid, StartedBuildMsg)}
}

type FinishedBuild struct {
	Header
	Output string `json:"output"`
	WallMs int64  `json:"wall_ms"`
}

func NewFinishedBuild(runUuid string, output string, wallMs int64) FinishedBuild {
	return FinishedBuild{
		Header: NewHeader(runUuid, FinishedBuildMsg),
		Output: output,
		WallMs: wallMs,
	}
}

type StartedServer struct {
	Header
	Name             string `json:"name"`
	StartupTimeoutMs int64  `json:"startup_timeout_ms"`
}

func NewStartedServer(runUuid string, name string, startupTimeoutMs int64) StartedServer {
	return StartedServer{
		Header:           NewHeader(runUuid, StartedServerMsg),
		Name:             name,
		StartupTimeoutMs: startupTimeoutMs,
	}
}

type ServerReady struct {
	Header
	ElapsedMs int64 `json:"elapsed_ms"`
}

func NewServerReady(runUuid string, elapsedMs int64) ServerReady {
	return ServerReady{Header: NewHeader(runUuid, ServerReadyMsg), ElapsedMs: elapsedMs}
}

type StartedRequest struct {
	Header
	TestInput string `json:"test_input"`
}

func NewStartedRequest(runUuid string, testInput string) StartedRequest {
	return StartedRequest{Header: NewHeader(runUuid, StartedRequestMsg), TestInput: testInput}
}

type FinishedRun struct {
	Header
	Result TestResult `json:"result"`
}

func NewFinishedRun(runUuid string, result TestResult) FinishedRun {
	return FinishedRun{Header: NewHeader(runUuid, FinishedRunMsg), Result: result}
}
