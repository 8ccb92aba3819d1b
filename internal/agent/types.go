// Package agent spawns provider LLM CLI subprocesses and classifies their
// outcome into an AgentResponse
package agent

import "time"

// Status is the terminal state of one agent invocation.
type Status string

const (
	StatusDone  Status = "done"
	StatusError Status = "error"
)

// Response is the result of one provider subprocess invocation.
type Response struct {
	Persona          string
	Status           Status
	Content          string
	Timestamp        time.Time
	MatchedRuleIndex int // -1 when no rule matched
	Error            string
	SessionID        string
}

// Spec describes one invocation: which binary to run, with what arguments
// and environment, under what permission mode, and the timeout to enforce.
type Spec struct {
	Provider       string
	Model          string
	BinaryPath     string
	Prompt         string
	Env            []string
	WorkDir        string
	PermissionMode string // readonly | edit | full
	AllowedTools   []string
	SessionID      string // non-empty to resume a persona's previous session
	Timeout        time.Duration
}
