package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/nrslib/takt/internal/agent"
	"github.com/nrslib/takt/internal/config"
	"github.com/nrslib/takt/internal/engine"
	"github.com/nrslib/takt/internal/movement"
	"github.com/nrslib/takt/internal/piece"
	"github.com/nrslib/takt/internal/provider"
)

// secretEnvByProvider maps a provider name to the env var ResolveSecret
// checks for its credential.
var secretEnvByProvider = map[string]string{
	"anthropic": config.EnvAnthropicAPIKey,
	"openai":    config.EnvOpenAIAPIKey,
	"opencode":  config.EnvOpencodeAPIKey,
	"copilot":   config.EnvCopilotGitHubToken,
	"cursor":    config.EnvCursorAPIKey,
}

// invoker builds movement.Invoke closures bound to one piece run. It keeps
// its own persona->session-id map so a persona's provider CLI resumes its
// previous conversation across ticks of the same run, and serializes
// access since parallel/team-leader movements invoke concurrently.
type invoker struct {
	cli     provider.Layer
	piece   *piece.Piece
	cfg     config.Merged
	workDir string

	mu       sync.Mutex
	sessions map[string]string
}

func newInvoker(p *piece.Piece, cfg config.Merged, cli provider.Layer, workDir string) *invoker {
	return &invoker{cli: cli, piece: p, cfg: cfg, workDir: workDir, sessions: make(map[string]string)}
}

// Invoke satisfies movement.Invoke.
func (inv *invoker) Invoke(ctx context.Context, req movement.InvokeRequest) (*agent.Response, error) {
	personaLayer := provider.FromPersona(inv.piece, req.Persona)
	movementLayer := provider.FromMovement(req.Movement)
	projectLayer := provider.Layer{Provider: inv.cfg.Provider, Model: inv.cfg.Model}
	res := provider.Resolve(inv.cli, personaLayer, movementLayer, projectLayer, provider.Layer{})
	if res.Provider == "" {
		return nil, fmt.Errorf("no provider resolved for persona %q (set one via config, piece, or --provider)", req.Persona)
	}

	permission := "readonly"
	if req.PermissionOverride != "" {
		permission = string(req.PermissionOverride)
	}

	// Every other provider resolves its binary by name via PATH (agent.Invoke's
	// exec.LookPath fallback); codex is the one provider with an explicit
	// path override, since its CLI is not conventionally
	// installed on PATH.
	var binaryPath string
	if res.Provider == "codex" {
		v, found, err := config.ResolveSecret(config.EnvCodexCLIPath, inv.cfg)
		if err != nil {
			return nil, err
		}
		if found {
			binaryPath = v
		}
	}

	// If the provider's credential lives in config.yaml rather than the
	// real process environment, inject it so the subprocess can read it
	// under its conventional env var name.
	var env []string
	if envName, ok := secretEnvByProvider[res.Provider]; ok {
		if v, found, err := config.ResolveSecret(envName, inv.cfg); err == nil && found {
			if _, alreadySet := os.LookupEnv(envName); !alreadySet {
				env = append(env, envName+"="+v)
			}
		} else if err != nil {
			return nil, err
		}
	}

	inv.mu.Lock()
	sessionID := inv.sessions[req.Persona]
	inv.mu.Unlock()

	spec := agent.Spec{
		Provider:       res.Provider,
		Model:          res.Model,
		BinaryPath:     binaryPath,
		Prompt:         req.Prompt,
		WorkDir:        inv.workDir,
		PermissionMode: permission,
		AllowedTools:   req.AllowedToolsOverride,
		SessionID:      sessionID,
		Env:            env,
	}

	resp, err := agent.Invoke(ctx, spec)
	if err != nil {
		return nil, err
	}
	if resp.SessionID != "" {
		inv.mu.Lock()
		inv.sessions[req.Persona] = resp.SessionID
		inv.mu.Unlock()
	}
	return resp, nil
}

// buildJudgeFunc returns a JudgeFunc that asks a dedicated judge persona
// ("loop-judge") whether the repeating movement cycle in history is
// productive (CONTINUE) or stuck (ABORT)
func buildJudgeFunc(inv *invoker) engine.JudgeFunc {
	return func(ctx context.Context, monitorIndex int, history []string) (engine.JudgeVerdict, error) {
		prompt := fmt.Sprintf(
			"The piece has repeated this movement cycle: %v\nShould execution continue or abort as stuck? Respond with STATUS: CONTINUE or STATUS: ABORT.",
			history,
		)
		resp, err := inv.Invoke(ctx, movement.InvokeRequest{
			Persona:            "loop-judge",
			PermissionOverride: piece.PermissionReadonly,
			Prompt:             prompt,
		})
		if err != nil {
			return engine.JudgeAbort, fmt.Errorf("loop judge call: %w", err)
		}
		if containsStatus(resp.Content, "ABORT") {
			return engine.JudgeAbort, nil
		}
		return engine.JudgeContinue, nil
	}
}

func containsStatus(content, status string) bool {
	return strings.Contains(content, "STATUS: "+status)
}
