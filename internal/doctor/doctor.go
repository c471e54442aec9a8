// Package doctor runs runtime readiness diagnostics for config, the session
// payload, audio devices, playback, and the remote interview API.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rahmadf/bella/internal/audio"
	"github.com/rahmadf/bella/internal/config"
	"github.com/rahmadf/bella/internal/interview"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(cfg config.Loaded, sessionPath string) Report {
	checks := []Check{}

	checks = append(checks, Check{
		Name:    "config",
		Pass:    true,
		Message: fmt.Sprintf("loaded %q", cfg.Path),
	})

	checks = append(checks, checkToken(cfg.Config))
	checks = append(checks, checkSession(sessionPath))
	checks = append(checks, checkAudioSelection(cfg.Config))

	if cfg.Config.Playback.Enable && len(cfg.Config.Playback.PlayerCmd.Argv) > 0 {
		checks = append(checks, checkCommand(cfg.Config.Playback.PlayerCmd.Argv, "player_cmd"))
	}

	checks = append(checks, checkStateDir())
	checks = append(checks, checkAPI(cfg.Config))

	return Report{Checks: checks}
}

func checkToken(cfg config.Config) Check {
	if strings.TrimSpace(cfg.API.Token) == "" {
		return Check{Name: "api.token", Pass: false, Message: "BELLA_TOKEN is empty; API calls will be rejected"}
	}
	return Check{Name: "api.token", Pass: true, Message: "token present"}
}

// checkSession validates the handoff payload produced by the setup flow.
func checkSession(path string) Check {
	handoff, err := interview.LoadHandoff(path)
	if err != nil {
		return Check{Name: "session", Pass: false, Message: err.Error()}
	}
	return Check{
		Name:    "session",
		Pass:    true,
		Message: fmt.Sprintf("%d questions for %s/%s", len(handoff.Questions), handoff.Config.CategoryID, handoff.Config.Level),
	}
}

// checkCommand validates that argv contains a runnable command.
func checkCommand(argv []string, name string) Check {
	if len(argv) == 0 {
		return Check{Name: name, Pass: false, Message: "command is empty"}
	}
	return checkBinary(argv[0], fmt.Sprintf("%s command is available", name))
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(bin string, okMsg string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, okMsg)}
}

// checkAudioSelection runs live device selection to surface selection/fallback issues.
func checkAudioSelection(cfg config.Config) Check {
	selection, err := audio.SelectDevice(context.Background(), cfg.Audio.Input, cfg.Audio.Fallback)
	if err != nil {
		return Check{Name: "audio.device", Pass: false, Message: err.Error()}
	}
	message := fmt.Sprintf("selected %q", selection.Device.ID)
	if selection.Warning != "" {
		message = message + " (" + selection.Warning + ")"
	}
	return Check{Name: "audio.device", Pass: true, Message: message}
}

// checkStateDir verifies the export/debug state directory is writable.
func checkStateDir() Check {
	base := strings.TrimSpace(os.Getenv("XDG_STATE_HOME"))
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Check{Name: "state.dir", Pass: false, Message: err.Error()}
		}
		base = filepath.Join(home, ".local", "state")
	}
	dir := filepath.Join(base, "bella")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Check{Name: "state.dir", Pass: false, Message: err.Error()}
	}
	probe := filepath.Join(dir, ".doctor")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return Check{Name: "state.dir", Pass: false, Message: err.Error()}
	}
	_ = os.Remove(probe)
	return Check{Name: "state.dir", Pass: true, Message: fmt.Sprintf("writable at %s", dir)}
}

// checkAPI probes the interview API base URL.
func checkAPI(cfg config.Config) Check {
	base := strings.TrimSpace(cfg.API.BaseURL)
	if base == "" {
		return Check{Name: "api.base_url", Pass: false, Message: "api.base_url is empty"}
	}

	client := resty.New().SetTimeout(2 * time.Second)
	resp, err := client.R().Get(base)
	if err != nil {
		return Check{Name: "api.base_url", Pass: false, Message: fmt.Sprintf("request failed: %v", err)}
	}
	// Any HTTP answer proves the endpoint is alive; auth errors are expected
	// on a bare GET of the base path.
	return Check{Name: "api.base_url", Pass: true, Message: fmt.Sprintf("HTTP %d from %s", resp.StatusCode(), base)}
}
