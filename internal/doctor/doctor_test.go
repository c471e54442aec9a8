package doctor

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rahmadf/bella/internal/config"
)

func TestReportOKAndString(t *testing.T) {
	report := Report{Checks: []Check{
		{Name: "one", Pass: true, Message: "good"},
		{Name: "two", Pass: false, Message: "bad"},
	}}

	require.False(t, report.OK())
	text := report.String()
	require.Contains(t, text, "[OK] one: good")
	require.Contains(t, text, "[FAIL] two: bad")
}

func TestReportOKAllPassing(t *testing.T) {
	report := Report{Checks: []Check{{Name: "one", Pass: true}, {Name: "two", Pass: true}}}
	require.True(t, report.OK())
}

func TestCheckTokenMissing(t *testing.T) {
	cfg := config.Default()
	cfg.API.Token = ""

	check := checkToken(cfg)
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "BELLA_TOKEN")
}

func TestCheckTokenPresent(t *testing.T) {
	cfg := config.Default()
	cfg.API.Token = "secret"

	check := checkToken(cfg)
	require.True(t, check.Pass)
}

func TestCheckSessionMissingFile(t *testing.T) {
	check := checkSession(filepath.Join(t.TempDir(), "absent.json"))
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "run setup first")
}

func TestCheckSessionReportsQuestionCount(t *testing.T) {
	payload := `{
		"config": {"categoryId": "backend", "level": "junior"},
		"questions": [
			{"_id": "q1", "content": "Perkenalkan diri Anda.", "type": "intro"},
			{"_id": "q2", "content": "Ceritakan proyek Anda.", "type": "core"}
		]
	}`
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	check := checkSession(path)
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "2 questions")
	require.Contains(t, check.Message, "backend/junior")
}

func TestCheckCommandEmpty(t *testing.T) {
	check := checkCommand(nil, "player_cmd")
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "command is empty")
}

func TestCheckBinaryFound(t *testing.T) {
	check := checkBinary("sh", "shell available")
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "shell available")
}

func TestCheckBinaryMissing(t *testing.T) {
	check := checkBinary("definitely-not-a-real-binary", "unused")
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "binary not found")
}

func TestCheckCommandUsesBinaryFromPath(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "fake-player")
	require.NoError(t, os.WriteFile(scriptPath, []byte("#!/usr/bin/env sh\nexit 0\n"), 0o755))
	t.Setenv("PATH", dir+":"+os.Getenv("PATH"))

	check := checkCommand([]string{"fake-player", "--arg"}, "player_cmd")
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "player_cmd command is available")
}

func TestCheckAPISuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.API.BaseURL = server.URL

	check := checkAPI(cfg)
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "HTTP 401")
}

func TestCheckAPIEmptyBaseURL(t *testing.T) {
	cfg := config.Default()
	cfg.API.BaseURL = ""

	check := checkAPI(cfg)
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "api.base_url is empty")
}

func TestCheckAPIUnreachable(t *testing.T) {
	cfg := config.Default()
	cfg.API.BaseURL = "http://127.0.0.1:1/interviews"

	check := checkAPI(cfg)
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "request failed")
}

func TestCheckStateDirWritable(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	check := checkStateDir()
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "writable at")
}

func TestCheckAudioSelectionFailureWithInvalidPulseServer(t *testing.T) {
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")

	check := checkAudioSelection(config.Default())
	require.False(t, check.Pass)
	require.Contains(t, check.Name, "audio.device")
}

func TestRunSkipsPlayerCmdWhenUnset(t *testing.T) {
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	cfg := config.Default()
	cfg.API.BaseURL = "http://127.0.0.1:1/interviews"

	report := Run(config.Loaded{Path: "/tmp/config.jsonc", Config: cfg}, filepath.Join(t.TempDir(), "absent.json"))
	require.NotEmpty(t, report.Checks)

	for _, check := range report.Checks {
		require.NotEqual(t, "player_cmd", check.Name)
	}
}

func TestRunIncludesPlayerCmdCheck(t *testing.T) {
	binDir := t.TempDir()
	fakePlayer := filepath.Join(binDir, "fake-player")
	require.NoError(t, os.WriteFile(fakePlayer, []byte("#!/usr/bin/env sh\nexit 0\n"), 0o755))
	t.Setenv("PATH", binDir+":"+os.Getenv("PATH"))
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	cfg := config.Default()
	cfg.API.BaseURL = "http://127.0.0.1:1/interviews"
	cfg.Playback.PlayerCmd = config.CommandConfig{Raw: "fake-player", Argv: []string{"fake-player"}}

	report := Run(config.Loaded{Path: "/tmp/config.jsonc", Config: cfg}, filepath.Join(t.TempDir(), "absent.json"))

	var sawPlayer bool
	for _, check := range report.Checks {
		if check.Name == "fake-player" {
			sawPlayer = true
		}
	}
	require.True(t, sawPlayer)
}
