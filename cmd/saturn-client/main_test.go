package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ergutierz/SaturnClient/internal/display"
)

// fakeAPI serves the two processing endpoints. Each correlation id answers
// an empty list on its first poll and its stats afterwards.
type fakeAPI struct {
	mu       sync.Mutex
	polls    map[string]int
	failTeam int
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/Teams/EnqueueTeam":
		var req struct{ TeamNumber int }
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.TeamNumber == f.failTeam {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintf(w, `{"correlationId":"corr-%d"}`, req.TeamNumber)

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/Teams/GetProcessedData/"):
		id := strings.TrimPrefix(r.URL.Path, "/Teams/GetProcessedData/")
		f.mu.Lock()
		f.polls[id]++
		n := f.polls[id]
		f.mu.Unlock()

		if n == 1 {
			fmt.Fprint(w, "[]")
			return
		}
		team := strings.TrimPrefix(id, "corr-")
		fmt.Fprintf(w, `[
			{"teamName":"Team %[1]s","teamNumber":"%[1]s","teamScore":"10","gameDate":"2024-01-0%[1]sT00:00:00"},
			{"teamName":"Shared","teamNumber":"0","teamScore":"0","gameDate":"2024-01-01T00:00:00"}
		]`, team)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeConfig(t *testing.T, baseURL, redisAddr string) string {
	t.Helper()
	redisEnabled := redisAddr != ""
	content := fmt.Sprintf(`
app:
  name: saturn-client-test
api:
  base_url: %s
  timeout_ms: 2000
teams:
  first: 1
  last: 3
poll:
  max_retries: 2
  delay_ms: 1
run:
  concurrency: 1
display:
  console:
    enabled: true
    spinner: false
  redis:
    enabled: %t
    key_prefix: saturn:e2e
    channel: saturn:e2e:events
database:
  redis:
    address: "%s"
logging:
  level: error
  output: stderr
`, baseURL, redisEnabled, redisAddr)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_EndToEnd(t *testing.T) {
	api := &fakeAPI{polls: map[string]int{}}
	server := httptest.NewServer(api)
	defer server.Close()
	mr := miniredis.RunT(t)

	var stdout bytes.Buffer
	code := run([]string{"-config", writeConfig(t, server.URL, mr.Addr())}, &stdout)
	require.Equal(t, 0, code, stdout.String())

	out := stdout.String()
	assert.Contains(t, out, "TEAM NAME")
	assert.Contains(t, out, "Team 3")
	assert.Contains(t, out, "4 records (run ")
	assert.Equal(t, 1, strings.Count(out, "Shared"), "duplicates are merged")

	for _, id := range []string{"corr-1", "corr-2", "corr-3"} {
		assert.Equal(t, 2, api.polls[id], id)
	}

	raw, err := mr.Get("saturn:e2e:latest")
	require.NoError(t, err)
	var snap display.Snapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &snap))
	assert.Equal(t, 4, snap.Count)
	require.Len(t, snap.Stats, 4)
	assert.Equal(t, "Team 1", snap.Stats[0].TeamName)
	assert.Equal(t, "Shared", snap.Stats[1].TeamName)

	busy, err := mr.Get("saturn:e2e:busy")
	require.NoError(t, err)
	assert.Equal(t, "0", busy)
}

func TestRun_SubmissionFailure(t *testing.T) {
	api := &fakeAPI{polls: map[string]int{}, failTeam: 2}
	server := httptest.NewServer(api)
	defer server.Close()

	var stdout bytes.Buffer
	code := run([]string{"-config", writeConfig(t, server.URL, "")}, &stdout)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "An error occurred: POST ")
	assert.NotContains(t, stdout.String(), "TEAM NAME")
	assert.Empty(t, api.polls)
}

func TestRun_BadArguments(t *testing.T) {
	var stdout bytes.Buffer
	assert.Equal(t, 2, run([]string{"-no-such-flag"}, &stdout))
	assert.Equal(t, 1, run([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}, &stdout))
}
