package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/TalentFlow/internal/api"
	"github.com/soaringjerry/TalentFlow/internal/config"
)

// runCLI executes the root command with an isolated config and data dir.
func runCLI(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TALENTFLOW_DATA_DIR", dataDir)
	t.Setenv("TALENTFLOW_JWT_SECRET", "cli-secret")
	t.Setenv("TALENTFLOW_LOG_LEVEL", "error")
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	full := append([]string{"--config", filepath.Join(dataDir, "none.yaml"), "--env-file", ""}, args...)
	cmd.SetArgs(full)
	err := cmd.Execute()
	return out.String(), err
}

const cyclicSchema = `jobId: job-1
title: Broken
sections:
  - id: S1
    questions:
      - id: A
        type: short-text
        conditionalLogic: {dependsOn: B, condition: equals, value: x}
      - id: B
        type: short-text
        conditionalLogic: {dependsOn: A, condition: equals, value: y}
`

const goodSchema = `jobId: job-1
title: Screening
sections:
  - id: S1
    title: Basics
    questions:
      - id: Q1
        type: single-choice
        question: Have you led a team?
        required: true
        options: ["Yes", "No"]
      - id: Q2
        type: long-text
        question: Describe it
        maxLength: 500
        conditionalLogic: {dependsOn: Q1, condition: equals, value: "Yes"}
      - id: Q3
        type: short-text
        conditionalLogic: {dependsOn: gone, condition: equals, value: x}
`

func writeSchema(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSchemaLint(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "schema", "lint", writeSchema(t, dir, "bad.yaml", cyclicSchema))
	require.Error(t, err)
	assert.Contains(t, out, "dependency cycle")

	out, err = runCLI(t, dir, "schema", "lint", writeSchema(t, dir, "good.yaml", goodSchema))
	require.NoError(t, err)
	assert.Contains(t, out, "missing question")
	assert.Contains(t, out, "3 question(s)")
}

func TestSchemaImportExportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeSchema(t, dir, "good.yaml", goodSchema)

	out, err := runCLI(t, dir, "schema", "import", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "for job job-1")

	exported := filepath.Join(dir, "out.json")
	_, err = runCLI(t, dir, "schema", "export", "--job", "job-1", "-o", exported)
	require.NoError(t, err)

	a, err := readSchemaFile(exported)
	require.NoError(t, err)
	assert.Equal(t, "Screening", a.Title)
	require.Len(t, a.Questions(), 3)
	assert.Equal(t, "Q1", a.FindQuestion("Q2").Conditional.DependsOn)

	_, err = runCLI(t, dir, "schema", "import", writeSchema(t, dir, "bad.yaml", cyclicSchema))
	assert.Error(t, err)
}

func TestSeedAndMigrate(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "applied 0001_assessments.sql")

	out, err = runCLI(t, dir, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")

	out, err = runCLI(t, dir, "seed", "--job", "job-eng")
	require.NoError(t, err, out)
	assert.Contains(t, out, "12 questions")
	assert.Contains(t, out, "senior-exp")
}

func TestTokenCommand(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "token", "--subject", "alice")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "."), 3)

	_, err = runCLI(t, t.TempDir(), "token")
	assert.Error(t, err)
}

func TestNewHandlerServesMetricsAndHeaders(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage = config.StorageMemory
	h := newHandler(cfg, api.NewMemoryStore())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "go_goroutines")

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
}

func TestNewLoggerFormat(t *testing.T) {
	cfg := config.DefaultConfig()
	var buf bytes.Buffer
	newLogger(&buf, cfg).Info("hello", "k", "v")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), "non-terminal writers get JSON")

	buf.Reset()
	cfg.LogFormat = "text"
	newLogger(&buf, cfg).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}
