package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(cmd *cobra.Command, args ...string) (string, error) {
	cmd.SetArgs(args)
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRenderInlineBody(t *testing.T) {
	out := filepath.Join(t.TempDir(), "card.png")
	stdout, err := executeCommand(newRootCmd(),
		"render", "--title", "Hi", "--body", "Inline text", "-W", "320", "-H", "240", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Done: "+out)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 240, cfg.Height)
}

func TestRenderFormatFromOutputExtension(t *testing.T) {
	out := filepath.Join(t.TempDir(), "card.jpg")
	_, err := executeCommand(newRootCmd(), "render", "--body", "x", "-W", "300", "-H", "300", "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8}, data[:2])
}

func TestRenderJobFileAndSVG(t *testing.T) {
	dir := t.TempDir()
	job := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(job, []byte("content:\n  title: T\n  body: B\noptions:\n  theme: neon\n  resolution: { width: 300, height: 300 }\n"), 0o644))

	out := filepath.Join(dir, "nested", "job.svg")
	_, err := executeCommand(newRootCmd(), "render", job, "--svg", "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestRenderErrors(t *testing.T) {
	_, err := executeCommand(newRootCmd(), "render")
	assert.ErrorContains(t, err, "nothing to render")

	_, err = executeCommand(newRootCmd(), "render", "--body", "x", "-W", "50", "-H", "50", "--strict", "-o", filepath.Join(t.TempDir(), "x.png"))
	assert.Error(t, err)

	_, err = executeCommand(newRootCmd(), "--log-level", "loud", "render", "--body", "x")
	assert.ErrorContains(t, err, "log level")
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	batch := filepath.Join(dir, "batch.yaml")
	require.NoError(t, os.WriteFile(batch, []byte(`
- name: a
  content: { body: first }
  options: { resolution: { width: 240, height: 240 } }
- name: b
  content: { body: "" }
- name: c
  content: { body: third }
  options: { resolution: { width: 240, height: 240 }, format: bmp }
`), 0o644))

	outDir := filepath.Join(dir, "out")
	stdout, err := executeCommand(newRootCmd(), "batch", batch, "-d", outDir, "--workers", "2")
	assert.ErrorContains(t, err, "1 of 3 jobs failed")
	assert.Contains(t, stdout, "Failed: b")
	assert.FileExists(t, filepath.Join(outDir, "a.png"))
	assert.FileExists(t, filepath.Join(outDir, "c.bmp"))
}

func TestThemesCommand(t *testing.T) {
	stdout, err := executeCommand(newRootCmd(), "themes")
	require.NoError(t, err)
	assert.Contains(t, stdout, "parchment")
	assert.Contains(t, stdout, "(default)")
	assert.Contains(t, stdout, "CATEGORY")
	assert.Contains(t, stdout, "Resolutions:")

	stdout, err = executeCommand(newRootCmd(), "themes", "neon")
	require.NoError(t, err)
	assert.Contains(t, stdout, "id: neon")

	_, err = executeCommand(newRootCmd(), "themes", "vapor")
	assert.ErrorContains(t, err, "unknown theme")
}

func TestInitWritesRenderableJob(t *testing.T) {
	dir := t.TempDir()
	job := filepath.Join(dir, "job.yaml")
	batch := filepath.Join(dir, "batch.yaml")

	_, err := executeCommand(newRootCmd(), "init", "--job", job, "--batch", batch)
	require.NoError(t, err)
	assert.FileExists(t, job)
	assert.FileExists(t, batch)

	_, err = executeCommand(newRootCmd(), "init", "--job", job, "--batch", batch)
	assert.ErrorContains(t, err, "already exists")

	out := filepath.Join(dir, "sample.png")
	_, err = executeCommand(newRootCmd(), "render", job, "-W", "400", "-H", "400", "-o", out)
	require.NoError(t, err)
	assert.FileExists(t, out)
}
