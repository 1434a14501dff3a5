package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/lossplot/pkg/figure"
	"github.com/ccollicutt/lossplot/pkg/plot"
)

const trainingLog = `step 100: train loss 2.5000, val loss 3.1000
100 | next_token_loss 1.0 | full_loss 1.0 | lr 1e-4 | elapsed 45.2s
step 200: train loss 2.1000, val loss 2.9000
200 | next_token_loss 0.9 | full_loss 0.9 | lr 1e-4 | elapsed 90.4s
`

type recordingOpener struct {
	paths []string
}

func (o *recordingOpener) Open(path string) error {
	o.paths = append(o.paths, path)
	return nil
}

// stubOpener replaces the viewer for the duration of a test.
func stubOpener(t *testing.T) *recordingOpener {
	t.Helper()
	rec := &recordingOpener{}
	prev := newOpener
	newOpener = func(string) plot.Opener { return rec }
	t.Cleanup(func() { newOpener = prev })
	return rec
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readDPI(t *testing.T, path string) float64 {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	dpi, err := figure.ReadDPI(f)
	require.NoError(t, err)
	return dpi
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.True(t, strings.HasPrefix(cmd.Use, "lossplot"))
	for _, name := range []string{"config", "output", "dpi", "figsize", "no-show", "preview", "summary", "quiet", "verbose"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag %s", name)
	}
	assert.Equal(t, "loss_plots.png", cmd.Flags().Lookup("output").DefValue)
	assert.Equal(t, "300", cmd.Flags().Lookup("dpi").DefValue)
	assert.Equal(t, "12,8", cmd.Flags().Lookup("figsize").DefValue)
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, "--version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "lossplot "+Version+"\n", stdout)
}

func TestRun_NoArgs(t *testing.T) {
	code, _, stderr := runCLI(t)
	assert.Equal(t, 2, code)
	assert.True(t, strings.HasPrefix(stderr, "Error: "))
}

func TestRun_RendersAndOpens(t *testing.T) {
	rec := stubOpener(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "run_a.log", trainingLog)
	b := writeFile(t, dir, "run_b.log", "step 1: train loss 4.0, val loss 4.5\n")
	out := filepath.Join(dir, "out.png")

	code, stdout, stderr := runCLI(t, "--figsize", "6", "3", "--dpi", "40", "-o", out, a, b)
	require.Equal(t, 0, code, stderr)

	assert.Equal(t, "Plots saved to "+out+"\n", stdout)
	assert.Equal(t, []string{out}, rec.paths)
	assert.InDelta(t, 40.0, readDPI(t, out), 0.5)
}

func TestRun_NoShow(t *testing.T) {
	rec := stubOpener(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "run.log", trainingLog)
	out := filepath.Join(dir, "out.png")

	code, _, stderr := runCLI(t, "--no-show", "--figsize=6,3", "--dpi", "40", "-o", out, a)
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, rec.paths)
}

func TestRun_DefaultOutputInWorkingDirectory(t *testing.T) {
	stubOpener(t)
	dir := t.TempDir()
	writeFile(t, dir, "run.log", trainingLog)
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	code, stdout, stderr := runCLI(t, "--figsize", "4", "2", "--dpi", "40", "run.log")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "Plots saved to loss_plots.png\n", stdout)

	_, err := os.Stat(filepath.Join(dir, "loss_plots.png"))
	assert.NoError(t, err)
}

func TestRun_MissingFileAborts(t *testing.T) {
	rec := stubOpener(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "run.log", trainingLog)
	out := filepath.Join(dir, "out.png")

	code, stdout, stderr := runCLI(t, "--figsize=6,3", "--dpi", "40", "-o", out, a, filepath.Join(dir, "nope.log"))
	assert.Equal(t, 2, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error: ")
	assert.Contains(t, stderr, "nope.log")
	assert.Empty(t, rec.paths)

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRun_GlobArguments(t *testing.T) {
	stubOpener(t)
	dir := t.TempDir()
	writeFile(t, dir, "b.log", trainingLog)
	writeFile(t, dir, "a.log", trainingLog)
	out := filepath.Join(dir, "out.png")

	code, stdout, stderr := runCLI(t, "--figsize=6,3", "--dpi", "40", "--summary", "json", "-o", out,
		filepath.Join(dir, "*.log"))
	require.Equal(t, 0, code, stderr)

	jsonPart := stdout[strings.Index(stdout, "{"):]
	var report struct {
		Runs []struct {
			Label string `json:"label"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal([]byte(jsonPart), &report))
	require.Len(t, report.Runs, 2)
	assert.Equal(t, "a", report.Runs[0].Label)
	assert.Equal(t, "b", report.Runs[1].Label)
}

func TestRun_TextSummary(t *testing.T) {
	stubOpener(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "exp1.log", trainingLog)
	out := filepath.Join(dir, "out.png")

	code, stdout, stderr := runCLI(t, "--figsize=6,3", "--dpi", "40", "--summary", "text", "-o", out, a)
	require.Equal(t, 0, code, stderr)

	assert.True(t, strings.HasPrefix(stdout, "Plots saved to "))
	assert.Contains(t, stdout, "[exp1]")
	assert.Contains(t, stdout, "Best val loss:    2.9000 at step 200")
}

func TestRun_InvalidOptions(t *testing.T) {
	stubOpener(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "run.log", trainingLog)
	out := filepath.Join(dir, "out.png")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"one figsize value", []string{"--figsize=6"}, "needs exactly two values"},
		{"huge dpi", []string{"--dpi", "1000000000"}, "each side must be below 65536"},
		{"huge figure", []string{"--figsize", "300", "300"}, "each side must be below 65536"},
		{"zero dpi", []string{"--dpi", "0"}, "dpi must be positive"},
		{"negative size", []string{"--figsize=-1,3"}, "size must be positive"},
		{"unknown summary", []string{"--summary", "xml"}, "unknown summary format"},
		{"missing config", []string{"-c", filepath.Join(dir, "missing.yaml")}, "loading config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(append([]string{}, tt.args...), "-o", out, a)
			code, _, stderr := runCLI(t, args...)
			assert.Equal(t, 2, code)
			assert.Contains(t, stderr, tt.wantErr)

			_, err := os.Stat(out)
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestRun_ConfigFile(t *testing.T) {
	rec := stubOpener(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "run.log", "iter=7 tl=1.5 vl=1.75\n")
	out := filepath.Join(dir, "from-config.png")
	cfg := writeFile(t, dir, "lossplot.yaml", `patterns:
  loss: 'iter=(\d+) tl=([\d.]+) vl=([\d.]+)'
figure:
  width: 6
  height: 3
  dpi: 40
  output: `+out+`
palette: ["#112233", teal]
no_show: true
`)

	code, stdout, stderr := runCLI(t, "-c", cfg, "--summary", "json", "-v", a)
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stdout, "Plots saved to "+out)
	assert.Contains(t, stdout, `"color": "#112233"`)
	assert.Contains(t, stdout, `"points": 1`)
	assert.Contains(t, stderr, "Using config "+cfg)
	assert.Contains(t, stderr, "1 loss points")
	assert.Empty(t, rec.paths)

	// Flags win over the config file.
	code, _, stderr = runCLI(t, "-c", cfg, "--dpi", "50", a)
	require.Equal(t, 0, code, stderr)
	assert.InDelta(t, 50.0, readDPI(t, out), 0.5)
}

func TestRun_Preview(t *testing.T) {
	stubOpener(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "run.log", trainingLog)
	flat := writeFile(t, dir, "flat.log", "step 1: train loss 1.0, val loss 2.0\n")
	out := filepath.Join(dir, "out.png")

	code, stdout, stderr := runCLI(t, "--figsize=6,3", "--dpi", "40", "--preview", "-o", out, a)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Validation loss by step")
	assert.Contains(t, stdout, "run")

	code, _, stderr = runCLI(t, "--figsize=6,3", "--dpi", "40", "--preview", "-o", out, flat)
	require.Equal(t, 0, code)
	assert.Contains(t, stderr, "Warning: preview: ")
}

type jsonRun struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Color string `json:"color"`
}

func decodeRuns(t *testing.T, stdout string) []jsonRun {
	t.Helper()
	var report struct {
		Runs []jsonRun `json:"runs"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout[strings.Index(stdout, "{"):]), &report))
	return report.Runs
}

func TestRun_RepeatedFileKeepsColorPositions(t *testing.T) {
	stubOpener(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "a.log", trainingLog)
	b := writeFile(t, dir, "b.log", trainingLog)
	out := filepath.Join(dir, "out.png")

	code, stdout, stderr := runCLI(t, "--figsize=6,3", "--dpi", "40", "--summary", "json", "-o", out, a, a, b)
	require.Equal(t, 0, code, stderr)

	runs := decodeRuns(t, stdout)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{"a", "a", "b"}, []string{runs[0].Label, runs[1].Label, runs[2].Label})
	assert.Equal(t, "#0000ff", runs[0].Color)
	assert.Equal(t, "#ff0000", runs[1].Color)
	assert.Equal(t, "#008000", runs[2].Color)
}

func TestRun_LiteralFileNameWithGlobCharacters(t *testing.T) {
	stubOpener(t)
	dir := t.TempDir()
	literal := writeFile(t, dir, "run[1].log", trainingLog)
	writeFile(t, dir, "run1.log", "step 9: train loss 1.0, val loss 1.0\n")
	malformed := writeFile(t, dir, "bad[.log", trainingLog)
	out := filepath.Join(dir, "out.png")

	code, stdout, stderr := runCLI(t, "--figsize=6,3", "--dpi", "40", "--summary", "json", "-o", out, literal, malformed)
	require.Equal(t, 0, code, stderr)

	runs := decodeRuns(t, stdout)
	require.Len(t, runs, 2)
	assert.Equal(t, literal, runs[0].Path)
	assert.Equal(t, malformed, runs[1].Path)
	assert.NotContains(t, stdout, `"first_step": 9`)
}

func TestRun_LastFigsizeWins(t *testing.T) {
	stubOpener(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "run.log", trainingLog)
	out := filepath.Join(dir, "out.png")

	code, _, stderr := runCLI(t, "--figsize", "12", "8", "--figsize", "6", "3", "--dpi", "40", "-o", out, a)
	require.Equal(t, 0, code, stderr)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 240, cfg.Width)
	assert.Equal(t, 120, cfg.Height)
}

func TestRun_QuietSummary(t *testing.T) {
	stubOpener(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "run.log", trainingLog)
	out := filepath.Join(dir, "out.png")

	code, stdout, stderr := runCLI(t, "--figsize=6,3", "--dpi", "40", "--summary", "text", "-q", "-o", out, a)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "Plots saved to "+out+"\nlossplot: 1 files, 1 with data, 2 points\n", stdout)

	code, stdout, stderr = runCLI(t, "--figsize=6,3", "--dpi", "40", "--summary", "json", "--quiet", "-o", out, a)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `{"output":"`+out+`","files":1,"files_with_data":1,"total_points":2,`)
	assert.NotContains(t, stdout, `"runs"`)
}
