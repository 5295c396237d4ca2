package bootstrap_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/artpar/modinput/adapters/eventwriter"
	"github.com/artpar/modinput/adapters/idgen"
	"github.com/artpar/modinput/app"
	"github.com/artpar/modinput/bootstrap"
	"github.com/artpar/modinput/domain/definition"
	"github.com/artpar/modinput/domain/event"
	"github.com/artpar/modinput/domain/scheme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoInput struct{}

func (echoInput) Scheme() *scheme.Scheme {
	s := scheme.New("echo")
	s.Description = "Echoes its message parameter"
	_ = s.AddArgument(scheme.Argument{Name: "message", DataType: scheme.TypeString})
	return s
}

func (echoInput) StreamEvents(ctx context.Context, s *app.Session, name string, params definition.Params, w *eventwriter.EventWriter) error {
	e, err := event.New(event.Config{Data: params.Get("message"), Stanza: name})
	if err != nil {
		return err
	}
	return w.WriteEvent(e)
}

func (echoInput) ValidateInput(ctx context.Context, s *app.Session, def *definition.ValidationDefinition) error {
	if def.Params.Get("message") == "" {
		return app.Reject("message is required")
	}
	return nil
}

const inputDoc = `<input>
  <server_host>tiny</server_host>
  <configuration>
    <stanza name="echo://one"><param name="message">hello</param></stanza>
  </configuration>
</input>`

const emptyItemDoc = `<items>
  <server_host>tiny</server_host>
  <item name="one"><param name="message"></param></item>
</items>`

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MODINPUT_CONFIG", "")
	t.Setenv("MODINPUT_LOG_LEVEL", "")
	t.Setenv("MODINPUT_METRICS_TEXTFILE", "")
}

func run(t *testing.T, args []string, stdin string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	status := bootstrap.Run(context.Background(), "echo", echoInput{}, args, bootstrap.Streams{
		In:  strings.NewReader(stdin),
		Out: &stdout,
		Err: &stderr,
	})
	return status, stdout.String(), stderr.String()
}

func TestRun_Scheme(t *testing.T) {
	isolateEnv(t)

	for _, args := range [][]string{{"--scheme"}, {"--SCHEME"}, {"--scheme", "--host-extra", "x"}} {
		status, stdout, stderr := run(t, args, "")

		assert.Equal(t, app.StatusOK, status, stderr)
		assert.True(t, strings.HasPrefix(stdout, "<scheme><title>echo</title>"), stdout)
		assert.Contains(t, stdout, `<arg name="message">`)
		assert.NotContains(t, stdout, "<event")
	}
}

func TestRun_Stream(t *testing.T) {
	isolateEnv(t)

	status, stdout, stderr := run(t, nil, inputDoc)

	assert.Equal(t, app.StatusOK, status, stderr)
	assert.Equal(t, `<stream><event stanza="echo://one" unbroken="1"><data>hello</data><done/></event></stream>`, stdout)
}

func TestRun_ValidateRejects(t *testing.T) {
	isolateEnv(t)

	status, stdout, _ := run(t, []string{"--validate-arguments"}, emptyItemDoc)

	assert.Equal(t, app.StatusError, status)
	assert.Equal(t, "<error><message>message is required</message></error>", stdout)
}

func TestRun_ConfigFile(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	promPath := filepath.Join(dir, "echo.prom")
	cfgPath := filepath.Join(dir, "modinput.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: debug\nmetrics:\n  textfile: "+promPath+"\n"), 0o644))

	status, _, stderr := run(t, []string{"--config", cfgPath}, inputDoc)

	require.Equal(t, app.StatusOK, status, stderr)
	assert.Contains(t, stderr, "DEBUG Modular input echo: run finished")
	assert.Contains(t, stderr, "run_id=")

	prom, err := os.ReadFile(promPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `modinput_runs_total{input="echo",mode="stream",status="0"} 1`)
	assert.Contains(t, string(prom), `modinput_events_written_total{input="echo",stanza="echo://one"} 1`)
}

func TestRun_InvalidConfig(t *testing.T) {
	isolateEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "modinput.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: loud\n"), 0o644))

	status, stdout, stderr := run(t, []string{"-c", cfgPath, "--scheme"}, "")

	assert.Equal(t, app.StatusError, status)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "ERROR Modular input echo: load config failed")
}

func TestRun_WatchConfig(t *testing.T) {
	isolateEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "modinput.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: info\n  watch: true\n"), 0o644))

	status, stdout, stderr := run(t, []string{"--config", cfgPath}, inputDoc)

	assert.Equal(t, app.StatusOK, status, stderr)
	assert.Contains(t, stdout, "<data>hello</data>")
	assert.NotContains(t, stderr, "config watch disabled")
}

func TestRun_RunID(t *testing.T) {
	isolateEnv(t)
	t.Setenv("MODINPUT_LOG_LEVEL", "debug")

	var stdout, stderr bytes.Buffer
	status := bootstrap.Run(context.Background(), "echo", echoInput{}, nil, bootstrap.Streams{
		In:  strings.NewReader(inputDoc),
		Out: &stdout,
		Err: &stderr,
	}, bootstrap.WithIDGenerator(idgen.NewSequential("run-")))

	require.Equal(t, app.StatusOK, status, stderr.String())
	assert.Contains(t, stderr.String(), "run_id=run-1")
}

func TestRun_CommandErrorIsLogged(t *testing.T) {
	isolateEnv(t)

	var stderr bytes.Buffer
	status := bootstrap.Run(context.Background(), "echo", echoInput{}, []string{"--config"}, bootstrap.Streams{
		In:  strings.NewReader(""),
		Out: &bytes.Buffer{},
		Err: &stderr,
	})

	assert.Equal(t, app.StatusError, status)
	assert.Contains(t, stderr.String(), "ERROR Modular input echo: command failed")
}
