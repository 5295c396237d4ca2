package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/artpar/modinput/adapters/clock"
	"github.com/artpar/modinput/adapters/hostlog"
	"github.com/artpar/modinput/adapters/random"
	"github.com/artpar/modinput/adapters/sqlite"
	"github.com/artpar/modinput/app"
	"github.com/artpar/modinput/domain/scheme"
	"github.com/rs/zerolog"
)

func newTestRunner(t *testing.T, values ...float64) (*app.Runner, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	input := &RandomNumbers{
		Clock:  clock.NewFake(time.UnixMilli(1372187084424)),
		Random: random.NewFake(values...),
	}
	runner := app.NewRunner(input, app.RunnerDeps{
		Stdout: &stdout,
		Stderr: &stderr,
		Logger: hostlog.New(&stderr, "random_numbers", zerolog.InfoLevel),
	}, app.RunnerConfig{Name: "random_numbers"})
	return runner, &stdout, &stderr
}

func inputDoc(checkpointDir string) string {
	return `<input>
  <server_host>tiny</server_host>
  <server_uri>https://127.0.0.1:8089</server_uri>
  <checkpoint_dir>` + checkpointDir + `</checkpoint_dir>
  <session_key>123102983109283019283</session_key>
  <configuration>
    <stanza name="random_numbers://aaa">
      <param name="min">0</param>
      <param name="max">10</param>
    </stanza>
    <stanza name="random_numbers://bbb">
      <param name="min">100</param>
      <param name="max">200</param>
    </stanza>
  </configuration>
</input>`
}

func validationDoc(min, max string) string {
	return `<items>
  <server_host>tiny</server_host>
  <item name="aaa">
    <param name="min">` + min + `</param>
    <param name="max">` + max + `</param>
  </item>
</items>`
}

func TestScheme(t *testing.T) {
	runner, stdout, _ := newTestRunner(t)

	if status := runner.Run(context.Background(), []string{"--scheme"}, nil); status != 0 {
		t.Fatalf("status = %d", status)
	}

	names, err := scheme.ArgumentNames(stdout.String())
	if err != nil {
		t.Fatalf("ArgumentNames: %v", err)
	}
	if strings.Join(names, ",") != "min,max" {
		t.Errorf("arguments = %v, want [min max]", names)
	}
	if !strings.Contains(stdout.String(), "<data_type>NUMBER</data_type>") {
		t.Errorf("scheme missing number data type: %s", stdout.String())
	}
}

func TestStreamEvents(t *testing.T) {
	dir := t.TempDir()
	runner, stdout, stderr := newTestRunner(t, 0.5, 0.25)

	if status := runner.Run(context.Background(), nil, strings.NewReader(inputDoc(dir))); status != 0 {
		t.Fatalf("status = %d, stderr: %s", status, stderr.String())
	}

	want := `<stream>` +
		`<event stanza="random_numbers://aaa" unbroken="1"><time>1372187084.424</time><data>number=5</data><done/></event>` +
		`<event stanza="random_numbers://bbb" unbroken="1"><time>1372187084.424</time><data>number=125</data><done/></event>` +
		`</stream>`
	if got := stdout.String(); got != want {
		t.Errorf("output\n got: %s\nwant: %s", got, want)
	}

	db, err := sqlite.OpenInDir(dir, "checkpoints.db")
	if err != nil {
		t.Fatalf("open checkpoints: %v", err)
	}
	store := sqlite.NewCheckpointStore(db)
	defer store.Close()

	for stanza, want := range map[string]string{
		"random_numbers://aaa": "5",
		"random_numbers://bbb": "125",
	} {
		got, ok, err := store.Get(context.Background(), stanza, checkpointKey)
		if err != nil || !ok || got != want {
			t.Errorf("checkpoint %s = %q, %v, %v; want %q", stanza, got, ok, err, want)
		}
	}
}

func TestStreamEvents_BadBounds(t *testing.T) {
	runner, stdout, stderr := newTestRunner(t, 0.5)
	doc := strings.Replace(inputDoc(t.TempDir()), `<param name="max">10</param>`, `<param name="max">ten</param>`, 1)

	if status := runner.Run(context.Background(), nil, strings.NewReader(doc)); status != 1 {
		t.Fatalf("status = %d, want 1", status)
	}
	if strings.Contains(stdout.String(), "random_numbers://aaa") {
		t.Error("stanza with bad bounds should not emit an event")
	}
	if !strings.Contains(stdout.String(), "random_numbers://bbb") {
		t.Error("sibling stanza should still emit its event")
	}
	if !strings.Contains(stderr.String(), `max must be a number`) {
		t.Errorf("stderr = %s", stderr.String())
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name     string
		min, max string
		status   int
		message  string
	}{
		{"valid", "0", "10", 0, ""},
		{"fractional", "0.5", "0.75", 0, ""},
		{"equal", "5", "5", 1, "min must be less than max; found min=5, max=5"},
		{"inverted", "10", "1", 1, "min must be less than max; found min=10, max=1"},
		{"not a number", "zero", "1", 1, "min must be a number, got zero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner, stdout, _ := newTestRunner(t)

			status := runner.Run(context.Background(), []string{"--validate-arguments"}, strings.NewReader(validationDoc(tt.min, tt.max)))
			if status != tt.status {
				t.Fatalf("status = %d, want %d", status, tt.status)
			}
			if tt.message == "" {
				if stdout.Len() != 0 {
					t.Errorf("unexpected output: %s", stdout.String())
				}
				return
			}
			want := "<error><message>" + tt.message + "</message></error>"
			if got := stdout.String(); got != want {
				t.Errorf("output\n got: %s\nwant: %s", got, want)
			}
		})
	}
}
