package cli

import (
	"bytes"
	"strings"
	"testing"

	"client-manager/internal/logging"
)

func TestHandleShellLog(t *testing.T) {
	t.Cleanup(func() { logging.SetVerbosity(0) })

	tests := []struct {
		name          string
		args          []string
		start         int
		wantVerbosity int
		wantOut       string
		wantErr       bool
	}{
		{name: "show", args: []string{"--show"}, start: 1, wantVerbosity: 1, wantOut: "log level: warn"},
		{name: "no flags", args: nil, start: 3, wantVerbosity: 3, wantOut: "log level:"},
		{name: "level name", args: []string{"--level", "debug"}, wantVerbosity: 2, wantOut: "log level set to debug (-v x2)"},
		{name: "count", args: []string{"-vv"}, wantVerbosity: 2, wantOut: "log level set to debug"},
		{name: "trace", args: []string{"--level=trace"}, wantVerbosity: 4, wantOut: "log level set to trace (-v x4)"},
		{name: "unknown level", args: []string{"--level", "loud"}, start: 1, wantVerbosity: 1, wantErr: true},
		{name: "unknown flag", args: []string{"--nope"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logging.SetVerbosity(0)
			var out bytes.Buffer
			session := tt.start

			err := handleShellLog(&out, tt.args, &session)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if session != tt.wantVerbosity {
				t.Errorf("session verbosity = %d, want %d", session, tt.wantVerbosity)
			}
			if !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("output = %q, want %q", out.String(), tt.wantOut)
			}
		})
	}
}

func TestSessionArgsCarryStore(t *testing.T) {
	root := NewRootCmd()
	if err := root.ParseFlags([]string{"--state=/tmp/x.yaml", "--store=file", "--autosave=false"}); err != nil {
		t.Fatal(err)
	}

	args := strings.Join(sessionArgs(), " ")
	for _, want := range []string{"--state=/tmp/x.yaml", "--store=file", "--autosave=false"} {
		if !strings.Contains(args, want) {
			t.Errorf("session args %q missing %q", args, want)
		}
	}
}
