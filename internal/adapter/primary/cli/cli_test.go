package cli

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, statePath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--state=" + statePath, "--store=file"}, args...))
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, statePath string, args ...string) string {
	t.Helper()
	out, err := run(t, statePath, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func TestDraftLifecycle(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.json")

	if out := mustRun(t, state, "list"); !strings.Contains(out, "no devices") {
		t.Fatalf("empty list output = %q", out)
	}

	mustRun(t, state, "new")
	mustRun(t, state, "draft", "set", "--name", "kitchen", "--min", "200", "--max", "900")
	if out := mustRun(t, state, "finish"); !strings.Contains(out, `added "kitchen"`) {
		t.Fatalf("finish output = %q", out)
	}

	out := mustRun(t, state, "list")
	if !strings.Contains(out, "kitchen") || !strings.Contains(out, "200 - 900") {
		t.Fatalf("list output = %q", out)
	}
	if strings.Contains(out, "draft:") {
		t.Fatalf("draft still open after finish: %q", out)
	}
}

func TestFinishDuplicateWarns(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.json")
	mustRun(t, state, "new")
	mustRun(t, state, "draft", "set", "--name", "A")
	mustRun(t, state, "finish")

	mustRun(t, state, "new")
	mustRun(t, state, "draft", "set", "--name", "A")
	out, err := run(t, state, "finish")
	if err == nil {
		t.Fatal("expected duplicate commit to fail")
	}
	if !strings.Contains(out, "try a unique name") {
		t.Fatalf("missing warning in %q", out)
	}

	// the rejected draft and its warning survive a restart
	out = mustRun(t, state, "list")
	if !strings.Contains(out, `draft: "A"`) || !strings.Contains(out, "try a unique name") {
		t.Fatalf("list after rejection = %q", out)
	}

	mustRun(t, state, "draft", "set", "--name", "B")
	mustRun(t, state, "finish")
	out = mustRun(t, state, "list")
	if strings.Contains(out, "try a unique name") {
		t.Fatalf("warning not cleared: %q", out)
	}
}

func TestCancelDiscardsDraft(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.json")
	mustRun(t, state, "new")
	if out := mustRun(t, state, "cancel"); !strings.Contains(out, "draft discarded") {
		t.Fatalf("cancel output = %q", out)
	}
	if out := mustRun(t, state, "cancel"); !strings.Contains(out, "no draft") {
		t.Fatalf("second cancel output = %q", out)
	}
}

func TestRangeAndRemove(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.json")
	for _, name := range []string{"A", "B"} {
		mustRun(t, state, "new")
		mustRun(t, state, "draft", "set", "--name", name)
		mustRun(t, state, "finish")
	}

	if out := mustRun(t, state, "range", "1", "--min", "9000", "--max", "20000"); !strings.Contains(out, "B: 9000 - 10000") {
		t.Fatalf("range output = %q", out)
	}
	if out := mustRun(t, state, "list"); !strings.Contains(out, "9000 - 10000") {
		t.Fatalf("list output = %q", out)
	}

	if out := mustRun(t, state, "remove", "0"); !strings.Contains(out, "1 left") {
		t.Fatalf("remove output = %q", out)
	}
	out := mustRun(t, state, "list")
	if strings.Contains(out, " A ") || !strings.Contains(out, "B") {
		t.Fatalf("list after remove = %q", out)
	}

	if _, err := run(t, state, "remove", "5"); err == nil {
		t.Fatal("expected out of range index to fail")
	}
	if _, err := run(t, state, "remove", "x"); err == nil {
		t.Fatal("expected invalid index to fail")
	}
}

func TestStateGetFormats(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.json")
	mustRun(t, state, "new")
	mustRun(t, state, "draft", "set", "--name", "lamp")
	mustRun(t, state, "finish")

	out := mustRun(t, state, "state", "get")
	if !strings.Contains(out, `"name": "lamp"`) || !strings.Contains(out, `"draft": null`) {
		t.Fatalf("json output = %q", out)
	}

	out = mustRun(t, state, "state", "get", "--format", "yaml")
	if !strings.Contains(out, "name: lamp") {
		t.Fatalf("yaml output = %q", out)
	}

	if _, err := run(t, state, "state", "get", "--format", "xml"); err == nil {
		t.Fatal("expected unknown format to fail")
	}
}

func TestYAMLStateFile(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.yaml")
	mustRun(t, state, "new")
	mustRun(t, state, "draft", "set", "--name", "yaml-device")
	mustRun(t, state, "finish")
	if out := mustRun(t, state, "list"); !strings.Contains(out, "yaml-device") {
		t.Fatalf("list output = %q", out)
	}
}

func TestUnknownStoreRejected(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.json")
	if _, err := run(t, state, "--store=redis", "list"); err == nil {
		t.Fatal("expected unknown store to fail")
	}
}

func writeState(t *testing.T, path, doc string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write state: %v", err)
	}
}

func TestRangeWithPendingRemovalAhead(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    string
		wantNot string
	}{
		{
			name: "target becomes last",
			doc:  `{"devices":[{"name":"A","pending_removal":true},{"name":"B"}]}`,
			want: "B: 5 - 0",
		},
		{
			name:    "another device shifts into the index",
			doc:     `{"devices":[{"name":"A","pending_removal":true},{"name":"B"},{"name":"C"}]}`,
			want:    "B: 5 - 0",
			wantNot: "C:",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := filepath.Join(t.TempDir(), "state.json")
			writeState(t, state, tt.doc)

			out := mustRun(t, state, "range", "1", "--min", "5")
			if !strings.Contains(out, tt.want) {
				t.Fatalf("range output = %q, want %q", out, tt.want)
			}
			if tt.wantNot != "" && strings.Contains(out, tt.wantNot) {
				t.Fatalf("range output = %q, reported the wrong device", out)
			}

			list := mustRun(t, state, "list")
			if strings.Contains(list, " A ") || !strings.Contains(list, "5 - 0") {
				t.Fatalf("list after range = %q", list)
			}
		})
	}
}

func TestRangeOnPendingDevice(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.json")
	writeState(t, state, `{"devices":[{"name":"A","pending_removal":true},{"name":"B"}]}`)

	out := mustRun(t, state, "range", "0", "--max", "100")
	if !strings.Contains(out, "A: pending removal") {
		t.Fatalf("range output = %q", out)
	}
}

func TestReadOnlyCommandsDoNotWrite(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.json")
	mustRun(t, missing, "list")
	mustRun(t, missing, "state", "get")
	if _, err := os.Stat(missing); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("state file created by read-only commands: %v", err)
	}

	existing := filepath.Join(dir, "state.json")
	doc := `{"label":"lab","devices":[{"name":"A","pending_removal":true}]}`
	writeState(t, existing, doc)
	mustRun(t, existing, "list")
	mustRun(t, existing, "state", "get", "--format", "yaml")
	data, err := os.ReadFile(existing)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != doc {
		t.Fatalf("state file rewritten: %s", data)
	}
}
