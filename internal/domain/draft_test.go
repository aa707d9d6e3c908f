package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestDraftEditorBeginNew(t *testing.T) {
	e := NewDraftEditor(nil, false)

	if e.Editing() {
		t.Fatal("new editor is editing")
	}
	if !e.BeginNew() {
		t.Fatal("BeginNew() = false on empty editor")
	}
	if err := e.SetName("A"); err != nil {
		t.Fatalf("SetName() error = %v", err)
	}
	if e.BeginNew() {
		t.Error("BeginNew() = true while editing, want no-op")
	}
	d, ok := e.Draft()
	if !ok || d.Name != "A" {
		t.Errorf("Draft() = %+v, %v; second BeginNew must not replace the draft", d, ok)
	}
}

func TestDraftEditorRequiresDraft(t *testing.T) {
	e := NewDraftEditor(nil, false)
	r := NewRegistry(nil)

	checks := map[string]error{
		"SetName":         e.SetName("A"),
		"SetFrequencyMin": e.SetFrequencyMin(1),
		"SetFrequencyMax": e.SetFrequencyMax(1),
		"AttemptCommit":   e.AttemptCommit(r),
	}
	for name, err := range checks {
		if !errors.Is(err, ErrNoDraft) {
			t.Errorf("%s() error = %v, want ErrNoDraft", name, err)
		}
	}
	if e.Cancel() {
		t.Error("Cancel() = true without a draft")
	}
}

func TestDraftEditorCommitSuccess(t *testing.T) {
	e := NewDraftEditor(nil, true)
	r := NewRegistry(nil)

	e.BeginNew()
	_ = e.SetName("A")
	_ = e.SetFrequencyMin(100)
	_ = e.SetFrequencyMax(50)

	if err := e.AttemptCommit(r); err != nil {
		t.Fatalf("AttemptCommit() error = %v", err)
	}
	if e.Editing() || e.Warn() {
		t.Errorf("after commit Editing() = %v, Warn() = %v; want false, false", e.Editing(), e.Warn())
	}
	want := []Device{{Name: "A", FrequencyMin: 100, FrequencyMax: 50, Sectors: []Sector{}}}
	if got := r.Devices(); !reflect.DeepEqual(got, want) {
		t.Errorf("Devices() = %+v, want %+v", got, want)
	}
}

func TestDraftEditorCommitDuplicate(t *testing.T) {
	e := NewDraftEditor(nil, false)
	r := NewRegistry([]Device{{Name: "A"}})
	before := r.Devices()

	e.BeginNew()
	_ = e.SetName("A")

	err := e.AttemptCommit(r)
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("AttemptCommit() error = %v, want ErrDuplicateName", err)
	}
	if !e.Warn() {
		t.Error("Warn() = false after collision")
	}
	d, ok := e.Draft()
	if !ok || d.Name != "A" {
		t.Errorf("Draft() = %+v, %v; want retained draft named A", d, ok)
	}
	if !reflect.DeepEqual(r.Devices(), before) {
		t.Errorf("registry changed on failed commit")
	}

	_ = e.SetName("B")
	if err := e.AttemptCommit(r); err != nil {
		t.Fatalf("AttemptCommit() after rename error = %v", err)
	}
	if e.Warn() {
		t.Error("Warn() = true after successful commit")
	}
}

func TestDraftEditorCancel(t *testing.T) {
	e := NewDraftEditor(&Device{Name: "A"}, true)

	if !e.Cancel() {
		t.Fatal("Cancel() = false with a draft")
	}
	if e.Editing() || e.Warn() {
		t.Errorf("after Cancel Editing() = %v, Warn() = %v; want false, false", e.Editing(), e.Warn())
	}
	if !e.BeginNew() {
		t.Error("BeginNew() = false after Cancel")
	}
}

func TestDraftEditorBeginNewClearsWarn(t *testing.T) {
	e := NewDraftEditor(nil, true)
	e.BeginNew()
	if e.Warn() {
		t.Error("Warn() = true on a fresh draft")
	}
}
