package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"esgate/internal/buildpipeline"
)

func TestProgressModelRecordsEvents(t *testing.T) {
	events := make(chan buildpipeline.Event)
	m := NewProgressModel("check", "/p", events).(*progressModel)

	for _, ev := range []buildpipeline.Event{
		{File: "/p/src/a.js", Stage: buildpipeline.StageScan, Status: buildpipeline.StatusQueued},
		{File: "/p/src/b.js", Stage: buildpipeline.StageScan, Status: buildpipeline.StatusQueued},
		{File: "/p/src/a.js", Stage: buildpipeline.StageScan, Status: buildpipeline.StatusWorking},
		{File: "/p/src/b.js", Stage: buildpipeline.StageScan, Status: buildpipeline.StatusError, Err: errors.New("2 diagnostics")},
		{File: "/elsewhere/c.js", Stage: buildpipeline.StageBundle, Status: buildpipeline.StatusDone},
		{Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusWorking},
	} {
		m.Update(eventMsg(ev))
	}

	if len(m.rows) != 3 {
		t.Fatalf("rows = %+v", m.rows)
	}
	view := m.View()
	for _, want := range []string{"check", "scanning src/a.js", "error src/b.js", "done /elsewhere/c.js"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "/p/src") {
		t.Errorf("paths under the base dir should be relative:\n%s", view)
	}
}

func TestProgressModelQuitsWhenEventsClose(t *testing.T) {
	events := make(chan buildpipeline.Event)
	close(events)
	m := NewProgressModel("build", "", events).(*progressModel)

	msg := m.next()()
	if _, ok := msg.(closedMsg); !ok {
		t.Fatalf("next() = %#v", msg)
	}
	_, cmd := m.Update(msg)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
	if !strings.Contains(m.View(), "build: finished") {
		t.Errorf("view = %q", m.View())
	}
}

func TestProgressModelTruncatesToWidth(t *testing.T) {
	events := make(chan buildpipeline.Event)
	m := NewProgressModel("check", "", events).(*progressModel)
	m.Update(tea.WindowSizeMsg{Width: 30})
	m.Update(eventMsg{File: "/a/very/long/path/to/an/entry/point.js", Status: buildpipeline.StatusDone})

	line := strings.Split(m.View(), "\n")[2]
	if !strings.HasSuffix(line, "...") {
		t.Fatalf("line not truncated: %q", line)
	}
	if got := len(strings.TrimSpace(line[strings.LastIndex(line, " ")+1:])); got > 30-labelWidth-4 {
		t.Errorf("name takes %d columns", got)
	}
}

func TestRelativeTo(t *testing.T) {
	tests := []struct {
		base, file, want string
	}{
		{"", "/p/a.js", "/p/a.js"},
		{"/p", "/p/src/a.js", "src/a.js"},
		{"/p", "/q/a.js", "/q/a.js"},
	}
	for _, tt := range tests {
		if got := relativeTo(tt.base, tt.file); got != tt.want {
			t.Errorf("relativeTo(%q, %q) = %q, want %q", tt.base, tt.file, got, tt.want)
		}
	}
}
