package main

import (
	"context"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/nkale/storyreel/internal/tuitest"
)

// Boots the real binary on a PTY with no API key and checks the idea screen
// renders. Content assertions rather than byte snapshots: the typewriter
// reveal makes exact frames timing-dependent.
func TestStoryReelBootsWithoutAPIKey(t *testing.T) {
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)

	rec, err := tuitest.Run(context.Background(), tuitest.Script{
		Command: []string{binary, "-no-alt-screen"},
		Dir:     cmdDir,
		Env:     []string{"GEMINI_API_KEY="},
		Steps: []tuitest.Step{
			{Delay: 2 * time.Second},
			{Input: tuitest.KeyCtrlC},
		},
		Timeout:        15 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	for _, want := range []string{"StoryReel", "Your story idea"} {
		if !rec.Contains(want) {
			t.Errorf("rendered output missing %q\n%s", want, rec.Screen())
		}
	}
}

// Submitting an idea without credentials must surface a message instead of
// crashing or hanging.
func TestStoryReelExplainsMissingKey(t *testing.T) {
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)

	rec, err := tuitest.Run(context.Background(), tuitest.Script{
		Command: []string{binary, "-no-alt-screen"},
		Dir:     cmdDir,
		Env:     []string{"GEMINI_API_KEY="},
		Steps: []tuitest.Step{
			{Delay: 2 * time.Second, Input: []byte("a fox learns to fly")},
			{Delay: 200 * time.Millisecond, Input: tuitest.KeyEnter},
			{Delay: time.Second, Input: tuitest.KeyCtrlC},
		},
		Timeout:        20 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	if !rec.Contains("GEMINI_API_KEY") {
		t.Errorf("expected a missing-key notice in output\n%s", rec.Screen())
	}
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "storyreel-integration")
	if runtime.GOOS == "windows" {
		binPath += ".exe"
	}
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
