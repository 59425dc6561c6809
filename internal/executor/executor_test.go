package executor

import (
	"context"
	"os/exec"
	"strings"
	"testing"
)

func TestExecute_CapturesStdout(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	out, err := New().Execute(context.Background(), "sh", "-c", "printf hello")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "hello" {
		t.Fatalf("out=%q", out)
	}
}

func TestExecute_IncludesStderrOnFailure(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	_, err := New().Execute(context.Background(), "sh", "-c", "echo broken >&2; exit 3")
	if err == nil || !strings.Contains(err.Error(), "stderr: broken") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}

func TestExecute_WorkingDir(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	out, err := Command{Dir: dir}.Execute(context.Background(), "sh", "-c", "pwd")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(strings.TrimSpace(out), strings.TrimPrefix(dir, "/private")) {
		t.Fatalf("pwd=%q, want %q", out, dir)
	}
}
