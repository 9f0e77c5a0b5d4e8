package handle

import (
	"context"
	"os/exec"
	"testing"
	"time"
)

func TestHandle_FromCmd_Success(t *testing.T) {
	cmd := exec.Command("true")
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot spawn true: %v", err)
	}
	h := FromCmd(cmd)

	success, err := h.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !success {
		t.Fatal("expected success")
	}
}

func TestHandle_FromCmd_Failure(t *testing.T) {
	cmd := exec.Command("false")
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot spawn false: %v", err)
	}
	h := FromCmd(cmd)

	success, err := h.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait returned a non-exit error: %v", err)
	}
	if success {
		t.Fatal("expected failure")
	}
}

func TestHandle_AlreadyFinished(t *testing.T) {
	h := AlreadyFinished()
	success, done, err := h.TryStatus()
	if !done || !success || err != nil {
		t.Fatalf("expected immediately-done success, got success=%v done=%v err=%v", success, done, err)
	}
}

func TestHandle_Wait_ContextCancel(t *testing.T) {
	cmd := exec.Command("sleep", "5")
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot spawn sleep: %v", err)
	}
	defer cmd.Process.Kill()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	h := FromCmd(cmd)
	_, err := h.Wait(ctx)
	if err == nil {
		t.Fatal("expected context deadline error")
	}
}

func TestHandle_TryStatus_NotYetDone(t *testing.T) {
	cmd := exec.Command("sleep", "5")
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot spawn sleep: %v", err)
	}
	defer cmd.Process.Kill()

	h := FromCmd(cmd)
	_, done, _ := h.TryStatus()
	if done {
		t.Fatal("expected not done immediately after spawn")
	}
}
