package cli

import (
	"syscall"
	"testing"
	"time"
)

func TestSetupSignalHandler(t *testing.T) {
	ctx, stop := SetupSignalHandler()
	defer stop()

	select {
	case <-ctx.Done():
		t.Fatal("context should not be cancelled initially")
	default:
	}

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("failed to send signal: %v", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled after SIGTERM")
	}
}

func TestSetupSignalHandler_Stop(t *testing.T) {
	ctx, stop := SetupSignalHandler()
	stop()

	select {
	case <-ctx.Done():
	default:
		t.Error("stop should cancel the context")
	}
}
