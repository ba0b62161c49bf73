package execrun

import (
	"context"
	"testing"
	"time"
)

func TestTailBufferKeepsOnlyTail(t *testing.T) {
	buf := newTailBuffer(8)

	if _, err := buf.Write([]byte("abcd")); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "abcd" {
		t.Fatalf("tail = %q", buf.String())
	}

	if _, err := buf.Write([]byte("efghij")); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "cdefghij" {
		t.Fatalf("tail = %q, want last 8 bytes", buf.String())
	}

	if _, err := buf.Write([]byte("0123456789")); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "23456789" {
		t.Fatalf("tail = %q, oversized write keeps its own tail", buf.String())
	}
}

func TestRunnerMissingBinary(t *testing.T) {
	runner := NewSubprocessRunner(nil, nil)
	result := runner.Run(context.Background(), Spec{
		Bin:     "definitely-not-a-real-binary-mvorg",
		Timeout: 5 * time.Second,
	})
	if result.ExitCode != 127 {
		t.Fatalf("ExitCode = %d, want 127 for a missing binary", result.ExitCode)
	}
}

func TestRunnerEmptyBinary(t *testing.T) {
	runner := NewSubprocessRunner(nil, nil)
	result := runner.Run(context.Background(), Spec{})
	if result.ExitCode != 1 || result.Err == nil {
		t.Fatalf("result = %+v, want failure for empty binary", result)
	}
}

func TestRunnerCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewSubprocessRunner(nil, nil)
	result := runner.Run(ctx, Spec{Bin: "sleep", Args: []string{"10"}})
	if !result.Interrupted {
		t.Fatalf("result = %+v, want interrupted", result)
	}
	if result.ExitCode != 130 {
		t.Fatalf("ExitCode = %d, want 130", result.ExitCode)
	}
}
