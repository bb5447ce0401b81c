package errors

import (
	"errors"
	"testing"
)

func TestGrowthError(t *testing.T) {
	underlying := errors.New("runtime: out of memory")
	err := NewGrowthError(3, 4096, underlying)

	if err.Type != ErrorTypeOutOfMemory {
		t.Errorf("Expected Type to be ErrorTypeOutOfMemory, got %v", err.Type)
	}

	if err.Class != 3 {
		t.Errorf("Expected Class to be 3, got %d", err.Class)
	}

	if err.RequestedBy != 4096 {
		t.Errorf("Expected RequestedBy to be 4096, got %d", err.RequestedBy)
	}

	if !errors.Is(err, underlying) {
		t.Errorf("Expected error to unwrap to underlying error")
	}

	expectedMsg := "out_of_memory: failed to grow class 3 for a 4096-byte request: runtime: out of memory"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}

	if err.Timestamp.IsZero() {
		t.Errorf("Expected non-zero timestamp")
	}
}

func TestDestroyedError(t *testing.T) {
	err := NewDestroyedError("Allocate")

	if err.Type != ErrorTypeDestroyed {
		t.Errorf("Expected Type to be ErrorTypeDestroyed, got %v", err.Type)
	}

	expectedMsg := "destroyed: Allocate called on a destroyed pool"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
}

func TestConfigError(t *testing.T) {
	underlying := errors.New("must be positive")
	err := NewConfigError("BaseSize", -1, underlying)

	if err.Field != "BaseSize" {
		t.Errorf("Expected Field to be 'BaseSize', got %s", err.Field)
	}

	if err.Value != -1 {
		t.Errorf("Expected Value to be -1, got %d", err.Value)
	}

	if !errors.Is(err, underlying) {
		t.Errorf("Expected error to unwrap to underlying error")
	}

	expectedMsg := "invalid_config: field BaseSize has invalid value -1: must be positive"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
}
