package config_test

import (
	"testing"
	"time"

	"istanbul-news/pkg/config"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("TEST_STRING", "value")
	if got := config.GetEnvString("TEST_STRING", "default"); got != "value" {
		t.Errorf("GetEnvString() = %q, want value", got)
	}
	if got := config.GetEnvString("TEST_STRING_UNSET", "default"); got != "default" {
		t.Errorf("GetEnvString() = %q, want default", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	if got := config.GetEnvInt("TEST_INT", 7); got != 42 {
		t.Errorf("GetEnvInt() = %d, want 42", got)
	}

	t.Setenv("TEST_INT_BAD", "not-a-number")
	if got := config.GetEnvInt("TEST_INT_BAD", 7); got != 7 {
		t.Errorf("GetEnvInt() = %d, want default 7", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	if got := config.GetEnvBool("TEST_BOOL", false); !got {
		t.Error("GetEnvBool() = false, want true")
	}

	t.Setenv("TEST_BOOL_BAD", "yes")
	if got := config.GetEnvBool("TEST_BOOL_BAD", false); got {
		t.Error("GetEnvBool() = true, want default false")
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "3m")
	if got := config.GetEnvDuration("TEST_DURATION", time.Second); got != 3*time.Minute {
		t.Errorf("GetEnvDuration() = %v, want 3m", got)
	}

	t.Setenv("TEST_DURATION_BAD", "180")
	if got := config.GetEnvDuration("TEST_DURATION_BAD", time.Second); got != time.Second {
		t.Errorf("GetEnvDuration() = %v, want default 1s", got)
	}
}
