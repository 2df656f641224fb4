package browser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/abrezinsky/hockeyscorer/internal/logger"
)

// mockCommander records command executions for testing
type mockCommander struct {
	lastCommand string
	lastArgs    []string
	startError  error
}

func (m *mockCommander) Start(name string, args ...string) error {
	m.lastCommand = name
	m.lastArgs = args
	return m.startError
}

func TestLauncher_Open(t *testing.T) {
	url := "http://192.168.1.100:8082/"
	tests := []struct {
		goos    string
		command string
		args    []string
	}{
		{"linux", "xdg-open", []string{url}},
		{"freebsd", "xdg-open", []string{url}},
		{"darwin", "open", []string{url}},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", url}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			mock := &mockCommander{}
			if err := NewWithCommander(logger.Discard(), mock, tt.goos).Open(url); err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if mock.lastCommand != tt.command {
				t.Errorf("expected command %q, got %q", tt.command, mock.lastCommand)
			}
			if strings.Join(mock.lastArgs, " ") != strings.Join(tt.args, " ") {
				t.Errorf("expected args %v, got %v", tt.args, mock.lastArgs)
			}
		})
	}
}

func TestLauncher_UnsupportedPlatform(t *testing.T) {
	mock := &mockCommander{}
	err := NewWithCommander(logger.Discard(), mock, "plan9").Open("http://localhost:8082/")
	if err == nil || !strings.Contains(err.Error(), "plan9") {
		t.Fatalf("expected unsupported platform error, got %v", err)
	}
	if mock.lastCommand != "" {
		t.Error("expected no command to run")
	}
}

func TestLauncher_CommandError(t *testing.T) {
	mock := &mockCommander{startError: fmt.Errorf("command execution failed")}
	err := NewWithCommander(logger.Discard(), mock, "linux").Open("http://localhost:8082/")
	if err == nil || err.Error() != "command execution failed" {
		t.Errorf("expected commander error, got %v", err)
	}
}
