package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ResolveBinaryPath finds a binary, checking common locations
func ResolveBinaryPath(binaryPath string) string {
	// If it's an absolute path, use it directly
	if filepath.IsAbs(binaryPath) {
		return binaryPath
	}

	// Check if it's in PATH
	if path, err := exec.LookPath(binaryPath); err == nil {
		return path
	}

	// Handle tilde prefix
	if strings.HasPrefix(binaryPath, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, binaryPath[1:])
		}
	}

	// Check common install locations used by CLI-packaged coding assistants
	home, err := os.UserHomeDir()
	if err == nil {
		commonPaths := []string{
			filepath.Join(home, ".local", "bin", binaryPath),
			filepath.Join(home, ".claude", "local", binaryPath),
			filepath.Join("/usr/local/bin", binaryPath),
			filepath.Join("/opt/homebrew/bin", binaryPath),
		}

		for _, p := range commonPaths {
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}

	// Return original, will fail with a helpful error later
	return binaryPath
}

// BinaryNotFoundError returns a helpful error message when an agent's
// command could not be resolved to an executable.
func BinaryNotFoundError(agentName, binary string) error {
	return fmt.Errorf(`%q not found in PATH (command: %q)

Check the orchestrator config for this agent, or add its install
directory to PATH before starting a planner or executor.`, agentName, binary)
}
