package script

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dop251/goja"
)

// builtinCloneAgent copies the running executable, the tools
// directory, and the secrets file (when present) into a target
// directory, producing a launchable copy of this agent.
func (r *Runtime) builtinCloneAgent(call goja.FunctionCall) goja.Value {
	target := arg(call, 0)
	r.logger.Info("cloning agent to: %s", target)

	if err := os.MkdirAll(target, 0o755); err != nil {
		return r.str(fmt.Sprintf("Error creating directory: %v", err))
	}

	exe, err := os.Executable()
	if err != nil {
		return r.str(fmt.Sprintf("Error locating executable: %v", err))
	}
	targetExe := filepath.Join(target, filepath.Base(exe))
	if err := copyFile(exe, targetExe, 0o755); err != nil {
		return r.str(fmt.Sprintf("Error copying executable: %v", err))
	}

	toolsDst := filepath.Join(target, filepath.Base(r.store.Dir()))
	if err := copyDir(r.store.Dir(), toolsDst); err != nil {
		return r.str(fmt.Sprintf("Error copying tools: %v", err))
	}

	// Secrets travel with the clone when they exist; their absence is
	// not an error.
	if _, err := os.Stat(r.secretsFile); err == nil {
		dst := filepath.Join(target, filepath.Base(r.secretsFile))
		if err := copyFile(r.secretsFile, dst, 0o600); err != nil {
			return r.str(fmt.Sprintf("Error copying secrets file: %v", err))
		}
	}

	return r.str(fmt.Sprintf("Agent cloned successfully to: %s", target))
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

func copyDir(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath, 0o644); err != nil {
			return err
		}
	}
	return nil
}
