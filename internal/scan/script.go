package scan

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ScriptSource invokes an external scan script once per poll and parses its
// stdout into one identifier per line. The script is expected to print each
// visible network name newline-terminated and exit; stderr is discarded.
type ScriptSource struct {
	shell  string
	script string

	// run is swappable for tests; it defaults to executing the script
	// under the configured shell.
	run func(ctx context.Context) ([]byte, error)
}

// NewScriptSource creates a source that runs the given script with
// /bin/bash, the invocation used on the deployed image.
func NewScriptSource(script string) *ScriptSource {
	s := &ScriptSource{shell: "/bin/bash", script: script}
	s.run = s.execScript
	return s
}

func (s *ScriptSource) execScript(ctx context.Context) ([]byte, error) {
	cmd := exec.CommandContext(ctx, s.shell, s.script)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("scan script %s: %w", s.script, err)
	}
	return out, nil
}

// Poll runs the script and returns its output lines with line terminators
// stripped. Blank lines are dropped here; sentinel filtering is the
// sampler's policy, not the source's.
func (s *ScriptSource) Poll(ctx context.Context) ([]string, error) {
	out, err := s.run(ctx)
	if err != nil {
		return nil, err
	}

	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return lines, fmt.Errorf("parsing scan output: %w", err)
	}
	return lines, nil
}

func (s *ScriptSource) String() string {
	return fmt.Sprintf("script:%s", s.script)
}
