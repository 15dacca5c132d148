// Package setup implements the interactive pdbridge setup wizard.
package setup

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"

	"github.com/pdbridge/pdbridge/pkg/models"
)

const DefaultEnvPath = "/etc/pdbridge/env"

// routingKeyEnvVar holds the routing key so the secret never lands in
// the config file itself.
const routingKeyEnvVar = "PDBRIDGE_ROUTING_KEY"

// defaultConfigTemplate is written when no config file exists yet.
const defaultConfigTemplate = `# pdbridge Configuration

pagerduty:
  name: "pagerduty"
  routing_key: "${PDBRIDGE_ROUTING_KEY}"
  default_source: "home-assistant"
  default_severity: "info"
`

// Run is the entry point for the interactive setup wizard.
func Run(configPath, envPath string) error {
	fmt.Println()
	fmt.Println("pdbridge Setup")
	fmt.Println("──────────────")
	fmt.Println()

	if err := ensureConfig(configPath); err != nil {
		return err
	}

	r := bufio.NewReader(os.Stdin)

	// ── Routing key ──────────────────────────────────────────────
	fmt.Println("  PagerDuty")
	fmt.Println("  ──────────────────────────────────────────────────────────")
	fmt.Println("  Service → Integrations → Events API v2 → Integration Key")
	fmt.Println()

	key, err := readMasked(r, "  Routing key: ")
	if err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("routing key must not be empty")
	}

	if err := writeEnvFile(envPath, map[string]string{routingKeyEnvVar: key}); err != nil {
		return fmt.Errorf("writing env file: %w", err)
	}
	// Set in current process so the test subprocess inherits it
	// (config.Load uses os.ExpandEnv which reads the process environment).
	_ = os.Setenv(routingKeyEnvVar, key)
	fmt.Printf("  ✅ Routing key saved to %s\n", envPath)
	fmt.Println()

	// ── Defaults ─────────────────────────────────────────────────
	fmt.Print("  Default source [home-assistant]: ")
	source := strings.TrimSpace(readLine(r))

	severity, err := readSeverity(r)
	if err != nil {
		return err
	}

	fmt.Print("  Display name [pagerduty]: ")
	name := strings.TrimSpace(readLine(r))
	fmt.Println()

	// ── Update config ─────────────────────────────────────────────
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	updated := applySettings(string(configData), name, source, severity)
	if err := os.WriteFile(configPath, []byte(updated), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Printf("  ✅ Config updated: %s\n", configPath)
	fmt.Println()

	// ── Test event ────────────────────────────────────────────────
	fmt.Print("  Send a test event? [Y/n]: ")
	if readBool(r, true) {
		fmt.Print("  Sending... ")
		if err := runTest(configPath); err != nil {
			fmt.Printf("\n  ⚠️  Test failed: %v\n", err)
			fmt.Println("  Check your routing key, then retry: pdbridge test")
		} else {
			fmt.Println("✅")
		}
	}

	fmt.Println()
	fmt.Println("✅ Setup complete!")
	fmt.Println("   Send an event with: pdbridge send \"your message\"")
	fmt.Println()
	return nil
}

// ensureConfig creates the config file from the default template if absent.
func ensureConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	dir := path[:strings.LastIndexByte(path, '/')]
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0600); err != nil {
		return fmt.Errorf("creating default config: %w", err)
	}
	fmt.Printf("  Created default config: %s\n\n", path)
	return nil
}

// readSeverity prompts until it gets a severity the events API accepts
// (or an empty line, which keeps the default).
func readSeverity(r *bufio.Reader) (string, error) {
	for {
		fmt.Print("  Default severity [critical/error/warning/info] (default: info): ")
		v := strings.ToLower(strings.TrimSpace(readLine(r)))
		if v == "" || models.Severity(v).Valid() {
			return v, nil
		}
		fmt.Printf("  ⚠️  %q is not a valid severity\n", v)
	}
}

// applySettings updates the config YAML with non-empty wizard answers.
// Empty answers keep the template defaults.
func applySettings(cfg, name, source, severity string) string {
	if name != "" {
		cfg = strings.Replace(cfg, `  name: "pagerduty"`, fmt.Sprintf(`  name: "%s"`, name), 1)
	}
	if source != "" {
		cfg = strings.Replace(cfg, `  default_source: "home-assistant"`, fmt.Sprintf(`  default_source: "%s"`, source), 1)
	}
	if severity != "" {
		cfg = strings.Replace(cfg, `  default_severity: "info"`, fmt.Sprintf(`  default_severity: "%s"`, severity), 1)
	}
	return cfg
}

// writeEnvFile writes KEY=value pairs to path (one per line, mode 0600).
func writeEnvFile(path string, vars map[string]string) error {
	var sb strings.Builder
	for k, v := range vars {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(v)
		sb.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(sb.String()), 0600)
}

// runTest invokes the current binary's "test" subcommand to verify the
// routing key. The child process inherits the parent's environment, so
// the os.Setenv above is visible to config.Load → os.ExpandEnv.
func runTest(configPath string) error {
	self, err := os.Executable()
	if err != nil {
		self = "pdbridge"
	}
	cmd := exec.Command(self, "--config", configPath, "test")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// readLine reads one line from r, stripping the trailing newline.
func readLine(r *bufio.Reader) string {
	line, _ := r.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

// readMasked reads a secret without echoing characters when stdin is a TTY.
// Falls back to plain line reading for non-interactive contexts (pipes, CI).
func readMasked(r *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println() // restore cursor to new line
		if err != nil {
			return "", fmt.Errorf("reading secret: %w", err)
		}
		return string(b), nil
	}
	return readLine(r), nil
}

// readBool parses a y/n response; returns defaultVal on empty input.
func readBool(r *bufio.Reader, defaultVal bool) bool {
	line := strings.ToLower(strings.TrimSpace(readLine(r)))
	if line == "" {
		return defaultVal
	}
	return line == "y" || line == "yes"
}
