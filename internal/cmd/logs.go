package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/taskgraph/internal/config"
	"github.com/Iron-Ham/taskgraph/internal/logging"
	"github.com/Iron-Ham/taskgraph/internal/tui/styles"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the taskgraph log",
	Long: `View and filter the taskgraph log file in $XDG_STATE_HOME/taskgraph.

Examples:
  # Show the last 50 entries
  taskgraph logs

  # Show everything
  taskgraph logs -n 0

  # Follow the log while the editor runs in another terminal
  taskgraph logs -f

  # Only warnings and errors from the graph engine in the last hour
  taskgraph logs --level warn --component graph --since 1h

  # Search messages and fields
  taskgraph logs --grep "cycle|malformed"`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var (
	logsTail      int
	logsFollow    bool
	logsLevel     string
	logsSince     string
	logsGrep      string
	logsComponent string
)

// followInterval is how often --follow polls the log for new lines.
var followInterval = 100 * time.Millisecond

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output (like tail -f)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show entries since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter entries matching pattern (regex)")
	logsCmd.Flags().StringVar(&logsComponent, "component", "", "Only entries from this component (graph, project, tui, cli)")
}

// logEntry is one parsed JSON log line.
type logEntry struct {
	Time      time.Time      `json:"time"`
	Level     string         `json:"level"`
	Msg       string         `json:"msg"`
	Component string         `json:"component,omitempty"`
	Project   string         `json:"project,omitempty"`
	Extra     map[string]any `json:"-"`
}

// UnmarshalJSON keeps the fields it does not know about in Extra.
func (e *logEntry) UnmarshalJSON(data []byte) error {
	type alias logEntry
	aux := &struct{ *alias }{alias: (*alias)(e)}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, known := range []string{"time", "level", "msg", "component", "project"} {
		delete(all, known)
	}
	if len(all) > 0 {
		e.Extra = all
	}
	return nil
}

// logFilter holds the parsed filter flags.
type logFilter struct {
	minLevel  int
	since     time.Time
	grep      *regexp.Regexp
	component string
}

func levelPriority(level string) int {
	switch strings.ToUpper(level) {
	case logging.LevelDebug:
		return 0
	case logging.LevelInfo:
		return 1
	case logging.LevelWarn:
		return 2
	case logging.LevelError:
		return 3
	default:
		return -1
	}
}

func newLogFilter(now time.Time) (logFilter, error) {
	f := logFilter{minLevel: -1, component: logsComponent}
	if logsLevel != "" {
		f.minLevel = levelPriority(logging.ParseLevel(logsLevel))
	}
	if logsSince != "" {
		d, err := time.ParseDuration(logsSince)
		if err != nil {
			return f, fmt.Errorf("invalid duration format: %w", err)
		}
		f.since = now.Add(-d)
	}
	if logsGrep != "" {
		re, err := regexp.Compile(logsGrep)
		if err != nil {
			return f, fmt.Errorf("invalid grep pattern: %w", err)
		}
		f.grep = re
	}
	return f, nil
}

func (f logFilter) pass(e *logEntry) bool {
	if f.minLevel >= 0 && levelPriority(e.Level) < f.minLevel {
		return false
	}
	if !f.since.IsZero() && e.Time.Before(f.since) {
		return false
	}
	if f.component != "" && e.Component != f.component {
		return false
	}
	if f.grep != nil {
		text := e.Msg + " " + e.Project
		for _, v := range e.Extra {
			text += " " + fmt.Sprint(v)
		}
		if !f.grep.MatchString(text) {
			return false
		}
	}
	return true
}

// logFormatter renders entries with the configured theme.
type logFormatter struct {
	styles *styles.Styles
}

func (lf logFormatter) format(e *logEntry) string {
	s := lf.styles
	level := strings.ToUpper(e.Level)

	var b strings.Builder
	b.WriteString(s.Muted.Render("[" + e.Time.Format("15:04:05.000") + "]"))
	b.WriteString(" ")
	switch level {
	case logging.LevelDebug:
		b.WriteString(s.Muted.Render("[" + level + "]"))
	case logging.LevelWarn:
		b.WriteString(s.Warning.Render("[" + level + "]"))
	case logging.LevelError:
		b.WriteString(s.Error.Render("[" + level + "]"))
	default:
		b.WriteString(s.Primary.Render("[" + level + "]"))
	}
	b.WriteString(" ")
	b.WriteString(e.Msg)

	if e.Component != "" {
		b.WriteString(" " + s.Primary.Render("component=") + e.Component)
	}
	if e.Project != "" {
		b.WriteString(" " + s.Primary.Render("project=") + e.Project)
	}

	keys := make([]string, 0, len(e.Extra))
	for k := range e.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" " + s.Muted.Render(k+"=") + fmt.Sprint(e.Extra[k]))
	}
	return b.String()
}

// formatLine returns the rendered line and whether it passed the filter.
// Lines that are not JSON are passed through unchanged.
func (lf logFormatter) formatLine(line string, f logFilter) (string, bool) {
	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return line, true
	}
	if !f.pass(&entry) {
		return "", false
	}
	return lf.format(&entry), true
}

func logPath() string {
	return filepath.Join(config.StateDir(), logging.FileName)
}

func runLogs(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path := logPath()

	if exists, _ := afero.Exists(appFs, path); !exists {
		fmt.Fprintln(out, "No log file yet.")
		fmt.Fprintln(out, "Logs are stored at:", path)
		return nil
	}

	filter, err := newLogFilter(time.Now())
	if err != nil {
		return err
	}

	_, _ = styles.DiscoverCustomThemes(appFs, config.ThemesDir())
	lf := logFormatter{styles: styles.ForTheme(config.Get().UI.Theme)}

	if logsFollow {
		return followLogs(cmd.Context(), out, path, lf, filter)
	}
	return displayLogs(out, path, logsTail, lf, filter)
}

func displayLogs(out io.Writer, path string, tail int, lf logFormatter, f logFilter) error {
	file, err := appFs.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if rendered, ok := lf.formatLine(line, f); ok {
			lines = append(lines, rendered)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading log file: %w", err)
	}

	if tail > 0 && len(lines) > tail {
		lines = lines[len(lines)-tail:]
	}
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	if len(lines) == 0 {
		fmt.Fprintln(out, "No matching log entries found.")
	}
	return nil
}

// followLogs prints entries appended after it starts until ctx is done.
func followLogs(ctx context.Context, out io.Writer, path string, lf logFormatter, f logFilter) error {
	if ctx == nil {
		ctx = context.Background()
	}
	file, err := appFs.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end: %w", err)
	}
	fmt.Fprintf(out, "Following logs... (Ctrl+C to stop)\n\n")

	reader := bufio.NewReader(file)
	var partial string
	for {
		chunk, err := reader.ReadString('\n')
		partial += chunk
		if err == io.EOF {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(followInterval):
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("error reading log file: %w", err)
		}

		line := strings.TrimSpace(partial)
		partial = ""
		if line == "" {
			continue
		}
		if rendered, ok := lf.formatLine(line, f); ok {
			fmt.Fprintln(out, rendered)
		}
	}
}
