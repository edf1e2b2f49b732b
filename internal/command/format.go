package command

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/lestrrat-go/strftime"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/adamavenir/noci/internal/types"
)

const (
	selfUser     = "self    "
	defaultStyle = "default"
)

var logClock = mustStrftime("%H:%M:%S")

var ragSymbols = map[types.RAG]string{
	types.RAGRed:   "💥",
	types.RAGGreen: " ✔",
	types.RAGBlue:  "🏃",
	types.RAGAmber: "🔥",
}

// Styles renders job, log and trigger output for one writer.
type Styles struct {
	color    bool
	width    int
	location *time.Location
	styles   map[string]lipgloss.Style
}

// NewStyles builds styles for w. Colour is used only when w is a terminal
// and noColor is unset.
func NewStyles(w io.Writer, noColor bool, location *time.Location) *Styles {
	renderer := lipgloss.NewRenderer(w)
	color := !noColor && isTerminal(w)
	if !color {
		renderer.SetColorProfile(termenv.Ascii)
	}
	if location == nil {
		location = time.Local
	}

	s := &Styles{
		color:    color,
		width:    terminalWidth(w),
		location: location,
	}
	s.styles = map[string]lipgloss.Style{
		"key":        renderer.NewStyle().Bold(true),
		"status":     renderer.NewStyle(),
		"time":       renderer.NewStyle().Foreground(lipgloss.Color("2")),
		"user":       renderer.NewStyle().Foreground(lipgloss.Color("6")),
		"actions":    renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		defaultStyle: renderer.NewStyle(),
		"stdout":     renderer.NewStyle().Foreground(lipgloss.Color("4")),
		"stderr":     renderer.NewStyle().Foreground(lipgloss.Color("1")),
	}
	return s
}

func (s *Styles) render(name, text string) string {
	style, ok := s.styles[name]
	if !ok {
		style = s.styles[defaultStyle]
	}
	return style.Render(text)
}

// RAGSymbol maps a status colour to its symbol; unknown values pass through.
func RAGSymbol(rag types.RAG) string {
	if sym, ok := ragSymbols[rag]; ok {
		return sym
	}
	return string(rag)
}

// FormatJob renders the one-line job summary, with params when full is set.
func (s *Styles) FormatJob(job types.Job, full bool) string {
	parts := []string{
		RAGSymbol(job.RAG),
		s.render("key", job.Key),
		s.render("status", job.StatusMessage),
	}
	if len(job.Actions) > 0 {
		parts = append(parts, "<- "+s.render("actions", strings.Join(job.Actions, ", ")))
	}
	line := strings.Join(parts, " ")
	if !full {
		return line
	}
	return line + "\n" + s.formatJSON(paramsJSON(job.Params))
}

// TruncateLine shortens a rendered line to the terminal width.
func (s *Styles) TruncateLine(line string) string {
	if s.width <= 0 || strings.Contains(line, "\n") {
		return line
	}
	return ansi.Truncate(line, s.width, "…")
}

// FormatLogLine renders a log line as "<time> <user> <message>".
func (s *Styles) FormatLogLine(line types.LogLine) string {
	user := selfUser
	if line.User != nil && *line.User != "" {
		user = *line.User
	}
	hint := defaultStyle
	if line.StyleHint != nil && *line.StyleHint != "" {
		hint = *line.StyleHint
	}
	return strings.Join([]string{
		s.render("time", s.clock(line.Time)),
		s.render("user", user),
		s.render(hint, line.Message),
	}, " ")
}

// clock converts a wire timestamp to the local wall clock. Unparseable
// values are shown verbatim.
func (s *Styles) clock(ts string) string {
	t, err := time.ParseInLocation(types.LogTimeLayout, ts, time.UTC)
	if err != nil {
		return ts
	}
	return logClock.FormatString(t.In(s.location))
}

// FormatTrigger renders "<name>\t<payload>".
func (s *Styles) FormatTrigger(trigger types.Trigger) string {
	return trigger.Name + "\t" + compactJSON(trigger.Payload)
}

func (s *Styles) formatJSON(data []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return string(data)
	}
	if !s.color {
		return buf.String()
	}
	return highlightJSON(buf.String())
}

func paramsJSON(params map[string]any) []byte {
	if params == nil {
		return []byte("{}")
	}
	data, err := json.Marshal(params)
	if err != nil {
		return []byte(fmt.Sprintf("%v", params))
	}
	return data
}

func compactJSON(data []byte) string {
	if len(data) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return string(data)
	}
	return buf.String()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !isTerminal(w) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func mustStrftime(pattern string) *strftime.Strftime {
	f, err := strftime.New(pattern)
	if err != nil {
		panic(err)
	}
	return f
}
