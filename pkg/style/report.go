package style

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/herald/pkg/errors"
	"github.com/arthur-debert/herald/pkg/registry"
	"github.com/arthur-debert/herald/pkg/types"
)

// Delivery is one handler invocation inside a dispatch pass.
type Delivery struct {
	Service string // display name of the delivered service
	Lazy    bool
	// Materialized marks the delivery that ran the registration's factory.
	Materialized bool
}

// PassReport describes one dispatch pass for display.
type PassReport struct {
	Event      types.Event
	Deliveries []Delivery
	Err        error
	Elapsed    time.Duration
}

// Summary aggregates a demo run.
type Summary struct {
	Scenario     string
	Events       int
	Deliveries   int
	Materialized int
	Failures     int
	Elapsed      time.Duration
}

// Renderer defines the interface for rendering registry output
type Renderer interface {
	RenderRoster(regs []registry.Registration) string
	RenderChange(c registry.Change) string
	RenderPass(p PassReport) string
	RenderSummary(s Summary) string
	RenderError(err error) string
}

// ChangeStyle returns the pterm style for a change-feed label
func ChangeStyle(kind registry.ChangeKind) *pterm.Style {
	switch kind {
	case registry.ChangeRegistered:
		return pterm.NewStyle(pterm.FgGreen)
	case registry.ChangeUnregistered:
		return pterm.NewStyle(pterm.FgGray)
	case registry.ChangeReset:
		return pterm.NewStyle(pterm.FgYellow)
	case registry.ChangeResolved:
		return pterm.NewStyle(pterm.FgMagenta)
	case registry.ChangeDispatched:
		return pterm.NewStyle(pterm.FgCyan)
	default:
		return pterm.NewStyle(pterm.FgDefault)
	}
}

// TerminalRenderer implements Renderer with rich terminal output
type TerminalRenderer struct {
	width int
}

// NewTerminalRenderer creates a new terminal renderer
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{
		width: 80,
	}
}

// SetWidth updates the terminal width for rendering
func (r *TerminalRenderer) SetWidth(width int) {
	r.width = width
}

// RenderRoster renders the registry's registration table
func (r *TerminalRenderer) RenderRoster(regs []registry.Registration) string {
	if len(regs) == 0 {
		return MutedStyle.Render("No services registered")
	}

	var result strings.Builder
	result.WriteString(TitleStyle.Render("Registrations") + "\n\n")

	for _, reg := range regs {
		result.WriteString(r.renderRegistration(reg) + "\n")
	}

	return strings.TrimRight(result.String(), "\n")
}

func (r *TerminalRenderer) renderRegistration(reg registry.Registration) string {
	var indicator, kind, note string
	switch {
	case !reg.Lazy:
		indicator = InfoIndicator
		kind = EagerStyle.Render(fmt.Sprintf("%-5s", "eager"))
	case reg.Resolved:
		indicator = SuccessIndicator
		kind = LazyStyle.Render(fmt.Sprintf("%-5s", "lazy"))
		note = " " + ResolvedStyle.Render("(resolved)")
	default:
		indicator = PendingIndicator
		kind = LazyStyle.Render(fmt.Sprintf("%-5s", "lazy"))
		note = " " + MutedStyle.Render(fmt.Sprintf("(trigger %s)", reg.Trigger))
	}

	events := MutedStyle.Render("events: " + joinEvents(reg.Key.Events))

	return fmt.Sprintf("%s %s %s %s%s", indicator, kind, Bold(reg.Key.TypeName()), events, note)
}

// RenderChange renders a single change-feed line
func (r *TerminalRenderer) RenderChange(c registry.Change) string {
	label := ChangeStyle(c.Kind).Sprint(fmt.Sprintf("%-12s", string(c.Kind)))

	var subject string
	switch c.Kind {
	case registry.ChangeDispatched:
		subject = EventStyle.Render(string(c.Event))
	case registry.ChangeReset:
		subject = MutedStyle.Render("all registrations dropped")
	case registry.ChangeRegistered:
		subject = Bold(c.Type)
		if c.Event != "" {
			subject += " " + MutedStyle.Render(fmt.Sprintf("(trigger %s)", c.Event))
		}
	case registry.ChangeResolved:
		subject = Bold(c.Type)
		if c.Event != "" {
			subject += " " + MutedStyle.Render(fmt.Sprintf("(%s)", c.Event))
		}
	default:
		subject = Bold(c.Type)
	}

	return fmt.Sprintf("  %s %s", label, subject)
}

// RenderPass renders one dispatch pass with its deliveries
func (r *TerminalRenderer) RenderPass(p PassReport) string {
	var result strings.Builder

	header := fmt.Sprintf("%s %s", ProgressIndicator, SubtitleStyle.Render(string(p.Event)))
	if p.Elapsed > 0 {
		header += " " + MutedStyle.Render(p.Elapsed.Round(time.Microsecond).String())
	}
	result.WriteString(header + "\n")

	if len(p.Deliveries) == 0 && p.Err == nil {
		result.WriteString(Indent(MutedStyle.Render("no interested services"), 1) + "\n")
	}

	for _, d := range p.Deliveries {
		result.WriteString(Indent(r.renderDelivery(d), 1) + "\n")
	}

	if p.Err != nil {
		result.WriteString(Indent(r.RenderError(p.Err), 1) + "\n")
	}

	return strings.TrimRight(result.String(), "\n")
}

func (r *TerminalRenderer) renderDelivery(d Delivery) string {
	line := fmt.Sprintf("%s %s", SuccessIndicator, Bold(d.Service))
	if d.Materialized {
		line += " " + ResolvedStyle.Render("materialized")
	} else if d.Lazy {
		line += " " + MutedStyle.Render("(lazy)")
	}
	return line
}

// RenderSummary renders the run's closing summary
func (r *TerminalRenderer) RenderSummary(s Summary) string {
	var result strings.Builder
	result.WriteString(TitleStyle.Render("Run summary") + "\n\n")

	rows := []struct {
		label string
		value string
	}{
		{"scenario", s.Scenario},
		{"events dispatched", fmt.Sprintf("%d", s.Events)},
		{"deliveries", fmt.Sprintf("%d", s.Deliveries)},
		{"lazy materializations", fmt.Sprintf("%d", s.Materialized)},
	}
	for _, row := range rows {
		result.WriteString(fmt.Sprintf("  %s %s\n",
			MutedStyle.Render(fmt.Sprintf("%-22s", row.label)), row.value))
	}

	failures := MutedStyle.Render(fmt.Sprintf("%-22s", "failures"))
	if s.Failures > 0 {
		failures = ErrorStyle.Render(fmt.Sprintf("%-22s", "failures"))
	}
	result.WriteString(fmt.Sprintf("  %s %d\n", failures, s.Failures))

	if s.Elapsed > 0 {
		result.WriteString(fmt.Sprintf("  %s %s\n",
			MutedStyle.Render(fmt.Sprintf("%-22s", "elapsed")),
			s.Elapsed.Round(time.Millisecond).String()))
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderError renders an error message
func (r *TerminalRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}

	var herr *errors.HeraldError
	if stderrors.As(err, &herr) {
		msg := herr.Message
		if herr.Wrapped != nil {
			msg = fmt.Sprintf("%s: %v", herr.Message, herr.Wrapped)
		}
		return fmt.Sprintf("%s %s %s",
			pterm.Error.Prefix.Text,
			pterm.Error.MessageStyle.Sprint("["+string(herr.Code)+"]"),
			msg)
	}

	return fmt.Sprintf("%s %s", pterm.Error.Prefix.Text, pterm.Error.MessageStyle.Sprint(err.Error()))
}

// PlainRenderer implements Renderer with plain text output (no styling)
type PlainRenderer struct{}

// NewPlainRenderer creates a new plain text renderer
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// RenderRoster renders a plain registration table
func (r *PlainRenderer) RenderRoster(regs []registry.Registration) string {
	if len(regs) == 0 {
		return "No services registered"
	}

	var result strings.Builder
	result.WriteString("Registrations:\n")

	for _, reg := range regs {
		var kind string
		switch {
		case !reg.Lazy:
			kind = "eager"
		case reg.Resolved:
			kind = "lazy, resolved"
		default:
			kind = fmt.Sprintf("lazy, trigger %s", reg.Trigger)
		}
		result.WriteString(fmt.Sprintf("  - %s [%s] events: %s\n",
			reg.Key.TypeName(), kind, joinEvents(reg.Key.Events)))
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderChange renders a plain change-feed line
func (r *PlainRenderer) RenderChange(c registry.Change) string {
	label := fmt.Sprintf("%-12s", string(c.Kind))

	switch c.Kind {
	case registry.ChangeDispatched:
		return fmt.Sprintf("  %s %s", label, c.Event)
	case registry.ChangeReset:
		return fmt.Sprintf("  %s all registrations dropped", label)
	default:
		if c.Event != "" {
			return fmt.Sprintf("  %s %s (%s)", label, c.Type, c.Event)
		}
		return fmt.Sprintf("  %s %s", label, c.Type)
	}
}

// RenderPass renders a plain dispatch pass
func (r *PlainRenderer) RenderPass(p PassReport) string {
	var result strings.Builder
	result.WriteString(string(p.Event) + "\n")

	if len(p.Deliveries) == 0 && p.Err == nil {
		result.WriteString("  (no interested services)\n")
	}

	for _, d := range p.Deliveries {
		line := "  - " + d.Service
		if d.Materialized {
			line += " (materialized)"
		}
		result.WriteString(line + "\n")
	}

	if p.Err != nil {
		result.WriteString("  " + r.RenderError(p.Err) + "\n")
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderSummary renders a plain run summary
func (r *PlainRenderer) RenderSummary(s Summary) string {
	var result strings.Builder
	result.WriteString("Run summary:\n")
	result.WriteString(fmt.Sprintf("  scenario: %s\n", s.Scenario))
	result.WriteString(fmt.Sprintf("  events: %d\n", s.Events))
	result.WriteString(fmt.Sprintf("  deliveries: %d\n", s.Deliveries))
	result.WriteString(fmt.Sprintf("  materialized: %d\n", s.Materialized))
	result.WriteString(fmt.Sprintf("  failures: %d\n", s.Failures))
	if s.Elapsed > 0 {
		result.WriteString(fmt.Sprintf("  elapsed: %s\n", s.Elapsed.Round(time.Millisecond)))
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderError renders a plain error message
func (r *PlainRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %s", err.Error())
}

func joinEvents(events []types.Event) string {
	parts := make([]string, len(events))
	for i, evt := range events {
		parts[i] = string(evt)
	}
	return strings.Join(parts, ", ")
}
