package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"

	"github.com/justyntemme/picosine/pkg/clap"
	"github.com/justyntemme/picosine/pkg/plugin"
)

// Describe renders the descriptor, ports and parameters of an instance as
// markdown.
func Describe(inst *plugin.Instance) string {
	var sb strings.Builder
	info := inst.Info()

	fmt.Fprintf(&sb, "# %s\n\n", info.Name)
	fmt.Fprintf(&sb, "`%s`\n\n", info.ID)
	if info.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", info.Description)
	}
	fmt.Fprintf(&sb, "- **Features:** %s\n", strings.Join(info.Features, ", "))
	for _, f := range []struct{ label, value string }{
		{"Vendor", info.Vendor},
		{"Version", info.Version},
		{"URL", info.URL},
		{"Manual", info.ManualURL},
		{"Support", info.SupportURL},
	} {
		if f.value != "" {
			fmt.Fprintf(&sb, "- **%s:** %s\n", f.label, f.value)
		}
	}

	sb.WriteString("\n## Audio ports\n\n")
	sb.WriteString("| Direction | ID | Name | Channels | Type | Flags |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for _, isInput := range []bool{true, false} {
		dir := "out"
		if isInput {
			dir = "in"
		}
		for i := uint32(0); i < inst.PortCount(isInput); i++ {
			port, err := inst.PortInfo(i, isInput)
			if err != nil {
				continue
			}
			fmt.Fprintf(&sb, "| %s | %d | %s | %d | %s | %s |\n",
				dir, port.ID, port.Name, port.ChannelCount, port.PortType, strings.Join(port.Flags.Names(), ", "))
		}
	}

	sb.WriteString("\n## Parameters\n\n")
	sb.WriteString("| ID | Name | Module | Range | Default | Value | Flags |\n")
	sb.WriteString("|---|---|---|---|---|---|---|\n")
	for i := uint32(0); i < inst.ParamCount(); i++ {
		p, err := inst.ParamInfo(i)
		if err != nil {
			continue
		}
		value, _ := inst.ParamValue(p.ID)
		fmt.Fprintf(&sb, "| %d | %s | %s | %s .. %s | %s | %s | %s |\n",
			p.ID, p.Name, p.Module,
			paramText(inst, p.ID, p.MinValue), paramText(inst, p.ID, p.MaxValue),
			paramText(inst, p.ID, p.DefaultValue), paramText(inst, p.ID, value),
			strings.Join(p.Flags.Names(), ", "))
	}
	return sb.String()
}

func paramText(inst *plugin.Instance, id clap.ID, value float64) string {
	text, err := inst.ValueToText(id, value)
	if err != nil {
		return fmt.Sprintf("%g", value)
	}
	return text
}

// markdownStyle is the dark style without a document margin.
var markdownStyle ansi.StyleConfig

func init() {
	markdownStyle = styles.DarkStyleConfig
	zero := uint(0)
	markdownStyle.Document.Margin = &zero
}

// RenderMarkdown styles markdown for the terminal. On failure it returns the
// input unchanged.
func RenderMarkdown(markdown string, width int) string {
	if width <= 0 || strings.TrimSpace(markdown) == "" {
		return markdown
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(markdownStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}

	rendered, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimSpace(rendered) + "\n"
}
