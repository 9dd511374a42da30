package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/weld/internal/ui/style"
)

// View renders the UI.
func (m *Model) View() string {
	if m.ListHeight == 0 {
		return "Initializing..."
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.moduleList(),
		m.logPane(),
	)
}

func (m *Model) moduleList() string {
	var s strings.Builder

	title := fmt.Sprintf("MODULES %d/%d", m.Finished(), len(m.Modules))
	s.WriteString(titleStyle.Render(title) + "\n\n")

	start := m.ListOffset
	end := min(m.ListOffset+m.ListHeight, len(m.FlatList))
	start = min(start, end)

	for i := start; i < end; i++ {
		s.WriteString(m.renderRow(i, m.FlatList[i]) + "\n")
	}

	return listStyle.Render(s.String())
}

func (m *Model) renderRow(index int, node *Node) string {
	rowStyle := statusStyle(node.Status)

	cursor := "  "
	if index == m.SelectedIdx {
		cursor = selectedStyle.Render("> ")
		if node.Status == StatusPending || node.Status == StatusRunning {
			rowStyle = selectedStyle
		}
	}

	marker := " "
	if len(node.Children) > 0 {
		marker = "▸"
		if node.IsExpanded {
			marker = "▾"
		}
	}

	content := fmt.Sprintf("%s%s %s %s", strings.Repeat("  ", node.Depth), marker, statusIcon(node.Status), node.Label())
	if d := elapsed(node); d > 0 {
		content += " " + durationStyle.Render(d.String())
	}
	return cursor + rowStyle.Render(content)
}

func elapsed(node *Node) time.Duration {
	if node.StartTime.IsZero() || node.EndTime.IsZero() {
		return 0
	}
	return node.EndTime.Sub(node.StartTime).Round(time.Millisecond)
}

func statusIcon(s Status) string {
	switch s {
	case StatusRunning:
		return style.Dot
	case StatusDone:
		return style.Check
	case StatusReused:
		return style.Tilde
	case StatusError:
		return style.Cross
	default:
		return style.Circle
	}
}

func (m *Model) logPane() string {
	var header, content string

	if node, ok := m.ModuleMap[m.ActiveModule]; ok {
		mode := " (Manual)"
		if m.FollowMode {
			mode = " (Following)"
		}
		headerStyle := titleStyle
		if node.Status == StatusError {
			headerStyle = failureTitleStyle
		}
		header = headerStyle.Render("LOGS: " + node.Name + mode)
		if node.Source != "" {
			header += "\n" + durationStyle.Render(node.Source)
		}
		if details := moduleDetails(node); details != "" {
			header += "\n" + durationStyle.Render(details)
		}
		content = node.Term.View()
	} else {
		header = titleStyle.Render("LOGS (Waiting...)")
	}

	return logStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, content))
}

// moduleDetails summarizes where a module runs and what it links against.
func moduleDetails(node *Node) string {
	var parts []string
	if node.Status != StatusPending {
		parts = append(parts, fmt.Sprintf("slot %d", node.Slot))
	}
	if node.Symbol != "" {
		parts = append(parts, node.Symbol)
	}
	if len(node.After) > 0 {
		parts = append(parts, "after "+strings.Join(node.After, ", "))
	}
	return strings.Join(parts, " · ")
}
