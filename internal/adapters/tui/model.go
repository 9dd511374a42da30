package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/weld/internal/adapters/telemetry"
)

const (
	moduleListWidthRatio = 0.35
	logPaneBorderWidth   = 4
)

// Status is where a module or step stands.
type Status string

const (
	// StatusPending indicates the module is waiting for its slot.
	StatusPending Status = "Pending"
	// StatusRunning indicates the module or step is in progress.
	StatusRunning Status = "Running"
	// StatusDone indicates the module was compiled or the step succeeded.
	StatusDone Status = "Done"
	// StatusReused indicates the module's existing object was up to date.
	StatusReused Status = "Reused"
	// StatusError indicates the module or step failed.
	StatusError Status = "Error"
)

// Node is one row of the module tree: a module, or a step of one.
type Node struct {
	Name   string
	Status Status
	Term   *Console
	// After lists the modules this one loads after.
	After []string
	// Source, Slot and Symbol are only set on modules, Arch only on per-architecture steps.
	Source     string
	Slot       int
	Symbol     string
	Arch       string
	StartTime  time.Time
	EndTime    time.Time
	Depth      int
	Parent     *Node
	Children   []*Node
	IsExpanded bool
}

// Label is the row text: step names carry their architecture.
func (n *Node) Label() string {
	if n.Arch == "" {
		return n.Name
	}
	return n.Name + " " + n.Arch
}

// Model represents the main TUI state.
type Model struct {
	Modules    []*Node
	ModuleMap  map[string]*Node
	StepMap    map[string]*Node
	FlatList   []*Node
	Output     *termenv.Output
	AutoScroll bool
	FollowMode bool

	ActiveModule string
	SelectedIdx  int
	ListOffset   int
	ListHeight   int
	LogWidth     int
	LogHeight    int
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Finished returns how many modules are no longer pending or running.
func (m *Model) Finished() int {
	n := 0
	for _, node := range m.Modules {
		if node.Status != StatusPending && node.Status != StatusRunning {
			n++
		}
	}
	return n
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}

func (m *Model) selected() *Node {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.FlatList) {
		return m.FlatList[m.SelectedIdx]
	}
	return nil
}

// refreshList re-flattens the tree after an expansion change and keeps keep selected.
func (m *Model) refreshList(keep *Node) {
	m.FlatList = flattenTree(m.Modules)
	for i, n := range m.FlatList {
		if n == keep {
			m.SelectedIdx = i
			break
		}
	}
	if m.SelectedIdx >= len(m.FlatList) {
		m.SelectedIdx = max(len(m.FlatList)-1, 0)
	}
	m.ensureVisible()
}

func (m *Model) updateActiveView() {
	node := moduleOf(m.selected())
	if node == nil {
		return
	}
	m.ActiveModule = node.Name
	if m.FollowMode && m.AutoScroll {
		node.Term.Follow()
	}
}

func (m *Model) selectModule(node *Node) {
	for i, n := range m.FlatList {
		if n == node {
			m.SelectedIdx = i
			break
		}
	}
	m.ensureVisible()
	m.updateActiveView()
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop // message dispatch
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		listWidth := int(float64(msg.Width) * moduleListWidthRatio)
		m.LogWidth = msg.Width - listWidth - logPaneBorderWidth

		headerHeight := lipgloss.Height(titleStyle.Render("LOGS"))
		m.LogHeight = msg.Height - headerHeight

		listHeader := titleStyle.Render("MODULES") + "\n\n"
		m.ListHeight = msg.Height - lipgloss.Height(listHeader)
		m.ensureVisible()

		for _, node := range m.Modules {
			node.Term.Resize(m.LogWidth, m.LogHeight)
		}

	case telemetry.MsgPlan:
		m.initModules(msg)

	case telemetry.MsgStepStart:
		m.startStep(msg)

	case telemetry.MsgStepOutput:
		if node, ok := m.StepMap[msg.ID]; ok {
			_, _ = node.Term.Write(msg.Data)
		}

	case telemetry.MsgStepEnd:
		m.endStep(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "k", "up":
		if m.SelectedIdx > 0 {
			m.SelectedIdx--
			m.FollowMode = false
			m.ensureVisible()
			m.updateActiveView()
		}
	case "j", "down":
		if m.SelectedIdx < len(m.FlatList)-1 {
			m.SelectedIdx++
			m.FollowMode = false
			m.ensureVisible()
			m.updateActiveView()
		}
	case "enter", " ", "right", "l":
		if node := m.selected(); node != nil && len(node.Children) > 0 {
			node.IsExpanded = !node.IsExpanded
			m.refreshList(node)
		}
	case "left", "h":
		if node := m.selected(); node != nil {
			if !node.IsExpanded && node.Parent != nil {
				node = node.Parent
			}
			node.IsExpanded = false
			m.refreshList(node)
			m.updateActiveView()
		}
	case "esc":
		m.FollowMode = true
		for _, node := range m.Modules {
			if node.Status == StatusRunning {
				m.selectModule(node)
				break
			}
		}
	default:
		if node, ok := m.ModuleMap[m.ActiveModule]; ok {
			node.Term.HandleKey(msg)
		}
	}
	return nil
}

func (m *Model) initModules(msg telemetry.MsgPlan) {
	m.Modules = make([]*Node, len(msg.Modules))
	m.ModuleMap = make(map[string]*Node, len(msg.Modules))
	m.StepMap = make(map[string]*Node)
	m.SelectedIdx = 0
	m.ListOffset = 0
	m.ActiveModule = ""

	for i, name := range msg.Modules {
		term := NewConsole()
		if m.LogWidth > 0 && m.LogHeight > 0 {
			term.Resize(m.LogWidth, m.LogHeight)
		}
		m.Modules[i] = &Node{
			Name:   name,
			Status: StatusPending,
			Term:   term,
			After:  msg.Dependencies[name],
		}
		m.ModuleMap[name] = m.Modules[i]
	}
	m.FlatList = flattenTree(m.Modules)
}

func (m *Model) startStep(msg telemetry.MsgStepStart) {
	if parent, ok := m.StepMap[msg.ParentID]; ok && msg.ParentID != "" {
		step := addStep(parent, msg.Name, msg.Arch)
		step.StartTime = msg.Time
		step.Term.Section(step.Label())
		m.StepMap[msg.ID] = step
		if parent.IsExpanded {
			m.refreshList(m.selected())
		}
		return
	}

	node, ok := m.ModuleMap[msg.Name]
	if !ok {
		return
	}
	node.Status = StatusRunning
	node.Source = msg.Module
	node.Slot = msg.Slot
	node.StartTime = msg.Time
	m.StepMap[msg.ID] = node

	if m.FollowMode {
		m.selectModule(node)
	}
}

func (m *Model) endStep(msg telemetry.MsgStepEnd) {
	node, ok := m.StepMap[msg.ID]
	if !ok {
		return
	}
	node.EndTime = msg.Time
	if msg.Symbol != "" {
		node.Symbol = msg.Symbol
	}
	switch {
	case msg.Err != nil:
		node.Status = StatusError
		node.Term.Fail(msg.Err)
	case msg.Reused:
		node.Status = StatusReused
	default:
		node.Status = StatusDone
	}
}
