package main

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"qubitengine/api"
)

// The streaming view ships the circuit one gate at a time over the gate
// stream and redraws the returned state after every frame.

type stateMsg struct {
	resp *api.StateResponse
}

type streamErrMsg struct {
	err error
}

type advanceMsg struct{}

type streamModel struct {
	stream    *api.GateStreamClient
	name      string
	numQubits int32
	ops       []api.GateOperation // SETUP frame included at index 0
	sent      int
	last      *api.StateResponse
	spin      spinner.Model
	err       error
	done      bool
}

func newStreamModel(stream *api.GateStreamClient, req *api.CircuitRequest) streamModel {
	ops := make([]api.GateOperation, 0, len(req.Operations)+1)
	ops = append(ops, api.GateOperation{Type: api.GateSetup, NumQubits: uint32(req.NumQubits)})
	ops = append(ops, req.Operations...)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return streamModel{
		stream:    stream,
		numQubits: req.NumQubits,
		ops:       ops,
		spin:      sp,
	}
}

// runStreamTUI opens the gate stream and hands control to bubbletea.
func runStreamTUI(client *api.QuantumComputeClient, req *api.CircuitRequest) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := client.StreamGates(ctx)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(newStreamModel(stream, req)).Run()
	return err
}

func (m streamModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.sendNext())
}

// sendNext ships the pending frame and blocks on its response.
func (m streamModel) sendNext() tea.Cmd {
	op := m.ops[m.sent]
	stream := m.stream
	return func() tea.Msg {
		if err := stream.Send(&op); err != nil {
			return streamErrMsg{err}
		}
		resp, err := stream.Recv()
		if err != nil {
			return streamErrMsg{err}
		}
		return stateMsg{resp}
	}
}

func (m streamModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case stateMsg:
		m.last = msg.resp
		m.sent++
		if m.sent >= len(m.ops) {
			m.done = true
			m.stream.CloseSend()
			return m, nil
		}
		// Pace the replay so the evolution is visible.
		return m, tea.Tick(350*time.Millisecond, func(time.Time) tea.Msg { return advanceMsg{} })

	case advanceMsg:
		return m, m.sendNext()

	case streamErrMsg:
		m.err = msg.err
		m.done = true
		return m, nil
	}

	var cmd tea.Cmd
	m.spin, cmd = m.spin.Update(msg)
	return m, cmd
}

func (m streamModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("qctl stream"))
	b.WriteString("\n\n")

	b.WriteString(panelStyle.Render(m.gateListView()))
	b.WriteString("\n")
	if m.last != nil {
		b.WriteString(panelStyle.Render(m.probabilityView()))
		b.WriteString("\n")
		b.WriteString(panelStyle.Render(m.amplitudeView()))
		b.WriteString("\n")
		b.WriteString(serverStyle.Render("server: " + m.last.ServerID))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}
	switch {
	case m.done:
		b.WriteString("\nq: quit\n")
	default:
		b.WriteString("\n" + m.spin.View() + " streaming...  q: quit\n")
	}
	return b.String()
}

func (m streamModel) gateListView() string {
	var lines []string
	for i, op := range m.ops {
		label := gateLabel(op)
		switch {
		case i < m.sent:
			label = gateDoneStyle.Render("✓ " + label)
		case i == m.sent && !m.done:
			label = gateCurrentStyle.Render("> " + label)
		default:
			label = gatePendingStyle.Render("  " + label)
		}
		lines = append(lines, label)
	}
	return strings.Join(lines, "\n")
}

func gateLabel(op api.GateOperation) string {
	switch op.Type {
	case api.GateSetup:
		return fmt.Sprintf("SETUP n=%d", op.NumQubits)
	case api.GateCNOT:
		return fmt.Sprintf("CNOT %d -> %d", op.ControlQubit, op.TargetQubit)
	case api.GateToffoli:
		return fmt.Sprintf("TOFFOLI %d,%d -> %d", op.ControlQubit, op.SecondControlQubit, op.TargetQubit)
	case api.GateRotationX, api.GateRotationY, api.GateRotationZ:
		return fmt.Sprintf("%s(%s) q[%d]", op.Type, api.FormatAngle(op.Angle), op.TargetQubit)
	default:
		return fmt.Sprintf("%s q[%d]", op.Type, op.TargetQubit)
	}
}

func (m streamModel) probabilityView() string {
	probs := make([]float64, m.numQubits)
	for i, amp := range m.last.StateVector {
		p := amp.Real*amp.Real + amp.Imag*amp.Imag
		for q := int32(0); q < m.numQubits; q++ {
			if i&(1<<q) != 0 {
				probs[q] += p
			}
		}
	}

	var lines []string
	for q, p1 := range probs {
		filled := int(math.Round(p1 * barWidth))
		bar := barFillStyle.Render(strings.Repeat("█", filled)) + strings.Repeat("░", barWidth-filled)
		lines = append(lines, fmt.Sprintf("q[%d] %s p1=%.3f", q, bar, p1))
	}
	return strings.Join(lines, "\n")
}

func (m streamModel) amplitudeView() string {
	var lines []string
	shown := 0
	for i, amp := range m.last.StateVector {
		mag := amp.Real*amp.Real + amp.Imag*amp.Imag
		if mag < 1e-6 {
			continue
		}
		if shown >= maxAmpsRows {
			lines = append(lines, "...")
			break
		}
		lines = append(lines, fmt.Sprintf("|%0*b>  %+.4f %+.4fi  (%.3f)",
			int(m.numQubits), i, amp.Real, amp.Imag, mag))
		shown++
	}
	if len(lines) == 0 {
		return "(no amplitudes above threshold)"
	}
	return strings.Join(lines, "\n")
}
