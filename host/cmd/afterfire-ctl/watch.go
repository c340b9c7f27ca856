package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"afterfire/host/client"
)

// watchInterval paces status polls in the live view.
const watchInterval = 200 * time.Millisecond

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	burstStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	quietStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	gaugeOn     = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	gaugeBrake  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live throttle and effect view",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(watchModel{api: api()})
			_, err := p.Run()
			return err
		},
	}
}

type watchTickMsg time.Time

type watchStatusMsg struct {
	status client.Status
	err    error
}

type watchModel struct {
	api    *client.Client
	status client.Status
	err    error
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.poll(), watchTick())
}

func watchTick() tea.Cmd {
	return tea.Tick(watchInterval, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

func (m watchModel) poll() tea.Cmd {
	return func() tea.Msg {
		st, err := m.api.Status()
		return watchStatusMsg{status: st, err: err}
	}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case watchTickMsg:
		return m, tea.Batch(m.poll(), watchTick())
	case watchStatusMsg:
		m.status = msg.status
		m.err = msg.err
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("afterfire") + "\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("error: "+m.err.Error()) + "\n")
	}

	b.WriteString(labelStyle.Render("PWM") + fmt.Sprintf("%d us\n", m.status.PulseWidth))
	b.WriteString(labelStyle.Render("Throttle") + throttleGauge(m.status.Throttle) +
		fmt.Sprintf(" %d%%\n", m.status.Throttle))

	burst := quietStyle.Render("quiet")
	if m.status.Burst {
		burst = burstStyle.Render("BURST")
	}
	b.WriteString(labelStyle.Render("Exhaust") + burst + "\n")
	b.WriteString(labelStyle.Render("Uptime") + m.status.Uptime + "\n")

	b.WriteString("\n" + footerStyle.Render("q to quit"))
	return b.String()
}

// throttleGauge renders throttle as a bar centered on neutral: brake
// fills left of center, throttle fills right.
func throttleGauge(throttle int) string {
	const half = 20
	cells := make([]string, 2*half+1)
	for i := range cells {
		cells[i] = "·"
	}
	cells[half] = "|"

	if throttle > 0 {
		n := throttle * half / 100
		for i := 1; i <= n; i++ {
			cells[half+i] = gaugeOn.Render("█")
		}
	} else if throttle < 0 {
		n := -throttle * half / 100
		for i := 1; i <= n; i++ {
			cells[half-i] = gaugeBrake.Render("█")
		}
	}
	return strings.Join(cells, "")
}
