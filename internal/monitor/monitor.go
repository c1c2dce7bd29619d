// Package monitor renders a live terminal dashboard of the fleet: one row
// per socket channel and a summary line per canvas, refreshed on a fixed
// interval (spec.md §6 external interfaces, ambient operator tooling).
package monitor

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"ledserver/internal/controller"
)

// pollInterval is how often the dashboard redraws.
const pollInterval = 500 * time.Millisecond

// Monitor draws Controller state to a tcell screen until told to stop.
type Monitor struct {
	ctl    *controller.Controller
	screen tcell.Screen
}

// New creates a monitor backed by a fresh terminal screen.
func New(ctl *controller.Controller) (*Monitor, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("monitor: create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("monitor: init screen: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault)
	return &Monitor{ctl: ctl, screen: screen}, nil
}

// Run draws the dashboard every pollInterval until stopCh closes or the
// user presses q/Ctrl-C, then tears the screen down.
func (m *Monitor) Run(stopCh <-chan struct{}) {
	defer m.screen.Fini()

	events := make(chan tcell.Event, 8)
	go m.screen.ChannelEvents(events, stopCh)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	m.draw()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			m.draw()
		case ev := <-events:
			switch e := ev.(type) {
			case *tcell.EventKey:
				if e.Key() == tcell.KeyCtrlC || (e.Key() == tcell.KeyRune && e.Rune() == 'q') {
					return
				}
			case *tcell.EventResize:
				m.screen.Sync()
			}
		}
	}
}

func (m *Monitor) draw() {
	m.screen.Clear()
	row := 0
	m.puts(0, row, tcell.StyleDefault.Bold(true), "ledserver fleet status  (q to quit)")
	row += 2

	for _, c := range m.ctl.Canvases() {
		line := fmt.Sprintf("canvas %-3d %-16s %3dfps  %s", c.ID(), c.Name(), c.FPS(), c.Effects().CurrentName())
		m.puts(0, row, tcell.StyleDefault.Bold(true), line)
		row++
	}
	row++

	header := fmt.Sprintf("%-20s %-20s %-12s %-6s %-8s %-10s", "HOST", "NAME", "STATE", "RECON", "QUEUE", "BYTES/S")
	m.puts(0, row, tcell.StyleDefault.Underline(true), header)
	row++

	for _, ch := range m.ctl.Sockets() {
		style := tcell.StyleDefault
		if ch.IsConnected() {
			style = style.Foreground(tcell.ColorGreen)
		} else {
			style = style.Foreground(tcell.ColorRed)
		}
		line := fmt.Sprintf("%-20s %-20s %-12s %-6d %-8d %-10d",
			ch.Host(), ch.FriendlyName(), ch.State().String(), ch.ReconnectCount(), ch.QueueDepth(), ch.BytesPerSecond())
		m.puts(0, row, style, line)
		row++
	}

	m.screen.Show()
}

func (m *Monitor) puts(x, y int, style tcell.Style, s string) {
	for i, r := range s {
		m.screen.SetContent(x+i, y, r, nil, style)
	}
}
