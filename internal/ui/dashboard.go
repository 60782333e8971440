package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MintEntry holds one recently minted subname for the activity dashboard.
type MintEntry struct {
	Name    string
	Owner   string
	Expires string // formatted expiry, "" for permanent names
}

// ActivityStats is the header line of the dashboard.
type ActivityStats struct {
	ParentName  string
	TotalMinted int
}

// activityModel is the Bubble Tea model for the live mint activity feed.
type activityModel struct {
	stats      ActivityStats
	entries    []MintEntry
	lastUpdate time.Time
	interval   time.Duration
	quitting   bool
	fetcher    func() (ActivityStats, []MintEntry, error)
	err        string
}

type tickMsg time.Time
type activityFetchedMsg struct {
	stats   ActivityStats
	entries []MintEntry
}
type activityErrorMsg string

// NewActivityDashboard creates a Bubble Tea program that polls the indexer
// and shows recent mints under the listing's parent name.
func NewActivityDashboard(interval time.Duration, fetcher func() (ActivityStats, []MintEntry, error)) *tea.Program {
	m := activityModel{
		interval: interval,
		fetcher:  fetcher,
	}
	return tea.NewProgram(m)
}

func (m activityModel) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), tick(m.interval))
}

func (m activityModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case tickMsg:
		return m, tea.Batch(m.fetchCmd(), tick(m.interval))

	case activityFetchedMsg:
		m.stats = msg.stats
		m.entries = msg.entries
		m.lastUpdate = time.Now()
		m.err = ""

	case activityErrorMsg:
		m.err = string(msg)
	}

	return m, nil
}

func (m activityModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	title := "⚡ Mint Activity"
	if m.stats.ParentName != "" {
		title += " · " + m.stats.ParentName
	}
	sb.WriteString(StyleTitle.Render(title) + "\n")
	sb.WriteString(StyleMeta.Render(fmt.Sprintf("Total minted: %d · Updated: %s · q to quit\n\n",
		m.stats.TotalMinted, m.lastUpdate.Format("15:04:05"))))

	if m.err != "" {
		sb.WriteString(Err(m.err) + "\n")
	}

	if len(m.entries) == 0 {
		sb.WriteString(StyleMeta.Render("Loading...") + "\n")
	} else {
		t := NewTable([]Column{
			{Title: "Name", Width: 28},
			{Title: "Owner", Width: 14},
			{Title: "Expires", Width: 12},
		})
		for _, e := range m.entries {
			expires := e.Expires
			if expires == "" {
				expires = "never"
			}
			t.AddRow(Row{
				ChainName(e.Name),
				TruncateAddr(e.Owner),
				StyleMeta.Render(expires),
			})
		}
		sb.WriteString(t.Render())
	}

	return sb.String()
}

func (m activityModel) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		stats, entries, err := m.fetcher()
		if err != nil {
			return activityErrorMsg(err.Error())
		}
		return activityFetchedMsg{stats: stats, entries: entries}
	}
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
