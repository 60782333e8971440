package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/subnamehq/subctl/internal/registration"
)

// Messages delivered into the mint wizard program.
type engineStateMsg registration.State
type mintSettledMsg struct{}
type primarySettledMsg struct{}
type mintSpinMsg time.Time

func mintSpinTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return mintSpinMsg(t)
	})
}

// mintModel is the Bubble Tea model wrapping a registration engine. All
// state transitions live in the engine; the model only translates keys into
// engine calls and renders snapshots.
type mintModel struct {
	eng      *registration.Engine
	state    registration.State
	frame    int
	busy     bool // a blocking engine call is running in a tea.Cmd
	quitting bool
}

func (m mintModel) Init() tea.Cmd { return mintSpinTick() }

func (m mintModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case engineStateMsg:
		m.state = registration.State(msg)

	case mintSettledMsg, primarySettledMsg:
		m.busy = false
		m.state = m.eng.Snapshot()

	case mintSpinMsg:
		m.frame++
		return m, mintSpinTick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m mintModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state.Step {
	case registration.StepStart:
		return m.handleStartKey(msg)

	case registration.StepSubmitted:
		// Nothing to do but wait for confirmation.

	case registration.StepAwaitingPrimary:
		switch msg.String() {
		case "p", "enter":
			if !m.busy {
				m.busy = true
				return m, m.primaryCmd()
			}
		case "s":
			if !m.busy {
				m.eng.SkipOrFinish()
				m.state = m.eng.Snapshot()
			}
		case "q", "esc":
			if !m.busy {
				m.quitting = true
				return m, tea.Quit
			}
		}

	case registration.StepComplete:
		switch msg.String() {
		case "m", "enter":
			m.eng.SkipOrFinish()
			m.state = m.eng.Snapshot()
		case "q", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m mintModel) handleStartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.state.MintError != "" {
			m.eng.DismissError()
			m.state = m.eng.Snapshot()
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case "enter":
		if !m.busy {
			m.busy = true
			return m, m.submitCmd()
		}

	case "backspace":
		runes := []rune(m.state.Label)
		if len(runes) > 0 {
			m.eng.UpdateLabel(string(runes[:len(runes)-1]))
			m.state = m.eng.Snapshot()
		}

	case "+", "=":
		if m.eng.Listing().Rental {
			m.eng.IncExpiryYears()
			m.state = m.eng.Snapshot()
		}

	case "-", "_":
		if m.eng.Listing().Rental {
			m.eng.DecExpiryYears()
			m.state = m.eng.Snapshot()
		}

	default:
		if msg.Type == tea.KeyRunes {
			m.eng.UpdateLabel(m.state.Label + string(msg.Runes))
			m.state = m.eng.Snapshot()
		}
	}
	return m, nil
}

func (m mintModel) submitCmd() tea.Cmd {
	return func() tea.Msg {
		m.eng.SubmitMint(context.Background())
		return mintSettledMsg{}
	}
}

func (m mintModel) primaryCmd() tea.Cmd {
	return func() tea.Msg {
		m.eng.SetPrimaryName(context.Background())
		return primarySettledMsg{}
	}
}

func (m mintModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	listing := m.eng.Listing()
	sb.WriteString(StyleTitle.Render("Mint a subname under "+listing.ParentName) + "\n\n")

	switch m.state.Step {
	case registration.StepStart:
		sb.WriteString(m.viewStart(listing))
	case registration.StepSubmitted:
		sb.WriteString(m.viewSubmitted())
	case registration.StepAwaitingPrimary:
		sb.WriteString(m.viewAwaitingPrimary())
	case registration.StepComplete:
		sb.WriteString(m.viewComplete())
	}

	return StyleBorder.Render(sb.String()) + "\n"
}

func (m mintModel) viewStart(listing registration.Listing) string {
	var sb strings.Builder

	sb.WriteString("> " + StyleValue.Render(m.state.Label) + "█" +
		StyleMeta.Render("."+listing.ParentName) + "\n\n")

	switch {
	case m.state.Availability.Checking:
		sb.WriteString(StyleInfo.Render(m.spin()+" checking availability…") + "\n")
	case m.state.Label == "":
		sb.WriteString(StyleMeta.Render("type a name to check availability") + "\n")
	case m.state.Availability.Available:
		sb.WriteString(Success(m.state.Label+"."+listing.ParentName+" is available") + "\n")
	default:
		sb.WriteString(Err(m.state.Label+"."+listing.ParentName+" is not available") + "\n")
	}

	if listing.Rental {
		years := "year"
		if m.state.ExpiryYears != 1 {
			years = "years"
		}
		sb.WriteString(StyleMeta.Render("Duration: ") +
			Val(fmt.Sprintf("%d %s", m.state.ExpiryYears, years)) +
			StyleMeta.Render("  [ +/- ] adjust") + "\n")
	}

	if m.state.MintError != "" {
		sb.WriteString("\n" + Err(m.state.MintError) + "\n")
		sb.WriteString(StyleMeta.Render("[ esc ] dismiss") + "\n")
	}

	if m.busy {
		sb.WriteString("\n" + StyleInfo.Render(m.spin()+" submitting…") + "\n")
	} else {
		sb.WriteString("\n" + StyleMeta.Render("[ Enter ] mint   [ esc ] quit") + "\n")
	}
	return sb.String()
}

func (m mintModel) viewSubmitted() string {
	var sb strings.Builder
	sb.WriteString(StyleInfo.Render(m.spin()+" waiting for confirmation…") + "\n\n")
	sb.WriteString(StyleMeta.Render("tx: ") + Addr(m.state.TxHash) + "\n")
	return sb.String()
}

func (m mintModel) viewAwaitingPrimary() string {
	var sb strings.Builder
	fullName := m.state.Label + "." + m.eng.Listing().ParentName
	sb.WriteString(Success("Minted "+fullName) + "\n")
	sb.WriteString(StyleMeta.Render("tx: ") + Addr(m.state.TxHash) + "\n\n")

	if m.state.Notice != "" {
		sb.WriteString(Warn(m.state.Notice) + "\n\n")
	}

	if m.busy {
		sb.WriteString(StyleInfo.Render(m.spin()+" setting primary name…") + "\n")
	} else {
		sb.WriteString("Set " + Val(fullName) + " as your primary name?\n")
		sb.WriteString(StyleMeta.Render("[ p ] set primary   [ s ] skip   [ q ] quit") + "\n")
	}
	return sb.String()
}

func (m mintModel) viewComplete() string {
	var sb strings.Builder
	if m.state.Notice != "" {
		sb.WriteString(Success(m.state.Notice) + "\n\n")
	} else {
		sb.WriteString(Success("All done!") + "\n\n")
	}
	sb.WriteString(StyleMeta.Render("[ m ] mint another   [ q ] quit") + "\n")
	return sb.String()
}

func (m mintModel) spin() string {
	return spinnerFrames[m.frame%len(spinnerFrames)]
}

// RunMintWizard launches the interactive mint wizard over the given engine
// collaborators and blocks until the user exits.
func RunMintWizard(listing registration.Listing, owner string, oracle registration.AvailabilityOracle, executor registration.MintExecutor, primary registration.PrimaryNameSetter) error {
	var p *tea.Program
	eng := registration.New(listing, owner, oracle, executor, primary,
		registration.WithOnChange(func(s registration.State) {
			if p != nil {
				p.Send(engineStateMsg(s))
			}
		}))

	m := mintModel{eng: eng, state: eng.Snapshot()}
	p = tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
