// Package browse is the interactive results browser: a scrollable list of
// listings ordered by match score, with a detail view showing the full
// record including the resolved hiring contact.
package browse

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobsift/jobsift/internal/model"
)

// Lines per listing item in the list view (title + subtitle + blank separator).
const itemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	itemTitleStyle = lipgloss.NewStyle().
			Bold(true)

	itemSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(16)

	detailValueStyle = lipgloss.NewStyle()

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

type browseModel struct {
	listings []model.Listing
	viewport viewport.Model
	cursor   int
	width    int
	height   int
	ready    bool

	view           viewState
	detailListing  model.Listing
	detailViewport viewport.Model
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m browseModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "o":
		if len(m.listings) > 0 {
			openURL(applyURL(m.listings[m.cursor]))
		}
		return m, nil
	case "enter":
		return m.openDetailView()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		openURL(applyURL(m.detailListing))
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func applyURL(l model.Listing) string {
	if l.ApplicationURL != "" {
		return l.ApplicationURL
	}
	return l.URL
}

func (m *browseModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(len(m.listings)-1, 0))
}

func (m *browseModel) ensureCursorVisible() {
	cursorTop := m.cursor * itemHeight
	cursorBottom := cursorTop + itemHeight - 1

	if cursorTop < m.viewport.YOffset {
		m.viewport.SetYOffset(cursorTop)
	} else if cursorBottom >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(cursorBottom - m.viewport.Height + 1)
	}
}

func (m browseModel) openDetailView() (tea.Model, tea.Cmd) {
	if len(m.listings) == 0 {
		return m, nil
	}

	m.view = viewDetail
	m.detailListing = m.listings[m.cursor]
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())
	return m, nil
}

func (m *browseModel) recalcLayout() {
	paneWidth := max(m.width-2, 20)

	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.viewport = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		m.viewport.Width = paneWidth
		m.viewport.Height = paneHeight
	}

	m.recalcContent()
}

func (m *browseModel) recalcContent() {
	m.viewport.SetContent(renderListings(m.listings, m.cursor))
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.view == viewDetail {
		return m.viewDetail()
	}

	return m.viewList()
}

func (m browseModel) viewList() string {
	header := headerStyle.Render(fmt.Sprintf(" Results (%d), best match first", len(m.listings)))
	pane := borderStyle.Width(m.viewport.Width).Render(m.viewport.View())

	statusText := " ↑/↓ cursor  Enter detail  o open URL  q quit"
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return header + "\n" + pane + "\n" + statusBar
}

func (m browseModel) viewDetail() string {
	title := detailTitleStyle.Render("Listing Details")

	border := borderStyle.Width(m.width - 2)
	content := border.Render(m.detailViewport.View())

	statusText := " o open URL  esc/backspace back  ↑/↓ scroll  q quit"
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return title + "\n" + content + "\n" + statusBar
}

func (m browseModel) renderDetail() string {
	l := m.detailListing
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("Title", l.Title)
	addField("Company", l.Company)
	addField("Location", locationText(l))
	addField("Source", l.Source)
	addField("Match Score", fmt.Sprintf("%.0f/100", l.MatchScore))
	addField("Salary", salaryText(l))

	if l.PostedAt != nil {
		addField("Posted At", l.PostedAt.Format("2006-01-02"))
	}

	b.WriteByte('\n')
	addField("Job URL", l.URL)
	if l.ApplicationURL != "" && l.ApplicationURL != l.URL {
		addField("Apply URL", l.ApplicationURL)
	}
	addField("Website", l.CompanyWebsite)

	wrapWidth := max(m.width-8, 20)
	divider := func(label string) string {
		fill := strings.Repeat("─", max(wrapWidth-len(label), 3))
		return dividerStyle.Render(label + fill)
	}

	if l.Contact != nil {
		c := l.Contact
		b.WriteByte('\n')
		b.WriteString(divider("── Hiring Contact ") + "\n\n")
		addField("Email", c.Email)
		addField("Name", c.DisplayName)
		addField("Role", c.Title)
		verified := "no"
		if c.Verified {
			verified = "yes"
		}
		addField("Confidence", fmt.Sprintf("%s (verified: %s)", c.Confidence, verified))
		if len(c.Alternatives) > 0 {
			addField("Alternatives", strings.Join(c.Alternatives, ", "))
		}
	}

	if l.Description != "" {
		b.WriteByte('\n')
		b.WriteString(divider("── Description ") + "\n\n")
		b.WriteString(bodyStyle.Render(wordWrap(l.Description, wrapWidth)) + "\n")
	}

	return b.String()
}

func locationText(l model.Listing) string {
	if l.Location != "" {
		return l.Location
	}
	if l.IsRemote {
		return "Remote"
	}
	return ""
}

func salaryText(l model.Listing) string {
	switch {
	case l.SalaryMin != nil && l.SalaryMax != nil:
		return fmt.Sprintf("$%d - $%d", *l.SalaryMin, *l.SalaryMax)
	case l.SalaryMin != nil:
		return fmt.Sprintf("from $%d", *l.SalaryMin)
	case l.SalaryMax != nil:
		return fmt.Sprintf("up to $%d", *l.SalaryMax)
	default:
		return ""
	}
}

func renderListings(listings []model.Listing, cursor int) string {
	if len(listings) == 0 {
		return "  (no results)"
	}

	var b strings.Builder
	for i, l := range listings {
		isSelected := i == cursor

		titleSt := itemTitleStyle
		subtitleSt := itemSubtitleStyle
		prefix := "  "
		if isSelected {
			titleSt = selectedTitleStyle
			subtitleSt = selectedSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(fmt.Sprintf("%s — %s", l.Title, l.Company)))
		b.WriteByte('\n')

		subtitle := fmt.Sprintf("%.0f/100 · %s · %s", l.MatchScore, l.Source, locationText(l))
		if l.Contact != nil && l.Contact.Email != "" {
			subtitle += " · " + l.Contact.Email
		}
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(subtitle))
		b.WriteByte('\n')

		if i < len(listings)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// Run launches the interactive results browser. The listings are shown in
// the order given (callers pass them ranked).
func Run(listings []model.Listing) error {
	m := browseModel{listings: listings}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
