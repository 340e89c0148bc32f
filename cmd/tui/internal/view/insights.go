package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/insights"
)

type InsightsComputer interface {
	ComputeInsights(ctx context.Context, userID uuid.UUID, months []string) (*insights.Snapshot, error)
}

type insightsState int

const (
	insightsStateForm insightsState = iota
	insightsStateLoading
	insightsStateResult
)

// periodSelection is shared with the form so bindings survive model copies.
type periodSelection struct {
	period Period
	custom string
}

type InsightsModel struct {
	CommonModel
	svc    InsightsComputer
	userID uuid.UUID
	now    func() time.Time

	state    insightsState
	form     *huh.Form
	sel      *periodSelection
	spinner  spinner.Model
	spending table.Model

	months   []string
	snapshot *insights.Snapshot
	err      error
}

func NewInsightsModel(svc InsightsComputer, userID uuid.UUID) InsightsModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Category", Width: 24},
			{Title: "Spent", Width: 12},
			{Title: "Share", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(tableStyles())

	m := InsightsModel{
		svc:      svc,
		userID:   userID,
		now:      time.Now,
		sel:      &periodSelection{period: PeriodThisMonth},
		spinner:  s,
		spending: t,
	}
	m.form = m.buildPeriodForm()

	return m
}

func (m InsightsModel) Title() string { return "Insights" }

func (m InsightsModel) ShortHelp() string {
	switch m.state {
	case insightsStateResult:
		return "Esc: change period | ↑/↓: scroll categories"
	case insightsStateLoading:
		return "Loading..."
	}

	return "Esc: back | Enter: confirm"
}

func (m InsightsModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m InsightsModel) buildPeriodForm() *huh.Form {
	options := make([]huh.Option[Period], len(periods))
	for i, p := range periods {
		options[i] = huh.NewOption(p.String(), p)
	}

	sel := m.sel

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Period]().
				Key("period").
				Title("Period").
				Options(options...).
				Value(&sel.period),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("months").
				Title("Months").
				Description("Comma separated, YYYY-MM").
				Placeholder("2024-01, 2024-02").
				Value(&sel.custom).
				Validate(func(s string) error {
					_, err := ParseMonths(s)
					return err
				}),
		).WithHideFunc(func() bool { return sel.period != PeriodCustom }),
	).WithWidth(50).WithShowHelp(false)
}

func (m InsightsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.spending.SetHeight(max(5, msg.Height-20))

	case insightsResultMsg:
		m.state = insightsStateResult
		m.snapshot = msg.snapshot
		m.err = msg.err

		if msg.snapshot != nil {
			m.spending.SetRows(spendingRows(msg.snapshot))
			m.spending.GotoTop()
		}

		return m, nil
	}

	switch m.state {
	case insightsStateForm:
		return m.updateForm(msg)

	case insightsStateLoading:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case insightsStateResult:
		var cmd tea.Cmd
		m.spending, cmd = m.spending.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m InsightsModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case insightsStateResult:
		m.state = insightsStateForm
		m.snapshot = nil
		m.err = nil
		m.form = m.buildPeriodForm()

		return m, m.form.Init()
	case insightsStateLoading:
		return m, nil
	}

	return m, Back
}

func (m InsightsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	months, err := m.sel.period.Months(m.now(), m.sel.custom)
	if err != nil {
		m.state = insightsStateResult
		m.err = err

		return m, nil
	}

	m.months = months
	m.state = insightsStateLoading

	return m, tea.Batch(m.spinner.Tick, m.computeCmd(months))
}

func (m InsightsModel) View() string {
	switch m.state {
	case insightsStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case insightsStateLoading:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Computing insights...", m.spinner.View()),
		)
	case insightsStateResult:
		return m.viewResult()
	}

	return ""
}

func (m InsightsModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(
			errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)",
		)
	}

	snap := m.snapshot

	period := "All time"
	if len(m.months) > 0 {
		period = strings.Join(m.months, ", ")
	}

	header := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Insights: %s", period))

	netStyle := successStyle
	if snap.Overspending {
		netStyle = errorStyle
	}

	totals := fmt.Sprintf(
		"Income:   %s\nExpenses: %s\nNet:      %s\nTransactions: %d",
		FormatAmount(snap.TotalIncome),
		FormatAmount(snap.TotalExpenses),
		netStyle.Render(FormatAmount(snap.NetSavings)),
		snap.TransactionCount,
	)

	var bullets strings.Builder
	for _, s := range snap.Insights {
		fmt.Fprintf(&bullets, "• %s\n", s)
	}

	sections := []string{header, "", totals, "", strings.TrimRight(bullets.String(), "\n")}

	if len(snap.CategorySpending) > 0 {
		sections = append(sections, "",
			lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240")).
				Render(m.spending.View()),
		)
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func spendingRows(snap *insights.Snapshot) []table.Row {
	rows := make([]table.Row, 0, len(snap.CategorySpending))

	for _, c := range snap.CategorySpending {
		share := "-"
		if snap.TotalExpenses.IsPositive() {
			share = c.Amount.Div(snap.TotalExpenses).Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
		}

		rows = append(rows, table.Row{c.Name, FormatAmount(c.Amount), share})
	}

	return rows
}

// Messages

type insightsResultMsg struct {
	snapshot *insights.Snapshot
	err      error
}

func (m InsightsModel) computeCmd(months []string) tea.Cmd {
	svc := m.svc
	userID := m.userID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		snap, err := svc.ComputeInsights(ctx, userID, months)

		return insightsResultMsg{snapshot: snap, err: err}
	}
}
