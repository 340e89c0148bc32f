package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendwise/internal/ingest"
	"github.com/MrJamesThe3rd/spendwise/internal/normalize"
)

const importTimeout = 2 * time.Minute

type Ingester interface {
	ParseAndCategorize(ctx context.Context, file []byte, fileName string, userID uuid.UUID) (*ingest.Result, error)
}

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	ingester Ingester
	userID   uuid.UUID

	state      importState
	filePicker filepicker.Model
	spinner    spinner.Model
	rejected   table.Model

	fileName string
	result   *ingest.Result
	status   string
	err      error
}

func NewImportModel(ingester Ingester, userID uuid.UUID) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".xlsx", ".xls"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.Height = 15

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ImportModel{
		ingester:   ingester,
		userID:     userID,
		filePicker: fp,
		spinner:    s,
		rejected:   newRejectedTable(),
	}
}

func newRejectedTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Line", Width: 6},
			{Title: "Stage", Width: 10},
			{Title: "Reason", Width: 60},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(tableStyles())

	return t
}

func (m ImportModel) Title() string { return "Import Statement" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStateImporting:
		return "Importing..."
	case importStateResult:
		return "Esc: import another | ↑/↓: scroll rejected rows"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.rejected.SetHeight(max(5, msg.Height-16))

	case importResultMsg:
		m.state = importStateResult
		m.result = msg.result
		m.err = msg.err
		m.status = importStatus(m.fileName, msg.result, msg.err)
		m.rejected.SetRows(rejectedRows(msg.result, msg.err))
		m.rejected.GotoTop()

		return m, nil
	}

	switch m.state {
	case importStateImporting:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case importStateResult:
		var cmd tea.Cmd
		m.rejected, cmd = m.rejected.Update(msg)

		return m, cmd
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.fileName = filepath.Base(path)

		return m, tea.Batch(m.spinner.Tick, m.importCmd(path))
	}

	if didSelect, path := m.filePicker.DidSelectDisabledFile(msg); didSelect {
		m.status = fmt.Sprintf("%s is not a .csv, .xlsx or .xls file", filepath.Base(path))
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateResult:
		m.state = importStateFilePick
		m.result = nil
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	case importStateImporting:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return m.viewFilePick()
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Importing %s...", m.spinner.View(), m.fileName),
		)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewFilePick() string {
	s := fmt.Sprintf("Select a statement to import:\n\n%s", m.filePicker.View())
	if m.status != "" {
		s = errorStyle.Render(m.status) + "\n\n" + s
	}

	return lipgloss.NewStyle().Padding(1).Render(s)
}

func (m ImportModel) viewResult() string {
	style := successStyle
	if m.err != nil {
		style = errorStyle
	}

	content := style.Render(m.status)

	if len(m.rejected.Rows()) > 0 {
		content = lipgloss.JoinVertical(lipgloss.Left,
			content,
			"",
			"Rejected rows:",
			lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240")).
				Render(m.rejected.View()),
		)
	}

	return lipgloss.NewStyle().Padding(2).Render(content + "\n\n" + faintStyle.Render("(Esc to import another file)"))
}

func importStatus(fileName string, res *ingest.Result, err error) string {
	var noRows *ingest.NoValidRowsError

	switch {
	case errors.As(err, &noRows):
		return fmt.Sprintf("%s: no valid rows, %d rejected.", fileName, len(noRows.Rejected))
	case err != nil:
		return fmt.Sprintf("Error: %v", err)
	}

	status := fmt.Sprintf("%s: inserted %d transactions.", fileName, res.InsertedCount)
	if n := len(res.RejectedRows) + len(res.StoreRejections()); n > 0 {
		status += fmt.Sprintf(" %d rows rejected.", n)
	}

	return status
}

func rejectedRows(res *ingest.Result, err error) []table.Row {
	var parsed, stored []normalize.RowError

	var noRows *ingest.NoValidRowsError

	switch {
	case errors.As(err, &noRows):
		parsed = noRows.Rejected
	case res != nil:
		parsed = res.RejectedRows
		stored = res.StoreRejections()
	}

	rows := make([]table.Row, 0, len(parsed)+len(stored))

	for _, r := range parsed {
		rows = append(rows, table.Row{fmt.Sprint(r.Line), "parse", oneLine(r.Reason)})
	}

	for _, r := range stored {
		rows = append(rows, table.Row{fmt.Sprint(r.Line), "store", oneLine(r.Reason)})
	}

	return rows
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Messages

type importResultMsg struct {
	result *ingest.Result
	err    error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	ingester := m.ingester
	userID := m.userID

	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return importResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		res, err := ingester.ParseAndCategorize(ctx, data, filepath.Base(path), userID)

		return importResultMsg{result: res, err: err}
	}
}
