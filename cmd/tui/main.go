package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/spendwise/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/spendwise/internal/categorize"
	"github.com/MrJamesThe3rd/spendwise/internal/category"
	categoryStore "github.com/MrJamesThe3rd/spendwise/internal/category/store"
	"github.com/MrJamesThe3rd/spendwise/internal/classifier"
	"github.com/MrJamesThe3rd/spendwise/internal/config"
	"github.com/MrJamesThe3rd/spendwise/internal/database"
	"github.com/MrJamesThe3rd/spendwise/internal/ingest"
	"github.com/MrJamesThe3rd/spendwise/internal/insights"
	"github.com/MrJamesThe3rd/spendwise/internal/logger"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
	txStore "github.com/MrJamesThe3rd/spendwise/internal/transaction/store"
)

type model struct {
	ingestService   *ingest.Service
	insightsService *insights.Service
	userID          uuid.UUID

	currentView View
	size        tea.WindowSizeMsg

	importView   view.ImportModel
	insightsView view.InsightsModel
}

type View int

const (
	ViewMenu     View = 0
	ViewImport   View = 1
	ViewInsights View = 2
)

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

func initialModel(cfg *config.Config, log zerolog.Logger) (model, error) {
	userID, err := uuid.Parse(cfg.Console.UserID)
	if err != nil {
		return model{}, fmt.Errorf("CONSOLE_USER_ID must be a user id: %w", err)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString())
	if err != nil {
		return model{}, err
	}

	classifierModel, err := classifier.Load(cfg.Classifier.ModelPath)
	if err != nil {
		return model{}, err
	}

	txSvc := transaction.NewService(txStore.New(db))
	catSvc := category.NewService(categoryStore.New(db))
	ingestSvc := ingest.NewService(txSvc, catSvc, categorize.New(classifierModel, cfg.Classifier.Threshold), ingest.Options{
		MaxUploadBytes: cfg.Ingest.MaxUploadBytes,
		Workers:        cfg.Ingest.NormalizeWorkers,
	})
	insightsSvc := insights.NewService(txSvc, catSvc)

	log.Info().Str("user_id", userID.String()).Msg("console ready")

	return model{
		ingestService:   ingestSvc,
		insightsService: insightsSvc,
		userID:          userID,
		currentView:     ViewMenu,
		importView:      view.NewImportModel(ingestSvc, userID),
		insightsView:    view.NewInsightsModel(insightsSvc, userID),
	}, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.ingestService, m.userID)

				return m, tea.Batch(m.importView.Init(), m.resize)
			case "2":
				m.currentView = ViewInsights
				m.insightsView = view.NewInsightsModel(m.insightsService, m.userID)

				return m, tea.Batch(m.insightsView.Init(), m.resize)
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewInsights:
		var newModel tea.Model
		newModel, cmd = m.insightsView.Update(msg)
		m.insightsView = newModel.(view.InsightsModel)
	}

	return m, cmd
}

// resize replays the last window size to a freshly built view.
func (m model) resize() tea.Msg {
	if m.size.Width == 0 {
		return nil
	}

	return m.size
}

func (m model) View() string {
	var (
		current view.View
		body    string
	)

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			titleStyle.Render("Spendwise") + "\n\n" +
				"1. Import Statement\n" +
				"2. Insights\n\n" +
				"q. Quit",
		)
	case ViewImport:
		current, body = m.importView, m.importView.View()
	case ViewInsights:
		current, body = m.insightsView, m.insightsView.View()
	default:
		return "Unknown View"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingLeft(1).Render(titleStyle.Render(current.Title())),
		body,
		lipgloss.NewStyle().PaddingLeft(1).Faint(true).Render(current.ShortHelp()),
	)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to bubbletea; logs go to LOG_FILE when set.
	log := zerolog.Nop()

	if cfg.Log.File != "" {
		f, err := tea.LogToFile(cfg.Log.File, "spendwise")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()

		log = logger.NewWithWriter(f)
		if lvl, err := zerolog.ParseLevel(cfg.Log.Level); err == nil && lvl != zerolog.NoLevel {
			log = log.Level(lvl)
		}
	}

	m, err := initialModel(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to start console")
		fmt.Fprintf(os.Stderr, "failed to start console: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Error().Err(err).Msg("failed to run TUI")
		fmt.Fprintf(os.Stderr, "failed to run TUI: %v\n", err)
		os.Exit(1)
	}
}
