package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/studygrid/internal/config"
	"github.com/sadopc/studygrid/internal/export"
	"github.com/sadopc/studygrid/internal/log"
	"github.com/sadopc/studygrid/internal/store"
	"github.com/sadopc/studygrid/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default ~/.config/studygrid/config.yaml)")
	dbPath := flag.String("db", "", "override the database path")
	importPath := flag.String("import", "", "import sessions from an iCalendar file and exit")
	demo := flag.Bool("demo", false, "seed demo courses and sessions into an empty database")
	flag.Parse()

	if err := run(*configPath, *dbPath, *importPath, *demo); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, dbPath, importPath string, demo bool) error {
	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("resolve config path: %w", err)
		}
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	logFile, err := log.OpenFile(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	log.SetLevel(log.ParseLevel(cfg.LogLevel))
	log.Info("starting", "config", configPath, "db", cfg.DBPath)

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	if importPath != "" {
		return importICS(s, importPath)
	}

	if demo {
		_, weekStart, err := s.GridSettings()
		if err != nil {
			log.Error("grid settings invalid, seeding with defaults", err)
		}
		if err := s.Seed(time.Now(), weekStart); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.MouseEnabled() {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(tui.NewApp(s, *cfg), opts...)
	if _, err := p.Run(); err != nil {
		return err
	}
	log.Info("exiting")
	return nil
}

func importICS(s *store.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sessions, err := export.FromICS(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	n, err := export.Import(s, sessions, "Imported")
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	fmt.Printf("Imported %d of %d sessions from %s\n", n, len(sessions), path)
	return nil
}
