package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/andy/tasktimer/internal/config"
	"github.com/andy/tasktimer/internal/crypto"
	"github.com/andy/tasktimer/internal/db"
	"github.com/andy/tasktimer/internal/repository"
	"github.com/andy/tasktimer/internal/service"
	"github.com/andy/tasktimer/internal/storage"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// App is the dependency injection container for all application components
type App struct {
	Config  *config.Config
	DB      *db.DB
	Log     *logrus.Logger
	Keyring crypto.Keyring
	Store   storage.FileStore

	// Repositories
	ProjectRepo repository.ProjectRepository
	TaskRepo    repository.TaskRepository
	SessionRepo repository.SessionRepository
	FileRepo    repository.FileRepository

	// Services
	ProjectService service.ProjectService
	SessionService service.SessionService
	FileService    service.FileService
	AccountService service.AccountService

	logFile io.Closer
}

// New creates a new App instance, initializing all dependencies
// It handles:
// 1. Loading config, writing defaults on first run
// 2. Opening the log file
// 3. Getting encryption key from keyring
// 4. Opening database and running migrations
// 5. Creating repositories, the blob store and services
func New(ctx context.Context) (*App, error) {
	path := config.DefaultConfigPath()
	_, statErr := os.Stat(path)
	firstRun := os.IsNotExist(statErr)

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a, err := NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Write the defaults out so there is a file to edit
	if firstRun {
		if err := a.SaveConfig(); err != nil {
			a.Log.WithError(err).Warn("failed to write default config")
		} else {
			a.Log.WithField("path", path).Info("default config written")
		}
	}
	return a, nil
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	log, logFile, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	keyring := crypto.NewKeyring()

	password, err := keyring.GetKey()
	if err != nil && !keyring.IsAvailable() {
		logFile.Close()
		return nil, fmt.Errorf("no system keyring is available to store the database key; set %s instead", crypto.EnvKey)
	}
	if err != nil {
		fmt.Println("Setting up database encryption for the first time...")
		password, err = promptForPassword()
		if err != nil {
			logFile.Close()
			return nil, fmt.Errorf("failed to set password: %w", err)
		}

		if err := keyring.SetKey(password); err != nil {
			logFile.Close()
			return nil, fmt.Errorf("failed to store encryption key: %w", err)
		}
		log.Info("database encryption key stored")
	}

	database, err := db.Open(cfg.Database.Path, password)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.RunMigrations(); err != nil {
		database.Close()
		logFile.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store, err := storage.NewDirStore(cfg.Files.Dir, cfg.Files.MaxSizeBytes())
	if err != nil {
		database.Close()
		logFile.Close()
		return nil, fmt.Errorf("failed to open file store: %w", err)
	}

	projectRepo := repository.NewProjectRepo(database)
	taskRepo := repository.NewTaskRepo(database)
	sessionRepo := repository.NewSessionRepo(database)
	fileRepo := repository.NewFileRepo(database)

	a := &App{
		Config:      cfg,
		DB:          database,
		Log:         log,
		Keyring:     keyring,
		Store:       store,
		ProjectRepo: projectRepo,
		TaskRepo:    taskRepo,
		SessionRepo: sessionRepo,
		FileRepo:    fileRepo,

		ProjectService: service.NewProjectService(projectRepo, taskRepo, fileRepo, store, log.WithField("component", "projects")),
		SessionService: service.NewSessionService(sessionRepo, taskRepo, log.WithField("component", "sessions")),
		FileService:    service.NewFileService(fileRepo, taskRepo, store, log.WithField("component", "files")),
		AccountService: service.NewAccountService(database, store, keyring, log.WithField("component", "account")),

		logFile: logFile,
	}

	log.WithField("database", cfg.Database.Path).Debug("application started")
	return a, nil
}

// newLogger builds the application logger writing to the configured file
func newLogger(cfg config.LogConfig) (*logrus.Logger, io.Closer, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}

	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	log := logrus.New()
	log.SetOutput(f)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log, f, nil
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	var err error
	if a.DB != nil {
		err = a.DB.Close()
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return err
}

// ReadPassword reads a password from the terminal without echo
func ReadPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

// promptForPassword prompts user for a new database password (first run)
// This should be called when keyring has no stored key
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("Your projects and time sessions will be encrypted with a password.")
	fmt.Println("This password will be stored securely in your system keyring.")
	fmt.Println()

	password, err := ReadPassword("Enter a password for database encryption: ")
	if err != nil {
		return "", err
	}
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	confirm, err := ReadPassword("Confirm password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}
	if password != confirm {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Database encryption configured successfully")
	fmt.Println()

	return password, nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}
