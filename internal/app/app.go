package app

import (
	"fmt"
	"os"
	"time"

	"momentlog/internal/config"
	"momentlog/internal/encryption"
	"momentlog/internal/generation"
	"momentlog/internal/journal"
	"momentlog/internal/media"
	"momentlog/internal/storage"
)

// PassphraseFunc prompts the user for a passphrase. The CLI supplies a
// terminal prompt; tests supply a canned value.
type PassphraseFunc func(prompt string) (string, error)

// App is the application layer between the CLI and the journal core. It
// constructs all dependencies from config, loads the store, and manages
// resource lifecycles on Close.
type App struct {
	cfg     *config.Config
	storage journal.Storage
	store   *journal.Store
	service *journal.Service
	logFile *os.File
}

// NewApp creates a fully wired App from the given config. operation
// identifies the CLI command being run (e.g. "AddMoment") and lands in every
// log line. passphrase is only invoked when snapshot encryption is
// configured. The caller must call Close when done.
func NewApp(cfg *config.Config, operation string, passphrase PassphraseFunc) (*App, error) {
	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	log := &slogAdapter{l: logger.With("operation", operation)}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	var decctx journal.DecryptionContext
	if enc != nil {
		if !enc.IsConfigured() {
			logFile.Close()
			return nil, fmt.Errorf("snapshot encryption is enabled but no keys exist: run 'momentlog keys init'")
		}
		if passphrase == nil {
			logFile.Close()
			return nil, fmt.Errorf("snapshot encryption is enabled but no passphrase prompt is available")
		}
		pass, err := passphrase("Passphrase: ")
		if err != nil {
			logFile.Close()
			return nil, fmt.Errorf("reading passphrase: %w", err)
		}
		decctx, err = enc.Unlock(pass)
		if err != nil {
			logFile.Close()
			return nil, fmt.Errorf("unlocking journal key: %w", err)
		}
	}

	st, err := storage.NewStorageFromConfig(cfg.Storage, enc, decctx)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating storage: %w", err)
	}

	vault, err := media.NewVaultFromConfig(cfg.Media)
	if err != nil {
		st.Close()
		logFile.Close()
		return nil, fmt.Errorf("creating media vault: %w", err)
	}

	gen := generation.NewClient(cfg.Generation, log)

	store := journal.NewStore(st, log)
	store.Load()

	svc := journal.NewService(store, vault, gen, log, journal.RealClock{}, journal.UUIDGenerator{})

	return &App{
		cfg:     cfg,
		storage: st,
		store:   store,
		service: svc,
		logFile: logFile,
	}, nil
}

// Service returns the journal service.
func (a *App) Service() *journal.Service { return a.service }

// Store returns the journal store for queries.
func (a *App) Store() *journal.Store { return a.store }

// Close releases storage and log resources.
func (a *App) Close() error {
	var firstErr error
	if err := a.storage.Close(); err != nil {
		firstErr = fmt.Errorf("closing storage: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
