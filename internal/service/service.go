package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/ai"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/catalog"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/clipboard"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/codec"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/config"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/dragdrop"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/script"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/storage"
)

// Options configures NewService
type Options struct {
	Config *config.Config
	Logger *zap.Logger
	// Generator replaces the backend selected by Config when set
	Generator ai.Generator
}

// Service provides the forge operations shared by the CLI, the HTTP API and
// the TUI
type Service struct {
	cfg       *config.Config
	logger    *zap.Logger
	storage   *storage.Storage
	catalog   *catalog.Catalog
	builder   *catalog.Builder
	workspace *script.Workspace
	toggle    *ai.Toggle
	mediator  *ai.Mediator
}

// NewService creates a service, restoring custom commands, script buffers
// and the AI setting from the data directory
func NewService(opts Options) (*Service, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(""); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := storage.NewStorage(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	cat, err := catalog.NewWithBuiltins()
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in commands: %w", err)
	}

	svc := &Service{
		cfg:       cfg,
		logger:    logger,
		storage:   store,
		catalog:   cat,
		builder:   catalog.NewBuilder(cat),
		workspace: script.NewWorkspace(),
	}

	svc.loadCustomCommands()
	svc.restoreScripts()

	state := store.State()
	svc.toggle = ai.NewToggle(state.Bool(storage.KeyAIEnabled, false))
	svc.toggle.OnChange(func(enabled bool) {
		if err := state.SetBool(storage.KeyAIEnabled, enabled); err != nil {
			logger.Warn("failed to persist AI setting", zap.Error(err))
		}
	})

	generator := opts.Generator
	if generator == nil {
		if generator, err = NewGenerator(context.Background(), cfg); err != nil {
			logger.Warn("generation backend unavailable", zap.String("generator", cfg.Generator), zap.Error(err))
			generator = ai.Disabled{}
		}
	}
	svc.mediator = ai.NewMediator(svc.workspace, generator, svc.toggle, cfg.AITimeout, logger.Named("ai"))

	svc.workspace.OnChange(svc.persistChange)
	return svc, nil
}

// NewGenerator creates the backend named by cfg.Generator
func NewGenerator(ctx context.Context, cfg *config.Config) (ai.Generator, error) {
	switch cfg.Generator {
	case config.GeneratorHTTP:
		return ai.NewHTTPGenerator(cfg.GeneratorURL, cfg.AITimeout), nil
	case config.GeneratorGenAI:
		return ai.NewGenAIGenerator(ctx, cfg.APIKey, cfg.GenAIModel)
	default:
		return ai.Disabled{}, nil
	}
}

func (s *Service) loadCustomCommands() {
	commands, err := s.storage.LoadCustomCommands()
	if err != nil {
		s.logger.Warn("failed to load custom commands", zap.Error(err))
		return
	}
	for _, c := range commands {
		if err := s.catalog.Add(c); err != nil {
			s.logger.Warn("skipping custom command", zap.String("id", c.ID), zap.Error(err))
		}
	}
}

func (s *Service) restoreScripts() {
	state := s.storage.State()
	texts := make(map[models.ScriptType]string, len(models.ScriptTypes))
	for _, t := range models.ScriptTypes {
		texts[t], _ = state.Get(string(t))
	}
	if err := s.workspace.ReplaceAll(texts, script.SourceRestore); err != nil {
		s.logger.Warn("failed to restore scripts", zap.Error(err))
	}
}

// persistChange mirrors buffer changes into the state store
func (s *Service) persistChange(c script.Change) {
	if c.Source == script.SourceRestore {
		return
	}
	if err := s.storage.State().Set(string(c.Type), c.Text); err != nil {
		s.logger.Warn("failed to persist script", zap.String("script", string(c.Type)), zap.Error(err))
		return
	}
	s.logger.Debug("script changed",
		zap.String("script", string(c.Type)),
		zap.String("source", string(c.Source)),
		zap.Uint64("version", c.Version))
}

// Config returns the active configuration
func (s *Service) Config() *config.Config {
	return s.cfg
}

// Logger returns the service logger
func (s *Service) Logger() *zap.Logger {
	return s.logger
}

// Catalog returns the command catalog
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Workspace returns the script buffers
func (s *Service) Workspace() *script.Workspace {
	return s.workspace
}

// Commands

// ListCommands returns the whole catalog
func (s *Service) ListCommands() []models.CommandTemplate {
	return s.catalog.List()
}

// SearchCommands fuzzy-searches the catalog
func (s *Service) SearchCommands(query string) []models.CommandTemplate {
	return s.catalog.Search(query)
}

// GetCommand returns the command with the given id
func (s *Service) GetCommand(id string) (models.CommandTemplate, error) {
	tmpl, ok := s.catalog.Lookup(id)
	if !ok {
		return models.CommandTemplate{}, errors.NotFoundError(fmt.Sprintf("Command '%s'", id))
	}
	return tmpl, nil
}

// AddCustomCommand validates req, appends it to the catalog and persists it
func (s *Service) AddCustomCommand(req catalog.CustomCommandRequest) (models.CommandTemplate, error) {
	tmpl, err := s.builder.SubmitPersisted(req, s.storage.AppendCustomCommand)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeStorageFailure) {
			s.logger.Warn("custom command not persisted", zap.String("name", req.Name), zap.Error(err))
		}
		return models.CommandTemplate{}, err
	}
	s.logger.Info("custom command added", zap.String("id", tmpl.ID), zap.String("name", tmpl.Name))
	return tmpl, nil
}

// Scripts

// Script returns the text of buffer t
func (s *Service) Script(t models.ScriptType) (string, error) {
	text, _, err := s.workspace.Snapshot(t)
	return text, err
}

// SetScript replaces the text of buffer t
func (s *Service) SetScript(t models.ScriptType, text string) error {
	_, err := s.workspace.SetText(t, text, script.SourceEdit)
	return err
}

// Insert appends the command commandID to buffer t and returns its line
func (s *Service) Insert(t models.ScriptType, commandID string) (int, error) {
	tmpl, err := s.GetCommand(commandID)
	if err != nil {
		return 0, err
	}
	return s.workspace.Insert(t, tmpl)
}

// Drop decodes a drag payload and inserts the command. The payload's own
// target wins over fallback.
func (s *Service) Drop(raw []byte, fallback models.ScriptType) (models.ScriptType, int, error) {
	drop, err := dragdrop.Decode(raw, s.catalog)
	if err != nil {
		s.logger.Debug("drop ignored", zap.Error(err))
		return "", 0, err
	}

	target := drop.Target
	if target == "" {
		target = fallback
	}
	if !target.Valid() {
		return "", 0, errors.DragPayloadError("no target script", nil)
	}

	line, err := s.workspace.Insert(target, drop.Template)
	return target, line, err
}

// OpenEditor opens a parameter editor on line index of buffer t
func (s *Service) OpenEditor(t models.ScriptType, index int) (*script.EditorSession, error) {
	return script.OpenEditor(s.workspace, t, index, s.catalog)
}

// BindParameters sets values on line index of buffer t and writes the
// flattened line back
func (s *Service) BindParameters(t models.ScriptType, index int, values map[string]string) (string, error) {
	ed, err := s.OpenEditor(t, index)
	if err != nil {
		return "", err
	}
	for name, value := range values {
		ed.Set(name, value)
	}
	return ed.Commit()
}

// AI

// Generate replaces buffer t with a script generated from description
func (s *Service) Generate(ctx context.Context, t models.ScriptType, description string) (ai.Result, error) {
	return s.mediator.Generate(ctx, t, description)
}

// Suggest replaces buffer t with a refined version of itself
func (s *Service) Suggest(ctx context.Context, t models.ScriptType) (ai.Result, error) {
	return s.mediator.Suggest(ctx, t)
}

// CancelAI abandons the pending generation for t
func (s *Service) CancelAI(t models.ScriptType) {
	s.mediator.Cancel(t)
}

// AIPending reports whether a generation for t is running
func (s *Service) AIPending(t models.ScriptType) bool {
	return s.mediator.Pending(t)
}

// AIEnabled reports the shared suggestions setting
func (s *Service) AIEnabled() bool {
	return s.toggle.Enabled()
}

// SetAIEnabled changes and persists the suggestions setting
func (s *Service) SetAIEnabled(enabled bool) {
	s.toggle.Set(enabled)
}

// Persistence

// ExportScript returns the suggested file name and content for buffer t
func (s *Service) ExportScript(t models.ScriptType) (string, []byte, error) {
	text, err := s.Script(t)
	if err != nil {
		return "", nil, err
	}
	return codec.ScriptFileName(t), codec.ExportScript(text), nil
}

// ImportScript replaces buffer t with data verbatim
func (s *Service) ImportScript(t models.ScriptType, data []byte) error {
	_, err := s.workspace.SetText(t, codec.ImportScript(data), script.SourceImport)
	return err
}

// ExportBundle encodes all three buffers
func (s *Service) ExportBundle() ([]byte, error) {
	return codec.ExportBundle(codec.BundleFromTexts(s.workspace.Texts()))
}

// ImportBundle validates data and replaces all three buffers at once
func (s *Service) ImportBundle(data []byte) error {
	bundle, err := codec.DecodeBundle(data)
	if err != nil {
		return err
	}
	return s.workspace.ReplaceAll(bundle.Texts(), script.SourceImport)
}

// SaveScriptFile writes buffer t to path. A directory, or an empty path,
// receives the default file name.
func (s *Service) SaveScriptFile(t models.ScriptType, path string) (string, error) {
	name, data, err := s.ExportScript(t)
	if err != nil {
		return "", err
	}
	path = resolvePath(path, name)
	if err := s.storage.SaveScript(path, data); err != nil {
		return "", err
	}
	s.logger.Info("script saved", zap.String("script", string(t)), zap.String("path", path))
	return path, nil
}

// LoadScriptFile replaces buffer t with the content of a .ps1 or .txt file
func (s *Service) LoadScriptFile(t models.ScriptType, path string) error {
	if !t.Valid() {
		return errors.ValidationError(fmt.Sprintf("Unknown script type '%s'", t))
	}
	data, err := s.storage.LoadScript(path)
	if err != nil {
		return err
	}
	return s.ImportScript(t, data)
}

// SaveBundleFile writes all three buffers to path
func (s *Service) SaveBundleFile(path string) (string, error) {
	data, err := s.ExportBundle()
	if err != nil {
		return "", err
	}
	path = resolvePath(path, codec.BundleFileName)
	if err := s.storage.SaveBundle(path, data); err != nil {
		return "", err
	}
	s.logger.Info("bundle saved", zap.String("path", path))
	return path, nil
}

// LoadBundleFile replaces all three buffers from a .json bundle
func (s *Service) LoadBundleFile(path string) error {
	data, err := s.storage.LoadBundle(path)
	if err != nil {
		return err
	}
	return s.ImportBundle(data)
}

// CopyScript copies buffer t to the system clipboard
func (s *Service) CopyScript(t models.ScriptType) error {
	text, err := s.Script(t)
	if err != nil {
		return err
	}
	return clipboard.Copy(text)
}

// PasteScript replaces buffer t with the clipboard text
func (s *Service) PasteScript(t models.ScriptType) error {
	text, err := clipboard.Paste()
	if err != nil {
		return err
	}
	return s.ImportScript(t, []byte(text))
}

func resolvePath(path, defaultName string) string {
	if path == "" {
		return defaultName
	}
	if isDir(path) {
		return filepath.Join(path, defaultName)
	}
	return path
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
