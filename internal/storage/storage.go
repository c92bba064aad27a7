package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
)

const customCommandsFile = "custom_commands.yaml"

var (
	scriptExtensions = []string{".ps1", ".txt"}
	bundleExtensions = []string{".json"}
)

// Storage handles all file system operations: custom commands, persisted
// state and script files chosen by the user
type Storage struct {
	rootPath string
	state    *StateStore
}

// NewStorage creates a new storage instance
func NewStorage(rootPath string) (*Storage, error) {
	if rootPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		rootPath = filepath.Join(homeDir, ".powershell-forge")
	}

	state := NewStateStore(rootPath)
	if err := state.Load(); err != nil {
		return nil, errors.StorageError("load state", err)
	}

	return &Storage{
		rootPath: rootPath,
		state:    state,
	}, nil
}

// State returns the persisted key/value state
func (s *Storage) State() *StateStore {
	return s.state
}

// CustomCommandsPath returns the file holding user-defined commands
func (s *Storage) CustomCommandsPath() string {
	return filepath.Join(s.rootPath, customCommandsFile)
}

// LoadCustomCommands reads the user-defined commands. A missing file yields
// an empty list.
func (s *Storage) LoadCustomCommands() ([]models.CommandTemplate, error) {
	data, err := os.ReadFile(s.CustomCommandsPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.StorageError("read custom commands", err)
	}

	var commands []models.CommandTemplate
	if err := yaml.Unmarshal(data, &commands); err != nil {
		return nil, errors.StorageError("parse custom commands", err).
			WithContext("path", s.CustomCommandsPath())
	}
	return commands, nil
}

// AppendCustomCommand adds tmpl to the custom commands file
func (s *Storage) AppendCustomCommand(tmpl models.CommandTemplate) error {
	commands, err := s.LoadCustomCommands()
	if err != nil {
		return err
	}
	commands = append(commands, tmpl)

	data, err := yaml.Marshal(commands)
	if err != nil {
		return errors.StorageError("encode custom commands", err)
	}
	if err := os.MkdirAll(s.rootPath, 0755); err != nil {
		return errors.StorageError("create data directory", err)
	}
	if err := os.WriteFile(s.CustomCommandsPath(), data, 0644); err != nil {
		return errors.StorageError("write custom commands", err)
	}
	return nil
}

// SaveScript writes script text to path verbatim
func (s *Storage) SaveScript(path string, data []byte) error {
	return writeFile(path, data)
}

// LoadScript reads a .ps1 or .txt file
func (s *Storage) LoadScript(path string) ([]byte, error) {
	if err := checkExtension(path, scriptExtensions); err != nil {
		return nil, err
	}
	return readFile(path)
}

// SaveBundle writes an encoded bundle to path
func (s *Storage) SaveBundle(path string, data []byte) error {
	return writeFile(path, data)
}

// LoadBundle reads a .json bundle file
func (s *Storage) LoadBundle(path string) ([]byte, error) {
	if err := checkExtension(path, bundleExtensions); err != nil {
		return nil, err
	}
	return readFile(path)
}

func checkExtension(path string, allowed []string) error {
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return errors.NewAppError(errors.ErrCodeUnsupportedFileType,
		fmt.Sprintf("Unsupported file type '%s' (expected %s)", ext, strings.Join(allowed, ", "))).
		WithContext("path", path)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.NewAppError(errors.ErrCodeFileNotFound, fmt.Sprintf("File '%s' does not exist", path))
	}
	if err != nil {
		return nil, errors.StorageError("read "+path, err)
	}
	return data, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.StorageError("create directory "+dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.StorageError("write "+path, err)
	}
	return nil
}
