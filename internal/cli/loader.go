package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/pubtest/internal/harness"
	"github.com/roach88/pubtest/internal/publisher"
)

// LoadMode controls how errors are handled during scenario loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadedScenario pairs a parsed scenario with its file.
type LoadedScenario struct {
	Path     string
	Scenario *harness.Scenario
}

// LoadError represents an error that occurred during scenario loading.
type LoadError struct {
	Code    string
	File    string // scenario file, empty for directory-level errors
	Field   string // offending field, when known
	Message string
}

func (e *LoadError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(": ")
	}
	b.WriteString(e.Code)
	b.WriteString(": ")
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// LoadScenarios finds and parses every scenario file in dir.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
//
// Every scenario's publisher must be registered in reg.
func LoadScenarios(dir, filter string, reg *publisher.Registry, mode LoadMode) ([]LoadedScenario, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("scenarios directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing scenarios directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	files, err := FindScenarioFiles(dir, filter)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(files) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no scenario files found in %s", dir)}}
	}

	var (
		loaded []LoadedScenario
		errs   []error
	)
	for _, f := range files {
		sc, err := LoadScenarioFile(f, reg)
		if err != nil {
			errs = append(errs, err)
			if mode == LoadModeFailFast {
				return loaded, errs
			}
			continue
		}
		loaded = append(loaded, LoadedScenario{Path: f, Scenario: sc})
	}
	return loaded, errs
}

// LoadScenarioFile parses a single scenario and checks its publisher exists.
// All failures are returned as *LoadError.
func LoadScenarioFile(path string, reg *publisher.Registry) (*harness.Scenario, error) {
	sc, err := harness.LoadScenario(path)
	if err != nil {
		return nil, convertLoadError(path, err)
	}
	if _, err := reg.Lookup(sc.Publisher); err != nil {
		return nil, &LoadError{
			Code:    ErrCodeUnknownPublisher,
			File:    path,
			Field:   "publisher",
			Message: err.Error(),
		}
	}
	return sc, nil
}

// FindScenarioFiles walks dir and returns the .yaml and .yml files whose
// base name (without extension) matches filter. Golden directories are
// skipped. Results are sorted.
func FindScenarioFiles(dir, filter string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != dir && info.Name() == goldenDirName {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			matched, err := filepath.Match(filter, harness.ScenarioName(path))
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	sort.Strings(files)
	return files, err
}

// convertLoadError converts a harness error to a LoadError with field info.
func convertLoadError(path string, err error) *LoadError {
	var harnessErr *harness.LoadError
	if errors.As(err, &harnessErr) {
		return &LoadError{
			Code:    ErrCodeInvalidScenario,
			File:    path,
			Field:   harnessErr.Field,
			Message: harnessErr.Message,
		}
	}
	if errors.Is(err, os.ErrNotExist) {
		return &LoadError{Code: ErrCodeNotFound, File: path, Message: err.Error()}
	}
	return &LoadError{Code: ErrCodeParseFailed, File: path, Message: err.Error()}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric          = "E001" // Generic/unknown error
	ErrCodeScanError        = "E002" // Directory scan error
	ErrCodeNoFiles          = "E003" // No scenario files found
	ErrCodeParseFailed      = "E004" // Scenario YAML could not be read or parsed
	ErrCodeNotFound         = "E005" // Path not found
	ErrCodeInvalidScenario  = "E006" // Schema or field validation failed
	ErrCodeUnknownPublisher = "E007" // Publisher not registered
	ErrCodeRunFailed        = "E008" // Scenario could not be executed
	ErrCodeTestFailed       = "E009" // One or more scenarios failed
)

// goldenDirName is the directory, next to the scenarios, holding golden files.
const goldenDirName = "golden"
