package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// LoadedPrompts holds prompt content read from files, per operation.
type LoadedPrompts struct {
	Answer   LoadedPromptSet
	Entities LoadedPromptSet
}

// LoadedPromptSet is the system and user prompt content of one operation.
type LoadedPromptSet struct {
	System string
	User   string
}

// promptFile names one configurable prompt file.
type promptFile struct {
	path      string
	operation string
	kind      string // "system" or "user"
	target    *string
}

// promptFiles lists every prompt file the effective operation configs point at.
func (c *Config) promptFiles() []promptFile {
	answer := c.GetAnswerConfig().CustomPrompts
	entities := c.GetEntitiesConfig().CustomPrompts
	return []promptFile{
		{answer.SystemPrompts.AnswerFile, "answer", "system", &c.Prompts.Answer.System},
		{answer.UserPrompts.AnswerFile, "answer", "user", &c.Prompts.Answer.User},
		{entities.SystemPrompts.EntitiesFile, "entities", "system", &c.Prompts.Entities.System},
		{entities.UserPrompts.EntitiesFile, "entities", "user", &c.Prompts.Entities.User},
	}
}

// validatePromptFiles validates that prompt files exist before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	for _, pf := range c.promptFiles() {
		if pf.path == "" {
			continue
		}
		absPath, err := filepath.Abs(pf.path)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s %s prompt: %s", pf.kind, pf.operation, pf.path))
			continue
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s %s prompt file not found: %s", pf.kind, pf.operation, absPath))
		}
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}
	return nil
}

// loadPromptsFromFiles loads custom prompts from external files if file paths are specified
func (c *Config) loadPromptsFromFiles() error {
	loaded := 0
	for _, pf := range c.promptFiles() {
		if pf.path == "" {
			continue
		}
		content, err := loadPromptFromFile(pf.path, pf.kind, pf.operation)
		if err != nil {
			return err
		}
		*pf.target = content
		loaded++
	}

	if loaded == 0 {
		log.Println("[CONFIG] No custom prompt files loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompt files loaded: %d", loaded)
	}
	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func loadPromptFromFile(filePath, promptType, operation string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", promptType, operation, filePath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", promptType, operation, absPath, err)
	}

	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", promptType, operation, absPath)
	}

	log.Printf("[CONFIG] Successfully loaded %s %s prompt from file: %s (%d characters)",
		promptType, operation, absPath, len(trimmedContent))

	return trimmedContent, nil
}
