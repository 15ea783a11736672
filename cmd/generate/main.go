package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/orchestrator"
	"gopkg.in/yaml.v3"
)

const (
	schemaName       = "backtest-config.json"
	sampleConfigName = "backtest-config.yaml"
)

func validatePaths(schemaPath, sampleConfigPath string) error {
	if schemaPath == "" {
		return fmt.Errorf("schema path cannot be empty")
	}

	if sampleConfigPath == "" {
		return fmt.Errorf("sample config path cannot be empty")
	}

	return nil
}

func validateSchemaName(name string) error {
	if name == "" {
		return fmt.Errorf("schema name cannot be empty")
	}

	if !strings.HasSuffix(name, ".json") {
		return fmt.Errorf("schema name %q must have .json extension", name)
	}

	return nil
}

// getSchemaReference is the editor hint placed on the first line of the sample.
func getSchemaReference(name string) string {
	return "# yaml-language-server: $schema=" + name + "\n"
}

func generateSchemaFile(config orchestrator.Config, schemaPath string) error {
	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(schemaPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema to file: %w", err)
	}

	return nil
}

// generateSampleConfig writes config as YAML unless samplePath already exists.
func generateSampleConfig(config orchestrator.Config, samplePath string, schema string) error {
	if _, err := os.Stat(samplePath); err == nil {
		return nil
	}

	yamlBytes, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal sample config to yaml: %w", err)
	}

	yamlBytes = append([]byte(getSchemaReference(schema)), yamlBytes...)

	if err := os.WriteFile(samplePath, yamlBytes, 0644); err != nil {
		return fmt.Errorf("failed to write sample config to file: %w", err)
	}

	return nil
}

func main() {
	config := orchestrator.SampleConfig()

	schemaPath := filepath.Join("./config", schemaName)
	sampleConfigPath := filepath.Join("./config", sampleConfigName)

	if err := validatePaths(schemaPath, sampleConfigPath); err != nil {
		log.Fatal(err)
	}

	if err := validateSchemaName(schemaName); err != nil {
		log.Fatal(err)
	}

	if err := generateSchemaFile(config, schemaPath); err != nil {
		log.Fatal(err)
	}

	if err := generateSampleConfig(config, sampleConfigPath, schemaName); err != nil {
		log.Fatal(err)
	}

	log.Printf("Schema successfully generated at %s", schemaPath)
}
