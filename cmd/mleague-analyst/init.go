package main

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed config.example.yaml
var configExampleContent string

const configExampleFile = "config.example.yaml"

// runInit writes the configuration template into the current directory.
func runInit() error {
	return writeConfigExample(configExampleFile)
}

func writeConfigExample(filename string) error {
	// Always overwrite; it's a template.
	if err := os.WriteFile(filename, []byte(configExampleContent), 0644); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}

	fmt.Printf("✓ %s を作成しました\n", filename)
	fmt.Println("  次の手順:")
	fmt.Println("  1. cp config.example.yaml config.yaml")
	fmt.Println("  2. export MLEAGUE_CONFIG=config.yaml OPENAI_API_KEY=sk-...")
	fmt.Println("  3. mleague-scraper でキャッシュを作成")
	fmt.Println("  4. ./mleague-analyst を起動し POST /chat に質問を送信")

	return nil
}
