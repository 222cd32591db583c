package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	apiconfig "gaap_bridge/pkg/api/config"
	"gaap_bridge/pkg/api/conversion"
	"gaap_bridge/pkg/core/agent"
	"gaap_bridge/pkg/core/prompt"
	"gaap_bridge/pkg/core/store"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize Prompt Library
	// Determine resources path (relative to executable or working directory)
	resourcesPath := "resources"
	if _, err := os.Stat(resourcesPath); os.IsNotExist(err) {
		exePath, _ := os.Executable()
		resourcesPath = filepath.Join(filepath.Dir(exePath), "resources")
	}
	if err := prompt.LoadFromDirectory(resourcesPath); err != nil {
		fmt.Printf("[WARNING] Failed to load prompt library: %v\n", err)
		fmt.Println("  Falling back to hardcoded prompts")
	}

	// Initialize manager from config
	configData, _ := os.ReadFile("config/models.yaml")
	var agentCfg agent.Config
	yaml.Unmarshal(configData, &agentCfg)
	agentMgr := agent.NewManager(agentCfg)

	// Database is optional; the conversion store falls back to files.
	if err := store.InitDB(context.Background()); err != nil {
		fmt.Printf("[WARNING] Database unavailable, using file store: %v\n", err)
	} else {
		defer store.Close()
	}

	// Conversion endpoints
	conversion.InitHandler(agentMgr)
	http.HandleFunc("/api/convert", conversion.HandleConvert)
	http.HandleFunc("/api/conversion", conversion.HandleGetConversion)
	http.HandleFunc("/api/conversions", conversion.HandleListConversions)
	http.HandleFunc("/api/report", conversion.HandleReport)

	// Config endpoints
	configHandler := apiconfig.NewHandler(agentMgr)
	http.HandleFunc("/api/config", configHandler.HandleConfig)
	http.HandleFunc("/api/config/switch", configHandler.HandleSwitch)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("API server starting on :%s...\n", port)
	fmt.Println("  - POST /api/convert")
	fmt.Println("  - GET  /api/conversion?run_id=...")
	fmt.Println("  - GET  /api/conversions")
	fmt.Println("  - GET  /api/report?run_id=...&format=md|html")
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - POST /api/config/switch")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		fmt.Printf("[ERROR] Server failed: %v\n", err)
		os.Exit(1)
	}
}
