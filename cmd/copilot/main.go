// Command copilot is the research copilot command line.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/copilot-cli/internal/adapters/driven/backend"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driven/desktop"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driven/viewer"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/mcp"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/copilot-cli/internal/core/services"
	"github.com/custodia-labs/copilot-cli/internal/logger"
)

// version is overridden with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(buildServices)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildServices wires the adapters and core services from the config file
// and the root flags.
func buildServices(opts cli.Options) (*cli.Services, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("locating config directory: %w", err)
		}
		configDir = dir
	}

	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settingsSvc := services.NewSettingsService(store)
	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	if opts.BackendURL != "" {
		settings.Backend.BaseURL = opts.BackendURL
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	logger.Debug("backend %s (timeout %s, %g req/s)",
		settings.Backend.BaseURL, settings.Backend.Timeout, settings.Backend.RateLimit)

	client := backend.NewClient(backend.Config{
		BaseURL:   settings.Backend.BaseURL,
		Timeout:   settings.Backend.Timeout,
		RateLimit: settings.Backend.RateLimit,
	})
	launcher := desktop.NewLauncher()

	var pdfViewer *viewer.Viewer
	cache, err := viewer.NewCache(settings.Cache.Dir, client)
	if err != nil {
		logger.Warn("pdf cache unavailable, page text disabled: %v", err)
	} else {
		pdfViewer = viewer.New(cache)
	}

	registry := services.NewRegistryService(client, settings.Poll.Interval)
	selection := services.NewSelectionService(registry)
	conversation := services.NewConversationService(client, selection, settings.Chat.Limit)
	claims := services.NewClaimsService(client, settings.Claims.StaleAfter)
	coordinator := services.NewCoordinator(selection, claims)
	upload := services.NewUploadService(client, registry)

	// A nil *viewer.Viewer must not reach the interface parameter.
	pdfSvc := services.NewPDFService(client, nil, launcher, selection)
	if pdfViewer != nil {
		pdfSvc = services.NewPDFService(client, pdfViewer, launcher, selection)
	}
	registry.OnDeleted(pdfSvc.Forget)

	chatLimit := settings.Chat.Limit
	return &cli.Services{
		Registry:     registry,
		Conversation: conversation,
		Citations:    services.NewCitationService(conversation, coordinator, launcher),
		Claims:       claims,
		Selection:    selection,
		Coordinator:  coordinator,
		PDF:          pdfSvc,
		Upload:       upload,
		Inbox:        services.NewInboxService(upload, services.DefaultInboxSettle),
		Settings:     settingsSvc,
		NewConversation: func(scope mcp.Scope) driving.Conversation {
			return services.NewConversationService(client, scope, chatLimit)
		},
		LogFile: filepath.Join(configDir, "copilot.log"),
	}, nil
}
