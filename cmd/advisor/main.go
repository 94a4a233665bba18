package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"advisor/pkg/agent"
	"advisor/pkg/architect"
	"advisor/pkg/chat"
	"advisor/pkg/config"
	"advisor/pkg/debugagent"
	"advisor/pkg/embedding"
	"advisor/pkg/ingest"
	"advisor/pkg/logx"
	"advisor/pkg/persistence"
	"advisor/pkg/templates"
	"advisor/pkg/tools"
	"advisor/pkg/version"
	"advisor/pkg/webui"
)

func main() {
	var (
		configPath  = flag.String("config", "advisor.json", "Path to configuration file")
		serve       = flag.Bool("serve", false, "Start the web UI instead of the CLI loop")
		skipIngest  = flag.Bool("skip-ingest", false, "Skip PDF ingestion at startup")
		debug       = flag.Bool("debug", false, "Enable debug logging")
		confidence  = flag.Bool("confidence", false, "Include confidence and assumptions in architect analyses")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("advisor %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
		os.Exit(0)
	}

	if *debug {
		logx.SetDebug(true)
	}

	if err := run(*configPath, *serve, *skipIngest, *confidence); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, serve, skipIngest, showConfidence bool) error {
	logger := logx.NewLogger("advisor")

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if err := ensureAPIKey(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := persistence.Initialize(cfg.Storage.DBPath); err != nil {
		return err
	}
	defer func() { _ = persistence.Close() }()
	db := persistence.GetDB()

	embedder, err := embedding.NewOllamaEmbedder(cfg.Embedding.Host, cfg.Embedding.Model)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	if !skipIngest && cfg.Ingest.PDFDir != "" {
		fmt.Println("📄 Ingesting documents...")
		ingestor := ingest.NewIngestor(db, embedder, cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)
		if _, err := ingestor.IngestDir(ctx, cfg.Ingest.PDFDir); err != nil {
			logger.Warn("document ingestion skipped: %v", err)
		}
	}

	factory := agent.NewClientFactory(&cfg.LLM)
	chatClient, err := factory.CreateClient("chat")
	if err != nil {
		return err
	}
	archClient, err := factory.CreateClient("architect")
	if err != nil {
		return err
	}

	renderer, err := templates.NewRenderer()
	if err != nil {
		return err
	}

	registry := tools.NewRegistry()
	for _, tool := range []tools.Tool{
		tools.NewPDFSearchTool(db, embedder, chat.NewAnswerFunc(chatClient), cfg.Ingest.TopK),
		tools.NewWeatherTool(),
		tools.NewWebScraperTool(),
		tools.NewWebSearchTool(),
	} {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}

	session, err := chat.NewSession(ctx, chat.Options{
		Client:         chatClient,
		Registry:       registry,
		Debug:          debugagent.New(renderer),
		Architect:      architect.NewArchitect(archClient, renderer),
		DB:             db,
		MaxIterations:  cfg.Chat.MaxIterations,
		ShowConfidence: showConfidence,
	})
	if err != nil {
		return err
	}

	if serve || cfg.WebUI.Enabled {
		addr := fmt.Sprintf(":%d", cfg.WebUI.Port)
		fmt.Printf("🌐 Web UI on http://localhost%s\n", addr)
		return webui.NewServer(session).ListenAndServe(ctx, addr)
	}

	return runREPL(ctx, session)
}

// loadConfig reads the config file, falling back to defaults when the
// default path does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if path != "advisor.json" {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return config.Default(), nil
	}
	return config.LoadConfig(path)
}

// runREPL is the interactive chat loop mirroring the web chat: exit quits,
// clear resets conversation memory.
func runREPL(ctx context.Context, session *chat.Session) error {
	fmt.Println("\n✅ Agent ready with conversation memory! Ask anything (type 'exit' to quit, 'clear' to reset memory)")
	fmt.Println("   Prefix a message with 'architect:' for an architecture consultation.")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 64*1024)

	for {
		fmt.Print("\n❓ Question: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "exit", "quit":
			return nil
		case "clear":
			if err := session.Clear(ctx); err != nil {
				fmt.Printf("Failed to clear memory: %v\n", err)
				continue
			}
			fmt.Println("\n🧹 Conversation memory cleared!")
			continue
		}

		reply, err := session.ProcessMessage(ctx, input)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Printf("Error: %v\n", err)
			continue
		}

		fmt.Printf("\n💡 Answer:\n%s\n", reply.Content)
	}
}
