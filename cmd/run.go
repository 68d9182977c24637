package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spigell/ww-junior-hunter/internal/ai"
	"github.com/spigell/ww-junior-hunter/internal/ai/gemini"
	"github.com/spigell/ww-junior-hunter/internal/hunter"
	"github.com/spigell/ww-junior-hunter/internal/ledger"
	"github.com/spigell/ww-junior-hunter/internal/logger"
	"github.com/spigell/ww-junior-hunter/internal/portal"
	"github.com/spigell/ww-junior-hunter/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShowMatches = "Show recorded matches"
	PromptDumpMatches = "Dump recorded matches to file"
	PromptExit        = "Exit"

	defaultLoginURL   = "https://waterlooworks.uwaterloo.ca/waterloo.htm"
	defaultLedgerFile = "junior-matches.txt"
)

var errExit = errors.New("exit requested")

var actionPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowMatches, PromptDumpMatches, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the junior-hunter main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-exit", "y", false, "exit after the run summary instead of showing the action menu")
	runCmd.Flags().StringP("ledger-file", "l", "", "file with recorded matches. Default is "+defaultLedgerFile)
	runCmd.Flags().IntP("retries", "r", 0, "fresh reopens a posting gets after a view failure")

	viper.BindPFlag("ledger-file", runCmd.Flags().Lookup("ledger-file"))
	viper.BindPFlag("hunt.retries", runCmd.Flags().Lookup("retries"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the junior-hunter", zap.String("version", version))

	if config == nil {
		config = &Config{}
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	ledgerFile := strings.TrimSpace(config.LedgerFile)
	if ledgerFile == "" {
		ledgerFile = strings.TrimSpace(viper.GetString("ledger-file"))
	}
	if ledgerFile == "" {
		ledgerFile = defaultLedgerFile
	}

	store, err := ledger.Open(ledgerFile)
	if err != nil {
		logger.Fatal("opening the ledger", zap.Error(err), zap.String("path", ledgerFile))
	}
	defer store.Close()

	logger.Info("loaded the ledger",
		zap.String("path", ledgerFile),
		zap.Int("known_matches", store.Len()),
	)

	matcher, resume, err := newAIMatcher(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("skipping resume fit checks", zap.Error(err))
	}

	browser, err := portal.Launch(browserConfig(config.Portal), logger)
	if err != nil {
		logger.Fatal("launching the browser session", zap.Error(err))
	}
	defer browser.Shutdown()

	if err := browser.NavigateLogin(); err != nil {
		logger.Fatal("reaching the portal", zap.Error(err))
	}

	// Login and MFA stay manual on purpose. The hunt begins only once the
	// operator confirms the search results page is on screen.
	handoff := promptui.Prompt{
		Label: "Log in, open the job search results page, then press ENTER",
	}
	if _, err := handoff.Run(); err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}

	logger.Info("taking control of the session")

	h := hunter.New(browser, store, matcher, hunterConfig(config.Hunt, resume), logger)

	summary, err := h.Run(ctx)
	if err != nil {
		logger.Fatal("the hunt failed", zap.Error(err))
	}

	logger.Info("run summary",
		zap.Int("processed", summary.Processed),
		zap.Int("matched", summary.Matched),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
		zap.Strings("failed_postings", summary.FailedIDs),
		zap.String("ledger", ledgerFile),
	)

	if cmd.Flag("auto-exit").Value.String() == "true" {
		return
	}

	for {
		_, action, err := actionPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, store, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, store *ledger.Ledger, logger *zap.Logger) error {
	switch action {
	case PromptShowMatches:
		pretty, _ := json.MarshalIndent(store.Labels(), "", "  ")
		logger.Info(string(pretty), zap.Int("matches count", store.Len()))
		return nil
	case PromptDumpMatches:
		filename, err := dumpMatches(store)
		if err != nil {
			return fmt.Errorf("dump matches to file: %w", err)
		}
		logger.Info("dumping matches to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func dumpMatches(store *ledger.Ledger) (string, error) {
	file, err := os.CreateTemp("", "junior_matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(store.Labels()); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func browserConfig(cfg *PortalConfig) portal.BrowserConfig {
	out := portal.BrowserConfig{LoginURL: defaultLoginURL}
	if cfg == nil {
		return out
	}

	if url := strings.TrimSpace(cfg.LoginURL); url != "" {
		out.LoginURL = url
	}
	out.WaitTimeout = cfg.WaitTimeout
	out.SlowMo = cfg.SlowMo

	if cfg.Selectors != nil {
		var selectors portal.Selectors
		// Selector overrides arrive as a loose map from the config file.
		if err := mapstructure.Decode(cfg.Selectors, &selectors); err == nil {
			out.Selectors = selectors
		}
	}

	return out
}

func hunterConfig(cfg *HuntConfig, resume string) hunter.Config {
	out := hunter.Config{
		Retries: viper.GetInt("hunt.retries"),
		Resume:  resume,
	}
	if cfg == nil {
		return out
	}

	out.Threshold = cfg.Threshold
	out.Pace = cfg.Pace
	if cfg.Retries > out.Retries {
		out.Retries = cfg.Retries
	}

	return out
}

// newAIMatcher builds the optional resume fit matcher. A nil matcher with a
// nil error means the feature is simply disabled.
func newAIMatcher(ctx context.Context, cfg *AIConfig, lg *zap.Logger) (ai.Matcher, string, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, "", nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, "", fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, "", fmt.Errorf("gemini configuration is required when the ai fit check is enabled")
	}

	resumeFile := strings.TrimSpace(cfg.ResumeFile)
	if resumeFile == "" {
		return nil, "", fmt.Errorf("ai.resume-file is required when the ai fit check is enabled")
	}

	resumeData, err := os.ReadFile(resumeFile)
	if err != nil {
		return nil, "", fmt.Errorf("reading resume file %q: %w", resumeFile, err)
	}

	apiKeyFile := strings.TrimSpace(cfg.Gemini.APIKeyFile)
	if apiKeyFile == "" {
		apiKeyFile = strings.TrimSpace(viper.GetString("ai.gemini.api-key-file"))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  apiKeyFile,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	aiLogger := logger.WithCommonFields(lg, "gemini", cfg.Gemini.Model)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, aiLogger)
	if err != nil {
		return nil, "", err
	}

	minScore := cfg.MinimumFitScore
	if minScore < 0 {
		minScore = 0
	}

	matcher := gemini.NewMatcher(generator, minScore, cfg.Gemini.MaxLogLength, aiLogger)

	return matcher, string(resumeData), nil
}
