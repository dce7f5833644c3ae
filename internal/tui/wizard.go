package tui

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/msquare-market/admin/config"
	"github.com/msquare-market/admin/internal/domain"
	"github.com/pkg/errors"
)

// RunSetup launches the terminal configuration wizard and writes config.GeneratedFile.
func RunSetup() (config.Config, error) {
	cfg := config.Default()
	var (
		apiURL      string
		apiToken    string
		locale      = cfg.Locale
		mode        = string(cfg.Mode)
		webAddr     = cfg.WebAddr
		pageSizeStr = strconv.Itoa(cfg.PageSize)
		delayStr    = cfg.SearchDelay.String()
		confirm     bool
	)

	printHeader("step 1: api")
	fmt.Println(mutedStyle.Render("Point the console at the MSquare Market admin API.\n"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Admin API URL").
				Description("e.g. https://api.staging.msquare.market").
				Value(&apiURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Admin token").
				Description("Bearer token; leave empty to use MSQUARE_API_TOKEN").
				Value(&apiToken).
				EchoMode(huh.EchoModePassword),
		),
	).Run()
	if err != nil {
		return config.Config{}, err
	}

	printHeader("step 2: console")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Language").
				Options(
					huh.NewOption("English", "en"),
					huh.NewOption("한국어", "ko"),
				).
				Value(&locale),
			huh.NewSelect[string]().
				Title("Surfaces").
				Options(
					huh.NewOption("Terminal", string(config.ModeTUI)),
					huh.NewOption("Local web console", string(config.ModeWeb)),
					huh.NewOption("Both", string(config.ModeBoth)),
				).
				Value(&mode),
		),
	).Run()
	if err != nil {
		return config.Config{}, err
	}

	printHeader("step 3: lists")
	fields := []huh.Field{
		huh.NewInput().
			Title("Page size").
			Description("Rows per request (1-200)").
			Value(&pageSizeStr).
			Validate(validatePageSize),
		huh.NewInput().
			Title("Search delay").
			Description("Quiet time before a search is sent (e.g. 500ms)").
			Value(&delayStr).
			Validate(func(s string) error {
				_, err := time.ParseDuration(s)
				return err
			}),
	}
	if mode != string(config.ModeTUI) {
		fields = append(fields, huh.NewInput().
			Title("Web console address").
			Value(&webAddr))
	}
	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return config.Config{}, err
	}

	printHeader("final confirmation")
	summary := fmt.Sprintf(
		"API: %s (%s)\nLanguage: %s\nSurfaces: %s\nPage size: %s\nSearch delay: %s\n",
		apiURL, domain.EnvironmentFromURL(apiURL), locale, mode, pageSizeStr, delayStr,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save configuration?").
				Affirmative("Yes, save and start").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return config.Config{}, err
	}
	if !confirm {
		return config.Config{}, errors.New("setup cancelled by user")
	}

	cfg.APIURL = apiURL
	cfg.APIToken = apiToken
	cfg.Locale = locale
	cfg.Mode = config.Mode(mode)
	cfg.WebAddr = webAddr
	cfg.PageSize, _ = strconv.Atoi(pageSizeStr)
	cfg.SearchDelay, _ = time.ParseDuration(delayStr)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if err := config.Write(config.GeneratedFile, cfg); err != nil {
		return config.Config{}, err
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s", config.GeneratedFile)))
	return cfg, nil
}

func validateURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an http(s) url")
	}
	return nil
}

func validatePageSize(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return errors.New("must be a whole number")
	}
	if n < 1 || n > 200 {
		return errors.New("must be between 1 and 200")
	}
	return nil
}
