package commands

import (
	"lunchwatch/lib/configutil"
	"lunchwatch/lib/util/serviceutil"
)

// Config mirrors config.json5 (with config.local.json5 overrides). Paths are
// resolved against the working directory.
type Config struct {
	TargetUrl      string `json:"target_url"`
	LocalFile      string `json:"local_file"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	UserAgent      string `json:"user_agent"`
	// VerifySsl is a pointer so an absent key means true, certificate
	// verification must never turn off by omission.
	VerifySsl    *bool  `json:"verify_ssl"`
	MenuHistory  string `json:"menu_history"`
	PriceHistory string `json:"price_history"`
	ReportOutput string `json:"report_output"`
	SaveToFile   bool   `json:"save_to_file"`
	OutputFormat string `json:"output_format"`
	OutputFile   string `json:"output_file"`
}

func (c Config) insecureSkipVerify() bool {
	return c.VerifySsl != nil && !*c.VerifySsl
}

func (c Config) withDefaults() Config {
	if c.MenuHistory == "" {
		c.MenuHistory = "menu_history.json"
	}
	if c.PriceHistory == "" {
		c.PriceHistory = "price_history.json"
	}
	if c.ReportOutput == "" {
		c.ReportOutput = "menu.html"
	}
	if c.OutputFormat == "" {
		c.OutputFormat = "json"
	}
	if c.OutputFile == "" {
		c.OutputFile = "output/menu_data"
	}
	return c
}

func loadConfig() Config {
	cfg, err := configutil.ReadConfig[Config](*configPath)
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	return cfg.withDefaults()
}
