// Package config builds the explicit configuration object injected at
// process start. Nothing else in the module reads the environment.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Tabs names the spreadsheet tabs the service works against.
type Tabs struct {
	Log        string `yaml:"log"`
	JobMaster  string `yaml:"job_master"`
	CostCodes  string `yaml:"cost_codes"`
	GLAccounts string `yaml:"gl_accounts"`
	Users      string `yaml:"users"`
}

// Config holds everything the process needs: the spreadsheet, its tabs,
// credentials, and the identity gate.
type Config struct {
	Port            string `yaml:"port"`
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	CredentialsFile string `yaml:"credentials_file"`
	AllowedDomain   string `yaml:"allowed_domain"`
	Audience        string `yaml:"audience"`
	WorkbookFile    string `yaml:"workbook_file"`
	Tabs            Tabs   `yaml:"tabs"`
}

// Load resolves configuration in three layers: defaults, an optional YAML
// file, then environment variables (a .env file is honored when present).
// Environment always wins.
func Load(path string) (*Config, error) {
	// Missing .env is fine; explicit files must exist.
	_ = godotenv.Load()

	cfg := &Config{
		Port: "8787",
		Tabs: Tabs{
			Log:        "Credit Card - Log",
			JobMaster:  "Feed - Job Master",
			CostCodes:  "Lookup - Cost Codes",
			GLAccounts: "Lookup - GL Accounts",
			Users:      "Lookup - Users",
		},
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("Load: read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("Load: parse config file: %w", err)
		}
	}

	overlay := map[string]*string{
		"PORT":                           &cfg.Port,
		"SHEETS_SPREADSHEET_ID":          &cfg.SpreadsheetID,
		"GOOGLE_APPLICATION_CREDENTIALS": &cfg.CredentialsFile,
		"ALLOWED_DOMAIN":                 &cfg.AllowedDomain,
		"AUTH_AUDIENCE":                  &cfg.Audience,
		"WORKBOOK_FILE":                  &cfg.WorkbookFile,
		"SHEETS_LOG_TITLE":               &cfg.Tabs.Log,
		"SHEETS_JOB_MASTER_TITLE":        &cfg.Tabs.JobMaster,
		"SHEETS_COST_CODES_TITLE":        &cfg.Tabs.CostCodes,
		"SHEETS_GL_ACCOUNTS_TITLE":       &cfg.Tabs.GLAccounts,
		"SHEETS_USERS_TITLE":             &cfg.Tabs.Users,
	}
	for key, dst := range overlay {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if cfg.SpreadsheetID == "" && cfg.WorkbookFile == "" {
		return nil, fmt.Errorf("Load: either spreadsheet_id or workbook_file must be set")
	}
	return cfg, nil
}
