package config

import (
	"log"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	RateLimit     string

	// AccountRoles maps posting roles (cash, receivable, ...) to account
	// ids. Nil when no role is configured, which disables the mirroring
	// journal postings on deposits and withdrawals.
	AccountRoles domain.AccountRoleMap
}

// roleEnvVars pairs each posting role with the environment variable that
// configures it.
var roleEnvVars = map[domain.AccountRole]string{
	domain.RoleCash:       "ACCOUNT_ROLE_CASH",
	domain.RoleBank:       "ACCOUNT_ROLE_BANK",
	domain.RoleReceivable: "ACCOUNT_ROLE_RECEIVABLE",
	domain.RolePayable:    "ACCOUNT_ROLE_PAYABLE",
	domain.RoleRevenue:    "ACCOUNT_ROLE_REVENUE",
	domain.RoleExpense:    "ACCOUNT_ROLE_EXPENSE",
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RATE_LIMIT", "100-M")
	for _, envVar := range roleEnvVars {
		viper.SetDefault(envVar, "")
	}

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	roles := domain.AccountRoleMap{}
	for role, envVar := range roleEnvVars {
		if accountID := viper.GetString(envVar); accountID != "" {
			roles[role] = accountID
		}
	}
	if len(roles) > 0 {
		cfg.AccountRoles = roles
	} else {
		log.Println("Warning: no ACCOUNT_ROLE_* variables set. Deposits and withdrawals will not post mirroring journal entries.")
	}

	return cfg, nil
}
