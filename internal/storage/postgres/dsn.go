package postgres

import (
	"fmt"
	"net/url"

	"github.com/GoSim-25-26J-441/taskboard/config"
)

// DSN returns cfg.DSN when set, otherwise a URL built from the discrete fields.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
