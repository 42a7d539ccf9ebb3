package config

import (
	"github.com/Shreyasms28/InvoiceAnalytics/internal/infrastructure/external/chatsvc"
	httpapi "github.com/Shreyasms28/InvoiceAnalytics/internal/interfaces/http"
	"github.com/Shreyasms28/InvoiceAnalytics/pkg/database"
	"github.com/Shreyasms28/InvoiceAnalytics/pkg/utils"
)

// These converters bridge the file-based config loaded by viper and the
// configuration structs owned by each component.

// ToDatabaseConfig converts to the connection pool configuration
func (c *Config) ToDatabaseConfig() database.Config {
	return database.Config{
		Driver:          c.Database.Driver,
		URL:             c.Database.URL,
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
	}
}

// ToServerConfig converts to the HTTP server configuration
func (c *Config) ToServerConfig() httpapi.ServerConfig {
	return httpapi.ServerConfig{
		Host:            c.Server.Host,
		Port:            c.Server.Port,
		ReadTimeout:     c.Server.ReadTimeout,
		WriteTimeout:    c.Server.WriteTimeout,
		ShutdownTimeout: c.Server.ShutdownTimeout,
		AllowedOrigins:  c.Server.AllowedOrigins,
	}
}

// ToChatConfig converts to the query service client configuration
func (c *Config) ToChatConfig() chatsvc.Config {
	return chatsvc.Config{
		BaseURL: c.Chat.BaseURL,
		Timeout: c.Chat.Timeout,
	}
}

// ToLoggerConfig converts to the logger configuration
func (c *Config) ToLoggerConfig() utils.LoggerConfig {
	return utils.LoggerConfig{
		Level:      c.Logger.Level,
		OutputPath: c.Logger.OutputPath,
		Format:     c.Logger.Format,
	}
}
