// Package config loads client configuration from YAML files, .env files
// and environment variables, in that order of increasing precedence.
//
//	var cfg client.Config
//	err := config.Load("orders-api", &cfg,
//	    config.WithConfigFile("config.yml"),
//	)
package config
