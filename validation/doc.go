// Package validation provides struct tag validation for configuration
// types, backed by the validator library.
//
//	type Config struct {
//	    BaseURL string `mapstructure:"base_url" validate:"required,url"`
//	}
//	err := validation.ValidateStruct(cfg)
package validation
