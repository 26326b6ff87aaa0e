// Package config loads typed configuration structs from environment
// variables, with optional dotenv file support for local development.
//
// Configs are plain structs with caarlos0/env tags:
//
//	type PushConfig struct {
//		GatewayURL  string `env:"PUSH_GATEWAY_URL" envDefault:"https://exp.host"`
//		AccessToken string `env:"PUSH_ACCESS_TOKEN"`
//	}
//
//	var cfg PushConfig
//	config.MustLoad(&cfg)
//
// Each struct type is parsed once and cached for the process lifetime.
package config
