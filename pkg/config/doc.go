// Package config loads typed configuration structs.
//
//	type Config struct {
//		Addr string        `env:"HTTP_ADDR" envDefault:":8080" yaml:"addr"`
//		DB   db.Config     `envPrefix:"" yaml:"db"`
//		Log  logger.Config `yaml:"log"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg, config.WithFile("config.yaml"))
//
// Values are layered: a YAML file, then the environment (with a .env file
// loaded first), then envDefault tags for anything still unset.
package config
