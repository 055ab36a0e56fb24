package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Env holds process configuration. Values come from the environment, with an
// optional .env file loaded first for local development.
type Env struct {
	AppAddr   string `envconfig:"APP_ADDR" default:":8080"`
	GinMode   string `envconfig:"GIN_MODE" default:""`
	DBDSN     string `envconfig:"DB_DSN" default:""`
	DBHost    string `envconfig:"DB_HOST" default:"127.0.0.1:3306"`
	DBUser    string `envconfig:"DB_USER" default:"root"`
	DBPass    string `envconfig:"DB_PASS" default:""`
	DBName    string `envconfig:"DB_NAME" default:"taskerhub"`
	JWTSecret string `envconfig:"JWT_SECRET" default:"super-secret-key-change-me"`
	MQURL     string `envconfig:"MQ_URL" default:""`
}

func LoadEnv() Env {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded .env file")
	}

	var env Env
	if err := envconfig.Process("", &env); err != nil {
		log.Fatalf("failed to parse environment: %v", err)
	}
	return env
}
