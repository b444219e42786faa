package config

import (
	"os"
	"strings"
)

// Environment selects where secrets are read from and which defaults apply.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment reads ENV. CI=true wins over ENV; unknown values fall back
// to development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	switch env := Environment(strings.ToLower(os.Getenv("ENV"))); env {
	case Production, Test, Development:
		return env
	default:
		return Development
	}
}

// DefaultLogFormat is console output on a developer machine and JSON
// everywhere logs are collected.
func (e Environment) DefaultLogFormat() string {
	if e == Development {
		return "console"
	}
	return "json"
}

func IsTest() bool {
	return GetEnvironment() == Test
}

func IsProduction() bool {
	return GetEnvironment() == Production
}
