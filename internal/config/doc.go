// Package config provides configuration management for pagelint.
package config
