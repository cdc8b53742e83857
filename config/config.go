// Package config reads the server settings from the environment
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/zhangxincheng/fork-jaudiotagger/frames"
)

// Levels are the log levels understood by LOG_LEVEL, lowest first
var Levels = []string{"DEBUG", "INFO", "WARN", "ERROR"}

type Config struct {
	Port         string
	AllowOrigins []string
	MaxUploadMB  int
	LogLevel     string
	// TagVersion is the version of tags created for untagged files
	TagVersion frames.Version
	// TagPadding is extra room left when a tag is created
	TagPadding int
}

func defaults() Config {
	return Config{
		Port:         "8080",
		AllowOrigins: []string{"http://localhost:3000"},
		MaxUploadMB:  32,
		LogLevel:     "INFO",
		TagVersion:   frames.V24,
		TagPadding:   1024,
	}
}

// Load builds the configuration from the environment, falling back to
// defaults for unset variables.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	c := defaults()
	if v := getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := getenv("ALLOW_ORIGINS"); v != "" {
		c.AllowOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.AllowOrigins = append(c.AllowOrigins, o)
			}
		}
	}
	var err error
	if c.MaxUploadMB, err = intVar(getenv, "MAX_UPLOAD_MB", c.MaxUploadMB); err != nil {
		return c, err
	}
	if c.TagPadding, err = intVar(getenv, "TAG_PADDING", c.TagPadding); err != nil {
		return c, err
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToUpper(v)
	}
	if v := getenv("TAG_VERSION"); v != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(v, "2."))
		if err != nil {
			return c, fmt.Errorf("TAG_VERSION: %w", err)
		}
		c.TagVersion = frames.Version(n)
	}
	return c, c.Validate()
}

func intVar(getenv func(string) string, name string, def int) (int, error) {
	v := getenv(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}

func (c Config) Validate() error {
	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return fmt.Errorf("PORT %q is not a port number", c.Port)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	if c.TagPadding < 0 {
		return fmt.Errorf("TAG_PADDING must not be negative, got %d", c.TagPadding)
	}
	if !c.TagVersion.Valid() {
		return fmt.Errorf("TAG_VERSION %d is not one of 2, 3 or 4", c.TagVersion)
	}
	for _, l := range Levels {
		if l == c.LogLevel {
			return nil
		}
	}
	return fmt.Errorf("LOG_LEVEL %q is not one of %s", c.LogLevel, strings.Join(Levels, ", "))
}

// MaxUploadBytes is the multipart memory limit for uploads
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}
