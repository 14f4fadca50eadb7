// Package config loads per-process settings.
//
// Every process resolves its Config in the same order, each step
// overriding the previous one:
//
//  1. LoadDefaults
//  2. an optional JSON file named by -c / -config
//  3. environment variables (a .env file is loaded first when present)
//  4. short command-line flags
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/postpromo/internal/flagx"
	"github.com/joho/godotenv"
)

// LoadDotEnv reads KEY=VALUE pairs from the given files (".env" when none
// are named) into the process environment. Missing files are ignored and
// variables that are already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// readJSON decodes the file named by -c/-config into dst. It reports
// false when no file was requested.
func readJSON(args []string, dst any) (bool, error) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("parse config %s: %w", path, err)
	}
	return true, nil
}

// parseFlags parses only the flags registered on fs, ignoring anything
// else on the command line.
func parseFlags(fs *flag.FlagSet, args []string) error {
	var allowed []string
	fs.VisitAll(func(f *flag.Flag) {
		allowed = append(allowed, "-"+f.Name, "--"+f.Name)
	})
	return fs.Parse(flagx.FilterArgs(args, allowed))
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envDuration(key string, dst *time.Duration) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("env %s: %w", key, err)
	}
	*dst = d
	return nil
}

func envInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("env %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}
