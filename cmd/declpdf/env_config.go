package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/alnah/go-declpdf/internal/config"
)

const envPrefix = "DECLPDF_"

// envVars documents the DECLPDF_* variables. They fill settings the config
// file leaves empty; flags override both.
var envVars = map[string]string{
	"DECLPDF_CONFIG":     "config file name or path",
	"DECLPDF_OUTPUT_DIR": "output directory",
	"DECLPDF_PAPER":      "default paper size",
	"DECLPDF_PPI":        "template px per output inch",
	"DECLPDF_TIMEOUT":    "timeout per file",
	"DECLPDF_WORKERS":    "parallel browsers",
	"DECLPDF_ASSET_PATH": "custom asset directory",
}

// envVarNames returns "NAME  description" lines, sorted.
func envVarNames() []string {
	names := make([]string, 0, len(envVars))
	for name := range envVars {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		names[i] = fmt.Sprintf("%-20s %s", name, envVars[name])
	}
	return names
}

// warnUnknownEnvVars reports DECLPDF_* variables that are likely typos.
func warnUnknownEnvVars(environ []string, w io.Writer) {
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) {
			if _, ok := envVars[name]; !ok {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig fills config fields the file left empty. Malformed numeric
// values are reported on w and ignored.
func applyEnvConfig(getenv func(string) string, cfg *config.Config, w io.Writer) {
	if v := getenv("DECLPDF_OUTPUT_DIR"); v != "" && cfg.Output.Dir == "" {
		cfg.Output.Dir = v
	}
	if v := getenv("DECLPDF_PAPER"); v != "" && cfg.Page.Size == "" {
		cfg.Page.Size = v
	}
	if v := getenv("DECLPDF_TIMEOUT"); v != "" && cfg.Browser.Timeout == "" {
		cfg.Browser.Timeout = v
	}
	if v := getenv("DECLPDF_ASSET_PATH"); v != "" && cfg.Assets.BasePath == "" {
		cfg.Assets.BasePath = v
	}
	if v := getenv("DECLPDF_PPI"); v != "" && cfg.Page.PPI == 0 {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Page.PPI = f
		} else {
			fmt.Fprintf(w, "warning: ignoring DECLPDF_PPI=%q\n", v)
		}
	}
	if v := getenv("DECLPDF_WORKERS"); v != "" && cfg.Workers == 0 {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		} else {
			fmt.Fprintf(w, "warning: ignoring DECLPDF_WORKERS=%q\n", v)
		}
	}
}
