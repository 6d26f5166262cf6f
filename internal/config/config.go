package config

import (
	"fmt"
	"os"
	"schoolfinder/pkg/configutil"
	"strings"
	"time"

	"dario.cat/mergo"
)

const (
	DefaultBaseUrl    = "https://operanazionalemontessori.it"
	DefaultPagePath   = "/trova-scuola-montessori/"
	DefaultAjaxPath   = "/wp-admin/admin-ajax.php"
	DefaultMarker     = "ASL_REMOTE"
	DefaultOutputPath = "schools.csv"
	DefaultConfigPath = "schoolfinder.json5"
)

// Config is the whole configuration of a run. It is passed by value into
// every component, nothing mutates it after Load returns.
type Config struct {
	BaseUrl  string `json:"base_url"`
	PagePath string `json:"page_path"`
	AjaxPath string `json:"ajax_path"`
	// ScriptMarker selects the inline script holding the nonce.
	ScriptMarker string `json:"script_marker"`

	Action  string `json:"action"`
	LoadAll string `json:"load_all"`
	Layout  string `json:"layout"`
	Lang    string `json:"lang"`

	// Headers are sent with both requests. Origin and Referer are derived
	// from BaseUrl unless they are set here.
	Headers map[string]string `json:"headers"`

	OutputPath string `json:"output_path"`
	// DatabasePath, if set, also writes the records into a sqlite database.
	DatabasePath string `json:"database_path"`
	// TimeoutSeconds of 0 keeps the http client's default (no timeout).
	TimeoutSeconds int `json:"timeout_seconds"`
}

func Default() Config {
	return Config{
		BaseUrl:      DefaultBaseUrl,
		PagePath:     DefaultPagePath,
		AjaxPath:     DefaultAjaxPath,
		ScriptMarker: DefaultMarker,

		Action:  "asl_load_stores",
		LoadAll: "1",
		Layout:  "1",
		Lang:    "it_IT",

		Headers: map[string]string{
			"User-Agent":       "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
			"Accept":           "application/json, text/javascript, */*; q=0.01",
			"Accept-Language":  "en-US,en;q=0.9,it;q=0.8",
			"X-Requested-With": "XMLHttpRequest",
		},

		OutputPath: DefaultOutputPath,
	}
}

// Load overlays the config file at `path` (and its .local variant) onto
// Default. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	override, err := configutil.ReadConfig[Config](path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	err = mergo.Merge(&cfg, override, mergo.WithOverride)
	if err != nil {
		return cfg, fmt.Errorf("merge config: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.BaseUrl == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output_path must not be empty")
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	return nil
}

func (c Config) PageUrl() string {
	return strings.TrimSuffix(c.BaseUrl, "/") + c.PagePath
}

func (c Config) AjaxUrl() string {
	return strings.TrimSuffix(c.BaseUrl, "/") + c.AjaxPath
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RequestHeaders returns a copy of the header set shared by both requests.
func (c Config) RequestHeaders() map[string]string {
	out := map[string]string{
		"Origin":  strings.TrimSuffix(c.BaseUrl, "/"),
		"Referer": c.PageUrl(),
	}
	for k, v := range c.Headers {
		out[k] = v
	}
	return out
}
