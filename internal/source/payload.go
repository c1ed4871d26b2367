// Package source produces data-updates for the card browser: payloads posted
// by a host, JSON or YAML files on disk, and PostgreSQL queries.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/CardBrowser/internal/core"
	"github.com/JonMunkholm/CardBrowser/internal/logging"
)

// Format is the encoding of a payload document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Unknown extensions are JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FormatFromContentType maps a request Content-Type to a Format.
// An empty content type is treated as JSON.
func FormatFromContentType(contentType string) (Format, error) {
	if contentType == "" {
		return FormatJSON, nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %s", core.ErrUnsupportedType, contentType)
	}
	switch mediaType {
	case "application/json", "text/json":
		return FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", core.ErrUnsupportedType, mediaType)
	}
}

// Payload is one data-update document: the result set plus the host's
// serialized settings.
//
// Settings may be an object or a string holding the settings JSON, matching
// how hosts persist the visual's properties.
type Payload struct {
	Categories []core.Column `json:"categories" yaml:"categories"`
	Measures   []core.Column `json:"measures" yaml:"measures"`
	Settings   any           `json:"settings,omitempty" yaml:"settings,omitempty"`
}

// ResultSet returns the columnar data of the payload.
func (p Payload) ResultSet() core.ResultSet {
	return core.ResultSet{Categories: p.Categories, Measures: p.Measures}
}

// ParsedSettings decodes the settings. A malformed settings string yields
// defaults together with the parse error so callers can log it.
func (p Payload) ParsedSettings() (core.Settings, error) {
	switch s := p.Settings.(type) {
	case nil:
		return core.DefaultSettings(), nil
	case string:
		return core.ParseSettings([]byte(s))
	case map[string]any:
		return core.SettingsFromMap(s), nil
	default:
		return core.DefaultSettings(), fmt.Errorf("invalid settings: unexpected %T", s)
	}
}

// Publish applies p to svc as a data-update. Settings that fail to parse are
// logged and replaced by the defaults.
func (p Payload) Publish(ctx context.Context, svc *core.Service) *core.Snapshot {
	settings, err := p.ParsedSettings()
	if err != nil {
		logging.FromContext(ctx).Warn("settings fell back to defaults", "error", err)
	}
	return svc.Update(ctx, p.ResultSet(), settings)
}

// DecodePayload reads a payload document in the given format.
func DecodePayload(r io.Reader, format Format) (Payload, error) {
	var p Payload

	switch format {
	case FormatJSON, "":
		dec := json.NewDecoder(r)
		if err := dec.Decode(&p); err != nil {
			return Payload{}, fmt.Errorf("%w: %w", core.ErrInvalidPayload, err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&p); err != nil {
			return Payload{}, fmt.Errorf("%w: %w", core.ErrInvalidPayload, err)
		}
	default:
		return Payload{}, fmt.Errorf("%w: %s", core.ErrUnsupportedType, format)
	}

	return p, nil
}
