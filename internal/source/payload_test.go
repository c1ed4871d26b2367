package source

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/CardBrowser/internal/core"
)

const jsonPayload = `{
  "categories": [
    {"displayName": "Title", "values": ["Alpha", "Beta"]},
    {"displayName": "Document Id", "values": [1, 2]}
  ],
  "measures": [
    {"displayName": "Preview", "values": ["sum A", "sum B"]}
  ],
  "settings": {"cardSettings": {"viewMode": "list"}}
}`

const yamlPayload = `
categories:
  - displayName: Title
    values: [Alpha, Beta]
  - displayName: Document Id
    values: ["1", "2"]
measures:
  - displayName: MetaData Fields
    values:
      - {region: US}
      - {region: EU}
settings: '{"cardSettings":{"sortDirection":"desc"}}'
`

func TestDecodePayload_JSON(t *testing.T) {
	p, err := DecodePayload(strings.NewReader(jsonPayload), FormatJSON)
	require.NoError(t, err)

	cards := core.Adapt(p.ResultSet())
	require.Len(t, cards, 2)
	assert.Equal(t, "1", cards[0].ID)
	assert.Equal(t, "sum B", cards[1].Summary)

	settings, err := p.ParsedSettings()
	require.NoError(t, err)
	assert.Equal(t, core.ViewList, settings.Card.ViewMode)
}

func TestDecodePayload_YAML(t *testing.T) {
	p, err := DecodePayload(strings.NewReader(yamlPayload), FormatYAML)
	require.NoError(t, err)

	cards := core.Adapt(p.ResultSet())
	require.Len(t, cards, 2)
	region, ok := cards[1].MetadataString("region")
	require.True(t, ok)
	assert.Equal(t, "EU", region)

	settings, err := p.ParsedSettings()
	require.NoError(t, err)
	assert.Equal(t, core.SortDesc, settings.Card.SortDirection)
}

func TestDecodePayload_Errors(t *testing.T) {
	_, err := DecodePayload(strings.NewReader(`{"categories":`), FormatJSON)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidPayload))
	assert.Equal(t, "REQ001", core.MapError(err).Code)

	_, err = DecodePayload(strings.NewReader(`x`), Format("toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnsupportedType))
}

func TestPayload_ParsedSettings(t *testing.T) {
	settings, err := Payload{}.ParsedSettings()
	require.NoError(t, err)
	assert.Equal(t, core.DefaultSettings(), settings)

	settings, err = Payload{Settings: `{"cardSettings":`}.ParsedSettings()
	require.Error(t, err)
	assert.Equal(t, core.DefaultSettings(), settings)

	_, err = Payload{Settings: 42.0}.ParsedSettings()
	require.Error(t, err)
}

func TestPayload_Publish(t *testing.T) {
	p, err := DecodePayload(strings.NewReader(jsonPayload), FormatJSON)
	require.NoError(t, err)

	svc := core.NewService(core.DefaultColumnNames())
	snap := p.Publish(context.Background(), svc)

	assert.Same(t, snap, svc.Current())
	assert.Equal(t, 2, snap.Dataset.Len())

	bad := Payload{Categories: p.Categories, Settings: "{not json"}
	snap = bad.Publish(context.Background(), svc)
	assert.Equal(t, core.DefaultSettings(), snap.Settings)
}

func TestFormatFromContentType(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatJSON},
		{in: "application/json; charset=utf-8", want: FormatJSON},
		{in: "application/yaml", want: FormatYAML},
		{in: "text/x-yaml", want: FormatYAML},
		{in: "text/csv", wantErr: true},
		{in: ";;", wantErr: true},
	}
	for _, tt := range tests {
		got, err := FormatFromContentType(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("cards.YML"))
	assert.Equal(t, FormatYAML, FormatFromPath("/data/cards.yaml"))
	assert.Equal(t, FormatJSON, FormatFromPath("cards.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("cards"))
}
