package core

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DataPointSettings is the "Data colors" card.
type DataPointSettings struct {
	DefaultColor      string `json:"defaultColor"`
	ShowAllDataPoints bool   `json:"showAllDataPoints"`
	Fill              string `json:"fill"`
	FillRule          string `json:"fillRule"`
	FontSize          int    `json:"fontSize"`
}

// CardSettings controls card layout and the browsing features.
type CardSettings struct {
	CardWidth        int    `json:"cardWidth"`
	CardHeight       int    `json:"cardHeight"`
	ShowMetadata     bool   `json:"showMetadata"`
	ShowProgress     bool   `json:"showProgress"`
	ProgressColor    string `json:"progressColor"`
	SortDirection    string `json:"sortDirection"`
	ViewMode         string `json:"viewMode"`
	EnableSearch     bool   `json:"enableSearch"`
	EnableFilters    bool   `json:"enableFilters"`
	EnableExport     bool   `json:"enableExport"`
	EnableTooltips   bool   `json:"enableTooltips"`
	ProfileImageSize int    `json:"profileImageSize"`
	MaxProfileImages int    `json:"maxProfileImages"`
}

// ReaderSettings controls the detail reader.
type ReaderSettings struct {
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	FontSize        int    `json:"fontSize"`
	ShowBackButton  bool   `json:"showBackButton"`
	EnableImageZoom bool   `json:"enableImageZoom"`
}

// AnimationSettings controls transition animations.
type AnimationSettings struct {
	EnableAnimations  bool `json:"enableAnimations"`
	AnimationDuration int  `json:"animationDuration"` // milliseconds
}

// Settings is the full user-adjustable configuration of the browser.
type Settings struct {
	DataPoint DataPointSettings `json:"dataPoint"`
	Card      CardSettings      `json:"cardSettings"`
	Reader    ReaderSettings    `json:"readerSettings"`
	Animation AnimationSettings `json:"animationSettings"`
}

// DefaultSettings returns the settings used when the host supplies none.
func DefaultSettings() Settings {
	return Settings{
		DataPoint: DataPointSettings{
			ShowAllDataPoints: true,
			FontSize:          12,
		},
		Card: CardSettings{
			CardWidth:        300,
			CardHeight:       300,
			ShowMetadata:     true,
			ShowProgress:     true,
			ProgressColor:    "#0078d4",
			SortDirection:    SortAsc,
			ViewMode:         ViewGrid,
			EnableSearch:     true,
			EnableFilters:    true,
			EnableExport:     true,
			EnableTooltips:   true,
			ProfileImageSize: 25,
			MaxProfileImages: 5,
		},
		Reader: ReaderSettings{
			BackgroundColor: "#ffffff",
			TextColor:       "#000000",
			FontSize:        16,
			ShowBackButton:  true,
			EnableImageZoom: true,
		},
		Animation: AnimationSettings{
			EnableAnimations:  true,
			AnimationDuration: 300,
		},
	}
}

// ViewOptions derives the pipeline options from the settings.
func (s Settings) ViewOptions() ViewOptions {
	return ViewOptions{
		EnableSearch:  s.Card.EnableSearch,
		EnableFilters: s.Card.EnableFilters,
		SortDirection: s.Card.SortDirection,
	}
}

// ParseSettings decodes the host's serialized settings object.
//
// The object maps formatting card names to slice values, optionally wrapped
// in an "objects" key. Empty input yields the defaults. Only JSON that cannot
// be decoded is an error; in that case the defaults are returned as well.
func ParseSettings(data []byte) (Settings, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return DefaultSettings(), nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return DefaultSettings(), fmt.Errorf("invalid settings: %w", err)
	}
	return SettingsFromMap(m), nil
}

// SettingsFromMap applies a decoded settings object on top of the defaults.
// Unknown cards and slices are ignored; values of the wrong shape keep their defaults.
func SettingsFromMap(m map[string]any) Settings {
	s := DefaultSettings()
	if wrapped, ok := m["objects"].(map[string]any); ok {
		m = wrapped
	}

	for _, card := range settingsSchema {
		values, ok := m[card.name].(map[string]any)
		if !ok {
			continue
		}
		for _, sl := range card.slices {
			raw, ok := values[sl.name]
			if !ok {
				continue
			}
			sl.apply(&s, raw)
		}
	}
	return s
}

// Serialize renders the settings in the host's object form.
// SettingsFromMap(s.Serialize()) == s for any valid s.
func (s Settings) Serialize() map[string]any {
	out := make(map[string]any, len(settingsSchema))
	for _, card := range settingsSchema {
		values := make(map[string]any, len(card.slices))
		for _, sl := range card.slices {
			values[sl.name] = sl.value(&s)
		}
		out[card.name] = values
	}
	return out
}

// ----------------------------------------------------------------------------
// Schema
// ----------------------------------------------------------------------------

// SliceType names the host formatting control used for a setting.
type SliceType string

const (
	SliceNumUpDown    SliceType = "NumUpDown"
	SliceToggleSwitch SliceType = "ToggleSwitch"
	SliceColorPicker  SliceType = "ColorPicker"
	SliceItemDropdown SliceType = "ItemDropdown"
)

// DropdownItem is one option of an ItemDropdown slice.
type DropdownItem struct {
	Value       string `json:"value"`
	DisplayName string `json:"displayName"`
}

type sliceDef struct {
	name        string
	displayName string
	kind        SliceType
	items       []DropdownItem
	min, max    int
	num         func(*Settings) *int
	flag        func(*Settings) *bool
	text        func(*Settings) *string
}

type cardDef struct {
	name        string
	displayName string
	slices      []sliceDef
}

func numSlice(name, display string, min, max int, field func(*Settings) *int) sliceDef {
	return sliceDef{name: name, displayName: display, kind: SliceNumUpDown, min: min, max: max, num: field}
}

func toggleSlice(name, display string, field func(*Settings) *bool) sliceDef {
	return sliceDef{name: name, displayName: display, kind: SliceToggleSwitch, flag: field}
}

func colorSlice(name, display string, field func(*Settings) *string) sliceDef {
	return sliceDef{name: name, displayName: display, kind: SliceColorPicker, text: field}
}

func dropdownSlice(name, display string, items []DropdownItem, field func(*Settings) *string) sliceDef {
	return sliceDef{name: name, displayName: display, kind: SliceItemDropdown, items: items, text: field}
}

var sortDirectionItems = []DropdownItem{
	{Value: SortAsc, DisplayName: "Ascending"},
	{Value: SortDesc, DisplayName: "Descending"},
}

var viewModeItems = []DropdownItem{
	{Value: ViewGrid, DisplayName: "Grid"},
	{Value: ViewList, DisplayName: "List"},
	{Value: ViewGallery, DisplayName: "Gallery"},
}

// settingsSchema lists every formatting card in the order the host displays them.
var settingsSchema = []cardDef{
	{
		name:        "dataPoint",
		displayName: "Data colors",
		slices: []sliceDef{
			colorSlice("defaultColor", "Default color", func(s *Settings) *string { return &s.DataPoint.DefaultColor }),
			toggleSlice("showAllDataPoints", "Show all", func(s *Settings) *bool { return &s.DataPoint.ShowAllDataPoints }),
			colorSlice("fill", "Fill", func(s *Settings) *string { return &s.DataPoint.Fill }),
			colorSlice("fillRule", "Color saturation", func(s *Settings) *string { return &s.DataPoint.FillRule }),
			numSlice("fontSize", "Text Size", 6, 72, func(s *Settings) *int { return &s.DataPoint.FontSize }),
		},
	},
	{
		name:        "cardSettings",
		displayName: "Card Settings",
		slices: []sliceDef{
			numSlice("cardWidth", "Card Width", 100, 1200, func(s *Settings) *int { return &s.Card.CardWidth }),
			numSlice("cardHeight", "Card Height", 100, 1200, func(s *Settings) *int { return &s.Card.CardHeight }),
			toggleSlice("showMetadata", "Show Metadata", func(s *Settings) *bool { return &s.Card.ShowMetadata }),
			toggleSlice("showProgress", "Show Progress Bar", func(s *Settings) *bool { return &s.Card.ShowProgress }),
			colorSlice("progressColor", "Progress Bar Color", func(s *Settings) *string { return &s.Card.ProgressColor }),
			dropdownSlice("sortDirection", "Sort Direction", sortDirectionItems, func(s *Settings) *string { return &s.Card.SortDirection }),
			dropdownSlice("viewMode", "View Mode", viewModeItems, func(s *Settings) *string { return &s.Card.ViewMode }),
			toggleSlice("enableSearch", "Enable Search", func(s *Settings) *bool { return &s.Card.EnableSearch }),
			toggleSlice("enableFilters", "Enable Filters", func(s *Settings) *bool { return &s.Card.EnableFilters }),
			toggleSlice("enableExport", "Enable Export", func(s *Settings) *bool { return &s.Card.EnableExport }),
			toggleSlice("enableTooltips", "Enable Tooltips", func(s *Settings) *bool { return &s.Card.EnableTooltips }),
			numSlice("profileImageSize", "Profile Image Size", 10, 200, func(s *Settings) *int { return &s.Card.ProfileImageSize }),
			numSlice("maxProfileImages", "Max Profile Images", 0, 50, func(s *Settings) *int { return &s.Card.MaxProfileImages }),
		},
	},
	{
		name:        "readerSettings",
		displayName: "Reader Settings",
		slices: []sliceDef{
			colorSlice("backgroundColor", "Background Color", func(s *Settings) *string { return &s.Reader.BackgroundColor }),
			colorSlice("textColor", "Text Color", func(s *Settings) *string { return &s.Reader.TextColor }),
			numSlice("fontSize", "Font Size", 8, 72, func(s *Settings) *int { return &s.Reader.FontSize }),
			toggleSlice("showBackButton", "Show Back Button", func(s *Settings) *bool { return &s.Reader.ShowBackButton }),
			toggleSlice("enableImageZoom", "Enable Image Zoom", func(s *Settings) *bool { return &s.Reader.EnableImageZoom }),
		},
	},
	{
		name:        "animationSettings",
		displayName: "Animation Settings",
		slices: []sliceDef{
			toggleSlice("enableAnimations", "Enable Animations", func(s *Settings) *bool { return &s.Animation.EnableAnimations }),
			numSlice("animationDuration", "Animation Duration (ms)", 0, 10000, func(s *Settings) *int { return &s.Animation.AnimationDuration }),
		},
	},
}

// value returns the current value of the slice in serialized form.
func (d sliceDef) value(s *Settings) any {
	switch d.kind {
	case SliceNumUpDown:
		return *d.num(s)
	case SliceToggleSwitch:
		return *d.flag(s)
	default:
		return *d.text(s)
	}
}

// apply decodes raw and stores it when valid.
func (d sliceDef) apply(s *Settings, raw any) {
	switch d.kind {
	case SliceNumUpDown:
		if n, ok := decodeInt(raw); ok {
			*d.num(s) = clampInt(n, d.min, d.max)
		}
	case SliceToggleSwitch:
		if b, ok := decodeBool(raw); ok {
			*d.flag(s) = b
		}
	case SliceColorPicker:
		if c, ok := decodeColor(raw); ok {
			*d.text(s) = c
		}
	case SliceItemDropdown:
		if v, ok := decodeDropdown(raw, d.items); ok {
			*d.text(s) = v
		}
	}
}

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

func decodeInt(raw any) (int, bool) {
	var f float64
	switch t := raw.(type) {
	case float64:
		f = t
	case int:
		return t, true
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(math.Round(f)), true
}

func clampInt(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

func decodeBool(raw any) (bool, bool) {
	switch t := raw.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return b, err == nil
	}
	return false, false
}

// decodeColor accepts "#rrggbb" or the host fill form {"solid": {"color": "#rrggbb"}}.
func decodeColor(raw any) (string, bool) {
	switch t := raw.(type) {
	case string:
		c := strings.TrimSpace(t)
		return c, hexColorRegex.MatchString(c)
	case map[string]any:
		if solid, ok := t["solid"].(map[string]any); ok {
			return decodeColor(solid["color"])
		}
		if v, ok := t["value"]; ok {
			return decodeColor(v)
		}
	}
	return "", false
}

// decodeDropdown accepts "asc" or {"value": "asc"}; the value must be one of items.
func decodeDropdown(raw any, items []DropdownItem) (string, bool) {
	var v string
	switch t := raw.(type) {
	case string:
		v = t
	case map[string]any:
		s, ok := t["value"].(string)
		if !ok {
			return "", false
		}
		v = s
	default:
		return "", false
	}
	v = strings.ToLower(strings.TrimSpace(v))
	for _, item := range items {
		if item.Value == v {
			return v, true
		}
	}
	return "", false
}
