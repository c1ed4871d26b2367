package core

// FormattingSlice is one control of a formatting card.
type FormattingSlice struct {
	Name        string         `json:"name"`
	DisplayName string         `json:"displayName"`
	Type        SliceType      `json:"type"`
	Value       any            `json:"value"`
	Items       []DropdownItem `json:"items,omitempty"`
	Min         *int           `json:"min,omitempty"`
	Max         *int           `json:"max,omitempty"`
}

// FormattingCard groups the slices the host shows under one heading.
type FormattingCard struct {
	Name        string            `json:"name"`
	DisplayName string            `json:"displayName"`
	Slices      []FormattingSlice `json:"slices"`
}

// FormattingModel is the answer to the host's formatting-model request:
// the current settings expressed in the host's declarative schema.
type FormattingModel struct {
	Cards []FormattingCard `json:"cards"`
}

// FormattingModel describes s as formatting cards and slices.
// Colors are reported in the host fill form.
func (s Settings) FormattingModel() FormattingModel {
	model := FormattingModel{Cards: make([]FormattingCard, 0, len(settingsSchema))}

	for _, card := range settingsSchema {
		fc := FormattingCard{
			Name:        card.name,
			DisplayName: card.displayName,
			Slices:      make([]FormattingSlice, 0, len(card.slices)),
		}
		for _, sl := range card.slices {
			slice := FormattingSlice{
				Name:        sl.name,
				DisplayName: sl.displayName,
				Type:        sl.kind,
				Value:       sl.value(&s),
			}
			switch sl.kind {
			case SliceColorPicker:
				slice.Value = map[string]any{"value": sl.value(&s)}
			case SliceItemDropdown:
				slice.Items = sl.items
				slice.Value = dropdownValue(sl.items, sl.value(&s).(string))
			case SliceNumUpDown:
				min, max := sl.min, sl.max
				slice.Min, slice.Max = &min, &max
			}
			fc.Slices = append(fc.Slices, slice)
		}
		model.Cards = append(model.Cards, fc)
	}
	return model
}

// Card returns the formatting card with the given name.
func (m FormattingModel) Card(name string) (FormattingCard, bool) {
	for _, c := range m.Cards {
		if c.Name == name {
			return c, true
		}
	}
	return FormattingCard{}, false
}

// Slice returns the slice with the given name.
func (c FormattingCard) Slice(name string) (FormattingSlice, bool) {
	for _, s := range c.Slices {
		if s.Name == name {
			return s, true
		}
	}
	return FormattingSlice{}, false
}

func dropdownValue(items []DropdownItem, value string) DropdownItem {
	for _, item := range items {
		if item.Value == value {
			return item
		}
	}
	return DropdownItem{Value: value, DisplayName: value}
}
