package core

// Adapt maps a result set into cards using the default column names.
// Record order equals input row order.
func Adapt(rs ResultSet) []Card {
	return AdaptDataset(rs, DefaultColumnNames()).Cards
}

// AdaptDataset maps a result set into a Dataset.
//
// The row count comes from the first category column; with no category
// columns the dataset is empty. Absent columns, short columns and nil values
// yield attribute defaults. When a sort field column resolves, its per-row
// string form is carried in Dataset.SortKeys.
func AdaptDataset(rs ResultSet, names ColumnNames) Dataset {
	res := Resolve(rs, names)
	return adaptResolved(rs, res)
}

func adaptResolved(rs ResultSet, res Resolution) Dataset {
	n := res.Rows
	ds := Dataset{Cards: make([]Card, n)}
	if res.SortField >= 0 {
		ds.SortKeys = make([]string, n)
	}

	for i := 0; i < n; i++ {
		card := Card{
			ID:            categoryString(rs, res.ID, i),
			Title:         categoryString(rs, res.Title, i),
			ImageURL:      categoryString(rs, res.ImageURL, i),
			BadgeImageURL: categoryString(rs, res.BadgeImageURL, i),
			TopBarColor:   categoryString(rs, res.TopBarColor, i),
			Summary:       measureString(rs, res.Summary, i),
			Content:       measureString(rs, res.Content, i),
			Subtitle:      make([]string, 0, len(res.Subtitle)),
			ProfileImages: make([]string, 0, len(res.ProfileImages)),
			Metadata:      metadataValue(cellValue(rs.Measures, res.Metadata, i)),
			Progress:      numberValue(cellValue(rs.Measures, res.Progress, i)),
		}

		if card.TopBarColor == "" {
			card.TopBarColor = DefaultTopBarColor
		}

		for _, idx := range res.Subtitle {
			card.Subtitle = append(card.Subtitle, categoryString(rs, idx, i))
		}

		for _, idx := range res.ProfileImages {
			if url := categoryString(rs, idx, i); url != "" {
				card.ProfileImages = append(card.ProfileImages, url)
			}
		}

		if ds.SortKeys != nil {
			ds.SortKeys[i] = categoryString(rs, res.SortField, i)
		}

		ds.Cards[i] = card
	}

	return ds
}

// cellValue returns cols[col].Values[row], or nil when either index is out of range.
func cellValue(cols []Column, col, row int) any {
	if col < 0 || col >= len(cols) {
		return nil
	}
	values := cols[col].Values
	if row < 0 || row >= len(values) {
		return nil
	}
	return values[row]
}

func categoryString(rs ResultSet, col, row int) string {
	return scalarString(cellValue(rs.Categories, col, row))
}

func measureString(rs ResultSet, col, row int) string {
	return scalarString(cellValue(rs.Measures, col, row))
}
