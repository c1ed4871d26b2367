package core

// ColumnNames holds the display names the adapter looks for, per role.
// Category roles are only matched against category columns and measure roles
// only against measure columns.
type ColumnNames struct {
	// Category roles
	ID            string
	Title         string
	ImageURL      string
	Subtitle      string // every matching column contributes one subtitle entry
	BadgeImageURL string
	TopBarColor   string
	ProfileImages string // every matching column contributes one image
	SortField     string

	// Measure roles
	Summary  string
	Content  string
	Metadata string
	Progress string
}

// DefaultColumnNames returns the field well names of the card browser visual.
func DefaultColumnNames() ColumnNames {
	return ColumnNames{
		ID:            "Document Id",
		Title:         "Title",
		ImageURL:      "Title Image (URL)",
		Subtitle:      "Subtitle Fields",
		BadgeImageURL: "Badge (Image URL)",
		TopBarColor:   "Top Bar Color",
		ProfileImages: "Fotos de perfil",
		SortField:     "Sort Field",

		Summary:  "Preview",
		Content:  "Content",
		Metadata: "MetaData Fields",
		Progress: "Progreso",
	}
}

// IsMeasure reports whether name is one of the measure role names.
// Sources that receive a flat column list use it to partition columns.
func (n ColumnNames) IsMeasure(name string) bool {
	switch name {
	case n.Summary, n.Content, n.Metadata, n.Progress:
		return name != ""
	}
	return false
}

// Resolution records the column positions found for each role.
// -1 means the role is absent.
type Resolution struct {
	ID            int   `json:"id"`
	Title         int   `json:"title"`
	ImageURL      int   `json:"imageUrl"`
	Subtitle      []int `json:"subtitle"`
	BadgeImageURL int   `json:"badgeImageUrl"`
	TopBarColor   int   `json:"topBarColor"`
	ProfileImages []int `json:"profileImages"`
	SortField     int   `json:"sortField"`

	Summary  int `json:"summary"`
	Content  int `json:"content"`
	Metadata int `json:"metadata"`
	Progress int `json:"progress"`

	Rows int `json:"rows"`
}

// Missing returns the display names of single-valued roles that did not resolve.
func (r Resolution) Missing(names ColumnNames) []string {
	var missing []string
	check := func(idx int, name string) {
		if idx < 0 {
			missing = append(missing, name)
		}
	}
	check(r.ID, names.ID)
	check(r.Title, names.Title)
	check(r.ImageURL, names.ImageURL)
	check(r.BadgeImageURL, names.BadgeImageURL)
	check(r.TopBarColor, names.TopBarColor)
	check(r.SortField, names.SortField)
	check(r.Summary, names.Summary)
	check(r.Content, names.Content)
	check(r.Metadata, names.Metadata)
	check(r.Progress, names.Progress)
	if len(r.Subtitle) == 0 {
		missing = append(missing, names.Subtitle)
	}
	if len(r.ProfileImages) == 0 {
		missing = append(missing, names.ProfileImages)
	}
	return missing
}

// Resolve locates every role in the result set by exact, case-sensitive display name.
func Resolve(rs ResultSet, names ColumnNames) Resolution {
	return Resolution{
		ID:            findColumn(rs.Categories, names.ID),
		Title:         findColumn(rs.Categories, names.Title),
		ImageURL:      findColumn(rs.Categories, names.ImageURL),
		Subtitle:      findColumns(rs.Categories, names.Subtitle),
		BadgeImageURL: findColumn(rs.Categories, names.BadgeImageURL),
		TopBarColor:   findColumn(rs.Categories, names.TopBarColor),
		ProfileImages: findColumns(rs.Categories, names.ProfileImages),
		SortField:     findColumn(rs.Categories, names.SortField),

		Summary:  findColumn(rs.Measures, names.Summary),
		Content:  findColumn(rs.Measures, names.Content),
		Metadata: findColumn(rs.Measures, names.Metadata),
		Progress: findColumn(rs.Measures, names.Progress),

		Rows: rs.RowCount(),
	}
}

// findColumn returns the index of the first column named name, or -1.
func findColumn(cols []Column, name string) int {
	if name == "" {
		return -1
	}
	for i, c := range cols {
		if c.DisplayName == name {
			return i
		}
	}
	return -1
}

// findColumns returns the indices of every column named name, in column order.
func findColumns(cols []Column, name string) []int {
	if name == "" {
		return nil
	}
	var idx []int
	for i, c := range cols {
		if c.DisplayName == name {
			idx = append(idx, i)
		}
	}
	return idx
}
