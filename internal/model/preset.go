package model

// PagePreset is a named map frame size on a print layout page.
type PagePreset struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsBuiltIn   bool      `json:"is_built_in"`
	Size        SheetSize `json:"size"`
}

// Built-in map frame presets. Frame sizes leave a 10 mm margin on each
// side of the paper and 20 mm at the bottom for a legend strip.
var PagePresets = []PagePreset{
	{
		Name:        "A4 Portrait",
		Description: "A4 paper, portrait orientation",
		IsBuiltIn:   true,
		Size:        SheetSize{Width: 190, Height: 267, Unit: UnitMillimeters},
	},
	{
		Name:        "A4 Landscape",
		Description: "A4 paper, landscape orientation",
		IsBuiltIn:   true,
		Size:        SheetSize{Width: 277, Height: 180, Unit: UnitMillimeters},
	},
	{
		Name:        "A3 Portrait",
		Description: "A3 paper, portrait orientation",
		IsBuiltIn:   true,
		Size:        SheetSize{Width: 277, Height: 390, Unit: UnitMillimeters},
	},
	{
		Name:        "A3 Landscape",
		Description: "A3 paper, landscape orientation",
		IsBuiltIn:   true,
		Size:        SheetSize{Width: 400, Height: 267, Unit: UnitMillimeters},
	},
	{
		Name:        "A2 Landscape",
		Description: "A2 paper, landscape orientation",
		IsBuiltIn:   true,
		Size:        SheetSize{Width: 574, Height: 390, Unit: UnitMillimeters},
	},
	{
		Name:        "Letter Portrait",
		Description: "US Letter paper, portrait orientation",
		IsBuiltIn:   true,
		Size:        SheetSize{Width: 7.7, Height: 9.7, Unit: UnitInches},
	},
	{
		Name:        "Tabloid Landscape",
		Description: "US Tabloid paper, landscape orientation",
		IsBuiltIn:   true,
		Size:        SheetSize{Width: 16.2, Height: 9.7, Unit: UnitInches},
	},
}

// GetPreset returns a built-in preset by name, or A4 Landscape if not found.
func GetPreset(name string) PagePreset {
	for _, p := range PagePresets {
		if p.Name == name {
			return p
		}
	}
	return PagePresets[1]
}

// FindPreset looks up a preset by name in the built-in list followed by custom.
func FindPreset(name string, custom []PagePreset) (PagePreset, bool) {
	for _, p := range PagePresets {
		if p.Name == name {
			return p, true
		}
	}
	for _, p := range custom {
		if p.Name == name {
			return p, true
		}
	}
	return PagePreset{}, false
}

// GetPresetNames returns a list of all built-in preset names.
func GetPresetNames() []string {
	var names []string
	for _, p := range PagePresets {
		names = append(names, p.Name)
	}
	return names
}
