package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/piwi3910/AtlasGrid/internal/geometry"
	"github.com/piwi3910/AtlasGrid/internal/model"
)

// ParseExtent parses "xmin,xmax,ymin,ymax" with an optional trailing
// "[EPSG:code]". The returned CRS is empty when none is given.
func ParseExtent(s string) (model.Extent, string, error) {
	s = strings.TrimSpace(s)
	var crs string
	if strings.HasSuffix(s, "]") {
		open := strings.LastIndex(s, "[")
		if open < 0 {
			return model.Extent{}, "", fmt.Errorf("extent %q: unbalanced brackets", s)
		}
		crs = geometry.NormalizeCRS(s[open+1 : len(s)-1])
		s = strings.TrimSpace(s[:open])
	}

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return model.Extent{}, "", fmt.Errorf("extent %q: want 4 comma separated values, got %d", s, len(parts))
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return model.Extent{}, "", fmt.Errorf("extent %q: value %d: %w", s, i+1, err)
		}
		v[i] = f
	}

	ext := model.NewExtent(v[0], v[2], v[1], v[3])
	if !ext.IsValid() {
		return model.Extent{}, "", fmt.Errorf("extent %q: max must be greater than min on both axes", s)
	}
	return ext, crs, nil
}
