// Package attribution parses the dealer → city → business manager table.
package attribution

import (
	"sort"

	"github.com/sells-group/dealer-scorecard/internal/csvline"
	"github.com/sells-group/dealer-scorecard/internal/model"
)

// IsHeader reports whether a cleaned first-column value is a header token.
func IsHeader(name string) bool {
	switch name {
	case "代理商", "代理商名称", "经销商", "经销商名称", "dealer", "Dealer", "dealer_name":
		return true
	}
	return false
}

// Parse reads a three-column CSV (dealer, city, manager). An optional header
// row is skipped. Lines with fewer than three non-empty cleaned fields are
// ignored. When a dealer appears twice, the later line wins.
func Parse(text string) model.AttributionMap {
	out := model.AttributionMap{}
	for _, line := range csvline.Lines(text) {
		row := csvline.Split(line)
		if len(row) < 3 {
			continue
		}
		name := csvline.Clean(row[0])
		if IsHeader(name) {
			continue
		}
		city := csvline.Clean(row[1])
		manager := csvline.Clean(row[2])
		if name == "" || city == "" || manager == "" {
			continue
		}
		out[name] = model.DealerAttribution{DealerName: name, City: city, BusinessManager: manager}
	}
	return out
}

// Resolve looks up a dealer by its cleaned name.
func Resolve(m model.AttributionMap, dealer string) (model.DealerAttribution, bool) {
	a, ok := m[csvline.Clean(dealer)]
	return a, ok
}

// BelongsTo reports whether a is owned by manager, comparing cleaned names.
func BelongsTo(a model.DealerAttribution, manager string) bool {
	return csvline.Clean(a.BusinessManager) == csvline.Clean(manager)
}

// Managers lists the distinct business managers, sorted.
func Managers(m model.AttributionMap) []string {
	seen := map[string]bool{}
	var out []string
	for _, a := range m {
		mgr := csvline.Clean(a.BusinessManager)
		if mgr == "" || seen[mgr] {
			continue
		}
		seen[mgr] = true
		out = append(out, mgr)
	}
	sort.Strings(out)
	return out
}

// Cities lists the distinct cities of dealers owned by manager, sorted.
func Cities(m model.AttributionMap, manager string) []string {
	seen := map[string]bool{}
	var out []string
	for _, a := range m {
		if !BelongsTo(a, manager) || seen[a.City] {
			continue
		}
		seen[a.City] = true
		out = append(out, a.City)
	}
	sort.Strings(out)
	return out
}

// Entries returns the table sorted by city, manager, then dealer name.
func Entries(m model.AttributionMap) []model.DealerAttribution {
	out := make([]model.DealerAttribution, 0, len(m))
	for _, a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].City != out[j].City {
			return out[i].City < out[j].City
		}
		if out[i].BusinessManager != out[j].BusinessManager {
			return out[i].BusinessManager < out[j].BusinessManager
		}
		return out[i].DealerName < out[j].DealerName
	})
	return out
}
