package source

import (
	"fmt"
	"strings"

	"github.com/mmcdole/gamelib/internal/domain"
	"github.com/tidwall/gjson"
)

// CatalogSources are the sources whose entries live in the catalog database.
var CatalogSources = []domain.Source{domain.SourceSteam, domain.SourceGOG}

// ParseCatalogSource resolves a user-supplied source name, case-insensitively.
func ParseCatalogSource(name string) (domain.Source, error) {
	want := strings.ToUpper(strings.TrimSpace(name))
	for _, src := range CatalogSources {
		if string(src) == want {
			return src, nil
		}
	}
	return "", fmt.Errorf("unknown catalog source %q (want steam or gog)", name)
}

// ParseEntries decodes a JSON array of catalog entries:
//
//	[{"id": "220", "name": "Half-Life 2", "installed": true, "installDir": "Half-Life 2",
//	  "ownerIds": [1], "iconRef": "abc", "type": "GAME"}]
//
// Entries without an id are rejected.
func ParseEntries(data []byte) ([]domain.RawEntry, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid catalog JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, fmt.Errorf("catalog JSON must be an array")
	}

	var (
		out []domain.RawEntry
		bad error
	)
	doc.ForEach(func(i, item gjson.Result) bool {
		id := item.Get("id").String()
		if !item.IsObject() || id == "" {
			bad = fmt.Errorf("entry %d has no id", i.Int())
			return false
		}
		e := domain.RawEntry{
			ID:         id,
			Name:       item.Get("name").String(),
			Installed:  item.Get("installed").Bool(),
			InstallDir: item.Get("installDir").String(),
			IconRef:    item.Get("iconRef").String(),
			Type:       domain.AppType(strings.ToUpper(item.Get("type").String())),
		}
		for _, owner := range item.Get("ownerIds").Array() {
			e.OwnerIDs = append(e.OwnerIDs, int(owner.Int()))
		}
		out = append(out, e)
		return true
	})
	if bad != nil {
		return nil, bad
	}
	return out, nil
}
