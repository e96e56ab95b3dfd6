package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Alias is a short local name for a location id.
type Alias struct {
	Alias      string `json:"alias"`
	LocationID string `json:"location_id"`
	Name       string `json:"name"`
}

type AliasesFile struct {
	Aliases []Alias `json:"aliases"`
}

func LoadAliases() ([]Alias, error) {
	path, err := AliasesPath()
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Alias{}, nil
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("aliases path is a directory: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var payload AliasesFile
	if err := json.NewDecoder(file).Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Aliases, nil
}

func SaveAliases(aliases []Alias) error {
	if _, err := ensureConfigDir(); err != nil {
		return err
	}

	path, err := AliasesPath()
	if err != nil {
		return err
	}

	sorted := make([]Alias, len(aliases))
	copy(sorted, aliases)
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Alias) < strings.ToLower(sorted[j].Alias)
	})

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(AliasesFile{Aliases: sorted})
}

func FindAlias(aliases []Alias, alias string) (Alias, bool) {
	needle := strings.ToLower(strings.TrimSpace(alias))
	for _, a := range aliases {
		if strings.ToLower(a.Alias) == needle {
			return a, true
		}
	}
	return Alias{}, false
}

// RemoveAlias reports whether alias was present.
func RemoveAlias(aliases []Alias, alias string) ([]Alias, bool) {
	for i, a := range aliases {
		if strings.EqualFold(a.Alias, strings.TrimSpace(alias)) {
			out := make([]Alias, 0, len(aliases)-1)
			out = append(out, aliases[:i]...)
			return append(out, aliases[i+1:]...), true
		}
	}
	return aliases, false
}
