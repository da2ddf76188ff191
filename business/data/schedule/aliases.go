package schedule

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed aliases.yaml
var defaultAliases []byte

// AliasTable maps stop display names to the names they are spoken as
type AliasTable struct {
	names map[string]string
}

type aliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// DefaultAliasTable returns the built-in alias table
func DefaultAliasTable() *AliasTable {
	table, err := parseAliasTable(defaultAliases)
	if err != nil {
		panic(fmt.Sprintf("schedule: built-in alias table is invalid: %v", err))
	}
	return table
}

// ReadAliasTable decodes a yaml alias table from r
func ReadAliasTable(r io.Reader) (*AliasTable, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read alias table: %w", err)
	}
	return parseAliasTable(content)
}

// LoadAliasFile decodes a yaml alias table from the file at path
func LoadAliasFile(path string) (*AliasTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return ReadAliasTable(f)
}

func parseAliasTable(content []byte) (*AliasTable, error) {
	var file aliasFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("unable to decode alias table: %w", err)
	}
	table := &AliasTable{names: file.Aliases}
	if table.names == nil {
		table.names = make(map[string]string)
	}
	return table, nil
}

// Alias returns the alias of name, if present
func (a *AliasTable) Alias(name string) (string, bool) {
	if a == nil {
		return "", false
	}
	alias, ok := a.names[name]
	return alias, ok
}

// Voice returns the spoken version of name, or name itself
func (a *AliasTable) Voice(name string) string {
	if alias, ok := a.Alias(name); ok {
		return alias
	}
	return name
}

// Len returns the number of aliases in the table
func (a *AliasTable) Len() int {
	if a == nil {
		return 0
	}
	return len(a.names)
}
