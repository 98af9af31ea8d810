package backup

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TableSpec declares how the engine treats one table: how rows are
// identified, which column carries the update timestamp, and which tables
// must be applied first.
type TableSpec struct {
	// Name is the table name, lowercase.
	Name string `yaml:"name" json:"name"`

	// PrimaryKey lists the identifying columns in key order.
	PrimaryKey []string `yaml:"primary_key" json:"primary_key"`

	// UpdatedField names the column holding the row's last-modified
	// timestamp. Empty when the table does not track one; PreserveNewer
	// is inert for such tables.
	UpdatedField string `yaml:"updated_field,omitempty" json:"updated_field,omitempty"`

	// DependsOn names tables whose rows must land before this table's, so
	// foreign keys resolve. Only direct dependencies are declared; the
	// ordering is computed transitively.
	DependsOn []string `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
}

// Schema is the data-driven description of the application tables the merge
// engine knows about. Adding a table is a schema edit, not a code change.
type Schema struct {
	// Tables in declaration order. Declaration order breaks ties when the
	// dependency graph allows more than one valid sequence, keeping runs
	// deterministic.
	Tables []TableSpec `yaml:"tables" json:"tables"`
}

// DefaultSchema returns the built-in table set for the registration store.
func DefaultSchema() *Schema {
	return &Schema{Tables: []TableSpec{
		{Name: "roles", PrimaryKey: []string{"id"}, UpdatedField: "updated_at"},
		{Name: "admins", PrimaryKey: []string{"id"}, UpdatedField: "updated_at", DependsOn: []string{"roles"}},
		{Name: "attendees", PrimaryKey: []string{"id"}, UpdatedField: "updated_at"},
		{Name: "registrations", PrimaryKey: []string{"id"}, UpdatedField: "updated_at", DependsOn: []string{"attendees", "admins"}},
		{Name: "settings", PrimaryKey: []string{"id"}, UpdatedField: "updated_at"},
	}}
}

// ParseSchema decodes a YAML schema document and validates it.
func ParseSchema(raw []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadSchema reads a schema document from disk.
func LoadSchema(path string) (*Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", path, err)
	}
	return ParseSchema(raw)
}

// Validate checks structural soundness: unique names, declared keys, and
// dependencies that resolve to declared tables without cycles.
func (s *Schema) Validate() error {
	if len(s.Tables) == 0 {
		return fmt.Errorf("schema declares no tables")
	}

	byName := make(map[string]bool, len(s.Tables))
	for i := range s.Tables {
		t := &s.Tables[i]
		if t.Name == "" {
			return fmt.Errorf("schema table %d has no name", i)
		}
		if byName[t.Name] {
			return fmt.Errorf("schema declares table %q twice", t.Name)
		}
		byName[t.Name] = true
		if len(t.PrimaryKey) == 0 {
			return fmt.Errorf("schema table %q declares no primary key", t.Name)
		}
	}

	for i := range s.Tables {
		for _, dep := range s.Tables[i].DependsOn {
			if !byName[dep] {
				return fmt.Errorf("schema table %q depends on undeclared table %q", s.Tables[i].Name, dep)
			}
		}
	}

	if _, err := s.MergeOrder(); err != nil {
		return err
	}
	return nil
}

// Table returns the spec for the named table, or nil when the schema does
// not declare it.
func (s *Schema) Table(name string) *TableSpec {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// Dependents returns the names of declared tables that depend, directly,
// on the given table.
func (s *Schema) Dependents(name string) []string {
	var out []string
	for i := range s.Tables {
		for _, dep := range s.Tables[i].DependsOn {
			if dep == name {
				out = append(out, s.Tables[i].Name)
				break
			}
		}
	}
	return out
}

// MergeOrder computes the order tables must be applied in: a topological
// sort of the dependency graph. Ties break by declaration order, so the
// result is stable across runs. Returns an error when the declared
// dependencies form a cycle.
func (s *Schema) MergeOrder() ([]string, error) {
	indegree := make(map[string]int, len(s.Tables))
	dependents := make(map[string][]string, len(s.Tables))
	position := make(map[string]int, len(s.Tables))

	for i := range s.Tables {
		t := &s.Tables[i]
		position[t.Name] = i
		if _, ok := indegree[t.Name]; !ok {
			indegree[t.Name] = 0
		}
		for _, dep := range t.DependsOn {
			indegree[t.Name]++
			dependents[dep] = append(dependents[dep], t.Name)
		}
	}

	// Kahn's algorithm with a declaration-ordered frontier instead of a
	// queue, so ties always resolve the same way.
	var frontier []string
	for i := range s.Tables {
		if indegree[s.Tables[i].Name] == 0 {
			frontier = append(frontier, s.Tables[i].Name)
		}
	}

	order := make([]string, 0, len(s.Tables))
	for len(frontier) > 0 {
		next := frontier[0]
		for _, name := range frontier[1:] {
			if position[name] < position[next] {
				next = name
			}
		}

		order = append(order, next)
		remaining := frontier[:0]
		for _, name := range frontier {
			if name != next {
				remaining = append(remaining, name)
			}
		}
		frontier = remaining

		for _, dep := range dependents[next] {
			indegree[dep]--
			if indegree[dep] == 0 {
				frontier = append(frontier, dep)
			}
		}
	}

	if len(order) != len(s.Tables) {
		return nil, fmt.Errorf("schema dependencies contain a cycle")
	}
	return order, nil
}
