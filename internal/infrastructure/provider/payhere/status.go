package payhere

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/eChanneling-Revamp/payment-service/internal/domain/model"
	"github.com/eChanneling-Revamp/payment-service/internal/domain/provider"
)

//go:embed tables.yaml
var tablesYAML []byte

type tableDocument struct {
	Default string                       `yaml:"default"`
	Tables  map[string]map[string]string `yaml:"tables"`
}

// StatusTable maps a status code's canonical text to a payment status
type StatusTable map[string]model.PaymentStatus

// TableNames lists the shipped status tables
func TableNames() ([]string, error) {
	doc, err := loadTables()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(doc.Tables))
	for name := range doc.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// LoadStatusTable returns the named shipped table with overrides applied.
// An empty name selects the default table.
func LoadStatusTable(name string, overrides map[string]string) (StatusTable, error) {
	doc, err := loadTables()
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = doc.Default
	}

	src, ok := doc.Tables[name]
	if !ok {
		return nil, fmt.Errorf("unknown status table: %s", name)
	}

	table := make(StatusTable, len(src)+len(overrides))
	for _, entries := range []map[string]string{src, overrides} {
		for code, status := range entries {
			if err := table.set(code, status); err != nil {
				return nil, fmt.Errorf("status table %s: %w", name, err)
			}
		}
	}
	return table, nil
}

func (t StatusTable) set(code, status string) error {
	c := provider.ParseStatusCode(code)
	if c.IsZero() {
		return fmt.Errorf("empty status code")
	}
	s := model.PaymentStatus(status)
	if !s.Valid() || s == model.PaymentStatusCreated {
		return fmt.Errorf("invalid status %q for code %s", status, code)
	}
	t[c.String()] = s
	return nil
}

func loadTables() (*tableDocument, error) {
	var doc tableDocument
	if err := yaml.Unmarshal(tablesYAML, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse status tables: %w", err)
	}
	return &doc, nil
}

// StatusMapper maps status codes through an injected table.
// Unknown or missing codes map to PENDING.
type StatusMapper struct {
	table StatusTable
}

func NewStatusMapper(table StatusTable) *StatusMapper {
	return &StatusMapper{table: table}
}

func (m *StatusMapper) Map(code provider.StatusCode) model.PaymentStatus {
	if status, ok := m.table[code.String()]; ok {
		return status
	}
	return model.PaymentStatusPending
}
