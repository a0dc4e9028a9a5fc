package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// CatalogSchema is the top-level JSON structure for catalog import: the
// products, insumo types, and users that set up a production line in one
// shot.
type CatalogSchema struct {
	Products    []ProductImport `json:"products"`
	InsumoTypes []TypeImport    `json:"insumo_types"`
	Users       []UserImport    `json:"users,omitempty"`
}

// ProductImport defines one publication in the import file.
type ProductImport struct {
	Slug      string `json:"slug,omitempty"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order,omitempty"`
	Active    *bool  `json:"active,omitempty"`
}

// TypeImport defines one insumo type in the import file. The requires_*
// flags drive the content checks applied when insumos of this type are
// reviewed.
type TypeImport struct {
	Slug            string `json:"slug,omitempty"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	SortOrder       int    `json:"sort_order,omitempty"`
	RequiresImage   bool   `json:"requires_image,omitempty"`
	RequiresCaption bool   `json:"requires_caption,omitempty"`
	RequiresPDF     bool   `json:"requires_pdf,omitempty"`
	Active          *bool  `json:"active,omitempty"`
}

// UserImport defines one board user. Products lists the slugs of the
// products the user may open.
type UserImport struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Role     string   `json:"role,omitempty"`
	Products []string `json:"products,omitempty"`
}

// LoadCatalogSchema reads and parses a catalog import JSON file.
func LoadCatalogSchema(path string) (*CatalogSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema CatalogSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
