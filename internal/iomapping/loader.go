// Package iomapping loads the declarative mapping file: the data sources of
// a run and the table context each of their tables is matched against. This
// is an impure package; it reads the mapping YAML and alias sidecar files.
package iomapping

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/phenotools/pxtract/pkg/mapping"
	"gopkg.in/yaml.v3"
)

// File is the parsed mapping file.
type File struct {
	Sources []Source `yaml:"sources"`
}

// Source declares one data source: a delimited file or a multi-sheet
// spreadsheet workbook.
type Source struct {
	Name string `yaml:"name"`
	// Type is "csv" or "excel".
	Type string `yaml:"type"`
	Path string `yaml:"path"`

	// Separator overrides the delimiter of a csv source; default comma.
	Separator string `yaml:"separator"`

	// HasHeaders is true when the first row names the columns. Without
	// headers, columns are addressed as col_0, col_1, ...
	HasHeaders bool `yaml:"has_headers"`

	// SubjectsAreRows is true (the default) when each row is one
	// subject; false transposes the table on extraction.
	SubjectsAreRows *bool `yaml:"subjects_are_rows"`

	// Table is the declared context of a csv source.
	Table *mapping.TableContext `yaml:"table"`

	// Sheets declare the contexts of an excel source, one per sheet.
	Sheets []Sheet `yaml:"sheets"`
}

// Sheet declares one sheet of a workbook source.
type Sheet struct {
	Sheet           string                `yaml:"sheet"`
	HasHeaders      bool                  `yaml:"has_headers"`
	SubjectsAreRows *bool                 `yaml:"subjects_are_rows"`
	Table           *mapping.TableContext `yaml:"table"`
}

// Transposed reports whether the source table must be transposed so that
// subjects end up as rows.
func Transposed(subjectsAreRows *bool) bool {
	return subjectsAreRows != nil && !*subjectsAreRows
}

// Load reads and validates a mapping file. Alias maps declared through a
// csv sidecar are resolved relative to the mapping file's directory.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read mapping file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, &mapping.ConfigurationError{
			Reason: fmt.Sprintf("malformed mapping file %s: %v", path, err),
		}
	}
	if len(f.Sources) == 0 {
		return nil, &mapping.ConfigurationError{
			Reason: fmt.Sprintf("mapping file %s declares no sources", path),
		}
	}

	baseDir := filepath.Dir(path)
	for i := range f.Sources {
		src := &f.Sources[i]
		if err := validateSource(src); err != nil {
			return nil, err
		}
		for _, tc := range src.tableContexts() {
			if err := resolveAliasSidecars(tc, baseDir); err != nil {
				return nil, err
			}
			if err := tc.Validate(); err != nil {
				return nil, err
			}
		}
	}
	return &f, nil
}

func validateSource(src *Source) error {
	if src.Name == "" {
		return &mapping.ConfigurationError{Reason: "source without a name"}
	}
	if src.Path == "" {
		return &mapping.ConfigurationError{
			Reason: fmt.Sprintf("source %s has no path", src.Name),
		}
	}
	switch src.Type {
	case "csv":
		if src.Table == nil {
			return &mapping.ConfigurationError{
				Reason: fmt.Sprintf("csv source %s declares no table context", src.Name),
			}
		}
	case "excel":
		if len(src.Sheets) == 0 {
			return &mapping.ConfigurationError{
				Reason: fmt.Sprintf("excel source %s declares no sheets", src.Name),
			}
		}
		for _, sheet := range src.Sheets {
			if sheet.Sheet == "" || sheet.Table == nil {
				return &mapping.ConfigurationError{
					Reason: fmt.Sprintf(
						"excel source %s has a sheet without name or table context", src.Name,
					),
				}
			}
		}
	default:
		return &mapping.ConfigurationError{
			Reason: fmt.Sprintf("source %s has unknown type %q", src.Name, src.Type),
		}
	}
	return nil
}

func (src *Source) tableContexts() []*mapping.TableContext {
	if src.Table != nil {
		return []*mapping.TableContext{src.Table}
	}
	out := make([]*mapping.TableContext, 0, len(src.Sheets))
	for i := range src.Sheets {
		out = append(out, src.Sheets[i].Table)
	}
	return out
}

// resolveAliasSidecars loads every alias map declared through a csv file
// into its in-memory mappings.
func resolveAliasSidecars(tc *mapping.TableContext, baseDir string) error {
	for i := range tc.Series {
		am := tc.Series[i].AliasMap
		if am == nil || am.CSV == "" {
			continue
		}
		sidecar := am.CSV
		if !filepath.IsAbs(sidecar) {
			sidecar = filepath.Join(baseDir, sidecar)
		}
		mappings, err := readAliasCSV(sidecar)
		if err != nil {
			return &mapping.ConfigurationError{
				Reason: fmt.Sprintf(
					"table %s: alias sidecar %s: %v", tc.Name, am.CSV, err,
				),
			}
		}
		if am.Mappings == nil {
			am.Mappings = make(map[string]*string, len(mappings))
		}
		// inline mappings win over sidecar rows
		for k, v := range mappings {
			if _, ok := am.Mappings[k]; !ok {
				am.Mappings[k] = v
			}
		}
	}
	return nil
}

// readAliasCSV parses a two-column alias file. An empty second column maps
// the value to null.
func readAliasCSV(path string) (map[string]*string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	out := make(map[string]*string)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if rec[1] == "" {
			out[rec[0]] = nil
			continue
		}
		v := rec[1]
		out[rec[0]] = &v
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("alias file has no rows")
	}
	return out, nil
}
