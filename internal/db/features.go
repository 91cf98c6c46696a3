package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// DefaultGeometryColumn is the GeoParquet geometry column name.
const DefaultGeometryColumn = "geometry"

const geomAlias = "__geom"

// Column describes one column of a source file.
type Column struct {
	Name    string `json:"name" doc:"Column name"`
	Type    string `json:"type" doc:"Column type" example:"DOUBLE"`
	Numeric bool   `json:"numeric" doc:"Whether the column can be classified"`
}

// ReadFeatures loads a GeoParquet file as a FeatureCollection. Every
// non-geometry column becomes a feature property.
func ReadFeatures(ctx context.Context, db *sql.DB, path, geomColumn string) (*geojson.FeatureCollection, error) {
	if geomColumn == "" {
		geomColumn = DefaultGeometryColumn
	}
	geom := quoteIdent(geomColumn)
	query := fmt.Sprintf(
		"SELECT ST_AsGeoJSON(%s) AS %s, * EXCLUDE (%s) FROM read_parquet(%s)",
		geom, geomAlias, geom, quoteLiteral(path),
	)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	fc := geojson.NewFeatureCollection()
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		raw, ok := values[0].(string)
		if !ok {
			continue
		}
		g, err := geojson.UnmarshalGeometry([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("decoding geometry: %w", err)
		}

		f := geojson.NewFeature(g.Geometry())
		for i, name := range columns[1:] {
			f.Properties[name] = property(values[i+1])
		}
		fc.Append(f)
	}
	return fc, rows.Err()
}

// Columns describes the columns of a Parquet file.
func Columns(ctx context.Context, db *sql.DB, path string) ([]Column, error) {
	query := fmt.Sprintf("DESCRIBE SELECT * FROM read_parquet(%s)", quoteLiteral(path))
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("describing %s: %w", path, err)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var name, typ, null, key, def, extra sql.NullString
		if err := rows.Scan(&name, &typ, &null, &key, &def, &extra); err != nil {
			return nil, err
		}
		cols = append(cols, Column{Name: name.String, Type: typ.String, Numeric: IsNumericType(typ.String)})
	}
	if cols == nil {
		cols = []Column{}
	}
	return cols, rows.Err()
}

// IsNumericType reports whether a DuckDB type name holds numbers.
func IsNumericType(t string) bool {
	t = strings.ToUpper(t)
	if strings.HasPrefix(t, "DECIMAL") {
		return true
	}
	switch t {
	case "TINYINT", "SMALLINT", "INTEGER", "BIGINT", "HUGEINT",
		"UTINYINT", "USMALLINT", "UINTEGER", "UBIGINT", "UHUGEINT",
		"FLOAT", "DOUBLE", "REAL":
		return true
	}
	return false
}

// property converts a scanned DuckDB value to a JSON-friendly property.
func property(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case interface{ Float64() float64 }:
		return x.Float64()
	default:
		return v
	}
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
