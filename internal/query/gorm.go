package query

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern (ESCAPE '\')
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// SQL dialect names as reported by gorm's Dialector
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// anyOfClause is exact membership of any value in a JSON array column.
// A column holding JSON null or a scalar matches nothing.
func anyOfClause(col, dialect string, values []string) (string, []interface{}) {
	if dialect == DialectPostgres {
		return fmt.Sprintf(`EXISTS (SELECT 1 FROM jsonb_array_elements_text(CASE WHEN jsonb_typeof(%[1]s) = 'array' THEN %[1]s ELSE '[]'::jsonb END) AS elem(value) WHERE elem.value IN ?)`, col),
			[]interface{}{values}
	}
	return fmt.Sprintf(`EXISTS (SELECT 1 FROM json_each(%s) AS elem WHERE elem.type = 'text' AND elem.value IN ?)`, col),
		[]interface{}{values}
}

// SQLClause renders one predicate as a WHERE fragment with ? placeholders.
// List fields are JSON columns: text matches run on their text form, set
// membership on their elements.
func SQLClause(p Predicate, dialect string) (string, []interface{}) {
	if p.Op == OpAnyOf {
		return anyOfClause(p.Field.Column(), dialect, p.Values)
	}

	col := p.Field.Column()
	if p.Field.IsList() {
		col = fmt.Sprintf("CAST(%s AS TEXT)", col)
	}

	switch p.Op {
	case OpEqualFold:
		return fmt.Sprintf("LOWER(%s) = ?", col), []interface{}{strings.ToLower(p.Text)}
	case OpContainsFold:
		pattern := "%" + escapeLike(strings.ToLower(p.Text)) + "%"
		return fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, col), []interface{}{pattern}
	case OpAtLeast:
		return fmt.Sprintf("%s >= ?", col), []interface{}{p.Number}
	case OpAtMost:
		return fmt.Sprintf("%s <= ?", col), []interface{}{p.Number}
	case OpIsTrue:
		return fmt.Sprintf("%s = ?", col), []interface{}{true}
	case OpOr:
		parts := make([]string, 0, len(p.Any))
		var args []interface{}
		for _, alt := range p.Any {
			clause, altArgs := SQLClause(alt, dialect)
			parts = append(parts, clause)
			args = append(args, altArgs...)
		}
		return "(" + strings.Join(parts, " OR ") + ")", args
	}
	return "1 = 1", nil
}

// ApplyGorm narrows db by every predicate
func ApplyGorm(db *gorm.DB, preds []Predicate) *gorm.DB {
	dialect := db.Dialector.Name()
	for _, p := range preds {
		clause, args := SQLClause(p, dialect)
		db = db.Where(clause, args...)
	}
	return db
}

// OrderGorm applies the sort key plus the VIN tie-break
func OrderGorm(db *gorm.DB, key SortKey) *gorm.DB {
	ord := key.Order()
	dir := "ASC"
	if ord.Desc {
		dir = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", ord.Field.Column(), dir)).Order("vin ASC")
}
