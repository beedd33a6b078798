package postgres

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"community-feed/internal/common/pagination"
	"community-feed/internal/domain/entity"
	"community-feed/internal/repository"
)

// ViewQueryBuilder translates a pagination.Request plus a view's
// field-mapping table into a native filtered/sorted/limited query over an
// aggregate collection. It is shared by List and Search so both paths get
// identical alias validation and cursor continuation.
//
// Aggregate rows have the shape (id bigint, doc jsonb, score double
// precision, last_updated timestamptz); mapped aliases address dotted
// paths inside doc, compiled to `doc #>> '{...}'` expressions with casts
// per the declared field kind.
type ViewQueryBuilder struct {
	table   string
	mapping repository.FieldMapping
}

// NewViewQueryBuilder creates a builder for one aggregate collection.
// The table name and every mapped path come from static view declarations;
// they are still checked so a bad declaration fails at construction, not
// at query time.
func NewViewQueryBuilder(table string, mapping repository.FieldMapping) (*ViewQueryBuilder, error) {
	if !safeIdent(table) {
		return nil, fmt.Errorf("view query builder: unsafe table name %q", table)
	}
	for alias, field := range mapping {
		for _, elem := range strings.Split(field.Path, ".") {
			if !safeIdent(elem) {
				return nil, fmt.Errorf("view query builder: unsafe path %q for alias %q", field.Path, alias)
			}
		}
	}
	return &ViewQueryBuilder{table: table, mapping: mapping}, nil
}

// sortExpr is one compiled ORDER BY term: the expression over the outer
// row, the same expression over the boundary-row alias "b", and direction.
type sortExpr struct {
	outer    string
	boundary string
	dir      pagination.Direction
}

// BuildListQuery compiles the request into a SELECT over the aggregate
// table. Validation of every filter and sort alias happens before any
// argument is bound, so an unknown alias never reaches the store.
//
// Ordering is the declared sorts in order with the primary id appended as
// a deterministic tie-break (following the primary sort's direction).
// When the request's token carries a last resource id, a lexicographic
// keyset predicate over (sort keys..., id) restricts the result to rows
// ranked strictly after the boundary row; boundary sort-key values are
// read by scalar subqueries inside the same statement.
func (qb *ViewQueryBuilder) BuildListQuery(req pagination.Request) (query string, args []any, err error) {
	filters := req.EffectiveFilters()
	sorts := req.EffectiveSorts()

	sortExprs, err := qb.compileSorts(sorts)
	if err != nil {
		return "", nil, err
	}

	var conditions []string
	conditions, args, err = qb.compileFilters(filters, args)
	if err != nil {
		return "", nil, err
	}

	idDir := tieBreakDirection(sorts)
	if last := lastResourceID(req); last != nil {
		args = append(args, *last)
		conditions = append(conditions, qb.continuationClause(sortExprs, idDir, len(args)))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT id, doc FROM %s", qb.table)
	if len(conditions) > 0 {
		sb.WriteString("\nWHERE " + strings.Join(conditions, " AND "))
	}
	sb.WriteString("\nORDER BY " + orderByClause(sortExprs, idDir))
	args = append(args, req.Limit)
	fmt.Fprintf(&sb, "\nLIMIT $%d", len(args))

	return sb.String(), args, nil
}

// BuildSearchQuery compiles a fuzzy text query: trigram similarity over the
// declared search fields, multiplied by (1 + boost * score) so popular
// content ranks above equally-relevant content. Relevance descending is the
// implicit primary sort unless the request declares its own sorts, in which
// case similarity only gates matching.
//
// Continuation re-evaluates the boundary row's rank inside the same
// statement and restricts to (rank, id) strictly after it, keeping the
// cursor consistent even though rank is not a stored field.
func (qb *ViewQueryBuilder) BuildSearchQuery(spec repository.SearchSpec, req pagination.Request) (query string, args []any, err error) {
	if len(spec.Fields) == 0 {
		return "", nil, fmt.Errorf("search: no search fields declared")
	}
	for _, path := range spec.Fields {
		for _, elem := range strings.Split(path, ".") {
			if !safeIdent(elem) {
				return "", nil, fmt.Errorf("search: unsafe search field path %q", path)
			}
		}
	}

	sorts := req.EffectiveSorts()
	sortExprs, err := qb.compileSorts(sorts)
	if err != nil {
		return "", nil, err
	}

	args = append(args, spec.Text, spec.Boost, spec.MinSimilarity)
	simOuter := similarityExpr(spec.Fields, "", 1)
	rankOuter := fmt.Sprintf("(%s * (1 + $2 * score))", simOuter)
	rankBoundary := fmt.Sprintf("(%s * (1 + $2 * b.score))", similarityExpr(spec.Fields, "b", 1))

	conditions := []string{fmt.Sprintf("%s >= $3", simOuter)}
	conditions, args, err = qb.compileFilters(req.EffectiveFilters(), args, conditions...)
	if err != nil {
		return "", nil, err
	}

	// Relevance becomes the primary sort term unless the caller ordered
	// explicitly; either way the id tie-break keeps cursoring well-defined.
	ranked := len(sortExprs) == 0
	if ranked {
		sortExprs = []sortExpr{{outer: rankOuter, boundary: rankBoundary, dir: pagination.DESC}}
	}
	idDir := pagination.DESC
	if !ranked {
		idDir = tieBreakDirection(sorts)
	}

	if last := lastResourceID(req); last != nil {
		args = append(args, *last)
		conditions = append(conditions, qb.continuationClause(sortExprs, idDir, len(args)))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT id, doc FROM %s", qb.table)
	sb.WriteString("\nWHERE " + strings.Join(conditions, " AND "))
	sb.WriteString("\nORDER BY " + orderByClause(sortExprs, idDir))
	args = append(args, req.Limit)
	fmt.Fprintf(&sb, "\nLIMIT $%d", len(args))

	return sb.String(), args, nil
}

// compileFilters validates and translates equality filters, appending one
// placeholder per filter. Extra pre-built conditions pass through first.
func (qb *ViewQueryBuilder) compileFilters(filters []pagination.Filter, args []any, pre ...string) ([]string, []any, error) {
	conditions := append([]string{}, pre...)
	for _, f := range filters {
		expr, field, err := qb.fieldExpr(f.Field, "")
		if err != nil {
			return nil, nil, err
		}
		value, err := coerceValue(f.Field, field, f.Value)
		if err != nil {
			return nil, nil, err
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", expr, len(args)))
	}
	return conditions, args, nil
}

func (qb *ViewQueryBuilder) compileSorts(sorts []pagination.Sort) ([]sortExpr, error) {
	exprs := make([]sortExpr, 0, len(sorts))
	for _, s := range sorts {
		outer, _, err := qb.fieldExpr(s.Field, "")
		if err != nil {
			return nil, err
		}
		boundary, _, err := qb.fieldExpr(s.Field, "b")
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, sortExpr{outer: outer, boundary: boundary, dir: s.Direction})
	}
	return exprs, nil
}

// fieldExpr resolves a public alias through the mapping table into a SQL
// expression, optionally qualified for the boundary-row alias. Unknown
// aliases fail with *entity.InvalidFieldError.
func (qb *ViewQueryBuilder) fieldExpr(alias, qualifier string) (string, repository.MappedField, error) {
	field, ok := qb.mapping[alias]
	if !ok {
		return "", repository.MappedField{}, &entity.InvalidFieldError{
			Field:  alias,
			Reason: "not declared in the view's field mapping",
		}
	}

	prefix := ""
	if qualifier != "" {
		prefix = qualifier + "."
	}

	// The primary id is a lifted column, not a document path.
	if field.Path == "id" {
		return prefix + "id", field, nil
	}

	pathLiteral := "{" + strings.Join(strings.Split(field.Path, "."), ",") + "}"
	expr := fmt.Sprintf("%sdoc #>> '%s'", prefix, pathLiteral)
	switch field.Kind {
	case repository.KindNumeric:
		expr = fmt.Sprintf("(%s)::double precision", expr)
	case repository.KindTemporal:
		expr = fmt.Sprintf("(%s)::timestamptz", expr)
	}
	return expr, field, nil
}

// continuationClause builds the lexicographic keyset predicate over
// (sort keys..., id) relative to the boundary row identified by the token's
// last resource id (bound at placeholder lastParam). If the boundary row
// was deleted between pages the scalar subqueries yield NULL and the page
// comes back empty; tokens are session artifacts, not durable bookmarks.
func (qb *ViewQueryBuilder) continuationClause(sortExprs []sortExpr, idDir pagination.Direction, lastParam int) string {
	boundaryRow := func(expr string) string {
		return fmt.Sprintf("(SELECT %s FROM %s b WHERE b.id = $%d)", expr, qb.table, lastParam)
	}

	var branches []string
	for i := range sortExprs {
		var terms []string
		for j := 0; j < i; j++ {
			terms = append(terms, fmt.Sprintf("%s = %s", sortExprs[j].outer, boundaryRow(sortExprs[j].boundary)))
		}
		terms = append(terms, fmt.Sprintf("%s %s %s", sortExprs[i].outer, keysetOp(sortExprs[i].dir), boundaryRow(sortExprs[i].boundary)))
		branches = append(branches, "("+strings.Join(terms, " AND ")+")")
	}

	var idTerms []string
	for _, se := range sortExprs {
		idTerms = append(idTerms, fmt.Sprintf("%s = %s", se.outer, boundaryRow(se.boundary)))
	}
	idTerms = append(idTerms, fmt.Sprintf("id %s $%d", keysetOp(idDir), lastParam))
	branches = append(branches, "("+strings.Join(idTerms, " AND ")+")")

	return "(" + strings.Join(branches, " OR ") + ")"
}

func orderByClause(sortExprs []sortExpr, idDir pagination.Direction) string {
	var terms []string
	for _, se := range sortExprs {
		terms = append(terms, se.outer+" "+sqlDirection(se.dir))
	}
	terms = append(terms, "id "+sqlDirection(idDir))
	return strings.Join(terms, ", ")
}

// tieBreakDirection follows the primary sort's direction; with no sorts
// declared the default order is newest-first (id DESC).
func tieBreakDirection(sorts []pagination.Sort) pagination.Direction {
	if len(sorts) > 0 {
		return sorts[0].Direction
	}
	return pagination.DESC
}

func lastResourceID(req pagination.Request) *int64 {
	if req.Token == nil {
		return nil
	}
	return req.Token.LastResourceID
}

func keysetOp(dir pagination.Direction) string {
	if dir == pagination.ASC {
		return ">"
	}
	return "<"
}

func sqlDirection(dir pagination.Direction) string {
	if dir == pagination.ASC {
		return "ASC"
	}
	return "DESC"
}

// similarityExpr builds the trigram similarity expression over the
// concatenated search fields against the text bound at textParam.
func similarityExpr(fields []string, qualifier string, textParam int) string {
	prefix := ""
	if qualifier != "" {
		prefix = qualifier + "."
	}
	parts := make([]string, 0, len(fields)+1)
	parts = append(parts, "' '")
	for _, path := range fields {
		pathLiteral := "{" + strings.Join(strings.Split(path, "."), ",") + "}"
		parts = append(parts, fmt.Sprintf("%sdoc #>> '%s'", prefix, pathLiteral))
	}
	return fmt.Sprintf("similarity(concat_ws(%s), $%d)", strings.Join(parts, ", "), textParam)
}

// coerceValue converts a filter's raw string value into a typed argument
// per the field's declared kind. A mismatch is a validation failure, not a
// store error.
func coerceValue(alias string, field repository.MappedField, raw string) (any, error) {
	switch field.Kind {
	case repository.KindNumeric:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &entity.InvalidFieldError{Field: alias, Reason: fmt.Sprintf("expects a numeric value, got %q", raw)}
		}
		return v, nil
	case repository.KindTemporal:
		v, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, &entity.InvalidFieldError{Field: alias, Reason: fmt.Sprintf("expects an RFC 3339 timestamp, got %q", raw)}
		}
		return v, nil
	default:
		return raw, nil
	}
}

// safeIdent accepts identifiers and path elements made of word characters.
// Mapped paths are static declarations; this guards against a typo'd
// declaration smuggling SQL into a compiled expression.
func safeIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
