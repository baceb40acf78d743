// internal/repositories/mysql/util.go
package mysql

import "strings"

// inClause merakit " AND col IN (?,?,...)" beserta args-nya.
// vals kosong → "" (filter tidak dipasang).
func inClause[T any](col string, vals []T) (string, []any) {
	if len(vals) == 0 {
		return "", nil
	}
	args := make([]any, len(vals))
	for i, v := range vals {
		args[i] = v
	}
	return ` AND ` + col + ` IN (` + strings.Repeat("?,", len(vals)-1) + `?)`, args
}
