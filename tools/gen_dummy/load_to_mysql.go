/*
Kompilasi manual:
  go build -o tools/gen_dummy/load_to_mysql ./tools/gen_dummy

Pakai contoh:
  ./tools/gen_dummy/load_to_mysql \
    -csv tools/gen_dummy/sample_alerts.csv \
    -dsn "dash:secret@tcp(127.0.0.1:3306)/drilling?parseTime=true"
*/

// [FILE] tools/gen_dummy/load_to_mysql.go
// Seed tabel notifications dari CSV (id,type,title,description,timestamp,well_id)
package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	mysqlrepo "drilling-dashboard/internal/repositories/mysql"
	"drilling-dashboard/internal/services"
	"drilling-dashboard/pkg/db"
)

var (
	csvPath  = flag.String("csv", "tools/gen_dummy/sample_alerts.csv", "CSV path")
	dsn      = flag.String("dsn", "root:password@tcp(127.0.0.1:3306)/drilling?parseTime=true", "MySQL DSN")
	truncate = flag.Bool("truncate", false, "DELETE all notifications first")
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	conn, err := db.NewMySQL(ctx, *dsn, db.Options{MaxOpen: 4, MaxIdle: 2})
	must(err)
	defer conn.Close()

	repo := &mysqlrepo.NotificationRepo{DB: conn}
	must(repo.EnsureSchema(ctx))

	if *truncate {
		_, err := conn.ExecContext(ctx, "DELETE FROM notifications")
		must(err)
		log.Printf("[ok] cleared notifications")
	}

	f, err := os.Open(*csvPath)
	must(err)
	defer f.Close()

	items, err := parseNotifications(bufio.NewReader(f))
	must(err)

	inserted := 0
	for _, n := range items {
		ok, err := repo.SaveNotification(ctx, n)
		must(err)
		if ok {
			inserted++
		}
	}
	log.Printf("[ok] notifications: %d read, %d inserted, %d already present", len(items), inserted, len(items)-inserted)
}

/* ======================= CSV ======================= */

func headerIndex(h []string) map[string]int {
	m := map[string]int{}
	for i, c := range h {
		c = strings.TrimSpace(strings.ToLower(c))
		c = strings.TrimPrefix(c, "\ufeff")
		m[c] = i
	}
	return m
}

func ensureColumns(idx map[string]int, need []string) error {
	for _, c := range need {
		if _, ok := idx[c]; !ok {
			return fmt.Errorf("missing column %q in CSV header", c)
		}
	}
	return nil
}

// parseNotifications: kolom wajib type,title,timestamp (RFC3339);
// id/description/well_id opsional.
func parseNotifications(src io.Reader) ([]services.Notification, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1

	head, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := headerIndex(head)
	if err := ensureColumns(idx, []string{"type", "title", "timestamp"}); err != nil {
		return nil, err
	}
	col := func(rec []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []services.Notification
	line := 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		typ, ok := services.ParseNotificationType(col(rec, "type"))
		if !ok {
			return nil, fmt.Errorf("line %d: unknown type %q", line, col(rec, "type"))
		}
		ts, err := time.Parse(time.RFC3339, col(rec, "timestamp"))
		if err != nil {
			return nil, fmt.Errorf("line %d: timestamp: %w", line, err)
		}
		out = append(out, services.Notification{
			ID:          col(rec, "id"),
			Type:        typ,
			Title:       col(rec, "title"),
			Description: col(rec, "description"),
			Timestamp:   ts.UTC(),
			WellID:      col(rec, "well_id"),
		})
	}
	return out, nil
}
