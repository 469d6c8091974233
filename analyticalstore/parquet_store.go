package analyticalstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"
)

// parquetRowJSONSchema is a fixed two-column schema shared by every table:
// the row's composite key (serialised to a stable string) and the row
// payload (serialised to JSON). Tables in this system have
// heterogeneous, evolving shapes (spec.md §6 lists abbreviated column
// sets per table), so a single generic schema keeps one writer path
// for all of them instead of hand-maintaining nine parquet structs -
// the same trade the teacher's own canonicalParquetRow avoids only
// because it has exactly one table to serve.
const parquetRowJSONSchema = `{
  "Tag": "name=row, repetitiontype=REQUIRED",
  "Fields": [
    {"Tag": "name=key, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=REQUIRED"},
    {"Tag": "name=payload, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=REQUIRED"}
  ]
}`

type parquetRow struct {
	Key     string `json:"key"`
	Payload string `json:"payload"`
}

// ParquetStore persists each named table as its own Parquet dataset
// file under dir/<table>.parquet, using xitongsys/parquet-go - the
// teacher's own dependency, repurposed from "one FIT file's canonical
// samples" to "one analytical table's rows". Upserts are served from
// an in-memory index and the whole table is rewritten on each upsert,
// the same "rewrite the whole artifact" idiom modelstore.Store uses
// for its JSON documents, just fanned out per table instead of per
// user/condition.
type ParquetStore struct {
	mu     sync.Mutex
	dir    string
	tables map[string]map[string]parquetRow // table -> keyString -> row
}

// NewParquetStore returns a ParquetStore rooted at dir.
func NewParquetStore(dir string) *ParquetStore {
	return &ParquetStore{dir: dir, tables: make(map[string]map[string]parquetRow)}
}

func (s *ParquetStore) UpsertByKey(table string, key Key, row any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("analyticalstore: marshal row for %s: %w", table, err)
	}

	rows, ok := s.tables[table]
	if !ok {
		rows = make(map[string]parquetRow)
		s.tables[table] = rows
	}
	keyStr := keyString(key)
	rows[keyStr] = parquetRow{Key: keyStr, Payload: string(payload)}

	return s.flush(table)
}

// flush rewrites table's entire parquet file from the in-memory index,
// with keys sorted for deterministic output.
func (s *ParquetStore) flush(table string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.dir, table+".parquet")

	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("analyticalstore: open %s: %w", path, err)
	}
	pw, err := writer.NewJSONWriter(parquetRowJSONSchema, fw, 4)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("analyticalstore: new writer for %s: %w", path, err)
	}

	keys := make([]string, 0, len(s.tables[table]))
	for k := range s.tables[table] {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		row := s.tables[table][k]
		encoded, err := json.Marshal(row)
		if err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
		if err := pw.Write(string(encoded)); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

// keyString deterministically serialises a Key for use as a map/row
// identity. encoding/json already emits map keys in sorted order, so
// the same logical key always produces the same string (spec.md §9
// redesign flag: never interpolate raw values into a query; here
// there is no query at all, just a stable identity).
func keyString(key Key) string {
	encoded, _ := json.Marshal(key)
	return string(encoded)
}
