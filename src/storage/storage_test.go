package storage

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"mms-curvature/src/helpers"
	"mms-curvature/src/logger"
	"mms-curvature/src/models"

	"github.com/klauspost/compress/zstd"
)

func testLogger() *logger.Logger {
	return logger.NewLoggerWithWriter(io.Discard, "debug", "storage-test")
}

func sampleTable() *models.MResultTable {
	nan := math.NaN()
	return &models.MResultTable{
		IndexName: models.ColTime,
		Index:     []float64{1497729600, 1497729600.5, 1497729601},
		Columns: []models.MColumn{
			{Name: models.ColRc, Values: []float64{1000, 2000, 4000}},
			{Name: models.ColPositionMLT, Values: []float64{nan, nan, nan}},
			{Name: models.ColTQF, Values: []float64{0.9, 0.85, 0.8}},
		},
	}
}

// -----------------------------------------------------------------------------

func TestCompressorRoundTrip(t *testing.T) {
	c, err := NewCompressor(3)
	if err != nil {
		t.Fatalf("NewCompressor: %v", err)
	}
	defer c.Close()

	in := []float64{1.5, 1.5, -2.25, math.NaN(), math.Inf(1), 0, 1e-300}
	packed, err := c.CompressFloats(in)
	if err != nil {
		t.Fatalf("CompressFloats: %v", err)
	}
	out, err := c.DecompressFloats(packed, len(in))
	if err != nil {
		t.Fatalf("DecompressFloats: %v", err)
	}
	for i := range in {
		if math.Float64bits(in[i]) != math.Float64bits(out[i]) {
			t.Errorf("value %d: got %v, want %v", i, out[i], in[i])
		}
	}

	if _, err := c.DecompressFloats(packed, len(in)+1); err == nil {
		t.Error("expected count mismatch error")
	}
}

// -----------------------------------------------------------------------------

func TestBadgerSeriesCache(t *testing.T) {
	cache, err := NewBadgerSeriesCache(t.TempDir(), 2, testLogger())
	if err != nil {
		t.Fatalf("NewBadgerSeriesCache: %v", err)
	}
	defer cache.Close()

	if _, ok, err := cache.Load("missing"); err != nil || ok {
		t.Fatalf("Load(missing) = ok %v, err %v", ok, err)
	}

	series := models.MTimeSeries{
		Times:  []float64{10, 11, 12},
		Values: [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}},
	}
	if err := cache.Store("mms1_fgm_b_gsm_srvy_l2", series); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, ok, err := cache.Load("mms1_fgm_b_gsm_srvy_l2")
	if err != nil || !ok {
		t.Fatalf("Load = ok %v, err %v", ok, err)
	}
	if got.Len() != 3 || len(got.Values[2]) != 3 {
		t.Fatalf("unexpected shape: %d rows", got.Len())
	}
	if got.Times[1] != 11 || got.Values[2][1] != 8 {
		t.Errorf("unexpected content: %+v", got)
	}

	ragged := models.MTimeSeries{Times: []float64{1, 2}, Values: [][]float64{{1}, {1, 2}}}
	if err := cache.Store("ragged", ragged); err == nil {
		t.Error("expected error for ragged rows")
	}
}

// -----------------------------------------------------------------------------

func TestCSVTableSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "CurveGSM_test.csv")
	sink := NewCSVTableSink(path, nil, testLogger())
	ctx := context.Background()

	if err := sink.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := sink.SaveTable(ctx, sampleTable()); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(records))
	}
	wantHeader := []string{"Time", "Rc(km)", "Position(MLT)", "TQF"}
	for i, h := range wantHeader {
		if records[0][i] != h {
			t.Errorf("header %d = %q, want %q", i, records[0][i], h)
		}
	}
	if records[1][0] != "1497729600" || records[2][0] != "1497729600.5" {
		t.Errorf("unexpected index cells: %q %q", records[1][0], records[2][0])
	}
	if records[1][2] != "" {
		t.Errorf("missing value should be empty, got %q", records[1][2])
	}
	if records[3][1] != "4000" {
		t.Errorf("Rc cell = %q", records[3][1])
	}
}

// -----------------------------------------------------------------------------

func TestCSVTableSinkCompressed(t *testing.T) {
	c, err := NewCompressor(1)
	if err != nil {
		t.Fatalf("NewCompressor: %v", err)
	}
	defer c.Close()

	path := filepath.Join(t.TempDir(), "table.csv")
	sink := NewCSVTableSink(path, c, testLogger())
	if sink.Path != path+".zst" {
		t.Fatalf("Path = %s", sink.Path)
	}

	ctx := context.Background()
	if err := sink.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := sink.SaveTable(ctx, sampleTable()); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(sink.Path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer dec.Close()

	records, err := csv.NewReader(dec).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 4 || records[0][0] != "Time" {
		t.Fatalf("unexpected records: %v", records)
	}
}

// -----------------------------------------------------------------------------

func TestSQLiteTableSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CurveGSM_test.db")
	sink := NewSQLiteTableSink(path, testLogger())
	ctx := context.Background()

	if err := sink.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := sink.SaveTable(ctx, sampleTable()); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}
	// Saving twice replaces the table.
	if err := sink.SaveTable(ctx, sampleTable()); err != nil {
		t.Fatalf("SaveTable again: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM "curvature"`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 rows, got %d", count)
	}

	var rc float64
	var mlt sql.NullFloat64
	err = db.QueryRow(`SELECT "Rc(km)", "Position(MLT)" FROM "curvature" WHERE "Time" = ?`, 1497729601.0).Scan(&rc, &mlt)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if rc != 4000 {
		t.Errorf("Rc = %v", rc)
	}
	if mlt.Valid {
		t.Errorf("missing MLT should be NULL, got %v", mlt.Float64)
	}
}

// -----------------------------------------------------------------------------

func TestInsertSQLPlaceholders(t *testing.T) {
	table := sampleTable()
	got := insertSQL(`"s"."t"`, table, func(i int) string { return "$" + strconv.Itoa(i+1) })
	want := `INSERT INTO "s"."t" ("Time", "Rc(km)", "Position(MLT)", "TQF") VALUES ($1, $2, $3, $4)`
	if got != want {
		t.Errorf("insertSQL =\n%s\nwant\n%s", got, want)
	}

	if quoteIdent(`a"b`) != `"a""b"` {
		t.Errorf("quoteIdent did not escape quotes")
	}
}

// -----------------------------------------------------------------------------

func TestSaveTableRejectsInvalid(t *testing.T) {
	table := sampleTable()
	table.Columns[0].Values = table.Columns[0].Values[:2]

	sink := NewSQLiteTableSink(filepath.Join(t.TempDir(), "x.db"), testLogger())
	ctx := context.Background()
	if err := sink.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer sink.Close()
	err := sink.SaveTable(ctx, table)
	var verr *helpers.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

// -----------------------------------------------------------------------------

func infinityTable() *models.MResultTable {
	return &models.MResultTable{
		IndexName: models.ColTime,
		Index:     []float64{1497729600, 1497729601, 1497729602},
		Columns: []models.MColumn{
			{Name: models.ColRc, Values: []float64{math.Inf(1), math.Inf(-1), math.NaN()}},
		},
	}
}

// -----------------------------------------------------------------------------

func TestFormatCell(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{math.NaN(), ""},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{4000, "4000"},
		{0.85, "0.85"},
		{-1.5e-9, "-1.5e-09"},
	}
	for _, tc := range cases {
		if got := FormatCell(tc.in); got != tc.want {
			t.Errorf("FormatCell(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// -----------------------------------------------------------------------------

func TestRowArgsKeepsInfinities(t *testing.T) {
	table := infinityTable()
	cases := []struct {
		row  int
		want any
	}{
		{0, math.Inf(1)},
		{1, math.Inf(-1)},
		{2, nil},
	}
	for _, tc := range cases {
		args := rowArgs(table, tc.row)
		if args[1] != tc.want {
			t.Errorf("row %d Rc arg = %v, want %v", tc.row, args[1], tc.want)
		}
	}
}

// -----------------------------------------------------------------------------

func TestCSVTableSinkInfinity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inf.csv")
	sink := NewCSVTableSink(path, nil, testLogger())
	ctx := context.Background()
	if err := sink.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := sink.SaveTable(ctx, infinityTable()); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for i, want := range []string{"inf", "-inf", ""} {
		if got := records[i+1][1]; got != want {
			t.Errorf("row %d Rc cell = %q, want %q", i, got, want)
		}
	}
}

// -----------------------------------------------------------------------------

func TestSQLiteTableSinkInfinity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inf.db")
	sink := NewSQLiteTableSink(path, testLogger())
	ctx := context.Background()
	if err := sink.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := sink.SaveTable(ctx, infinityTable()); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT "Rc(km)" FROM "curvature" ORDER BY "Time"`)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	defer rows.Close()
	var got []sql.NullFloat64
	for rows.Next() {
		var v sql.NullFloat64
		if err := rows.Scan(&v); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got = append(got, v)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	if !got[0].Valid || !math.IsInf(got[0].Float64, 1) {
		t.Errorf("row 0 = %+v, want +Inf", got[0])
	}
	if !got[1].Valid || !math.IsInf(got[1].Float64, -1) {
		t.Errorf("row 1 = %+v, want -Inf", got[1])
	}
	if got[2].Valid {
		t.Errorf("row 2 = %+v, want NULL", got[2])
	}
}

// -----------------------------------------------------------------------------

func TestSQLiteTableSinkErrors(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cases := map[string]func(ctx context.Context) error{
		"parent is a file": func(ctx context.Context) error {
			return NewSQLiteTableSink(filepath.Join(blocker, "x.db"), testLogger()).Initialize(ctx)
		},
		"save before initialize": func(ctx context.Context) error {
			return NewSQLiteTableSink(filepath.Join(dir, "y.db"), testLogger()).SaveTable(ctx, sampleTable())
		},
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			err := fn(context.Background())
			var dberr *helpers.DatabaseError
			if !errors.As(err, &dberr) {
				t.Fatalf("expected DatabaseError, got %v", err)
			}
		})
	}
}
