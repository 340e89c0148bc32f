package statement_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/spendwise/internal/statement"
)

func collect(t *testing.T, rows *statement.Rows) []statement.RawRow {
	t.Helper()

	var out []statement.RawRow
	for rows.Next() {
		out = append(out, rows.Row())
	}

	require.NoError(t, rows.Err())
	require.NoError(t, rows.Close())

	return out
}

func TestOpen_CSV(t *testing.T) {
	content := "Date,Description,Amount\n" +
		"2024-01-15,COFFEE SHOP,-4.50\n" +
		"\n" +
		"2024-01-16,\"SALARY, ACME\",3000.00\n"

	rows, err := statement.Open(strings.NewReader(content), "jan.csv")
	require.NoError(t, err)
	assert.Equal(t, statement.FormatCSV, rows.Format())
	assert.Equal(t, []string{"Date", "Description", "Amount"}, rows.Header())

	got := collect(t, rows)
	require.Len(t, got, 2)

	assert.Equal(t, 2, got[0].Line)
	assert.Equal(t, "COFFEE SHOP", got[0].Get("description"))
	assert.Equal(t, "-4.50", got[0].Get("Amount"))

	assert.Equal(t, 4, got[1].Line)
	assert.Equal(t, "SALARY, ACME", got[1].Map()["Description"])
}

func TestOpen_HeaderProbeSkipsPreamble(t *testing.T) {
	content := "Account statement\n" +
		"Account,12345\n" +
		"\n" +
		"Date,Narration,Amount\n" +
		"2024-01-15,COFFEE,-4.50\n"

	probe := func(cells []string) bool {
		return len(cells) > 0 && strings.EqualFold(strings.TrimSpace(cells[0]), "date")
	}

	rows, err := statement.Open(strings.NewReader(content), "export.csv", statement.WithHeaderProbe(probe))
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Narration", "Amount"}, rows.Header())

	got := collect(t, rows)
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Line)
	assert.Equal(t, "COFFEE", got[0].Get("Narration"))
}

func TestOpen_HeaderProbeFallsBackToFirstRow(t *testing.T) {
	content := "foo,bar\n1,2\n"

	rows, err := statement.Open(strings.NewReader(content), "x.csv",
		statement.WithHeaderProbe(func([]string) bool { return false }),
		statement.WithHeaderScanLimit(5),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo", "bar"}, rows.Header())

	got := collect(t, rows)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].Get("bar"))
}

func TestOpen_Errors(t *testing.T) {
	type testCase struct {
		name     string
		content  []byte
		fileName string
		wantErr  error
	}

	tests := []testCase{
		{name: "Empty", content: nil, fileName: "a.csv", wantErr: statement.ErrEmptyFile},
		{name: "BlankLinesOnly", content: []byte("\n\n,,\n"), fileName: "a.csv", wantErr: statement.ErrEmptyFile},
		{name: "HeaderOnly", content: []byte("Date,Description,Amount\n"), fileName: "a.csv", wantErr: statement.ErrEmptyFile},
		{name: "DeclaredXLSXButText", content: []byte("Date,Amount\n2024-01-01,1\n"), fileName: "a.xlsx", wantErr: statement.ErrUnsupportedFormat},
		{name: "DeclaredXLSButText", content: []byte("Date,Amount\n2024-01-01,1\n"), fileName: "a.xls", wantErr: statement.ErrUnsupportedFormat},
		{name: "BinaryWithoutExtension", content: []byte{0x00, 0x01, 0x02, 0x00, 0xff, 0x00}, fileName: "blob", wantErr: statement.ErrUnsupportedFormat},
		{name: "PDFExtension", content: []byte("Date,Amount\n2024-01-01,1\n"), fileName: "statement.pdf", wantErr: statement.ErrUnsupportedFormat},
		{name: "TXTExtension", content: []byte("Date,Amount\n2024-01-01,1\n"), fileName: "notes.txt", wantErr: statement.ErrUnsupportedFormat},
		{name: "JSONExtension", content: []byte("Date,Amount\n2024-01-01,1\n"), fileName: "data.json", wantErr: statement.ErrUnsupportedFormat},
		{name: "TrailingDot", content: []byte("Date,Amount\n2024-01-01,1\n"), fileName: "statement.", wantErr: statement.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := statement.Open(bytes.NewReader(tt.content), tt.fileName)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOpen_SniffsWhenExtensionMissing(t *testing.T) {
	rows, err := statement.Open(strings.NewReader("Date,Amount\n2024-01-01,1\n"), "upload")
	require.NoError(t, err)
	assert.Equal(t, statement.FormatCSV, rows.Format())
	assert.Len(t, collect(t, rows), 1)
}

func TestOpen_Windows1252CSV(t *testing.T) {
	raw, err := charmap.Windows1252.NewEncoder().Bytes([]byte("Date,Description,Amount\n2024-01-15,Café Crème,-3.00\n"))
	require.NoError(t, err)

	rows, err := statement.Open(bytes.NewReader(raw), "cafe.CSV")
	require.NoError(t, err)

	got := collect(t, rows)
	require.Len(t, got, 1)
	assert.Equal(t, "Café Crème", got[0].Get("Description"))
}

func TestOpen_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Date", "Description", "Amount"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"2024-01-15", "COFFEE SHOP", -4.5}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"2024-01-16", "SALARY", 3000}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := statement.Open(bytes.NewReader(buf.Bytes()), "jan.xlsx")
	require.NoError(t, err)
	assert.Equal(t, statement.FormatXLSX, rows.Format())

	got := collect(t, rows)
	require.Len(t, got, 2)

	assert.Equal(t, 2, got[0].Line)
	assert.Equal(t, "COFFEE SHOP", got[0].Get("Description"))
	assert.Equal(t, "-4.5", got[0].Get("Amount"))
	assert.Equal(t, "3000", got[1].Get("Amount"))
}

func TestOpen_XLS(t *testing.T) {
	data, err := os.ReadFile("testdata/statement.xls")
	require.NoError(t, err)

	probe := func(cells []string) bool {
		return len(cells) > 0 && strings.EqualFold(strings.TrimSpace(cells[0]), "date")
	}

	rows, err := statement.Open(bytes.NewReader(data), "statement.xls", statement.WithHeaderProbe(probe))
	require.NoError(t, err)
	assert.Equal(t, statement.FormatXLS, rows.Format())
	assert.Equal(t, []string{"Date", "Description", "Amount", "Balance"}, rows.Header())

	got := collect(t, rows)
	require.Len(t, got, 4)

	type want struct {
		line        int
		date        string
		description string
		amount      string
	}

	wants := []want{
		{line: 4, date: "45306", description: "COFFEE SHOP", amount: "-4.5"},
		{line: 5, date: "45307", description: "SALARY, CAFÉ ACME", amount: "3000"},
		{line: 6, date: "45308", description: "GROCERY MART", amount: "-52.37"},
		{line: 7, date: "45309", description: "REFUND", amount: "12.5"},
	}

	for i, w := range wants {
		assert.Equal(t, w.line, got[i].Line)
		assert.Equal(t, w.date, got[i].Get("Date"))
		assert.Equal(t, w.description, got[i].Get("Description"))
		assert.Equal(t, w.amount, got[i].Get("Amount"))
	}

	assert.Equal(t, "1234.56", got[2].Get("Balance"))
	assert.Equal(t, "", got[0].Get("Balance"))
}

func TestOpen_XLSWithoutProbeUsesPreamble(t *testing.T) {
	data, err := os.ReadFile("testdata/statement.xls")
	require.NoError(t, err)

	rows, err := statement.Open(bytes.NewReader(data), "statement.xls")
	require.NoError(t, err)
	assert.Equal(t, []string{"Account statement"}, rows.Header())

	got := collect(t, rows)
	require.Len(t, got, 5)
	assert.Equal(t, 3, got[0].Line)
}

func TestOpen_XLSRejectsBrokenWorkbooks(t *testing.T) {
	statementXLS, err := os.ReadFile("testdata/statement.xls")
	require.NoError(t, err)

	documentXLS, err := os.ReadFile("testdata/document.xls")
	require.NoError(t, err)

	type testCase struct {
		name    string
		content []byte
	}

	tests := []testCase{
		{name: "NoWorkbookStream", content: documentXLS},
		{name: "TruncatedStream", content: statementXLS[:1600]},
		{name: "TruncatedDirectory", content: statementXLS[:700]},
		{name: "SignatureOnly", content: statementXLS[:8]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := statement.Open(bytes.NewReader(tt.content), "statement.xls")
				assert.ErrorIs(t, err, statement.ErrUnsupportedFormat)
			})
		})
	}
}

func TestFormatFromName(t *testing.T) {
	f, ok := statement.FormatFromName("Statement.XLSX")
	assert.True(t, ok)
	assert.Equal(t, statement.FormatXLSX, f)

	_, ok = statement.FormatFromName("statement.pdf")
	assert.False(t, ok)
}

func TestRawRow_ShortRow(t *testing.T) {
	r := statement.RawRow{Header: []string{"A", "B"}, Cells: []string{" x "}}
	assert.Equal(t, "x", r.Get("a"))
	assert.Equal(t, "", r.Get("B"))
	assert.Equal(t, "", r.Get("missing"))
}
