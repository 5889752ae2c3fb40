package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSemicolon(t *testing.T, data string) []Record {
	t.Helper()
	recs, err := NewDelimitedParser(FormatSemicolon, ';').Parse(strings.NewReader(data))
	require.NoError(t, err)
	return recs
}

func TestDelimitedParser_Parse(t *testing.T) {
	recs := parseSemicolon(t, "date;description;amount\n"+
		"2023-05-01;Test transaction 1;70.0\n"+
		"2023-05-02;Test transaction 2;-25.5\n"+
		"2023-05-03;Test transaction 3;10.0\n")
	require.Len(t, recs, 3)

	assert.Equal(t, Record{Row: 2, Date: "2023-05-01", Description: "Test transaction 1", Amount: "70.0"}, recs[0])
	assert.Equal(t, "-25.5", recs[1].Amount)
	assert.Equal(t, 4, recs[2].Row)
}

func TestDelimitedParser_ColumnOrder(t *testing.T) {
	recs := parseSemicolon(t, "amount;date;description\n12.50;2023-05-01;coffee beans\n")
	require.Len(t, recs, 1)
	assert.Equal(t, "2023-05-01", recs[0].Date)
	assert.Equal(t, "coffee beans", recs[0].Description)
	assert.Equal(t, "12.50", recs[0].Amount)
}

func TestDelimitedParser_ShortRow(t *testing.T) {
	recs := parseSemicolon(t, "date;description;amount\n2023-05-01;no amount here\n")
	require.Len(t, recs, 1)
	assert.Equal(t, "no amount here", recs[0].Description)
	assert.Empty(t, recs[0].Amount)
}

func TestDelimitedParser_MissingColumn(t *testing.T) {
	recs := parseSemicolon(t, "date;description\n2023-05-01;rent\n")
	require.Len(t, recs, 1)
	assert.Empty(t, recs[0].Amount)
}

func TestDelimitedParser_HeaderIsCaseSensitive(t *testing.T) {
	recs := parseSemicolon(t, "Date;Description;Amount\n2023-05-01;rent;-500\n")
	require.Len(t, recs, 1)
	assert.Equal(t, Record{Row: 2}, recs[0])
}

func TestDelimitedParser_Empty(t *testing.T) {
	assert.Nil(t, parseSemicolon(t, ""))
	assert.Nil(t, parseSemicolon(t, "date;description;amount\n"))
}

func TestDelimitedParser_ByteOrderMark(t *testing.T) {
	recs := parseSemicolon(t, "\ufeffdate;description;amount\n2023-05-01;rent;-500\n")
	require.Len(t, recs, 1)
	assert.Equal(t, "2023-05-01", recs[0].Date)
}

func TestDelimitedParser_TrimsDateAndAmount(t *testing.T) {
	recs := parseSemicolon(t, "date;description;amount\n 2023-05-01 ; padded ; 70.00 \n")
	require.Len(t, recs, 1)
	assert.Equal(t, "2023-05-01", recs[0].Date)
	assert.Equal(t, " padded ", recs[0].Description)
	assert.Equal(t, "70.00", recs[0].Amount)
}

func TestDelimitedParser_QuotedDelimiter(t *testing.T) {
	recs := parseSemicolon(t, "date;description;amount\n2023-05-01;\"fees; interest\";-3.10\n")
	require.Len(t, recs, 1)
	assert.Equal(t, "fees; interest", recs[0].Description)
}

func TestDelimitedParser_SkipsBlankLines(t *testing.T) {
	recs := parseSemicolon(t, "date;description;amount\n\n2023-05-01;rent;-500\n\n")
	require.Len(t, recs, 1)
	assert.Equal(t, 3, recs[0].Row)
}

func TestDelimitedParser_RowIsFileLine(t *testing.T) {
	recs := parseSemicolon(t, "date;description;amount\n"+
		"2023-05-01;\"split\nacross lines\";-1.00\n"+
		"\n\n"+
		"2023-05-02;;-2.00\n")
	require.Len(t, recs, 2)
	assert.Equal(t, 2, recs[0].Row)
	assert.Equal(t, "split\nacross lines", recs[0].Description)
	assert.Equal(t, 6, recs[1].Row)

	_, err := ValidateRecord(recs[1])
	assert.ErrorContains(t, err, "row 6 is missing required data (description)")
}

func TestDelimitedParser_Comma(t *testing.T) {
	p, err := BuiltinRegistry().Lookup(FormatComma)
	require.NoError(t, err)
	recs, err := p.Parse(strings.NewReader("date,description,amount\n2023-05-01,rent,-500\n"))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "-500", recs[0].Amount)
}

func TestRegistry_LookupUnknown(t *testing.T) {
	_, err := BuiltinRegistry().Lookup("tsv")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.EqualError(t, err, `unknown import format "tsv" (known: comma, semicolon)`)
}

func TestRegistry_LookupIgnoresCase(t *testing.T) {
	r := BuiltinRegistry()
	for _, name := range []string{"Semicolon", "COMMA", " comma "} {
		p, err := r.Lookup(name)
		require.NoError(t, err, name)
		assert.NotNil(t, p)
	}
}

func TestNewRegistry_DuplicateFormat(t *testing.T) {
	_, err := NewRegistry(NewDelimitedParser("tab", '\t'), NewDelimitedParser("TAB", '\t'))
	assert.ErrorContains(t, err, `format "tab" registered twice`)
}

func TestNewRegistry_Empty(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)
	assert.Empty(t, r.Formats())
	_, err = r.Lookup(FormatSemicolon)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
