package export

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/damirmikic/ufc-specijal-generator/internal/slip"
)

// ErrBadHeader indica um CSV cujo cabeçalho não tem as 13 colunas esperadas
var ErrBadHeader = errors.New("export: unexpected csv header")

// Filename devolve o nome do arquivo de exportação para a data (UTC) informada
func Filename(t time.Time) string {
	return "mma_odds_" + t.UTC().Format("2006-01-02") + ".csv"
}

// Encode escreve o cabeçalho e uma linha por Row.
// Todo campo vai entre aspas, aspas internas são duplicadas e as linhas
// são separadas por "\n" sem quebra no final. Um "\r\n" dentro de um campo
// volta como "\n" no Parse; a sessão normaliza as edições antes de gravar.
func Encode(w io.Writer, rows []slip.Row, header []string) error {
	bw := bufio.NewWriter(w)

	writeRecord(bw, header)
	for _, r := range rows {
		bw.WriteByte('\n')
		writeRecord(bw, r.Values())
	}
	return bw.Flush()
}

func writeRecord(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.WriteByte('"')
	}
}

// Parse lê de volta um CSV gerado por Encode.
// Linhas com prefixo MATCH_NAME:/LEAGUE_NAME: em Home voltam marcadas como cabeçalho.
func Parse(r io.Reader) (header []string, rows []slip.Row, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(slip.Columns())

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, ErrBadHeader
	}

	header = records[0]
	for _, rec := range records[1:] {
		var row slip.Row
		for i, c := range slip.Columns() {
			row.Set(c, rec[i])
		}
		row.MatchHeader = strings.HasPrefix(row.Home, slip.MatchNamePrefix)
		row.SectionHeader = strings.HasPrefix(row.Home, slip.SectionNamePrefix)
		rows = append(rows, row)
	}
	return header, rows, nil
}
