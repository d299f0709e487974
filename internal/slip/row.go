package slip

import (
	"fmt"
	"strings"
)

// Column identifica uma das 13 colunas do contrato de exportação
type Column int

const (
	ColDate Column = iota
	ColTime
	ColCode
	ColHome
	ColAway
	ColOne
	ColDraw
	ColTwo
	ColLine
	ColUnder
	ColOver
	ColYes
	ColNo
)

// Columns devolve as colunas na ordem de exportação
func Columns() []Column {
	return []Column{ColDate, ColTime, ColCode, ColHome, ColAway, ColOne, ColDraw, ColTwo, ColLine, ColUnder, ColOver, ColYes, ColNo}
}

// HeaderStyle escolhe os rótulos do cabeçalho do CSV
type HeaderStyle string

const (
	HeaderEnglish HeaderStyle = "en"
	HeaderSerbian HeaderStyle = "sr"
)

var (
	englishHeader = []string{"Date", "Time", "Code", "Home", "Away", "1", "X", "2", "Line", "Under", "Over", "Yes", "No"}
	serbianHeader = []string{"Datum", "Vreme", "Sifra", "Domacin", "Gost", "1", "X", "2", "GR", "U", "O", "Yes", "No"}
	columnKeys    = []string{"date", "time", "code", "home", "away", "one", "draw", "two", "line", "under", "over", "yes", "no"}
)

// Header devolve os rótulos na ordem das colunas; estilo desconhecido cai para inglês
func Header(style HeaderStyle) []string {
	src := englishHeader
	if style == HeaderSerbian {
		src = serbianHeader
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

func (c Column) String() string {
	if c < ColDate || c > ColNo {
		return fmt.Sprintf("Column(%d)", int(c))
	}
	return englishHeader[c]
}

// ParseColumn aceita o rótulo inglês, o sérvio ou a chave minúscula ("under", "GR", "Domacin")
func ParseColumn(s string) (Column, error) {
	for _, c := range Columns() {
		if s == englishHeader[c] || s == serbianHeader[c] || strings.EqualFold(s, columnKeys[c]) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown column %q", s)
}

// Row é uma linha do CSV de exportação.
// Linhas de cabeçalho (MatchHeader/SectionHeader) só preenchem Home.
type Row struct {
	Date  string `json:"date"`
	Time  string `json:"time"`
	Code  string `json:"code"`
	Home  string `json:"home"`
	Away  string `json:"away"`
	One   string `json:"one"`
	Draw  string `json:"draw"`
	Two   string `json:"two"`
	Line  string `json:"line"`
	Under string `json:"under"`
	Over  string `json:"over"`
	Yes   string `json:"yes"`
	No    string `json:"no"`

	MatchHeader   bool `json:"isMatchName,omitempty"`
	SectionHeader bool `json:"isSectionName,omitempty"`
}

// Prefixos dos rótulos de cabeçalho esperados pela planilha
const (
	MatchNamePrefix   = "MATCH_NAME:"
	SectionNamePrefix = "LEAGUE_NAME:"
)

func (r Row) IsHeader() bool { return r.MatchHeader || r.SectionHeader }

func (r *Row) field(c Column) *string {
	switch c {
	case ColDate:
		return &r.Date
	case ColTime:
		return &r.Time
	case ColCode:
		return &r.Code
	case ColHome:
		return &r.Home
	case ColAway:
		return &r.Away
	case ColOne:
		return &r.One
	case ColDraw:
		return &r.Draw
	case ColTwo:
		return &r.Two
	case ColLine:
		return &r.Line
	case ColUnder:
		return &r.Under
	case ColOver:
		return &r.Over
	case ColYes:
		return &r.Yes
	case ColNo:
		return &r.No
	}
	return nil
}

// Get devolve o valor da coluna; coluna inválida devolve ""
func (r Row) Get(c Column) string {
	if f := r.field(c); f != nil {
		return *f
	}
	return ""
}

// Set altera a coluna; coluna inválida é ignorada
func (r *Row) Set(c Column, v string) {
	if f := r.field(c); f != nil {
		*f = v
	}
}

// Values devolve os 13 valores na ordem de exportação
func (r Row) Values() []string {
	out := make([]string, 0, len(englishHeader))
	for _, c := range Columns() {
		out = append(out, r.Get(c))
	}
	return out
}
