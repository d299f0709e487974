package slip

import "github.com/damirmikic/ufc-specijal-generator/internal/market"

// Assemble monta a tabela de exportação a partir da seleção:
// cabeçalho MATCH_NAME, depois uma seção LEAGUE_NAME por categoria na ordem
// fixa, com as linhas de cada mercado na ordem de inclusão.
//
// O cabeçalho usa o nome da luta do primeiro mercado selecionado. Com lutas
// misturadas na mesma seleção as demais não aparecem no cabeçalho.
func Assemble(entries []Entry, opts Options) []Row {
	if len(entries) == 0 {
		return nil
	}

	rows := []Row{{
		Home:        MatchNamePrefix + entries[0].Match.Name,
		MatchHeader: true,
	}}

	groups := make(map[string][]Entry)
	var seen []string
	for _, e := range entries {
		section := market.Classify(e.Market.Label).Section()
		if _, ok := groups[section]; !ok {
			seen = append(seen, section)
		}
		groups[section] = append(groups[section], e)
	}

	for _, section := range sectionOrder(seen) {
		rows = append(rows, Row{
			Home:          SectionNamePrefix + section,
			SectionHeader: true,
		})
		for _, e := range groups[section] {
			rows = append(rows, BuildRows(e.Match, e.Market, opts)...)
		}
	}
	return rows
}

// sectionOrder aplica a ordem fixa e acrescenta seções fora dela na ordem em que apareceram
func sectionOrder(seen []string) []string {
	present := make(map[string]bool, len(seen))
	for _, s := range seen {
		present[s] = true
	}

	var out []string
	known := make(map[string]bool)
	for _, s := range market.SectionOrder() {
		known[s] = true
		if present[s] {
			out = append(out, s)
		}
	}
	for _, s := range seen {
		if !known[s] {
			out = append(out, s)
		}
	}
	return out
}
