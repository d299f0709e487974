package market

import (
	"sort"
	"strings"
)

// Group é um bloco de mercados de uma mesma categoria na listagem de odds
type Group struct {
	Category Category `json:"category"`
	Section  string   `json:"section"`
	Markets  []Market `json:"markets"`
}

// GroupForDisplay agrupa por categoria na ordem de prioridade e ordena
// alfabeticamente dentro de cada grupo. Só para listagem: a exportação
// mantém a ordem de inclusão.
func GroupForDisplay(markets []Market) []Group {
	byCat := make(map[Category][]Market)
	for _, m := range markets {
		c := Classify(m.Label)
		byCat[c] = append(byCat[c], m)
	}

	var out []Group
	for _, c := range Categories() {
		ms, ok := byCat[c]
		if !ok {
			continue
		}
		sort.SliceStable(ms, func(i, j int) bool { return labelLess(ms[i].Label, ms[j].Label) })
		out = append(out, Group{Category: c, Section: c.Section(), Markets: ms})
	}
	return out
}

// labelLess ordena sem diferenciar maiúsculas; empate cai para o rótulo bruto
func labelLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}
