package market

import "strings"

// Category é o grupo semântico de um mercado
type Category string

const (
	CategoryMoneyline           Category = "moneyline"
	CategoryWinningCombinations Category = "winning-combinations"
	CategoryRoundDistance       Category = "round-distance"
	CategoryMethod              Category = "method"
	CategoryTotals              Category = "totals"
	CategoryProps               Category = "props"
	CategoryOther               Category = "other"
)

type keywordRule struct {
	category Category
	section  string
	keywords []string
}

// A ordem importa: rótulos como "Total Rounds" casam com mais de uma regra
// e a primeira vence.
var keywordRules = []keywordRule{
	{CategoryMoneyline, "Match Winner", []string{"moneyline", "winner", "to win"}},
	{CategoryWinningCombinations, "Winning Combinations", []string{"winning combinations", "winning combination"}},
	{CategoryRoundDistance, "Round & Distance", []string{"round", "distance"}},
	{CategoryMethod, "Method of Victory", []string{"method", "finish", "decision"}},
	{CategoryTotals, "Totals", []string{"over", "under", "total"}},
	{CategoryProps, "Props & Specials", []string{"prop", "special"}},
}

const otherSection = "Other Markets"

// Classify devolve a categoria do mercado a partir do rótulo
func Classify(label string) Category {
	l := strings.ToLower(label)
	for _, r := range keywordRules {
		for _, kw := range r.keywords {
			if strings.Contains(l, kw) {
				return r.category
			}
		}
	}
	return CategoryOther
}

// Section é o nome legível da categoria, usado nos cabeçalhos LEAGUE_NAME
func (c Category) Section() string {
	for _, r := range keywordRules {
		if r.category == c {
			return r.section
		}
	}
	return otherSection
}

// Categories devolve todas as categorias na ordem de prioridade, com "other" no fim
func Categories() []Category {
	out := make([]Category, 0, len(keywordRules)+1)
	for _, r := range keywordRules {
		out = append(out, r.category)
	}
	return append(out, CategoryOther)
}

// SectionOrder devolve os nomes de seção na mesma ordem de Categories
func SectionOrder() []string {
	cats := Categories()
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.Section()
	}
	return out
}
