package slip

import (
	"regexp"
	"strings"
	"time"

	"github.com/damirmikic/ufc-specijal-generator/internal/market"
)

// Affirmative é o valor fixo da coluna Away nas linhas de mercados sim/não
const Affirmative = "DA"

// Options controla a formatação das linhas
type Options struct {
	Location *time.Location // fuso das colunas Date/Time; nil = UTC
}

type rule struct {
	name  string
	match func(m market.Market, label string) bool
	build func(match market.Match, m market.Market, base Row) []Row
}

// winAndRounds cobre os rótulos compostos "vitória + over/under/total de rounds"
var winAndRounds = []*regexp.Regexp{
	regexp.MustCompile(`(?i)win\s*&\s*(over|under)\s*\d+\.?\d*\s*rounds?`),
	regexp.MustCompile(`(?i)to\s*win\s*&\s*(over|under)`),
	regexp.MustCompile(`(?i)win\s*&\s*(go\s*)?(over|under)`),
	regexp.MustCompile(`(?i)win.*&.*(over|under).*rounds?`),
	regexp.MustCompile(`(?i)(over|under).*rounds?.*win`),
	regexp.MustCompile(`(?i)win.*&.*total.*rounds?`),
	regexp.MustCompile(`(?i)total.*rounds?.*win`),
	regexp.MustCompile(`(?i)fighter.*win.*total.*rounds?`),
}

func isWinAndRounds(label string) bool {
	for _, re := range winAndRounds {
		if re.MatchString(label) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// rules é avaliada em ordem; a primeira regra que casa produz as linhas.
// significant strikes vem antes do over/under para manter uma linha por lado.
var rules = []rule{
	{
		name:  "significant-strikes",
		match: func(_ market.Market, l string) bool { return strings.Contains(l, "significant strikes") },
		build: buildPerOutcomeWithSide,
	},
	{
		name:  "over-under",
		match: func(m market.Market, _ string) bool { return m.IsOverUnder() },
		build: buildOverUnder,
	},
	{
		name:  "win-and-rounds",
		match: func(m market.Market, _ string) bool { return isWinAndRounds(m.Label) },
		build: buildAffirmative,
	},
	{
		name: "outcome-list",
		match: func(_ market.Market, l string) bool {
			return containsAny(l, "winning combinations", "winning combination", "alternate winning combination",
				"winning round", "alternate winning method")
		},
		build: buildPerOutcome,
	},
	{
		name: "round-distance",
		match: func(_ market.Market, l string) bool {
			return containsAny(l, "round", "distance") && !strings.Contains(l, "winning round")
		},
		build: buildAffirmativeOrPerOutcome,
	},
	{
		name:  "default",
		match: func(market.Market, string) bool { return true },
		build: buildAffirmative,
	},
}

// RuleFor devolve o nome da regra que trata o mercado
func RuleFor(m market.Market) string {
	return findRule(m).name
}

func findRule(m market.Market) rule {
	l := strings.ToLower(m.Label)
	for _, r := range rules {
		if r.match(m, l) {
			return r
		}
	}
	return rules[len(rules)-1]
}

// BuildRows converte um par (luta, mercado) em zero ou mais linhas.
// Dados ausentes viram campos vazios; nunca falha.
func BuildRows(match market.Match, m market.Market, opts Options) []Row {
	base := Row{
		Date: market.FormatDate(match.Start, opts.Location),
		Time: market.FormatTime(match.Start, opts.Location),
		Away: Affirmative,
	}
	return findRule(m).build(match, m, base)
}

// AffirmativeOutcome procura o resultado "sim": rótulo com yes/da, ou sem no/ne
func AffirmativeOutcome(outcomes []market.Outcome) (market.Outcome, bool) {
	for _, o := range outcomes {
		l := strings.ToLower(o.Label)
		if containsAny(l, "yes", "da") || !containsAny(l, "no", "ne") {
			return o, true
		}
	}
	return market.Outcome{}, false
}

func buildOverUnder(match market.Match, m market.Market, base Row) []Row {
	row := base
	row.Home = market.StripFighterNames(m.Label, match.HomeName, match.AwayName)

	var line string
	for _, o := range m.Outcomes {
		switch o.Kind {
		case market.KindOver:
			row.Over = market.FormatOdds(o.Odds)
			if o.Line != nil {
				line = market.FormatLine(o.Line)
			}
		case market.KindUnder:
			row.Under = market.FormatOdds(o.Odds)
			if o.Line != nil && line == "" {
				line = market.FormatLine(o.Line)
			}
		}
	}
	if line == "" {
		line = market.FormatLine(m.Line)
	}
	row.Line = line
	return []Row{row}
}

func buildPerOutcomeWithSide(_ market.Match, m market.Market, base Row) []Row {
	rows := make([]Row, 0, len(m.Outcomes))
	for _, o := range m.Outcomes {
		row := base
		row.Home = m.Label
		row.Away = o.Label
		row.One = market.FormatOdds(o.Odds)
		row.Line = market.FormatLine(o.Line)
		if row.Line == "" {
			row.Line = market.FormatLine(m.Line)
		}
		rows = append(rows, row)
	}
	return rows
}

func buildPerOutcome(_ market.Match, m market.Market, base Row) []Row {
	rows := make([]Row, 0, len(m.Outcomes))
	for _, o := range m.Outcomes {
		row := base
		row.Home = o.Label
		row.One = market.FormatOdds(o.Odds)
		rows = append(rows, row)
	}
	return rows
}

func buildAffirmative(_ market.Match, m market.Market, base Row) []Row {
	o, ok := AffirmativeOutcome(m.Outcomes)
	if !ok {
		return nil
	}
	row := base
	row.Home = m.Label
	row.One = market.FormatOdds(o.Odds)
	return []Row{row}
}

func buildAffirmativeOrPerOutcome(match market.Match, m market.Market, base Row) []Row {
	if _, ok := AffirmativeOutcome(m.Outcomes); ok {
		return buildAffirmative(match, m, base)
	}
	return buildPerOutcome(match, m, base)
}
