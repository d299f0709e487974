package kambi

import (
	"time"

	"github.com/damirmikic/ufc-specijal-generator/internal/market"
)

func orUnknown(s string) string {
	if s == "" {
		return market.Unknown
	}
	return s
}

// ToMatches converte a listView em lutas; datas inválidas viram time.Time zero
func ToMatches(resp ListViewResponse) []market.Match {
	out := make([]market.Match, 0, len(resp.Events))
	for _, ev := range resp.Events {
		e := ev.Event
		start, _ := time.Parse(time.RFC3339, e.Start)
		out = append(out, market.Match{
			ID:       e.ID,
			Name:     orUnknown(e.Name),
			HomeName: orUnknown(e.HomeName),
			AwayName: orUnknown(e.AwayName),
			Start:    start,
			Group:    e.Group,
		})
	}
	return out
}

// ToMarkets converte as betOffers de uma luta, descartando ofertas sem outcomes
func ToMarkets(resp BetOfferResponse) []market.Market {
	out := make([]market.Market, 0, len(resp.BetOffers))
	for _, bo := range resp.BetOffers {
		if bo.Outcomes == nil {
			continue
		}
		m := market.Market{
			ID:       bo.ID,
			Label:    orUnknown(bo.Criterion.Label),
			TypeID:   bo.BetOfferType.ID,
			Line:     bo.Line,
			Outcomes: make([]market.Outcome, 0, len(bo.Outcomes)),
		}
		for _, o := range bo.Outcomes {
			m.Outcomes = append(m.Outcomes, market.Outcome{
				ID:          o.ID,
				Participant: orUnknown(o.Participant),
				Odds:        o.Odds,
				Label:       orUnknown(o.Label),
				Kind:        market.KindFromType(o.Type),
				RawType:     o.Type,
				Line:        o.Line,
			})
		}
		out = append(out, m)
	}
	return out
}
