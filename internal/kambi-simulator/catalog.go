package simulator

import (
	"math/rand"
	"time"

	"github.com/damirmikic/ufc-specijal-generator/internal/kambi"
)

// fight é uma luta do card simulado
type fight struct {
	ID    int64
	Home  string
	Away  string
	Start time.Time
}

// Card fixo usado como listView simulada
var card = []fight{
	{ID: 1021, Home: "Jon Jones", Away: "Stipe Miocic", Start: time.Date(2024, 11, 16, 3, 0, 0, 0, time.UTC)},
	{ID: 1022, Home: "Charles Oliveira", Away: "Michael Chandler", Start: time.Date(2024, 11, 16, 2, 30, 0, 0, time.UTC)},
	{ID: 1023, Home: "Bo Nickal", Away: "Paul Craig", Start: time.Date(2024, 11, 16, 2, 0, 0, 0, time.UTC)},
}

func lookup(id int64) (fight, bool) {
	for _, f := range card {
		if f.ID == id {
			return f, true
		}
	}
	return fight{}, false
}

// ListView monta a resposta listView com o card inteiro
func ListView(group string) kambi.ListViewResponse {
	resp := kambi.ListViewResponse{Events: make([]kambi.ListViewEvent, 0, len(card))}
	for _, f := range card {
		resp.Events = append(resp.Events, kambi.ListViewEvent{Event: kambi.EventDTO{
			ID:       f.ID,
			Name:     f.Home + " - " + f.Away,
			HomeName: f.Home,
			AwayName: f.Away,
			Start:    f.Start.Format(time.RFC3339),
			Group:    group,
		}})
	}
	return resp
}

// odds devolve uma odd escalada (x1000) entre min e max, arredondada para 10
func odds(r *rand.Rand, min, max float64) int64 {
	v := (r.Float64()*(max-min) + min) * 1000
	return int64(v/10) * 10
}

func line(v int64) *int64 { return &v }

// BetOffers gera os mercados de uma luta com odds aleatórias.
// Cobre todos os formatos tratados pelo gerador de boletim.
func BetOffers(f fight, r *rand.Rand) kambi.BetOfferResponse {
	outcome := func(id int64, label, typ string, min, max float64) kambi.OutcomeDTO {
		return kambi.OutcomeDTO{ID: id, Label: label, Type: typ, Odds: odds(r, min, max), Participant: f.Home}
	}
	base := f.ID * 100

	offers := []kambi.BetOfferDTO{
		{
			ID: base + 1, Criterion: kambi.CriterionDTO{Label: "Moneyline"}, BetOfferType: kambi.BetOfferType{ID: 2, Name: "Match"},
			Outcomes: []kambi.OutcomeDTO{
				outcome(base*10+1, f.Home, "OT_ONE", 1.20, 3.00),
				outcome(base*10+2, f.Away, "OT_TWO", 1.50, 4.50),
			},
		},
		{
			ID: base + 2, Criterion: kambi.CriterionDTO{Label: "Total Rounds"}, BetOfferType: kambi.BetOfferType{ID: 6, Name: "Over/Under"},
			Outcomes: []kambi.OutcomeDTO{
				{ID: base*10 + 3, Label: "Over", Type: "OT_OVER", Odds: odds(r, 1.60, 2.60), Line: line(2500)},
				{ID: base*10 + 4, Label: "Under", Type: "OT_UNDER", Odds: odds(r, 1.40, 2.40), Line: line(2500)},
			},
		},
		{
			ID: base + 3, Criterion: kambi.CriterionDTO{Label: "Total Significant Strikes Landed by " + f.Home}, BetOfferType: kambi.BetOfferType{ID: 6, Name: "Over/Under"},
			Line: line(43500),
			Outcomes: []kambi.OutcomeDTO{
				{ID: base*10 + 5, Label: "Over", Type: "OT_OVER", Odds: odds(r, 1.70, 2.10)},
				{ID: base*10 + 6, Label: "Under", Type: "OT_UNDER", Odds: odds(r, 1.70, 2.10)},
			},
		},
		{
			ID: base + 4, Criterion: kambi.CriterionDTO{Label: "Fight to go the Distance"}, BetOfferType: kambi.BetOfferType{ID: 2, Name: "Yes/No"},
			Outcomes: []kambi.OutcomeDTO{
				outcome(base*10+7, "Yes", "OT_YES", 1.80, 3.50),
				outcome(base*10+8, "No", "OT_NO", 1.20, 2.00),
			},
		},
		{
			ID: base + 5, Criterion: kambi.CriterionDTO{Label: "Winning Combinations"}, BetOfferType: kambi.BetOfferType{ID: 2},
			Outcomes: []kambi.OutcomeDTO{
				outcome(base*10+9, f.Home+" by KO/TKO", "OT_UNTYPED", 2.00, 4.00),
				outcome(base*10+10, f.Home+" by Submission", "OT_UNTYPED", 3.00, 8.00),
				outcome(base*10+11, f.Away+" by KO/TKO", "OT_UNTYPED", 3.00, 7.00),
			},
		},
		{
			ID: base + 6, Criterion: kambi.CriterionDTO{Label: f.Home + " to Win & Over 1.5 Rounds"}, BetOfferType: kambi.BetOfferType{ID: 2},
			Outcomes: []kambi.OutcomeDTO{
				outcome(base*10+12, "Yes", "OT_YES", 2.20, 4.00),
				outcome(base*10+13, "No", "OT_NO", 1.20, 1.60),
			},
		},
		{
			ID: base + 7, Criterion: kambi.CriterionDTO{Label: "Method of Victory"}, BetOfferType: kambi.BetOfferType{ID: 2},
			Outcomes: []kambi.OutcomeDTO{
				outcome(base*10+14, "Decision", "OT_UNTYPED", 2.50, 4.00),
			},
		},
		// suspensa: sem outcomes, deve ser ignorada pelo consumidor
		{ID: base + 8, Criterion: kambi.CriterionDTO{Label: "Point Deduction"}, BetOfferType: kambi.BetOfferType{ID: 2}},
	}
	return kambi.BetOfferResponse{BetOffers: offers}
}
