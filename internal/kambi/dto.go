package kambi

// Payloads da offering API da Kambi (apenas os campos consumidos)

type ListViewResponse struct {
	Events []ListViewEvent `json:"events"`
}

type ListViewEvent struct {
	Event EventDTO `json:"event"`
}

type EventDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name,omitempty"`
	HomeName string `json:"homeName,omitempty"`
	AwayName string `json:"awayName,omitempty"`
	Start    string `json:"start,omitempty"` // RFC3339, ex.: "2024-11-16T03:00:00Z"
	Group    string `json:"group,omitempty"`
}

type BetOfferResponse struct {
	BetOffers []BetOfferDTO `json:"betOffers"`
}

type BetOfferDTO struct {
	ID           int64        `json:"id"`
	Criterion    CriterionDTO `json:"criterion"`
	BetOfferType BetOfferType `json:"betOfferType"`
	Line         *int64       `json:"line,omitempty"`
	// nil quando o payload não traz o array; ofertas assim são descartadas
	Outcomes []OutcomeDTO `json:"outcomes"`
}

type CriterionDTO struct {
	Label string `json:"label,omitempty"`
}

type BetOfferType struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
}

type OutcomeDTO struct {
	ID          int64  `json:"id"`
	Label       string `json:"label,omitempty"`
	Odds        int64  `json:"odds,omitempty"`
	Type        string `json:"type,omitempty"`
	Line        *int64 `json:"line,omitempty"`
	Participant string `json:"participant,omitempty"`
}
