package market

import (
	"strconv"
	"time"
)

// TypeOverUnder é o betOfferType da Kambi para mercados com linha numérica
const TypeOverUnder = 6

// Unknown substitui rótulos e nomes ausentes no payload do fornecedor
const Unknown = "Unknown"

// OutcomeKind classifica o resultado a partir da tag de tipo do fornecedor
type OutcomeKind string

const (
	KindOver  OutcomeKind = "over"
	KindUnder OutcomeKind = "under"
	KindYes   OutcomeKind = "yes"
	KindNo    OutcomeKind = "no"
	KindOther OutcomeKind = "other"
)

// KindFromType converte a tag da Kambi (OT_OVER, OT_UNDER, ...) em OutcomeKind
func KindFromType(t string) OutcomeKind {
	switch t {
	case "OT_OVER":
		return KindOver
	case "OT_UNDER":
		return KindUnder
	case "OT_YES":
		return KindYes
	case "OT_NO":
		return KindNo
	default:
		return KindOther
	}
}

// Match representa uma luta (evento) da listView
type Match struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	HomeName string    `json:"homeName"`
	AwayName string    `json:"awayName"`
	Start    time.Time `json:"start"`
	Group    string    `json:"group"`
}

// DisplayLabel é o rótulo usado na lista de seleção: "<nome> - <DD/MM/YYYY>"
func (m Match) DisplayLabel(loc *time.Location) string {
	return m.Name + " - " + FormatDate(m.Start, loc)
}

// Outcome é um resultado possível dentro de um mercado.
// Odds e Line chegam escalados por 1000.
type Outcome struct {
	ID          int64       `json:"id"`
	Participant string      `json:"participant"`
	Odds        int64       `json:"odds"`
	Label       string      `json:"label"`
	Kind        OutcomeKind `json:"kind"`
	RawType     string      `json:"type"`
	Line        *int64      `json:"line,omitempty"`
}

// Market é uma oferta de aposta (betOffer) de uma luta
type Market struct {
	ID       int64     `json:"id"`
	Label    string    `json:"label"`
	TypeID   int       `json:"typeId"`
	Line     *int64    `json:"line,omitempty"`
	Outcomes []Outcome `json:"outcomes"`
}

func (m Market) IsOverUnder() bool { return m.TypeID == TypeOverUnder }

// Key é a chave composta (luta, mercado) usada na seleção para exportação
func Key(matchID, marketID int64) string {
	return strconv.FormatInt(matchID, 10) + "_" + strconv.FormatInt(marketID, 10)
}
