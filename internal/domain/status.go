package domain

import (
	"strings"
	"time"
)

type SearchType string

const (
	SearchTypeFO       SearchType = "fo"
	SearchTypeORC      SearchType = "orc"
	SearchTypeCliente  SearchType = "cliente"
	SearchTypeCampanha SearchType = "campanha"
	SearchTypeItem     SearchType = "item"
	SearchTypeGuia     SearchType = "guia"
)

// SearchTypes lists every supported type in presentation order.
var SearchTypes = []SearchType{
	SearchTypeFO,
	SearchTypeORC,
	SearchTypeCliente,
	SearchTypeCampanha,
	SearchTypeItem,
	SearchTypeGuia,
}

func ParseSearchType(raw string) (SearchType, bool) {
	value := SearchType(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range SearchTypes {
		if value == known {
			return known, true
		}
	}
	return "", false
}

// MatchMeta carries the optional identifying fields a search row exposes.
type MatchMeta struct {
	Cliente    string `json:"cliente,omitempty"`
	Campanha   string `json:"campanha,omitempty"`
	FONumber   string `json:"fo_number,omitempty"`
	NumeroORC  string `json:"numero_orc,omitempty"`
	TotalItems int    `json:"total_items,omitempty"`
}

// Match is a search-result stub. Its ID always resolves to a FO, whatever
// the type the user searched by.
type Match struct {
	Type  SearchType `json:"type"`
	ID    string     `json:"id"`
	Label string     `json:"label"`
	Meta  MatchMeta  `json:"meta"`
}

// FOStatus is the root aggregate for one Folha de Obra, rebuilt from the
// remote store on every request.
type FOStatus struct {
	ID        string       `json:"id"`
	FONumber  string       `json:"fo_number"`
	NumeroORC string       `json:"numero_orc,omitempty"`
	Cliente   string       `json:"cliente,omitempty"`
	Campanha  string       `json:"campanha,omitempty"`
	CreatedAt *time.Time   `json:"created_at,omitempty"`
	Items     []ItemStatus `json:"items"`
}

type ItemStatus struct {
	ID         string           `json:"id"`
	Descricao  string           `json:"descricao,omitempty"`
	Quantidade int              `json:"quantidade,omitempty"`
	Designer   DesignerStatus   `json:"designer"`
	Logistics  []LogisticsEntry `json:"logistics"`
}

// DesignerStatus is the derived view of the iterative approval workflow.
// Steps is keyed m1..m6, a1..a6, r1..r6; absent steps map to nil.
type DesignerStatus struct {
	Designer      string                `json:"designer,omitempty"`
	Stage         string                `json:"stage"`
	Steps         map[string]*time.Time `json:"steps"`
	Paginacao     bool                  `json:"paginacao"`
	PaginacaoDate *time.Time            `json:"paginacao_date,omitempty"`
}

type LogisticsEntry struct {
	ID             string     `json:"id"`
	Concluido      bool       `json:"concluido"`
	Guia           string     `json:"guia,omitempty"`
	Transportadora string     `json:"transportadora,omitempty"`
	LocalEntrega   string     `json:"local_entrega,omitempty"`
	Quantidade     int        `json:"quantidade,omitempty"`
	DataSaida      *time.Time `json:"data_saida,omitempty"`
	DiasProducao   int        `json:"dias_producao,omitempty"`
}
