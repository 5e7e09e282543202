package models

import "fmt"

// OutcomeKind is the mutually exclusive terminal classification of an entry.
type OutcomeKind int

const (
	Pending OutcomeKind = iota
	Presentato
	Venduto
	Negativo
	Assente
	Miss
)

var outcomeNames = map[OutcomeKind]string{
	Pending:    "pending",
	Presentato: "presentato",
	Venduto:    "venduto",
	Negativo:   "negativo",
	Assente:    "assente",
	Miss:       "miss",
}

func (k OutcomeKind) String() string {
	if s, ok := outcomeNames[k]; ok {
		return s
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// ParseOutcomeKind maps a name (as printed by String) back to a kind.
func ParseOutcomeKind(s string) (OutcomeKind, bool) {
	for k, name := range outcomeNames {
		if name == s {
			return k, true
		}
	}
	return Pending, false
}

// Outcome is the in-memory variant Pending | Presentato | Venduto{product} |
// Negativo | Assente | Miss.
//
// Presented records that the client physically showed up. It is implied by
// Presentato and Venduto and may accompany Negativo (declined after the
// visit). Product is the subscription type sold and is only set for Venduto.
type Outcome struct {
	Kind      OutcomeKind
	Presented bool
	Product   string
}

// Flags is the boolean storage shape of an outcome. It only exists at the
// store-adapter boundary.
type Flags struct {
	Presentato bool
	Venduto    bool
	Negativo   bool
	Assente    bool
	Miss       bool
}

// Flags serialises o to the storage shape.
func (o Outcome) Flags() Flags {
	switch o.Kind {
	case Presentato:
		return Flags{Presentato: true}
	case Venduto:
		return Flags{Presentato: true, Venduto: true}
	case Negativo:
		return Flags{Presentato: o.Presented, Negativo: true}
	case Assente:
		return Flags{Assente: true}
	case Miss:
		return Flags{Miss: true}
	default:
		return Flags{}
	}
}

// OutcomeFromFlags reads the storage shape. Rows written before the
// exclusion rules were enforced may carry contradictory flags; they are
// normalised with the precedence venduto > miss > assente > negativo >
// presentato.
func OutcomeFromFlags(f Flags, product string) Outcome {
	switch {
	case f.Venduto:
		return Outcome{Kind: Venduto, Presented: true, Product: product}
	case f.Miss:
		return Outcome{Kind: Miss}
	case f.Assente:
		return Outcome{Kind: Assente}
	case f.Negativo:
		return Outcome{Kind: Negativo, Presented: f.Presentato}
	case f.Presentato:
		return Outcome{Kind: Presentato, Presented: true}
	default:
		return Outcome{Kind: Pending}
	}
}

// Has reports whether the flag for k is currently set.
func (o Outcome) Has(k OutcomeKind) bool {
	switch k {
	case Presentato:
		return o.Presented || o.Kind == Presentato || o.Kind == Venduto
	case Pending:
		return o.Kind == Pending
	default:
		return o.Kind == k
	}
}

func (o Outcome) String() string {
	if o.Kind == Venduto && o.Product != "" {
		return fmt.Sprintf("venduto{%s}", o.Product)
	}
	if o.Kind == Negativo && o.Presented {
		return "negativo (presentato)"
	}
	return o.Kind.String()
}
