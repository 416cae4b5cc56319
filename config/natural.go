// MODUL: natural
// ZWECK: Natuerliche Sortierung von Architektur-Namen
// INPUT: Zwei Namen (z.B. "ViT-B-16", "ViT-B-32")
// OUTPUT: Vergleichsergebnis (-1, 0, 1)
// NEBENEFFEKTE: Keine
// ABHAENGIGKEITEN: Keine (nur Standard-Library)
// HINWEISE: Ziffernfolgen werden als Zahlen verglichen, nicht zeichenweise

package config

import (
	"strings"
	"unicode"
)

// NaturalCompare vergleicht zwei Namen in natuerlicher Ordnung:
// eingebettete Ziffernfolgen zaehlen als Zahlen ("model2" < "model10"),
// der Rest wird case-insensitiv zeichenweise verglichen.
func NaturalCompare(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)

	for a != "" && b != "" {
		ca, cb := chunk(a), chunk(b)

		var cmp int
		if isDigits(ca) && isDigits(cb) {
			cmp = compareNumeric(ca, cb)
		} else {
			cmp = strings.Compare(ca, cb)
		}
		if cmp != 0 {
			return cmp
		}

		a, b = a[len(ca):], b[len(cb):]
	}

	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

// chunk gibt den fuehrenden Block zurueck: entweder eine reine
// Ziffernfolge oder eine ziffernfreie Zeichenfolge.
func chunk(s string) string {
	digits := unicode.IsDigit(rune(s[0]))
	for i, r := range s {
		if unicode.IsDigit(r) != digits {
			return s[:i]
		}
	}
	return s
}

func isDigits(s string) bool {
	return s != "" && unicode.IsDigit(rune(s[0]))
}

// compareNumeric vergleicht zwei Ziffernfolgen als Zahlen.
// Fuehrende Nullen werden ignoriert; bei Gleichheit entscheidet die Laenge.
func compareNumeric(a, b string) int {
	ta, tb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		if len(ta) < len(tb) {
			return -1
		}
		return 1
	}
	if cmp := strings.Compare(ta, tb); cmp != 0 {
		return cmp
	}
	// gleiche Zahl: kuerzere Schreibweise ("2" vor "002") zuerst
	return len(a) - len(b)
}
