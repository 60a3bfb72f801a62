package finance

import (
	"strings"
	"unicode"

	"github.com/feedlot/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Classifier maps free-form or coded ledger categories to accounting
// groups. The group table is injected at construction time and treated
// as immutable.
//
// Matching order, first match wins:
//  1. Exact match against a group's canonical category names
//  2. Exact match against a group's alternate codes
//  3. Substring match in either direction
//  4. Default bucket by transaction sign
//
// Exact matches are authoritative; substring matches are a best-effort
// fallback for free-text legacy data; the default bucket guarantees that
// every transaction lands in exactly one group.
type Classifier struct {
	groups []AccountingGroup
	byName map[string]int
	byCode map[string]int
	byID   map[GroupID]int
}

// NewClassifier creates a classifier over an immutable group table.
// The table must contain the two default buckets (other revenue and
// administrative expenses) so that unmapped categories always resolve.
func NewClassifier(groups []AccountingGroup) (*Classifier, error) {
	if len(groups) == 0 {
		return nil, shared.NewDomainError("INVALID_GROUPS", "Accounting group table cannot be empty")
	}

	c := &Classifier{
		groups: make([]AccountingGroup, len(groups)),
		byName: make(map[string]int),
		byCode: make(map[string]int),
		byID:   make(map[GroupID]int),
	}
	copy(c.groups, groups)

	for i, g := range c.groups {
		if !g.Type.IsValid() {
			return nil, shared.NewDomainError("INVALID_GROUPS", "Accounting group type is not valid")
		}
		c.byID[g.ID] = i
		for _, name := range g.Categories {
			c.byName[normalizeCategory(name)] = i
		}
		for _, code := range g.Codes {
			c.byCode[normalizeCategory(code)] = i
		}
	}

	if _, ok := c.byID[GroupOtherRevenue]; !ok {
		return nil, shared.NewDomainError("INVALID_GROUPS", "Group table is missing the default revenue bucket")
	}
	if _, ok := c.byID[GroupAdminExpenses]; !ok {
		return nil, shared.NewDomainError("INVALID_GROUPS", "Group table is missing the default expense bucket")
	}

	return c, nil
}

// NewDefaultClassifier creates a classifier over the standard feedlot group table
func NewDefaultClassifier() *Classifier {
	c, err := NewClassifier(DefaultAccountingGroups())
	if err != nil {
		panic(err) // The default table is statically valid
	}
	return c
}

// Groups returns a copy of the configured group table in statement order
func (c *Classifier) Groups() []AccountingGroup {
	out := make([]AccountingGroup, len(c.groups))
	copy(out, c.groups)
	return out
}

// GroupByID returns the group with the given ID
func (c *Classifier) GroupByID(id GroupID) (AccountingGroup, bool) {
	i, ok := c.byID[id]
	if !ok {
		return AccountingGroup{}, false
	}
	return c.groups[i], true
}

// Classify maps a raw category to exactly one accounting group. It never
// fails: categories that match nothing fall into the default bucket for
// the transaction's type.
func (c *Classifier) Classify(rawCategory string, txType TransactionType) AccountingGroup {
	normalized := normalizeCategory(rawCategory)

	if normalized != "" {
		if i, ok := c.byName[normalized]; ok {
			return c.groups[i]
		}
		if i, ok := c.byCode[normalized]; ok {
			return c.groups[i]
		}
		// Substring fallback for free-text legacy data, scanned in
		// statement order so the result is deterministic.
		for i, g := range c.groups {
			for _, name := range g.Categories {
				n := normalizeCategory(name)
				if strings.Contains(normalized, n) || strings.Contains(n, normalized) {
					return c.groups[i]
				}
			}
			for _, code := range g.Codes {
				n := normalizeCategory(code)
				if strings.Contains(normalized, n) || strings.Contains(n, normalized) {
					return c.groups[i]
				}
			}
		}
	}

	return c.defaultGroup(txType)
}

// ClassifyTransaction maps a transaction to its accounting group
func (c *Classifier) ClassifyTransaction(tx *FinancialTransaction) AccountingGroup {
	return c.Classify(tx.RawCategory, tx.Type)
}

// GroupTotals partitions the given transactions into group totals of
// absolute amounts. Every transaction contributes to exactly one group,
// so the totals always sum to the sum of raw transaction amounts.
func (c *Classifier) GroupTotals(transactions []FinancialTransaction) map[GroupID]decimal.Decimal {
	totals := make(map[GroupID]decimal.Decimal)
	for i := range transactions {
		group := c.ClassifyTransaction(&transactions[i])
		totals[group.ID] = totals[group.ID].Add(transactions[i].Amount)
	}
	return totals
}

func (c *Classifier) defaultGroup(txType TransactionType) AccountingGroup {
	if txType == TransactionTypeIncome {
		return c.groups[c.byID[GroupOtherRevenue]]
	}
	return c.groups[c.byID[GroupAdminExpenses]]
}

// stripDiacritics removes combining marks so that accented Portuguese
// category names ("Ração") match their unaccented spellings ("racao").
var stripDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

func normalizeCategory(s string) string {
	folded, _, err := transform.String(stripDiacritics, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
