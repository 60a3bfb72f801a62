package finance

import "time"

// CashFlowActivity classifies a cash movement into the standard
// statement-of-cash-flows activity buckets
type CashFlowActivity string

const (
	ActivityOperating CashFlowActivity = "OPERATING"
	ActivityInvesting CashFlowActivity = "INVESTING"
	ActivityFinancing CashFlowActivity = "FINANCING"
)

// IsValid checks if the activity is a valid CashFlowActivity
func (a CashFlowActivity) IsValid() bool {
	return a == ActivityOperating || a == ActivityInvesting || a == ActivityFinancing
}

// String returns the string representation of CashFlowActivity
func (a CashFlowActivity) String() string {
	return string(a)
}

// NonCashKind identifies the bucket of a non-cash adjustment
type NonCashKind string

const (
	NonCashDepreciation NonCashKind = "DEPRECIATION"
	NonCashMortality    NonCashKind = "MORTALITY"
	NonCashBiological   NonCashKind = "BIOLOGICAL"
	NonCashOther        NonCashKind = "OTHER"
)

// CashClassification is the per-transaction verdict of the splitter:
// whether the transaction moves cash, when, under which activity, and
// whether it is a pure valuation adjustment.
type CashClassification struct {
	ImpactsCash  bool
	CashFlowDate *time.Time
	Activity     CashFlowActivity
	NonCash      bool
	NonCashKind  NonCashKind
	Group        AccountingGroup
}

// Splitter decides, per transaction, whether it affects cash now, later,
// or never. Mortality and weight-loss entries are valuation write-offs
// and never move cash, regardless of payment status.
type Splitter struct {
	classifier *Classifier
}

// NewSplitter creates a splitter over the given classifier
func NewSplitter(classifier *Classifier) *Splitter {
	return &Splitter{classifier: classifier}
}

// Split classifies one transaction. It never fails: the classifier
// guarantees a group, and the activity mapping covers every group.
func (s *Splitter) Split(tx *FinancialTransaction) CashClassification {
	group := s.classifier.ClassifyTransaction(tx)

	if kind, nonCash := nonCashKindFor(tx, group); nonCash {
		return CashClassification{
			ImpactsCash: false,
			Activity:    activityFor(group.ID),
			NonCash:     true,
			NonCashKind: kind,
			Group:       group,
		}
	}

	impactsCash := tx.ImpactsCash && tx.CashFlowDate != nil
	return CashClassification{
		ImpactsCash:  impactsCash,
		CashFlowDate: tx.CashFlowDate,
		Activity:     activityFor(group.ID),
		Group:        group,
	}
}

// activityFor derives the cash-flow activity from the accounting group:
// equipment and infrastructure spending is investing, loans and interest
// are financing, everything else in a feedlot operation is operating.
func activityFor(id GroupID) CashFlowActivity {
	switch id {
	case GroupInfrastructure:
		return ActivityInvesting
	case GroupFinancialExpenses:
		return ActivityFinancing
	default:
		return ActivityOperating
	}
}

// nonCashKindFor flags valuation adjustments. Operational losses
// (mortality, weight loss) are always non-cash. Depreciation and
// biological revaluations arrive as explicitly non-cash transactions
// with their own raw categories.
func nonCashKindFor(tx *FinancialTransaction, group AccountingGroup) (NonCashKind, bool) {
	if group.ID == GroupOperationalLosses {
		return NonCashMortality, true
	}

	switch normalizeCategory(tx.RawCategory) {
	case "depreciation", "depreciacao":
		return NonCashDepreciation, true
	case "biological_adjustment", "ajuste biologico", "ajuste de ativo biologico":
		return NonCashBiological, true
	}

	// Unpaid transactions outside these categories are pending accruals,
	// not non-cash adjustments.
	return "", false
}
