package finance

// GroupType indicates whether an accounting group collects revenue or expense
type GroupType string

const (
	GroupTypeRevenue GroupType = "REVENUE"
	GroupTypeExpense GroupType = "EXPENSE"
)

// IsValid checks if the type is a valid GroupType
func (t GroupType) IsValid() bool {
	return t == GroupTypeRevenue || t == GroupTypeExpense
}

// String returns the string representation of GroupType
func (t GroupType) String() string {
	return string(t)
}

// GroupID identifies a normalized accounting group used in the income statement
type GroupID string

const (
	GroupOperationalRevenue GroupID = "operational_revenue"
	GroupOtherRevenue       GroupID = "other_revenue"
	GroupAcquisitionCosts   GroupID = "acquisition_costs"
	GroupLogisticsCosts     GroupID = "logistics_costs"
	GroupCommissionCosts    GroupID = "commission_costs"
	GroupProductionExpenses GroupID = "production_expenses"
	GroupOperationalLosses  GroupID = "operational_losses"
	GroupInfrastructure     GroupID = "infrastructure_investments"
	GroupAdminExpenses      GroupID = "admin_expenses"
	GroupFinancialExpenses  GroupID = "financial_expenses"
)

// AccountingGroup is a normalized bucket absorbing raw ledger categories.
// Groups are static configuration injected into the Classifier, never
// mutated at runtime.
type AccountingGroup struct {
	ID          GroupID   `json:"id"`
	Name        string    `json:"name"`
	Type        GroupType `json:"type"`
	Order       int       `json:"order"` // Statement layout rank
	Categories  []string  `json:"categories"` // Canonical category names (legacy Portuguese free text included)
	Codes       []string  `json:"codes"`      // Alternate machine codes
	Description string    `json:"description,omitempty"`
}

// IsRevenue returns true for revenue groups
func (g AccountingGroup) IsRevenue() bool {
	return g.Type == GroupTypeRevenue
}

// DefaultAccountingGroups returns the standard chart of accounting groups
// for a feedlot operation. Category lists carry both machine codes and the
// Portuguese display names used by the legacy cash-flow screens, so that
// free-text ledger data classifies the same way it always has.
func DefaultAccountingGroups() []AccountingGroup {
	return []AccountingGroup{
		{
			ID:    GroupOperationalRevenue,
			Name:  "Receita Operacional Bruta",
			Type:  GroupTypeRevenue,
			Order: 1,
			Categories: []string{
				"Venda de Gado Gordo", "Venda de Bezerros", "Venda de Matrizes",
				"Venda de Reprodutores", "Venda de Esterco", "Venda de Couro",
			},
			Codes:       []string{"cattle_sales", "product_sales"},
			Description: "Vendas de gado e produtos relacionados",
		},
		{
			ID:    GroupOtherRevenue,
			Name:  "Outras Receitas",
			Type:  GroupTypeRevenue,
			Order: 2,
			Categories: []string{
				"Arrendamento de Pasto", "Aluguel de Curral", "Prestação de Serviços",
				"Rendimentos Financeiros", "Juros Recebidos", "Dividendos",
				"Indenizações", "Prêmios e Bonificações", "Outras Receitas",
			},
			Codes:       []string{"service_income", "other_income"},
			Description: "Receitas não operacionais",
		},
		{
			ID:    GroupAcquisitionCosts,
			Name:  "Aquisição de Animais",
			Type:  GroupTypeExpense,
			Order: 3,
			Categories: []string{
				"Compra de Gado", "Aquisição de Animais", "Compra de Bezerros",
				"Compra de Matrizes", "Compra de Reprodutores",
			},
			Codes:       []string{"animal_purchase", "cattle_purchase", "cattle_acquisition"},
			Description: "Custos diretos com compra de animais",
		},
		{
			ID:    GroupLogisticsCosts,
			Name:  "Custos Logísticos",
			Type:  GroupTypeExpense,
			Order: 4,
			Categories: []string{
				"Frete de Gado", "Frete", "Transporte", "Logística",
			},
			Codes:       []string{"freight", "transport", "logistics"},
			Description: "Custos com transporte e logística",
		},
		{
			ID:    GroupCommissionCosts,
			Name:  "Comissões",
			Type:  GroupTypeExpense,
			Order: 5,
			Categories: []string{
				"Comissão de Compra", "Comissão", "Comissões", "Taxa de Corretagem",
			},
			Codes:       []string{"commission", "broker_fee"},
			Description: "Comissões pagas na compra de animais",
		},
		{
			ID:    GroupProductionExpenses,
			Name:  "Despesas de Produção",
			Type:  GroupTypeExpense,
			Order: 6,
			Categories: []string{
				"Ração", "Suplementos", "Sal Mineral", "Silagem",
				"Vacinas", "Medicamentos", "Veterinário", "Exames Laboratoriais",
				"Manutenção de Currais", "Manutenção de Cercas",
				"Combustível", "Energia Elétrica", "Água",
			},
			Codes:       []string{"feed", "health_costs", "veterinary_costs", "operational_costs"},
			Description: "Custos diretos de manutenção do rebanho",
		},
		{
			ID:    GroupOperationalLosses,
			Name:  "Perdas Operacionais",
			Type:  GroupTypeExpense,
			Order: 7,
			Categories: []string{
				"Perdas Operacionais (Mortalidade)", "Mortalidade", "Perdas",
				"Morte de Animais", "Quebra de Peso",
			},
			Codes:       []string{"deaths", "mortality", "weight_loss"},
			Description: "Perdas por mortalidade e quebra de peso",
		},
		{
			ID:    GroupInfrastructure,
			Name:  "Investimentos em Infraestrutura",
			Type:  GroupTypeExpense,
			Order: 8,
			Categories: []string{
				"Construções", "Benfeitorias", "Equipamentos",
				"Máquinas e Equipamentos", "Infraestrutura",
			},
			Codes:       []string{"infrastructure", "equipment"},
			Description: "Aquisição de equipamentos e benfeitorias",
		},
		{
			ID:    GroupAdminExpenses,
			Name:  "Despesas Administrativas",
			Type:  GroupTypeExpense,
			Order: 9,
			Categories: []string{
				"Salários", "Encargos Trabalhistas", "Benefícios", "Treinamento",
				"Material de Escritório", "Contabilidade", "Telefone/Internet",
				"Seguros", "Outras Despesas", "Retirada Particular",
				"Ajustes Mercado Futuro",
			},
			Codes:       []string{"general_admin", "personnel", "marketing", "admin_other", "administrative"},
			Description: "Custos administrativos e de pessoal",
		},
		{
			ID:    GroupFinancialExpenses,
			Name:  "Despesas Financeiras",
			Type:  GroupTypeExpense,
			Order: 10,
			Categories: []string{
				"Despesas Bancárias", "Juros e Multas", "Impostos e Taxas",
				"Empréstimos Risco Sacado", "Fee de Crédito",
			},
			Codes:       []string{"interest", "fees", "loan", "financing", "financial_other"},
			Description: "Juros, taxas e custos financeiros",
		},
	}
}
