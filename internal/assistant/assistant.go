package assistant

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/reporting"

	"github.com/shopspring/decimal"
)

type Intent string

const (
	IntentBalance           Intent = "balance"
	IntentIncome            Intent = "income"
	IntentExpenses          Intent = "expenses"
	IntentCategoryBreakdown Intent = "category_breakdown"
	IntentTopExpense        Intent = "top_expense"
	IntentSavings           Intent = "savings"
	IntentAdvice            Intent = "advice"
	IntentStatus            Intent = "status"
	IntentMonthly           Intent = "monthly"
	IntentFallback          Intent = "fallback"
)

const (
	WelcomeMessage  = "Olá! Sou seu assistente financeiro. Como posso te ajudar a analisar seus dados financeiros hoje?"
	FallbackMessage = "Desculpe, não entendi completamente sua pergunta. Você pode me perguntar sobre seu saldo, receitas, despesas, categorias de gastos ou pedir conselhos financeiros."
)

// Tips are the canned pieces of advice returned by the advice intent.
var Tips = []string{
	"Tente criar um orçamento mensal e siga-o rigorosamente.",
	"Reserve pelo menos 10-20% da sua receita para economias e emergências.",
	"Revise suas despesas recorrentes e veja se há algo que pode ser eliminado.",
	"Compare preços antes de fazer compras grandes.",
	"Considere investir seu dinheiro para fazer ele trabalhar para você.",
}

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

type rule struct {
	intent   Intent
	keywords []string
}

// Order matters: the first rule with a keyword contained in the query wins.
var rules = []rule{
	{IntentBalance, []string{"saldo", "balanço"}},
	{IntentIncome, []string{"receita", "ganho", "entrada"}},
	{IntentExpenses, []string{"despesa", "gasto", "saída"}},
	{IntentCategoryBreakdown, []string{"categoria"}},
	{IntentTopExpense, []string{"onde mais gasto", "maior despesa"}},
	{IntentSavings, []string{"economia", "poupar"}},
	{IntentAdvice, []string{"conselho", "dica"}},
	{IntentStatus, []string{"como estou indo", "situação"}},
	{IntentMonthly, []string{"mês", "mensal"}},
}

// Facts is what the assistant knows about the user when answering.
type Facts struct {
	Overall reporting.Summary
	Month   reporting.Summary
	Now     time.Time
}

// FactsFrom summarizes txs overall and for the month containing now.
func FactsFrom(txs []models.Transaction, now time.Time) Facts {
	month := reporting.Apply(txs, reporting.Filter{Window: reporting.Window{Period: reporting.PeriodMonth}}, now)
	return Facts{
		Overall: reporting.Summarize(txs),
		Month:   reporting.Summarize(month),
		Now:     now,
	}
}

type Answer struct {
	Intent Intent `json:"intent"`
	Text   string `json:"reply"`
}

// TipPicker returns an index in [0, n).
type TipPicker func(n int) int

type Assistant struct {
	pickTip TipPicker
}

type Option func(*Assistant)

func WithTipPicker(picker TipPicker) Option {
	return func(a *Assistant) {
		a.pickTip = picker
	}
}

func New(opts ...Option) *Assistant {
	a := &Assistant{pickTip: rand.IntN}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Classify returns the intent of the first matching rule.
func Classify(query string) Intent {
	q := strings.ToLower(query)
	for _, r := range rules {
		for _, keyword := range r.keywords {
			if strings.Contains(q, keyword) {
				return r.intent
			}
		}
	}
	return IntentFallback
}

func (a *Assistant) Reply(query string, facts Facts) Answer {
	intent := Classify(query)
	return Answer{Intent: intent, Text: a.render(intent, facts)}
}

func (a *Assistant) render(intent Intent, facts Facts) string {
	s := facts.Overall

	switch intent {
	case IntentBalance:
		return fmt.Sprintf("Seu saldo atual é R$ %s.", money(s.Balance))
	case IntentIncome:
		return fmt.Sprintf("O total de suas receitas é R$ %s.", money(s.Income))
	case IntentExpenses:
		return fmt.Sprintf("O total de suas despesas é R$ %s.", money(s.Expenses))
	case IntentCategoryBreakdown:
		if len(s.ExpensesByCategory) == 0 {
			return "Você ainda não tem despesas registradas por categoria."
		}
		lines := make([]string, 0, len(s.ExpensesByCategory))
		for _, c := range s.ExpensesByCategory {
			lines = append(lines, fmt.Sprintf("%s: R$ %s", c.Category, money(c.Total)))
		}
		return "Suas despesas por categoria são:\n" + strings.Join(lines, "\n")
	case IntentTopExpense:
		top, ok := s.TopExpenseCategory()
		if !ok {
			return "Você ainda não tem despesas registradas."
		}
		return fmt.Sprintf("Sua maior categoria de despesa é \"%s\" com R$ %s.", top.Category, money(top.Total))
	case IntentSavings:
		if s.Balance.IsPositive() {
			return fmt.Sprintf("Você está economizando R$ %s, o que representa %s%% da sua renda. Continue assim!",
				money(s.Balance), s.SavingsRate().StringFixed(1))
		}
		return fmt.Sprintf("Atualmente você está com déficit de R$ %s. Tente reduzir algumas despesas para começar a economizar.",
			money(s.Balance.Abs()))
	case IntentAdvice:
		return "Aqui vai uma dica financeira: " + Tips[a.tipIndex()]
	case IntentStatus:
		switch {
		case s.Balance.IsPositive():
			return fmt.Sprintf("Você está indo bem! Tem um saldo positivo de R$ %s. Continue controlando seus gastos.", money(s.Balance))
		case s.Balance.IsZero():
			return "Você está empatando receitas e despesas. Tente aumentar sua margem de economia."
		default:
			return fmt.Sprintf("Atenção! Você está com um déficit de R$ %s. Recomendo revisar seus gastos.", money(s.Balance.Abs()))
		}
	case IntentMonthly:
		m := facts.Month
		return fmt.Sprintf("Estamos em %s. Para este mês, você tem receitas de R$ %s e despesas de R$ %s, resultando em um saldo de R$ %s.",
			MonthName(facts.Now.Month()), money(m.Income), money(m.Expenses), money(m.Balance))
	default:
		return FallbackMessage
	}
}

func (a *Assistant) tipIndex() int {
	i := a.pickTip(len(Tips))
	if i < 0 || i >= len(Tips) {
		return 0
	}
	return i
}

// MonthName returns the Portuguese name of m.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
