package catalog

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	DefaultCurrency = "EUR"
	MissingPrice    = "--.--"
)

// Money é um valor em centavos. Valid=false representa "sem preço".
type Money struct {
	Cents    int64
	Currency string
	Valid    bool
}

func NewMoney(cents sql.NullInt64, currency sql.NullString) Money {
	m := Money{Cents: cents.Int64, Currency: currency.String, Valid: cents.Valid}
	if m.Currency == "" {
		m.Currency = DefaultCurrency
	}
	return m
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String formata como "12.34 EUR"; sem preço retorna "--.--".
func (m Money) String() string {
	if !m.Valid {
		return MissingPrice
	}
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(2), m.Currency)
}

// Sum soma os valores válidos na moeda do primeiro deles. Itens sem preço ou
// em outra moeda ficam de fora; skipped conta os de outra moeda.
func Sum(values []Money) (out Money, skipped int) {
	total := decimal.Zero
	out = Money{Currency: DefaultCurrency}
	for _, v := range values {
		if !v.Valid {
			continue
		}
		if !out.Valid {
			out.Currency = v.Currency
			out.Valid = true
		} else if v.Currency != out.Currency {
			skipped++
			continue
		}
		total = total.Add(v.Decimal())
	}
	out.Cents = total.Shift(2).IntPart()
	return out, skipped
}
