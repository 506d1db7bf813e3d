package catalog

import (
	"github.com/preiskampf/preiskampf/internal/db"
)

const (
	DiagramWidth  = 600
	DiagramHeight = 200
)

type DiagramPoint struct {
	X      float64
	Y      float64
	Price  Money
	Market string
	Date   string
}

// PriceDiagram descreve o gráfico de histórico de preços de um produto.
// Y cresce para baixo: o preço máximo fica em 0 e o zero em DiagramHeight.
type PriceDiagram struct {
	Points []DiagramPoint
	Min    Money
	Max    Money
}

func NewPriceDiagram(prices []db.PriceWithMarket) PriceDiagram {
	var d PriceDiagram
	if len(prices) == 0 {
		return d
	}

	d.Min = Money{Cents: prices[0].AmountCents, Currency: prices[0].Currency, Valid: true}
	d.Max = d.Min
	for _, p := range prices[1:] {
		if p.AmountCents < d.Min.Cents {
			d.Min = Money{Cents: p.AmountCents, Currency: p.Currency, Valid: true}
		}
		if p.AmountCents > d.Max.Cents {
			d.Max = Money{Cents: p.AmountCents, Currency: p.Currency, Valid: true}
		}
	}

	step := 0.0
	if len(prices) > 1 {
		step = float64(DiagramWidth) / float64(len(prices)-1)
	}
	for i, p := range prices {
		d.Points = append(d.Points, DiagramPoint{
			X:      float64(i) * step,
			Y:      d.PositionY(p.AmountCents, DiagramHeight),
			Price:  Money{Cents: p.AmountCents, Currency: p.Currency, Valid: true},
			Market: p.MarketName,
			Date:   p.CreatedAt.Format("02.01.2006"),
		})
	}
	return d
}

// PositionY é a distância em pixels do topo para cents numa área de altura height.
func (d PriceDiagram) PositionY(cents int64, height int) float64 {
	if d.Max.Cents <= 0 {
		return 0
	}
	perCent := float64(height) / float64(d.Max.Cents)
	return float64(d.Max.Cents-cents) * perCent
}

func (d PriceDiagram) Empty() bool {
	return len(d.Points) == 0
}
