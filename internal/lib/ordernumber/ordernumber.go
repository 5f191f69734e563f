// Package ordernumber формирует внешние номера заказов.
package ordernumber

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const (
	checkoutPrefix = "CV"
	directPrefix   = "CV-"
	suffixLen      = 4
	alphabet       = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Generator выпускает номера заказов. Время и источник случайности подменяются в тестах.
type Generator struct {
	now  func() time.Time
	rand func(n int) int
}

// New создаёт генератор на системных часах.
func New() *Generator {
	return &Generator{now: time.Now, rand: rand.IntN}
}

// Checkout возвращает номер для оплаты через провайдера:
// CV, миллисекунды в base36 и четыре случайных символа.
func (g *Generator) Checkout() string {
	return g.build(checkoutPrefix)
}

// Direct возвращает номер для заказа, созданного без провайдера:
// CV-, миллисекунды в base36 и четыре случайных символа.
func (g *Generator) Direct() string {
	return g.build(directPrefix)
}

func (g *Generator) build(prefix string) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(timestamp(g.now()))
	for range suffixLen {
		b.WriteByte(alphabet[g.rand(len(alphabet))])
	}
	return b.String()
}

func timestamp(t time.Time) string {
	return strings.ToUpper(strconv.FormatInt(t.UnixMilli(), 36))
}
