package converter

import "currency_converter/internal/models"

// Direction - как применять курс Base -> Target к сумме пользователя
type Direction int

const (
	// Сумма в Base, результат в Target: amount * rate
	Multiply Direction = iota
	// Сумма в Target, результат в Base: amount / rate
	Divide
)

// Preset - готовая пара из меню
type Preset struct {
	Option    int
	Label     string
	Base      models.CurrencyCode // валюта, для которой запрашивается таблица курсов
	Target    models.CurrencyCode
	Direction Direction
	FromUnit  string // как называется исходная сумма при выводе
	ToUnit    string
}

var presets = []Preset{
	{Option: 1, Label: "Real → Dólar", Base: "USD", Target: "BRL", Direction: Divide, FromUnit: "reais", ToUnit: "dólares"},
	{Option: 2, Label: "Dólar → Real", Base: "USD", Target: "BRL", Direction: Multiply, FromUnit: "dólares", ToUnit: "reais"},
	{Option: 3, Label: "Real → Euro", Base: "EUR", Target: "BRL", Direction: Divide, FromUnit: "reais", ToUnit: "euros"},
	{Option: 4, Label: "Euro → Real", Base: "EUR", Target: "BRL", Direction: Multiply, FromUnit: "euros", ToUnit: "reais"},
	{Option: 5, Label: "Real → Libra", Base: "GBP", Target: "BRL", Direction: Divide, FromUnit: "reais", ToUnit: "libras"},
	{Option: 6, Label: "Libra → Real", Base: "GBP", Target: "BRL", Direction: Multiply, FromUnit: "libras", ToUnit: "reais"},
}

// Presets возвращает копию списка готовых пар в порядке меню
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

func FindPreset(option int) (Preset, bool) {
	for _, p := range presets {
		if p.Option == option {
			return p, true
		}
	}
	return Preset{}, false
}
