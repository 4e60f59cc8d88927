// Package resolver сопоставляет введённое пользователем название или код валюты
// с нормализованным трёхбуквенным кодом.
package resolver

import (
	"sort"
	"strings"
	"unicode/utf8"

	"currency_converter/internal/models"
)

// Table - неизменяемая таблица "название в нижнем регистре -> код".
// Варианты написания с акцентом и без перечисляются явно, общего снятия диакритики нет.
type Table struct {
	entries map[string]models.CurrencyCode
}

// Entry - одна запись таблицы
type Entry struct {
	Name string
	Code models.CurrencyCode
}

// NewTable копирует переданные записи, ключи приводятся к нижнему регистру
func NewTable(entries map[string]models.CurrencyCode) Table {
	copied := make(map[string]models.CurrencyCode, len(entries))
	for name, code := range entries {
		copied[normalize(name)] = code
	}
	return Table{entries: copied}
}

// DefaultTable возвращает таблицу известных названий валют
func DefaultTable() Table {
	return NewTable(map[string]models.CurrencyCode{
		"dólar":        "USD",
		"dolar":        "USD",
		"euro":         "EUR",
		"real":         "BRL",
		"libra":        "GBP",
		"iene":         "JPY",
		"franco suíço": "CHF",
		"yuan":         "CNY",
	})
}

// Resolver преобразует обозначение валюты в код
type Resolver struct {
	table Table
}

func New(table Table) *Resolver {
	return &Resolver{table: table}
}

// Resolve возвращает код валюты для названия из таблицы или для любой строки из трёх символов.
// Трёхсимвольные коды не проверяются: их валидирует провайдер курсов при запросе.
func (r *Resolver) Resolve(designator string) (models.CurrencyCode, bool) {
	normalized := normalize(designator)

	if code, ok := r.table.entries[normalized]; ok {
		return code, true
	}

	if utf8.RuneCountInString(normalized) == 3 {
		return models.CurrencyCode(strings.ToUpper(normalized)), true
	}

	return "", false
}

// Entries возвращает записи таблицы, отсортированные по названию
func (r *Resolver) Entries() []Entry {
	entries := make([]Entry, 0, len(r.table.entries))
	for name, code := range r.table.entries {
		entries = append(entries, Entry{Name: name, Code: code})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
