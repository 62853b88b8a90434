package diag

import (
	"fmt"
	"slices"
	"sort"
)

// Bag collects the diagnostics of one unit. A zero max means no limit.
// Diagnostics past max are not stored but still counted, so a capped bag
// never turns a failing unit into a clean one.
type Bag struct {
	items   []Diagnostic
	max     int
	omitted Summary
}

func NewBag(max int) *Bag {
	if max < 0 {
		max = 0
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(max, 16)),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика только посчитана (достигнут лимит).
// Ошибка в полном Bag вытесняет последнее предупреждение.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max == 0 || len(b.items) < b.max {
		b.items = append(b.items, d)
		return true
	}
	if d.Severity >= SevError {
		for i := len(b.items) - 1; i >= 0; i-- {
			if b.items[i].Severity < SevError {
				b.omitted.count(b.items[i].Severity)
				b.items = append(slices.Delete(b.items, i, i+1), d)
				return true
			}
		}
	}
	b.omitted.count(d.Severity)
	return false
}

// Omitted counts the diagnostics that did not fit under the limit.
func (b *Bag) Omitted() Summary {
	if b == nil {
		return Summary{}
	}
	return b.omitted
}

// Summary counts every diagnostic the bag has seen, stored or not.
func (b *Bag) Summary() Summary {
	if b == nil {
		return Summary{}
	}
	s := b.omitted
	s.Add(b.items)
	return s
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	if b == nil {
		return false
	}
	if b.omitted.Errors > 0 {
		return true
	}
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity == Warning
func (b *Bag) HasWarnings() bool {
	if b == nil {
		return false
	}
	if b.omitted.Warnings > 0 {
		return true
	}
	for i := range b.items {
		if b.items[i].Severity == SevWarning {
			return true
		}
	}
	return false
}

// длина
func (b *Bag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	if b == nil {
		return nil
	}
	return b.items
}

// Filter returns a copy of the diagnostics with exactly the given severity,
// in insertion order.
func (b *Bag) Filter(sev Severity) []Diagnostic {
	if b == nil {
		return nil
	}
	out := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

// Sort сортирует диагностики по: file, start, end, severity (desc), code (asc)
// для стабильного и детерминированного порядка вывода.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		// по severity по убыванию: Error > Warning > Info
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// простая дедупликация (по Code+Primary+Message)
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s:%s", d.Code.ID(), d.Primary.String(), d.Message)
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, d)
	}
	b.items = newitems
}
