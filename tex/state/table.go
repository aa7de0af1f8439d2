// table.go -
// Copyright (C) 2016  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package state

import "github.com/seehuhn/gotex/tex/event"

// Change describes an update of a table entry.
type Change[K comparable, V any] struct {
	Table string
	Key   K
	Value V

	// Global is set for global assignments.
	Global bool

	// Restore is set when the value is restored at the end of a group.
	Restore bool
}

// Table is a family of grouped values, for example the count registers
// or the catcode table.  All tables created for the same Context share
// its group stack.
type Table[K comparable, V any] struct {
	// Name identifies the table in Change events.
	Name string

	ctx      *Context
	id       int
	fallback func(K) V
	values   map[K]V

	changes event.Bus[Change[K, V]]
	byKey   map[K]*event.Bus[Change[K, V]]
}

// NewTable creates a new table which uses the group stack of ctx.  Keys
// which were never set have the value fallback(key), or the zero value
// of V if fallback is nil.
func NewTable[K comparable, V any](ctx *Context, name string, fallback func(K) V) *Table[K, V] {
	ctx.nTables++
	return &Table[K, V]{
		Name:     name,
		ctx:      ctx,
		id:       ctx.nTables,
		fallback: fallback,
		values:   make(map[K]V),
	}
}

// Get returns the current value for key.
func (t *Table[K, V]) Get(key K) V {
	if v, ok := t.values[key]; ok {
		return v
	}
	if t.fallback != nil {
		return t.fallback(key)
	}
	var zero V
	return zero
}

// Lookup returns the current value for key, and whether the key was set
// explicitly.
func (t *Table[K, V]) Lookup(key K) (V, bool) {
	v, ok := t.values[key]
	if !ok {
		return t.Get(key), false
	}
	return v, true
}

// Set assigns a new value to key.  A local assignment is undone when the
// current group ends.  A global assignment survives the end of all
// groups which are currently open.
func (t *Table[K, V]) Set(key K, value V, global bool) {
	s := slot{table: t.id, key: key}
	if global {
		for _, g := range t.ctx.groups {
			g.forget(s)
		}
	} else if g := t.ctx.Top(); g.Type != BottomGroup && !g.captured(s) {
		old, had := t.values[key]
		g.capture(s, func() {
			if had {
				t.values[key] = old
			} else {
				delete(t.values, key)
			}
			t.notify(Change[K, V]{Table: t.Name, Key: key, Value: t.Get(key), Restore: true})
		})
	}
	t.values[key] = value
	t.notify(Change[K, V]{Table: t.Name, Key: key, Value: value, Global: global})
}

// Replace changes the value for key in place.  Nothing is saved, so
// the end of the current group only undoes the change if an earlier
// local assignment in that group saved the old value.
func (t *Table[K, V]) Replace(key K, value V) {
	t.values[key] = value
	t.notify(Change[K, V]{Table: t.Name, Key: key, Value: value})
}

// Each calls fn for every key which was set explicitly, in unspecified
// order.
func (t *Table[K, V]) Each(fn func(key K, value V)) {
	for k, v := range t.values {
		fn(k, v)
	}
}

// Observe registers fn to be called on every change of the table,
// including restores at the end of a group.
func (t *Table[K, V]) Observe(fn func(Change[K, V])) (cancel func()) {
	return t.changes.Subscribe(fn)
}

// ObserveKey registers fn to be called whenever the value for key
// changes.
func (t *Table[K, V]) ObserveKey(key K, fn func(Change[K, V])) (cancel func()) {
	if t.byKey == nil {
		t.byKey = make(map[K]*event.Bus[Change[K, V]])
	}
	bus := t.byKey[key]
	if bus == nil {
		bus = &event.Bus[Change[K, V]]{}
		t.byKey[key] = bus
	}
	return bus.Subscribe(fn)
}

func (t *Table[K, V]) notify(ch Change[K, V]) {
	t.changes.Publish(ch)
	if bus := t.byKey[ch.Key]; bus != nil {
		bus.Publish(ch)
	}
}
