// event.go -
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

// Package event implements synchronous publish/subscribe channels.
package event

// Bus delivers events of type T to all subscribed handlers.  Handlers
// are called synchronously, in the order in which they subscribed.  The
// zero value is ready to use.
type Bus[T any] struct {
	handlers []subscription[T]
	nextID   int
}

type subscription[T any] struct {
	id int
	fn func(T)
}

// Subscribe registers fn to be called for every published event.  The
// returned function removes the subscription again.
func (b *Bus[T]) Subscribe(fn func(T)) (cancel func()) {
	id := b.nextID
	b.nextID++
	b.handlers = append(b.handlers, subscription[T]{id: id, fn: fn})
	return func() {
		for i, h := range b.handlers {
			if h.id == id {
				b.handlers = append(b.handlers[:i:i], b.handlers[i+1:]...)
				return
			}
		}
	}
}

// Publish calls all handlers with ev.
func (b *Bus[T]) Publish(ev T) {
	if b == nil {
		return
	}
	for _, h := range b.handlers {
		h.fn(ev)
	}
}

// Active reports whether any handler is subscribed.  Publishers use this
// to avoid constructing expensive events nobody listens to.
func (b *Bus[T]) Active() bool {
	return b != nil && len(b.handlers) > 0
}
