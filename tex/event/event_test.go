// event_test.go -
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

package event

import "testing"

func TestBus(t *testing.T) {
	var bus Bus[int]
	if bus.Active() {
		t.Error("empty bus is active")
	}

	var got []int
	cancel := bus.Subscribe(func(x int) { got = append(got, x) })
	bus.Subscribe(func(x int) { got = append(got, 10*x) })

	bus.Publish(1)
	cancel()
	bus.Publish(2)

	expected := []int{1, 10, 20}
	if len(got) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, got)
		}
	}
}
