// Mgmt
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
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
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package persist

import (
	"sort"
	"sync"

	"github.com/purpleidea/lampd/httpd"
)

// SchedulerRegistry mirrors the wire (AddSchedulerData) form of every
// named scheduler the HTTP edge has installed. lamp.SchedulerMap only
// stores live lamp.Scheduler values, which expose no wire representation,
// so the registry is the thing persistence actually serialises; main.go
// keeps it in lockstep with every AddReplaceScheduler/RemoveScheduler/
// ClearAllSchedulers command it forwards to the Controller.
type SchedulerRegistry struct {
	mu   sync.Mutex
	data map[string]httpd.AddSchedulerData
}

// NewSchedulerRegistry builds an empty registry.
func NewSchedulerRegistry() *SchedulerRegistry {
	return &SchedulerRegistry{data: make(map[string]httpd.AddSchedulerData)}
}

// AddReplace records (or replaces) a scheduler's wire form under name.
func (r *SchedulerRegistry) AddReplace(name string, data httpd.AddSchedulerData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[name] = data
}

// Remove drops name. Removing an absent name is a no-op.
func (r *SchedulerRegistry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, name)
}

// Clear empties the registry.
func (r *SchedulerRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = make(map[string]httpd.AddSchedulerData)
}

// Snapshot returns a deterministically ordered copy suitable for
// marshalling.
func (r *SchedulerRegistry) Snapshot() []httpd.AddSchedulerData {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]httpd.AddSchedulerData, 0, len(r.data))
	for _, v := range r.data {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
