// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "github.com/specialistvlad/paragrid/internal/event"

// memberSet is an insertion-ordered name -> handle map. Renaming a member
// keeps its position. A name key only ever points at the member that
// currently carries that name.
type memberSet struct {
	order  []Handle
	byName map[string]Handle
	names  map[Handle]string
	subs   map[Handle]event.Subscription
}

func newMemberSet() *memberSet {
	return &memberSet{
		byName: make(map[string]Handle),
		names:  make(map[Handle]string),
		subs:   make(map[Handle]event.Subscription),
	}
}

func (s *memberSet) add(name string, h Handle, sub event.Subscription) {
	s.order = append(s.order, h)
	s.byName[name] = h
	s.names[h] = name
	s.subs[h] = sub
}

func (s *memberSet) has(h Handle) bool {
	_, ok := s.subs[h]
	return ok
}

func (s *memberSet) get(name string) (Handle, bool) {
	h, ok := s.byName[name]
	return h, ok
}

// remove drops h and returns its subscription.
func (s *memberSet) remove(h Handle) (event.Subscription, bool) {
	sub, ok := s.subs[h]
	if !ok {
		return event.Subscription{}, false
	}
	delete(s.subs, h)
	s.dropName(h)
	delete(s.names, h)
	for i, oh := range s.order {
		if oh == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return sub, true
}

// rename re-keys h under name. It reports false, leaving the set unchanged,
// when name already belongs to another member.
func (s *memberSet) rename(h Handle, name string) bool {
	if _, ok := s.names[h]; !ok {
		return false
	}
	if cur, ok := s.byName[name]; ok && cur != h {
		return false
	}
	s.dropName(h)
	s.byName[name] = h
	s.names[h] = name
	return true
}

// dropName deletes h's name key if it still points at h.
func (s *memberSet) dropName(h Handle) {
	name, ok := s.names[h]
	if !ok {
		return
	}
	if cur, ok := s.byName[name]; ok && cur == h {
		delete(s.byName, name)
	}
}

func (s *memberSet) len() int { return len(s.order) }

func (s *memberSet) handles() []Handle {
	return append([]Handle(nil), s.order...)
}
