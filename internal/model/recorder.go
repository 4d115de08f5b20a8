// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "time"

// Recorder receives update activity. internal/metrics provides the
// Prometheus implementation.
type Recorder interface {
	// NamespaceUpdated is called once per namespace update with its outcome.
	NamespaceUpdated(kind string, elapsed time.Duration, err error)
	// ObjectUpdated is called once per object update that ran a method.
	ObjectUpdated(typeName, method string, err error)
	// ObjectNotPrimed is called when an object is asked to update while an
	// input is still unbound.
	ObjectNotPrimed(typeName string)
	// CycleDetected is called when a namespace update aborts on a cycle.
	CycleDetected(namespace string)
}

type nopRecorder struct{}

func (nopRecorder) NamespaceUpdated(string, time.Duration, error) {}
func (nopRecorder) ObjectUpdated(string, string, error)           {}
func (nopRecorder) ObjectNotPrimed(string)                        {}
func (nopRecorder) CycleDetected(string)                          {}
