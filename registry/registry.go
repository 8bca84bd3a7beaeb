// Copyright 2014 by the Authors
// This file is part of the go-avm library.
//
// The go-avm library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-avm library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-avm library. If not, see <http://www.gnu.org/licenses/>.

// Package registry supplements the spec with the one piece of the
// original Java AVM's "Avm" facade the distillation dropped: a single
// process hosting several DApps side by side, each with its own
// transformed-code cache, rather than re-running the transform chain
// (pipeline.Transform) on every call. Registry keeps an
// cache.ArtifactCache of (Artifact, hierarchy.Forest) pairs keyed by
// DApp address, so a call against an address already resolved this
// process lifetime costs one decode (pipeline.Load), never a re-run of
// validate/hierarchy/metering/arraywrap.
package registry

import (
	"github.com/core-coin/go-avm/cache"
	"github.com/core-coin/go-avm/classfile"
	"github.com/core-coin/go-avm/common"
	"github.com/core-coin/go-avm/hierarchy"
	"github.com/core-coin/go-avm/pipeline"
)

// Registry resolves a DApp address to its already-transformed code,
// caching the result across calls within one process.
type Registry struct {
	artifacts *cache.ArtifactCache
}

// New returns a Registry holding at most size DApps' transformed code.
func New(size int) (*Registry, error) {
	c, err := cache.NewArtifactCache(size)
	if err != nil {
		return nil, err
	}
	return &Registry{artifacts: c}, nil
}

// Deploy runs the full transform chain over address's raw class set
// (spec section 4's validate → hierarchy → metering → arraywrap →
// shadow/excwrap/metering/stacktrack → encode pipeline) and caches the
// result — the create() path, where code is seen for the first time.
func (r *Registry) Deploy(address common.Address, classes map[string]*classfile.ClassFile, mainClass string, cfg pipeline.Config) (cache.Entry, error) {
	artifact, err := pipeline.Transform(classes, mainClass, cfg)
	if err != nil {
		return cache.Entry{}, err
	}
	return r.install(address, artifact)
}

// Resolve returns address's cached transformed code, decoding artifact
// and building its hierarchy forest only on a cache miss — the call()
// path, where the chain must never re-run (spec section 9: every real
// account VM caches transformed code).
func (r *Registry) Resolve(address common.Address, artifact *pipeline.Artifact) (cache.Entry, error) {
	if e, ok := r.artifacts.Get(address); ok {
		return e, nil
	}
	return r.install(address, artifact)
}

// Invalidate evicts address's cached entry — used when a create()
// replaces the code previously deployed at an address.
func (r *Registry) Invalidate(address common.Address) {
	r.artifacts.Remove(address)
}

func (r *Registry) install(address common.Address, artifact *pipeline.Artifact) (cache.Entry, error) {
	classes, err := pipeline.Load(artifact)
	if err != nil {
		return cache.Entry{}, err
	}
	forest, err := hierarchy.Build(classes)
	if err != nil {
		return cache.Entry{}, err
	}
	entry := cache.Entry{Artifact: artifact, Forest: forest}
	r.artifacts.Add(address, entry)
	return entry, nil
}
