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

// Package cache holds the two caches that sit between the executor and
// the transform chain / store so neither is re-run or re-read on every
// call: ArtifactCache (an in-memory LRU of already-transformed DApp
// code, avoiding re-running the validate/hierarchy/metering/arraywrap
// pipeline on every invocation) and StoreCache (a byte-level read cache
// in front of an objectgraph.Store, avoiding repeated decode work for
// hot instance records). Both are bounded, eviction-based caches, not a
// source of truth — SPEC_FULL.md section 9's supplement on caching
// transformed code.
package cache

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/core-coin/go-avm/common"
	"github.com/core-coin/go-avm/hierarchy"
	"github.com/core-coin/go-avm/pipeline"
)

// Entry is what one DApp address's transformed code resolves to: the
// encoded artifact plus the class hierarchy forest built over it, the
// two things executor needs per call and would otherwise recompute.
type Entry struct {
	Artifact *pipeline.Artifact
	Forest   *hierarchy.Forest
}

// ArtifactCache is an LRU of common.Address to Entry, sized in entries
// rather than bytes (mirrors core/core/bloombits's and similar go-core
// callers' fixed-capacity lru.Cache usage).
type ArtifactCache struct {
	lru *lru.Cache
}

// NewArtifactCache returns an ArtifactCache holding at most size entries.
func NewArtifactCache(size int) (*ArtifactCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &ArtifactCache{lru: c}, nil
}

// Get returns the cached entry for address, if any.
func (c *ArtifactCache) Get(address common.Address) (Entry, bool) {
	v, ok := c.lru.Get(address)
	if !ok {
		return Entry{}, false
	}
	return v.(Entry), true
}

// Add installs or refreshes address's cached entry.
func (c *ArtifactCache) Add(address common.Address, e Entry) {
	c.lru.Add(address, e)
}

// Remove evicts address's cached entry, if present — used when a
// create() replaces or redeploys code at an address.
func (c *ArtifactCache) Remove(address common.Address) {
	c.lru.Remove(address)
}

// Len reports the number of entries currently cached.
func (c *ArtifactCache) Len() int { return c.lru.Len() }
