// Copyright 2024 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package proto

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// PluralItem is one quantity/value pair of a <plurals> resource.
type PluralItem struct {
	Quantity string
	Value    string
}

// Value is the payload of a single (entry, config) pair. Exactly one of
// Str or PluralItems is meaningful, selected by IsPlural.
type Value struct {
	Weak         bool
	Translatable bool
	IsPlural     bool
	Str          string
	PluralItems  []PluralItem
}

// ConfigValue pairs a raw qualifier string (empty means default) with
// the Value defined under it.
type ConfigValue struct {
	Config string
	Value  Value
}

// Entry is a named resource within a Type, holding one ConfigValue per
// configuration it is defined in.
type Entry struct {
	Name         string
	ConfigValues []ConfigValue
}

// Type groups Entries of the same resource type (e.g. "string").
type Type struct {
	Name    string
	Entries []Entry
}

// Package is a named, optionally-ID'd collection of Types.
type Package struct {
	ID      uint8
	HasID   bool
	Name    string
	Types   []Type
}

// ResourceTable is the full parse result of a values XML document,
// serialized verbatim as a compiled archive entry's body (spec §3, §4.3).
type ResourceTable struct {
	Packages []Package
}

// FindPackage returns a pointer to the package named name, or nil.
func (t *ResourceTable) FindPackage(name string) *Package {
	for i := range t.Packages {
		if t.Packages[i].Name == name {
			return &t.Packages[i]
		}
	}
	return nil
}

// CreatePackage returns the package named name, creating it if absent.
func (t *ResourceTable) CreatePackage(name string) *Package {
	if p := t.FindPackage(name); p != nil {
		return p
	}
	t.Packages = append(t.Packages, Package{Name: name})
	return &t.Packages[len(t.Packages)-1]
}

// FindType returns a pointer to the type named name within p, or nil.
func (p *Package) FindType(name string) *Type {
	for i := range p.Types {
		if p.Types[i].Name == name {
			return &p.Types[i]
		}
	}
	return nil
}

// CreateType returns the type named name within p, creating it if absent.
func (p *Package) CreateType(name string) *Type {
	if t := p.FindType(name); t != nil {
		return t
	}
	p.Types = append(p.Types, Type{Name: name})
	return &p.Types[len(p.Types)-1]
}

// FindEntry returns a pointer to the entry named name within t, or nil.
func (t *Type) FindEntry(name string) *Entry {
	for i := range t.Entries {
		if t.Entries[i].Name == name {
			return &t.Entries[i]
		}
	}
	return nil
}

// CreateEntry returns the entry named name within t, creating it if absent.
func (t *Type) CreateEntry(name string) *Entry {
	if e := t.FindEntry(name); e != nil {
		return e
	}
	t.Entries = append(t.Entries, Entry{Name: name})
	return &t.Entries[len(t.Entries)-1]
}

// FindConfigValue returns a pointer to the ConfigValue for config within
// e, or nil.
func (e *Entry) FindConfigValue(config string) *ConfigValue {
	for i := range e.ConfigValues {
		if e.ConfigValues[i].Config == config {
			return &e.ConfigValues[i]
		}
	}
	return nil
}

// SetValue sets (overwriting any existing strong value) the value for
// config within e, unless v is weak and a strong value already exists,
// in which case the existing value is left untouched (spec §4.3 step 4,
// §8 pseudo-localization invariant: "never replaces an existing strong
// entry").
func (e *Entry) SetValue(config string, v Value) {
	if cv := e.FindConfigValue(config); cv != nil {
		if v.Weak && !cv.Value.Weak {
			return
		}
		cv.Value = v
		return
	}
	e.ConfigValues = append(e.ConfigValues, ConfigValue{Config: config, Value: v})
}

// field numbers, matching resources.proto.
const (
	fieldTablePackage = 1

	fieldPackageID      = 1
	fieldPackageHasID   = 2
	fieldPackageName    = 3
	fieldPackageType    = 4

	fieldTypeName  = 1
	fieldTypeEntry = 2

	fieldEntryName        = 1
	fieldEntryConfigValue = 2

	fieldConfigValueConfig = 1
	fieldConfigValueValue  = 2

	fieldValueWeak         = 1
	fieldValueTranslatable = 2
	fieldValueStr          = 3
	fieldValuePluralItem   = 4

	fieldPluralItemQuantity = 1
	fieldPluralItemValue    = 2
)

// Marshal encodes t into its wire representation.
func (t *ResourceTable) Marshal() []byte {
	var b []byte
	for _, pkg := range t.Packages {
		b = appendMessage(b, fieldTablePackage, marshalPackage(pkg))
	}
	return b
}

func marshalPackage(p Package) []byte {
	var b []byte
	b = appendUint32(b, fieldPackageID, uint32(p.ID))
	b = appendBool(b, fieldPackageHasID, p.HasID)
	b = appendString(b, fieldPackageName, p.Name)
	for _, ty := range p.Types {
		b = appendMessage(b, fieldPackageType, marshalType(ty))
	}
	return b
}

func marshalType(ty Type) []byte {
	var b []byte
	b = appendString(b, fieldTypeName, ty.Name)
	for _, e := range ty.Entries {
		b = appendMessage(b, fieldTypeEntry, marshalEntry(e))
	}
	return b
}

func marshalEntry(e Entry) []byte {
	var b []byte
	b = appendString(b, fieldEntryName, e.Name)
	for _, cv := range e.ConfigValues {
		b = appendMessage(b, fieldEntryConfigValue, marshalConfigValue(cv))
	}
	return b
}

func marshalConfigValue(cv ConfigValue) []byte {
	var b []byte
	b = appendString(b, fieldConfigValueConfig, cv.Config)
	b = appendMessage(b, fieldConfigValueValue, marshalValue(cv.Value))
	return b
}

func marshalValue(v Value) []byte {
	var b []byte
	b = appendBool(b, fieldValueWeak, v.Weak)
	b = appendBool(b, fieldValueTranslatable, v.Translatable)
	if !v.IsPlural {
		b = appendString(b, fieldValueStr, v.Str)
	}
	for _, item := range v.PluralItems {
		b = appendMessage(b, fieldValuePluralItem, marshalPluralItem(item))
	}
	return b
}

func marshalPluralItem(p PluralItem) []byte {
	var b []byte
	b = appendString(b, fieldPluralItemQuantity, p.Quantity)
	b = appendString(b, fieldPluralItemValue, p.Value)
	return b
}

// Unmarshal decodes the wire representation produced by Marshal.
func Unmarshal(data []byte) (*ResourceTable, error) {
	t := &ResourceTable{}
	err := decodeMessage(data, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num != fieldTablePackage || typ != protowire.BytesType {
			return -1
		}
		msg, n := consumeBytes(b)
		if n < 0 {
			return n
		}
		pkg, err := unmarshalPackage(msg)
		if err != nil {
			return -1
		}
		t.Packages = append(t.Packages, pkg)
		return n
	})
	if err != nil {
		return nil, fmt.Errorf("proto: unmarshal ResourceTable: %w", err)
	}
	return t, nil
}

func unmarshalPackage(data []byte) (Package, error) {
	var p Package
	err := decodeMessage(data, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case fieldPackageID:
			v, n := consumeVarint(b)
			p.ID = uint8(v)
			return n
		case fieldPackageHasID:
			v, n := consumeVarint(b)
			p.HasID = v != 0
			return n
		case fieldPackageName:
			v, n := consumeString(b)
			p.Name = v
			return n
		case fieldPackageType:
			msg, n := consumeBytes(b)
			if n < 0 {
				return n
			}
			ty, err := unmarshalType(msg)
			if err != nil {
				return -1
			}
			p.Types = append(p.Types, ty)
			return n
		}
		return -1
	})
	return p, err
}

func unmarshalType(data []byte) (Type, error) {
	var ty Type
	err := decodeMessage(data, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case fieldTypeName:
			v, n := consumeString(b)
			ty.Name = v
			return n
		case fieldTypeEntry:
			msg, n := consumeBytes(b)
			if n < 0 {
				return n
			}
			e, err := unmarshalEntry(msg)
			if err != nil {
				return -1
			}
			ty.Entries = append(ty.Entries, e)
			return n
		}
		return -1
	})
	return ty, err
}

func unmarshalEntry(data []byte) (Entry, error) {
	var e Entry
	err := decodeMessage(data, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case fieldEntryName:
			v, n := consumeString(b)
			e.Name = v
			return n
		case fieldEntryConfigValue:
			msg, n := consumeBytes(b)
			if n < 0 {
				return n
			}
			cv, err := unmarshalConfigValue(msg)
			if err != nil {
				return -1
			}
			e.ConfigValues = append(e.ConfigValues, cv)
			return n
		}
		return -1
	})
	return e, err
}

func unmarshalConfigValue(data []byte) (ConfigValue, error) {
	var cv ConfigValue
	err := decodeMessage(data, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case fieldConfigValueConfig:
			v, n := consumeString(b)
			cv.Config = v
			return n
		case fieldConfigValueValue:
			msg, n := consumeBytes(b)
			if n < 0 {
				return n
			}
			v, err := unmarshalValue(msg)
			if err != nil {
				return -1
			}
			cv.Value = v
			return n
		}
		return -1
	})
	return cv, err
}

func unmarshalValue(data []byte) (Value, error) {
	var v Value
	err := decodeMessage(data, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case fieldValueWeak:
			n1, n := consumeVarint(b)
			v.Weak = n1 != 0
			return n
		case fieldValueTranslatable:
			n1, n := consumeVarint(b)
			v.Translatable = n1 != 0
			return n
		case fieldValueStr:
			s, n := consumeString(b)
			v.Str = s
			return n
		case fieldValuePluralItem:
			msg, n := consumeBytes(b)
			if n < 0 {
				return n
			}
			item, err := unmarshalPluralItem(msg)
			if err != nil {
				return -1
			}
			v.IsPlural = true
			v.PluralItems = append(v.PluralItems, item)
			return n
		}
		return -1
	})
	return v, err
}

func unmarshalPluralItem(data []byte) (PluralItem, error) {
	var p PluralItem
	err := decodeMessage(data, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case fieldPluralItemQuantity:
			s, n := consumeString(b)
			p.Quantity = s
			return n
		case fieldPluralItemValue:
			s, n := consumeString(b)
			p.Value = s
			return n
		}
		return -1
	})
	return p, err
}
