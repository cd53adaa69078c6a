package registry

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	if New(Godot3) != Default() {
		t.Error("expected Default() to be the shared Godot3 registry")
	}
	if New(Godot4).Protocol() != Godot4 {
		t.Errorf("expected godot4, got %s", New(Godot4).Protocol())
	}
	if New(Protocol(42)) != Default() {
		t.Error("expected unknown protocol to fall back to Godot3")
	}
}

func TestRegistry_Code(t *testing.T) {
	tests := []struct {
		tag    TypeTag
		godot3 uint16
		godot4 uint16
	}{
		{TagNull, 0, 0},
		{TagBool, 1, 1},
		{TagInteger, 2, 2},
		{TagFloat, 3, 3},
		{TagString, 4, 4},
		{TagVector2, 5, 5},
		{TagVector3, 7, 9},
		{TagDictionary, 18, 27},
	}

	for _, test := range tests {
		t.Run(test.tag.String(), func(t *testing.T) {
			code, err := New(Godot3).Code(test.tag)
			if err != nil {
				t.Fatalf("godot3 code: %v", err)
			}
			if code != test.godot3 {
				t.Errorf("godot3: expected %d, got %d", test.godot3, code)
			}

			code, err = New(Godot4).Code(test.tag)
			if err != nil {
				t.Fatalf("godot4 code: %v", err)
			}
			if code != test.godot4 {
				t.Errorf("godot4: expected %d, got %d", test.godot4, code)
			}
		})
	}

	if _, err := Default().Code(TagUnsupported); err == nil {
		t.Error("expected error for TagUnsupported")
	}
}

func TestRegistry_ResolveType(t *testing.T) {
	r := Default()

	info, err := r.ResolveType(18)
	if err != nil {
		t.Fatalf("resolve 18: %v", err)
	}
	if info.Tag != TagDictionary || info.Name != "Dictionary" {
		t.Errorf("expected Dictionary, got %+v", info)
	}

	info, err = r.ResolveType(6)
	if err != nil {
		t.Fatalf("resolve 6: %v", err)
	}
	if info.Tag != TagUnsupported || info.Name != "Rect2" {
		t.Errorf("expected unsupported Rect2, got %+v", info)
	}

	_, err = r.ResolveType(27)
	if !errors.Is(err, ErrUnknownTypeCode) {
		t.Errorf("expected ErrUnknownTypeCode for 27 in godot3, got %v", err)
	}

	info, err = New(Godot4).ResolveType(27)
	if err != nil || info.Tag != TagDictionary {
		t.Errorf("expected Dictionary for 27 in godot4, got %+v (%v)", info, err)
	}
}

func TestRegistry_ResolveHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   []byte
		wantTag  TypeTag
		wantFlag WidthFlag
		wantErr  error
	}{
		{"int default", []byte{2, 0, 0, 0}, TagInteger, FlagDefault, nil},
		{"int wide", []byte{2, 0, 1, 0}, TagInteger, FlagWide, nil},
		{"unknown flag degrades", []byte{3, 0, 7, 0}, TagFloat, FlagDefault, nil},
		{"high flag byte degrades", []byte{3, 0, 1, 1}, TagFloat, FlagDefault, nil},
		{"trailing bytes ignored", []byte{5, 0, 0, 0, 9, 9}, TagVector2, FlagDefault, nil},
		{"unknown type", []byte{0xff, 0xff, 0, 0}, 0, 0, ErrUnknownTypeCode},
		{"short", []byte{2, 0, 0}, 0, 0, ErrShortHeader},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			info, flag, err := Default().ResolveHeader(test.header)
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("expected %v, got %v", test.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if info.Tag != test.wantTag {
				t.Errorf("expected tag %s, got %s", test.wantTag, info.Tag)
			}
			if flag != test.wantFlag {
				t.Errorf("expected flag %s, got %s", test.wantFlag, flag)
			}
		})
	}
}

func TestRegistry_ListTypes(t *testing.T) {
	types := New(Godot4).ListTypes()
	if len(types) != 39 {
		t.Fatalf("expected 39 godot4 types, got %d", len(types))
	}
	types[0].Name = "mutated"
	if New(Godot4).ListTypes()[0].Name != "Nil" {
		t.Error("ListTypes must return a copy")
	}

	supported := 0
	for _, info := range Default().ListTypes() {
		if info.Tag.Supported() {
			supported++
		}
	}
	if supported != int(TagUnsupported) {
		t.Errorf("expected %d supported codes, got %d", TagUnsupported, supported)
	}
}

func TestParseProtocol(t *testing.T) {
	tests := []struct {
		in      string
		want    Protocol
		wantErr bool
	}{
		{"", Godot3, false},
		{"godot3", Godot3, false},
		{" Godot4 ", Godot4, false},
		{"4", Godot4, false},
		{"godot5", Godot3, true},
	}
	for _, test := range tests {
		got, err := ParseProtocol(test.in)
		if (err != nil) != test.wantErr {
			t.Errorf("ParseProtocol(%q): unexpected error state %v", test.in, err)
		}
		if got != test.want {
			t.Errorf("ParseProtocol(%q): expected %s, got %s", test.in, test.want, got)
		}
	}
}
