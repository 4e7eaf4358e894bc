package tags

import "testing"

func TestNewMetadataAudioType(t *testing.T) {
	music := NewMetadata(Fields{Artist: Some("Q")})
	if music.AudioType() != AudioTypeMusic {
		t.Fatalf("AudioType() = %v, want music", music.AudioType())
	}

	book := NewMetadata(Fields{Custom: map[string]string{"audiobook": ""}})
	if book.AudioType() != AudioTypeAudiobook {
		t.Fatalf("AudioType() = %v, want audiobook", book.AudioType())
	}

	unknown := music.WithAudioType(AudioTypeUnknown)
	if unknown.AudioType() != AudioTypeUnknown {
		t.Fatalf("AudioType() = %v, want unknown", unknown.AudioType())
	}
	if music.AudioType() != AudioTypeMusic {
		t.Fatal("WithAudioType mutated the original record")
	}
}

func TestNewMetadataDropsVariousArtists(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"exact", "Various Artists", false},
		{"lowercase", "various artists", false},
		{"upper", "VARIOUS ARTISTS", false},
		{"localized variant kept", "Verschiedene Interpreten", true},
		{"regular artist", "Q", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMetadata(Fields{Artist: Some(tt.value), AlbumArtist: Some(tt.value)})
			if got := m.Artist().Present(); got != tt.want {
				t.Errorf("Artist().Present() = %v, want %v", got, tt.want)
			}
			if got := m.AlbumArtist().Present(); got != tt.want {
				t.Errorf("AlbumArtist().Present() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMetadataCustomLookup(t *testing.T) {
	m := NewMetadata(Fields{Custom: map[string]string{
		"CompilationGroup": "Soundtracks",
		" single ":         "1",
		"":                 "ignored",
	}})
	if v, ok := m.Custom("COMPILATIONGROUP"); !ok || v != "Soundtracks" {
		t.Fatalf("Custom(COMPILATIONGROUP) = %q, %v", v, ok)
	}
	if v, ok := m.Custom("compilationgroup"); !ok || v != "Soundtracks" {
		t.Fatalf("Custom(compilationgroup) = %q, %v", v, ok)
	}
	if !m.HasCustom(CustomSingle) {
		t.Fatal("expected SINGLE custom field")
	}
	if m.HasCustom(CustomNoYear) {
		t.Fatal("unexpected NOYEAR custom field")
	}
}

func TestMetadataCustomCaseCollisionIsDeterministic(t *testing.T) {
	fields := Fields{Custom: map[string]string{
		"single": "c",
		"Single": "b",
		"SINGLE": "a",
	}}
	for i := 0; i < 50; i++ {
		if v, _ := NewMetadata(fields).Custom(CustomSingle); v != "a" {
			t.Fatalf("iteration %d: Custom(SINGLE) = %q, want %q", i, v, "a")
		}
	}
}

func TestFieldAccessors(t *testing.T) {
	some := Some(7)
	if v, ok := some.Get(); !ok || v != 7 {
		t.Fatalf("Get() = %d, %v", v, ok)
	}
	if some.OrElse(1) != 7 || some.String() != "7" {
		t.Fatalf("unexpected present field behaviour: %v", some)
	}
	none := None[int]()
	if none.Present() || none.OrElse(3) != 3 || none.String() != "<none>" {
		t.Fatalf("unexpected absent field behaviour: %v", none)
	}
}
