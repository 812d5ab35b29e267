package facematch

import "testing"

func TestRemoveDiacritics(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Müge", "Muge"},
		{"Jiří", "Jiri"},
		{"François", "Francois"},
		{"plain", "plain"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := RemoveDiacritics(tt.input); got != tt.want {
			t.Errorf("RemoveDiacritics(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeDisplayName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Ayşe-Nur", "ayse nur"},
		{"JOHN DOE", "john doe"},
		{"Jean-Luc", "jean luc"},
	}

	for _, tt := range tests {
		if got := NormalizeDisplayName(tt.input); got != tt.want {
			t.Errorf("NormalizeDisplayName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
