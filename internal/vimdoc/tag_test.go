package vimdoc

import "testing"

func TestCreateTag_Prose(t *testing.T) {
	tests := []struct {
		text   string
		prefix string
		want   string
	}{
		{"Introduction", "plug", "plug-introduction"},
		{"The Speed of Light (vacuum)", "plug", "plug-speed-of-light"},
		{"Don't panic", "plug", "plug-dont-panic"},
		{"Options: overview", "plug", "plug-options-overview"},
		{"Plugname usage", "plugname", "plugname-usage"},
		{"", "plug", "plug"},
	}
	for _, tt := range tests {
		if got := createTag(tt.text, tt.prefix, false); got != tt.want {
			t.Errorf("createTag(%q, %q, false) = %q, want %q", tt.text, tt.prefix, got, tt.want)
		}
	}
}

func TestCreateTag_Code(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"getValue(x, y)", "plug-getValue()"},
		{"a + b", "plug-a-add-b"},
		{"x / y", "plug-x-div-y"},
		{"Setup()", "plug-Setup()"},
	}
	for _, tt := range tests {
		if got := createTag(tt.text, "plug", true); got != tt.want {
			t.Errorf("createTag(%q, \"plug\", true) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestTagPrefix(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"plug.txt", "plug"},
		{"plugin-1.2.txt", "plugin"},
		{"plugin-1.2.3.txt", "plugin"},
		{"my-plugin.txt", "my-plugin"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := tagPrefix(tt.filename); got != tt.want {
			t.Errorf("tagPrefix(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
