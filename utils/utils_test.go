package utils

import "testing"

func TestBuildingMatches(t *testing.T) {
	cases := []struct {
		candidate string
		target    string
		loose     bool
		want      bool
	}{
		{"HQ", "HQ", false, true},
		{"hq ", "HQ", false, true},
		{"HQ Tower, Bengaluru", "HQ Tower", false, false},
		{"HQ Tower, Bengaluru", "HQ Tower", true, true},
		{"HQ Tower", "HQ Tower, Bengaluru", true, true},
		{"Annex", "HQ", true, false},
	}

	for _, c := range cases {
		if got := BuildingMatches(c.candidate, c.target, c.loose); got != c.want {
			t.Errorf("BuildingMatches(%q, %q, %v) = %v, want %v", c.candidate, c.target, c.loose, got, c.want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"../../etc/passwd", "passwd"},
		{"my photo (1).png", "my_photo__1_.png"},
	}
	for _, c := range cases {
		if got := SanitizeFilename(c.in); got != c.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestGenerateRandomDigitString(t *testing.T) {
	s := GenerateRandomDigitString(16)
	if len(s) != 16 {
		t.Fatalf("len = %d", len(s))
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			t.Fatalf("non-digit %q in %q", r, s)
		}
	}
}
